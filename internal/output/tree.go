package output

import (
	"strings"
)

const (
	// Tree characters
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// Description alignment column
	descriptionColumn = 30
)

// TreeNode represents a node in a rendered tree. Children keep the order
// they were added in; the dependency resolver relies on that for a
// deterministic diagnostic view.
type TreeNode struct {
	Name        string
	Description string
	Missing     bool
	Children    []*TreeNode
}

// RenderTree renders a tree rooted at node. Descriptions are aligned at
// column 30; missing nodes are marked and styled as failures.
func RenderTree(root *TreeNode) string {
	if root == nil {
		return ""
	}

	var sb strings.Builder
	renderNode(&sb, root, "", true, true)
	return sb.String()
}

// renderNode recursively renders a tree node with proper indentation and styling.
func renderNode(sb *strings.Builder, node *TreeNode, prefix string, isRoot, isLast bool) {
	if isRoot {
		sb.WriteString(StyleSummary.Render(node.Name))
		if node.Description != "" {
			sb.WriteString("  ")
			sb.WriteString(StyleDim.Render(node.Description))
		}
		sb.WriteString("\n")
	} else {
		connector := treeEdge
		if isLast {
			connector = treeLast
		}

		name := node.Name
		if node.Missing {
			name = FormatCross(name + " (not found)")
		} else {
			name = StyleNoun.Render(name)
		}

		line := prefix + connector + name

		// Add description if present, aligned to column 30
		if node.Description != "" && !node.Missing {
			visible := prefix + connector + node.Name
			padding := descriptionColumn - len(visible)
			if padding < 2 {
				padding = 2
			}
			line += strings.Repeat(" ", padding)
			line += StyleDim.Render(node.Description)
		}

		sb.WriteString(line)
		sb.WriteString("\n")
	}

	for i, child := range node.Children {
		childIsLast := i == len(node.Children)-1

		var childPrefix string
		if isRoot {
			childPrefix = ""
		} else {
			if isLast {
				childPrefix = prefix + treeSpace
			} else {
				childPrefix = prefix + treeVert
			}
		}

		renderNode(sb, child, childPrefix, false, childIsLast)
	}
}
