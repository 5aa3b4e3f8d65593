package resolver

import (
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/output"
)

// Tree returns the parent-to-children dependency adjacency rooted at
// rootID as a renderable tree. This is a diagnostic projection only; it
// plays no part in ordering. Missing dependencies become marked leaf
// nodes, and a repeated id on the current branch is cut off to keep the
// projection finite on cyclic input.
func (r *Resolver) Tree(rootID string) (*output.TreeNode, error) {
	root, err := r.lookup.Get(rootID)
	if err != nil {
		return nil, err
	}

	onPath := make(map[string]bool)

	var build func(d *descriptorNode) *output.TreeNode
	build = func(n *descriptorNode) *output.TreeNode {
		node := &output.TreeNode{Name: n.id, Description: n.title}

		onPath[n.id] = true
		defer delete(onPath, n.id)

		for _, depID := range n.deps {
			if onPath[depID] {
				node.Children = append(node.Children, &output.TreeNode{
					Name:        depID,
					Description: "(cycle)",
				})
				continue
			}

			dep, err := r.lookup.Get(depID)
			if err != nil {
				node.Children = append(node.Children, &output.TreeNode{
					Name:    depID,
					Missing: true,
				})
				continue
			}

			node.Children = append(node.Children, build(&descriptorNode{
				id:    dep.ID,
				title: dep.Title,
				deps:  dep.Dependencies,
			}))
		}
		return node
	}

	return build(&descriptorNode{
		id:    root.ID,
		title: root.Title,
		deps:  root.Dependencies,
	}), nil
}

// descriptorNode is the minimal view of a descriptor the tree builder needs.
type descriptorNode struct {
	id    string
	title string
	deps  []string
}
