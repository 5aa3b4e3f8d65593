package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/descriptor"
	oerrors "github.com/mehrdadmoradabadi/OpsArtisan/internal/errors"
)

// mapLookup satisfies Lookup from a dependency adjacency map.
type mapLookup map[string][]string

func (m mapLookup) Get(id string) (*descriptor.Descriptor, error) {
	deps, ok := m[id]
	if !ok {
		return nil, oerrors.NewNotFoundError("template not found", id, "")
	}
	return &descriptor.Descriptor{ID: id, Dependencies: deps}, nil
}

func TestResolve_ChainOrder(t *testing.T) {
	lookup := mapLookup{
		"A": {"B"},
		"B": {"C"},
		"C": nil,
	}

	order, err := New(lookup).Resolve("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, order)
}

func TestResolve_DiamondVisitedOnce(t *testing.T) {
	lookup := mapLookup{
		"A": {"B", "C"},
		"B": {"D"},
		"C": {"D"},
		"D": nil,
	}

	order, err := New(lookup).Resolve("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "B", "C", "A"}, order)
}

func TestResolve_SiblingOrderFollowsDeclaration(t *testing.T) {
	lookup := mapLookup{
		"A": {"Z", "M", "B"},
		"Z": nil,
		"M": nil,
		"B": nil,
	}

	order, err := New(lookup).Resolve("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"Z", "M", "B", "A"}, order)
}

func TestResolve_Cycle(t *testing.T) {
	lookup := mapLookup{
		"A": {"B"},
		"B": {"A"},
	}

	_, err := New(lookup).Resolve("A")
	require.Error(t, err)

	var cycleErr *CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, []string{"A", "B", "A"}, cycleErr.Path)
	assert.True(t, errors.Is(err, oerrors.ErrResolution))
	assert.Contains(t, err.Error(), "A -> B -> A")
}

func TestResolve_InnerCyclePath(t *testing.T) {
	lookup := mapLookup{
		"A": {"B"},
		"B": {"C"},
		"C": {"B"},
	}

	_, err := New(lookup).Resolve("A")
	require.Error(t, err)

	var cycleErr *CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, []string{"B", "C", "B"}, cycleErr.Path)
}

func TestResolve_SelfDependency(t *testing.T) {
	lookup := mapLookup{"A": {"A"}}

	_, err := New(lookup).Resolve("A")
	require.Error(t, err)

	var cycleErr *CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, []string{"A", "A"}, cycleErr.Path)
}

func TestResolve_MissingDependency(t *testing.T) {
	lookup := mapLookup{"A": {"ghost"}}

	_, err := New(lookup).Resolve("A")
	require.Error(t, err)

	var missingErr *MissingDependencyError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, "ghost", missingErr.ID)
	assert.Equal(t, "A", missingErr.RequestedBy)
	assert.True(t, errors.Is(err, oerrors.ErrResolution))
}

func TestResolve_UnknownRoot(t *testing.T) {
	lookup := mapLookup{}

	_, err := New(lookup).Resolve("nope")
	require.Error(t, err)

	// The root itself missing is a lookup failure, not a dependency error.
	var missingErr *MissingDependencyError
	assert.False(t, errors.As(err, &missingErr))
	assert.True(t, errors.Is(err, oerrors.ErrNotFound))
}

func TestTree(t *testing.T) {
	lookup := mapLookup{
		"A": {"B", "C"},
		"B": nil,
		"C": {"ghost"},
	}

	tree, err := New(lookup).Tree("A")
	require.NoError(t, err)

	require.Len(t, tree.Children, 2)
	assert.Equal(t, "A", tree.Name)
	assert.Equal(t, "B", tree.Children[0].Name)
	assert.Equal(t, "C", tree.Children[1].Name)

	require.Len(t, tree.Children[1].Children, 1)
	assert.True(t, tree.Children[1].Children[0].Missing)
}
