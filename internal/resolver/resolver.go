// Package resolver orders template dependencies for generation.
//
// Templates declare dependencies by id; the resolver walks the resulting
// graph depth-first from a root template and produces an order in which
// every dependency precedes its dependents, with the root last. Cycles
// and missing dependencies are terminal: no generation is attempted.
package resolver

import (
	"fmt"
	"strings"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/descriptor"
	oerrors "github.com/mehrdadmoradabadi/OpsArtisan/internal/errors"
)

// Lookup resolves a template id to its descriptor. Satisfied by
// descriptor.Store.
type Lookup interface {
	Get(id string) (*descriptor.Descriptor, error)
}

// CycleError reports a dependency cycle. Path holds the full loop,
// starting and ending at the repeated id.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Path, " -> "))
}

// Unwrap marks the error as a resolution failure.
func (e *CycleError) Unwrap() error {
	return oerrors.ErrResolution
}

// MissingDependencyError reports a declared dependency with no known
// descriptor.
type MissingDependencyError struct {
	// ID is the missing template id.
	ID string

	// RequestedBy is the template that declared the dependency.
	RequestedBy string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("dependency template %q (required by %q) not found", e.ID, e.RequestedBy)
}

// Unwrap marks the error as a resolution failure.
func (e *MissingDependencyError) Unwrap() error {
	return oerrors.ErrResolution
}

// Resolver computes generation order over template dependencies.
type Resolver struct {
	lookup Lookup
}

// New creates a resolver over the given lookup.
func New(lookup Lookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve returns the template ids reachable from rootID ordered so that
// every dependency precedes its dependents; rootID is last. Siblings keep
// the order they appear in each descriptor's dependency list, so the
// result is deterministic.
func (r *Resolver) Resolve(rootID string) ([]string, error) {
	visited := make(map[string]bool)
	var order []string

	// path is the current DFS stack; onPath mirrors it for O(1) cycle checks.
	var path []string
	onPath := make(map[string]bool)

	var visit func(id, requestedBy string) error
	visit = func(id, requestedBy string) error {
		if onPath[id] {
			return &CycleError{Path: cyclePath(path, id)}
		}
		if visited[id] {
			return nil
		}

		d, err := r.lookup.Get(id)
		if err != nil {
			if requestedBy == "" {
				return err
			}
			return &MissingDependencyError{ID: id, RequestedBy: requestedBy}
		}

		path = append(path, id)
		onPath[id] = true

		for _, dep := range d.Dependencies {
			if err := visit(dep, id); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		onPath[id] = false

		visited[id] = true
		order = append(order, id)
		return nil
	}

	if err := visit(rootID, ""); err != nil {
		return nil, err
	}
	return order, nil
}

// cyclePath slices the DFS stack from the first occurrence of repeated
// and closes the loop, e.g. stack [A B] with repeated A yields [A B A].
func cyclePath(stack []string, repeated string) []string {
	start := 0
	for i, id := range stack {
		if id == repeated {
			start = i
			break
		}
	}
	loop := make([]string, 0, len(stack)-start+1)
	loop = append(loop, stack[start:]...)
	loop = append(loop, repeated)
	return loop
}
