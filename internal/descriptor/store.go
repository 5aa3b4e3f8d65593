package descriptor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	oerrors "github.com/mehrdadmoradabadi/OpsArtisan/internal/errors"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/output"
)

// Store discovers template bundles across the configured search
// directories and provides id-based lookup. The first directory that
// declares an id wins on collision.
type Store struct {
	dirs []string

	// loaded caches descriptors by id after Discover.
	loaded map[string]*Descriptor

	// order preserves discovery order for deterministic listings.
	order []string
}

// NewStore creates a store over the given search directories,
// highest priority first.
func NewStore(dirs []string) *Store {
	return &Store{dirs: dirs}
}

// Discover walks the search directories and loads every bundle that
// carries a descriptor. Bundles that fail validation are skipped with a
// warning so one broken bundle does not hide the rest.
func (s *Store) Discover() error {
	s.loaded = make(map[string]*Descriptor)
	s.order = nil

	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("reading template directory %s: %w", dir, err)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			bundleDir := filepath.Join(dir, entry.Name())
			if _, err := os.Stat(filepath.Join(bundleDir, DescriptorFileName)); err != nil {
				continue
			}

			d, err := LoadBundle(bundleDir)
			if err != nil {
				output.Warn("skipping invalid bundle", "dir", bundleDir, "error", err)
				continue
			}

			if _, exists := s.loaded[d.ID]; exists {
				output.Debug("shadowed by higher-priority bundle", "id", d.ID, "dir", bundleDir)
				continue
			}

			s.loaded[d.ID] = d
			s.order = append(s.order, d.ID)
		}
	}

	output.Debug("discovered templates", "count", len(s.order))
	return nil
}

// Get returns the descriptor for id, or a not-found error listing close
// alternatives.
func (s *Store) Get(id string) (*Descriptor, error) {
	if d, ok := s.loaded[id]; ok {
		return d, nil
	}

	hint := ""
	if ids := s.IDs(); len(ids) > 0 {
		hint = "available templates: " + strings.Join(ids, ", ")
	}
	return nil, oerrors.NewNotFoundError(
		fmt.Sprintf("template %q not found", id), "", hint)
}

// Has reports whether the store knows the given id.
func (s *Store) Has(id string) bool {
	_, ok := s.loaded[id]
	return ok
}

// IDs returns all known template ids, sorted.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.loaded))
	for id := range s.loaded {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns all descriptors in discovery order.
func (s *Store) List() []*Descriptor {
	out := make([]*Descriptor, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.loaded[id])
	}
	return out
}

// Search returns descriptors whose id, title, description, or tags
// contain the keyword (case-insensitive), in discovery order.
func (s *Store) Search(keyword string) []*Descriptor {
	kw := strings.ToLower(keyword)

	var out []*Descriptor
	for _, id := range s.order {
		d := s.loaded[id]
		searchable := []string{d.ID, d.Title, d.Description, strings.Join(d.Tags, " ")}
		for _, field := range searchable {
			if strings.Contains(strings.ToLower(field), kw) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}
