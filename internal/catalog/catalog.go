// Package catalog provides the read-only education material catalog the
// dispatch engine pushes from. The engine never mutates it.
package catalog

import (
	"sort"

	"github.com/linnemanlabs/aftercare/internal/care"
)

// Material is the metadata for one educational leaflet.
type Material struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
}

// Catalog resolves material ids to metadata.
type Catalog interface {
	// Get returns the material for id, or care.ErrUnknownMaterial.
	Get(id string) (Material, error)

	// List returns all materials, ordered by category then id. An empty
	// category returns everything.
	List(category string) []Material
}

// Static is an in-memory Catalog backed by a fixed material set.
type Static struct {
	byID map[string]Material
}

// NewStatic builds a Static catalog from the given materials.
func NewStatic(materials []Material) *Static {
	byID := make(map[string]Material, len(materials))
	for _, m := range materials {
		byID[m.ID] = m
	}
	return &Static{byID: byID}
}

// Get implements Catalog.
func (s *Static) Get(id string) (Material, error) {
	m, ok := s.byID[id]
	if !ok {
		return Material{}, care.UnknownMaterialf("material %s", id)
	}
	return m, nil
}

// List implements Catalog.
func (s *Static) List(category string) []Material {
	out := make([]Material, 0, len(s.byID))
	for _, m := range s.byID {
		if category != "" && m.Category != category {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].ID < out[j].ID
	})
	return out
}
