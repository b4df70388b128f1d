// Package assets manages the imported-media index and resolves projects
// into the bundle the export compiler consumes.
package assets

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/keagan/vibecut/internal/model"
)

// Index is the flat ordered list of assets, serialized to disk as-is.
// Reads dominate; writes happen only when an import completes.
type Index struct {
	Assets []*model.Asset `yaml:"assets"`
}

// LoadIndex reads the asset index, returning an empty index when the
// file does not exist yet.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Index{}, nil
		}
		return nil, fmt.Errorf("failed to read asset index: %w", err)
	}
	var idx Index
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("failed to parse asset index: %w", err)
	}
	return &idx, nil
}

// Save writes the index back to disk.
func (idx *Index) Save(path string) error {
	data, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("failed to marshal asset index: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Get looks up an asset by id.
func (idx *Index) Get(id string) *model.Asset {
	for _, a := range idx.Assets {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Add appends an asset.
func (idx *Index) Add(a *model.Asset) {
	idx.Assets = append(idx.Assets, a)
}

// Durations returns the id→duration map the model validator wants.
func (idx *Index) Durations() map[string]float64 {
	m := make(map[string]float64, len(idx.Assets))
	for _, a := range idx.Assets {
		m[a.ID] = a.Duration
	}
	return m
}

// sortedIDs returns asset ids in ascending lexicographic order, the
// stable order input enumeration depends on.
func sortedIDs(ids map[string]bool) []string {
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
