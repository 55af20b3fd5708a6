package filter

import (
	"sort"

	"github.com/mattsolo1/grove-showcase/pkg/models"
)

// TagCount is a tag name and the number of items carrying it
type TagCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Facets counts the well-formed tags of items, most used first and ties by
// name. Malformed tags contribute nothing. A tag repeated on one item counts once.
func Facets(items []models.CatalogItem) []TagCount {
	counts := make(map[string]int)
	for i := range items {
		seen := make(map[string]struct{})
		for _, name := range items[i].TagNames() {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			counts[name]++
		}
	}

	facets := make([]TagCount, 0, len(counts))
	for name, n := range counts {
		facets = append(facets, TagCount{Name: name, Count: n})
	}
	sort.Slice(facets, func(i, j int) bool {
		if facets[i].Count != facets[j].Count {
			return facets[i].Count > facets[j].Count
		}
		return facets[i].Name < facets[j].Name
	})
	return facets
}
