package filter

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mattsolo1/grove-showcase/pkg/models"
)

type options struct {
	locale language.Tag
}

// Option configures Filter
type Option func(*options)

// WithLocale sets the collation locale used by the alphabetical sort.
func WithLocale(tag language.Tag) Option {
	return func(o *options) {
		o.locale = tag
	}
}

// Filter narrows items by c and orders the result. It is pure: items is not
// modified and the same inputs always yield the same output. favorites is
// only consulted for the favorites tab.
func Filter(items []models.CatalogItem, c Criteria, favorites models.IDSet, opts ...Option) []models.CatalogItem {
	o := &options{locale: language.English}
	for _, opt := range opts {
		opt(o)
	}

	search := strings.ToLower(strings.TrimSpace(c.Search))
	author := strings.ToLower(strings.TrimSpace(c.Author))

	out := make([]models.CatalogItem, 0, len(items))
	for i := range items {
		item := &items[i]
		if !inTab(item, c.Tab, favorites) {
			continue
		}
		if search != "" && !matchesSearch(item, search) {
			continue
		}
		if len(c.Tags) > 0 && !hasAnyTag(item, c.Tags) {
			continue
		}
		if author != "" && !matchesAuthor(item, author) {
			continue
		}
		if c.PrivateOnly && !item.IsPrivate() {
			continue
		}
		out = append(out, *item)
	}

	sortItems(out, c.Sort, o.locale)
	return out
}

func inTab(item *models.CatalogItem, tab Tab, favorites models.IDSet) bool {
	switch tab {
	case TabFlows:
		return item.Type == models.ItemTypeFlow
	case TabComponents:
		return item.Type == models.ItemTypeComponent
	case TabFavorites:
		return favorites.Has(item.ID)
	default:
		return true
	}
}

// matchesSearch expects term already lower-cased and non-empty.
func matchesSearch(item *models.CatalogItem, term string) bool {
	if containsFold(item.Name, term) || containsFold(item.Description, term) {
		return true
	}
	if username, ok := item.Username(); ok && containsFold(username, term) {
		return true
	}
	for _, name := range item.TagNames() {
		if containsFold(name, term) {
			return true
		}
	}
	if item.Technical != nil && item.Technical.LastTestedVersion != nil {
		return containsFold(*item.Technical.LastTestedVersion, term)
	}
	return false
}

func hasAnyTag(item *models.CatalogItem, selected map[string]struct{}) bool {
	for _, name := range item.TagNames() {
		if _, ok := selected[name]; ok {
			return true
		}
	}
	return false
}

func matchesAuthor(item *models.CatalogItem, term string) bool {
	username, ok := item.Username()
	return ok && containsFold(username, term)
}

func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}

func sortItems(items []models.CatalogItem, key SortKey, locale language.Tag) {
	switch key {
	case SortRecent:
		slices.SortStableFunc(items, func(a, b models.CatalogItem) int {
			return b.Dates.Updated.Compare(a.Dates.Updated.Time)
		})
	case SortAlphabetical:
		col := collate.New(locale, collate.IgnoreCase)
		slices.SortStableFunc(items, func(a, b models.CatalogItem) int {
			return col.CompareString(a.Name, b.Name)
		})
	case SortDownloads:
		slices.SortStableFunc(items, func(a, b models.CatalogItem) int {
			return b.Stats.Downloads - a.Stats.Downloads
		})
	case SortLikes:
		slices.SortStableFunc(items, func(a, b models.CatalogItem) int {
			return b.Stats.Likes - a.Stats.Likes
		})
	default:
		slices.SortStableFunc(items, func(a, b models.CatalogItem) int {
			return b.Stats.Popularity() - a.Stats.Popularity()
		})
	}
}
