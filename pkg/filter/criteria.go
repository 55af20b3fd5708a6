package filter

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tab selects which subset of the catalog is shown
type Tab string

const (
	TabAll        Tab = "all"
	TabFlows      Tab = "flows"
	TabComponents Tab = "components"
	TabFavorites  Tab = "favorites"
)

// SortKey selects the result ordering
type SortKey string

const (
	SortPopular      SortKey = "popular"
	SortRecent       SortKey = "recent"
	SortAlphabetical SortKey = "alphabetical"
	SortDownloads    SortKey = "downloads"
	SortLikes        SortKey = "likes"
)

var (
	tabs     = []Tab{TabAll, TabFlows, TabComponents, TabFavorites}
	sortKeys = []SortKey{SortPopular, SortRecent, SortAlphabetical, SortDownloads, SortLikes}
)

// Label returns the display label of the tab.
func (t Tab) Label() string {
	return cases.Title(language.English).String(string(t))
}

// Label returns the display label of the sort key.
func (k SortKey) Label() string {
	return cases.Title(language.English).String(string(k))
}

// ParseTab parses a tab name, case-insensitively.
func ParseTab(s string) (Tab, error) {
	for _, t := range tabs {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q (want one of %s)", s, joinTabs())
}

// ParseSortKey parses a sort key name, case-insensitively.
func ParseSortKey(s string) (SortKey, error) {
	for _, k := range sortKeys {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q (want one of %s)", s, joinSortKeys())
}

func joinTabs() string {
	names := make([]string, len(tabs))
	for i, t := range tabs {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func joinSortKeys() string {
	names := make([]string, len(sortKeys))
	for i, k := range sortKeys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// Criteria is the full set of user-controlled filter inputs.
type Criteria struct {
	Search      string
	Tags        map[string]struct{}
	Author      string
	Tab         Tab
	Sort        SortKey
	PrivateOnly bool
}

// DefaultCriteria returns the criteria a fresh view starts with.
func DefaultCriteria() Criteria {
	return Criteria{
		Tab:  TabAll,
		Sort: SortPopular,
	}
}

// WithTags returns a copy of c with the selected tags replaced.
func (c Criteria) WithTags(names ...string) Criteria {
	c.Tags = make(map[string]struct{}, len(names))
	for _, n := range names {
		if n != "" {
			c.Tags[n] = struct{}{}
		}
	}
	return c
}

// SelectedTags returns the selected tag names, sorted.
func (c Criteria) SelectedTags() []string {
	names := make([]string, 0, len(c.Tags))
	for n := range c.Tags {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy, so the tag set is not shared.
func (c Criteria) Clone() Criteria {
	return c.WithTags(c.SelectedTags()...)
}
