package filter

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mattsolo1/grove-showcase/pkg/models"
)

func item(id, name string, typ models.ItemType) models.CatalogItem {
	return models.CatalogItem{ID: id, Name: name, Type: typ}
}

func tags(names ...string) []models.Tag {
	out := make([]models.Tag, len(names))
	for i, n := range names {
		out[i] = models.Tag{ID: "id-" + n, Name: n}
	}
	return out
}

func ids(items []models.CatalogItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func names(items []models.CatalogItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func strp(s string) *string { return &s }

func fixture() []models.CatalogItem {
	a := item("f1", "Document QA", models.ItemTypeFlow)
	a.Description = "Answer questions over PDFs"
	a.Author = &models.Author{Username: "ana"}
	a.Tags = tags("rag", "llm")
	a.Stats = models.Stats{Downloads: 50, Likes: 5}
	a.Dates.Updated = models.Timestamp{Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}

	b := item("f2", "Web Scraper", models.ItemTypeFlow)
	b.Author = &models.Author{Username: "bo"}
	b.Tags = append(tags("tools"), models.Tag{ID: "broken"}, models.Tag{Name: "ghost"})
	b.Stats = models.Stats{Downloads: 10, Likes: 40}
	b.Dates.Updated = models.Timestamp{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	b.Technical = &models.Technical{LastTestedVersion: strp("1.0.19"), Private: true}

	c := item("c1", "Summarizer", models.ItemTypeComponent)
	c.Description = "Summarizes long documents"
	c.Tags = tags("llm")
	c.Stats = models.Stats{Downloads: 1, Likes: 100}
	c.Dates.Updated = models.Timestamp{Time: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)}

	d := item("c2", "Anna's Parser", models.ItemTypeComponent)
	d.Author = &models.Author{Username: "annabel"}
	d.Stats = models.Stats{Downloads: 0, Likes: 0}

	return []models.CatalogItem{a, b, c, d}
}

func TestTabs(t *testing.T) {
	items := fixture()
	favs := models.NewIDSet("c1", "f2", "unknown")

	tests := []struct {
		tab  Tab
		want []string
	}{
		{TabAll, []string{"f1", "f2", "c1", "c2"}},
		{TabFlows, []string{"f1", "f2"}},
		{TabComponents, []string{"c1", "c2"}},
		{TabFavorites, []string{"f2", "c1"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.tab), func(t *testing.T) {
			c := DefaultCriteria()
			c.Tab = tt.tab
			c.Sort = SortAlphabetical
			got := Filter(items, c, favs)
			assert.ElementsMatch(t, tt.want, ids(got))
		})
	}
}

func TestFavoritesTabWithNilSet(t *testing.T) {
	c := DefaultCriteria()
	c.Tab = TabFavorites
	assert.Empty(t, Filter(fixture(), c, nil))
}

func TestSearch(t *testing.T) {
	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"f1", "f2", "c1", "c2"}},
		{"document", []string{"f1", "c1"}},       // name and description
		{"BO", []string{"f2"}},                   // author username, case-insensitive
		{"llm", []string{"f1", "c1"}},            // tag name
		{"1.0.19", []string{"f2"}},               // tested version
		{"ghost", nil},                           // malformed tag
		{"nothing matches this", nil},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			c := DefaultCriteria()
			c.Search = tt.term
			got := Filter(fixture(), c, nil)
			assert.ElementsMatch(t, tt.want, ids(got))
		})
	}
}

func TestTagFilterProperty(t *testing.T) {
	items := fixture()
	for _, selected := range [][]string{{"llm"}, {"rag"}, {"tools", "rag"}, {"ghost"}, {"unknown"}} {
		t.Run(fmt.Sprint(selected), func(t *testing.T) {
			c := DefaultCriteria().WithTags(selected...)
			got := Filter(items, c, nil)
			for _, it := range got {
				assert.True(t, hasAnyTag(&it, c.Tags), "item %s has none of %v", it.ID, selected)
			}
		})
	}

	c := DefaultCriteria().WithTags("tools", "rag")
	assert.ElementsMatch(t, []string{"f1", "f2"}, ids(Filter(items, c, nil)))
}

func TestAuthorFilter(t *testing.T) {
	c := DefaultCriteria()
	c.Author = "ann"
	assert.Equal(t, []string{"c2"}, ids(Filter(fixture(), c, nil)))

	// items without an author never match a non-empty author filter
	c.Author = "a"
	got := ids(Filter(fixture(), c, nil))
	assert.ElementsMatch(t, []string{"f1", "c2"}, got)
	assert.NotContains(t, got, "c1")
}

func TestPrivateOnly(t *testing.T) {
	c := DefaultCriteria()
	c.PrivateOnly = true
	assert.Equal(t, []string{"f2"}, ids(Filter(fixture(), c, nil)))
}

func TestStagesAreConjunctive(t *testing.T) {
	c := DefaultCriteria().WithTags("llm")
	c.Tab = TabFlows
	c.Search = "document"
	assert.Equal(t, []string{"f1"}, ids(Filter(fixture(), c, nil)))

	c.Author = "bo"
	assert.Empty(t, Filter(fixture(), c, nil))
}

func TestSortKeys(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortPopular, []string{"c1", "f1", "f2", "c2"}},
		{SortRecent, []string{"f2", "f1", "c1", "c2"}},
		{SortAlphabetical, []string{"c2", "f1", "c1", "f2"}},
		{SortDownloads, []string{"f1", "f2", "c1", "c2"}},
		{SortLikes, []string{"c1", "f2", "f1", "c2"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			c := DefaultCriteria()
			c.Sort = tt.key
			assert.Equal(t, tt.want, ids(Filter(fixture(), c, nil)))
		})
	}
}

func TestAlphabeticalIgnoresCase(t *testing.T) {
	items := []models.CatalogItem{
		item("1", "Banana Flow", models.ItemTypeFlow),
		item("2", "apple Flow", models.ItemTypeFlow),
		item("3", "Cherry Flow", models.ItemTypeFlow),
	}
	c := DefaultCriteria()
	c.Sort = SortAlphabetical

	got := Filter(items, c, nil)
	assert.Equal(t, []string{"apple Flow", "Banana Flow", "Cherry Flow"}, names(got))

	got = Filter(items, c, nil, WithLocale(language.German))
	assert.Equal(t, []string{"apple Flow", "Banana Flow", "Cherry Flow"}, names(got))
}

func TestSortIsStable(t *testing.T) {
	items := []models.CatalogItem{
		item("a", "Same", models.ItemTypeFlow),
		item("b", "same", models.ItemTypeFlow),
		item("c", "Same", models.ItemTypeComponent),
	}
	for _, key := range sortKeys {
		c := DefaultCriteria()
		c.Sort = key
		assert.Equal(t, []string{"a", "b", "c"}, ids(Filter(items, c, nil)), key)
	}
}

func TestFilterIsIdempotentAndPure(t *testing.T) {
	items := fixture()
	before := ids(items)

	for _, key := range sortKeys {
		c := DefaultCriteria().WithTags("llm", "tools")
		c.Sort = key
		once := Filter(items, c, nil)
		twice := Filter(once, c, nil)
		assert.Equal(t, ids(once), ids(twice), key)
	}
	assert.Equal(t, before, ids(items))
}

func TestParse(t *testing.T) {
	tab, err := ParseTab("Favorites")
	require.NoError(t, err)
	assert.Equal(t, TabFavorites, tab)

	_, err = ParseTab("starred")
	assert.ErrorContains(t, err, "all, flows, components, favorites")

	key, err := ParseSortKey("LIKES")
	require.NoError(t, err)
	assert.Equal(t, SortLikes, key)

	_, err = ParseSortKey("random")
	assert.Error(t, err)

	assert.Equal(t, "Alphabetical", SortAlphabetical.Label())
	assert.Equal(t, "Components", TabComponents.Label())
}

func TestCriteriaClone(t *testing.T) {
	c := DefaultCriteria().WithTags("b", "a", "")
	assert.Equal(t, []string{"a", "b"}, c.SelectedTags())

	clone := c.Clone()
	clone.Tags["c"] = struct{}{}
	assert.Len(t, c.Tags, 2)
}

func TestFacets(t *testing.T) {
	items := fixture()
	dup := item("f9", "Dup", models.ItemTypeFlow)
	dup.Tags = tags("llm", "llm")
	items = append(items, dup)

	assert.Equal(t, []TagCount{
		{Name: "llm", Count: 3},
		{Name: "rag", Count: 1},
		{Name: "tools", Count: 1},
	}, Facets(items))
}
