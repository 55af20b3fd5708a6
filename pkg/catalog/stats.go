package catalog

import (
	"sort"

	"github.com/mattsolo1/grove-showcase/pkg/filter"
	"github.com/mattsolo1/grove-showcase/pkg/models"
)

const (
	topAuthorsLimit = 10
	topTagsLimit    = 20
)

// AuthorStats aggregates the items published by one author
type AuthorStats struct {
	Username  string `json:"username" yaml:"username"`
	Items     int    `json:"items" yaml:"items"`
	Downloads int    `json:"downloads" yaml:"downloads"`
	Likes     int    `json:"likes" yaml:"likes"`
}

// Stats summarizes the catalog
type Stats struct {
	Summary         models.Summary    `json:"summary" yaml:"summary"`
	TotalItems      int               `json:"total_items" yaml:"total_items"`
	TotalFlows      int               `json:"total_flows" yaml:"total_flows"`
	TotalComponents int               `json:"total_components" yaml:"total_components"`
	TotalDownloads  int               `json:"total_downloads" yaml:"total_downloads"`
	TotalLikes      int               `json:"total_likes" yaml:"total_likes"`
	TopAuthors      []AuthorStats     `json:"top_authors" yaml:"top_authors"`
	TopTags         []filter.TagCount `json:"top_tags" yaml:"top_tags"`
}

// Stats computes totals, the top authors by item count and the most used tags.
func (s *Store) Stats() Stats {
	all := s.all()
	st := Stats{
		Summary:         s.summary,
		TotalItems:      len(all),
		TotalFlows:      len(s.flows),
		TotalComponents: len(s.components),
	}

	byAuthor := make(map[string]*AuthorStats)
	for i := range all {
		item := &all[i]
		st.TotalDownloads += item.Stats.Downloads
		st.TotalLikes += item.Stats.Likes

		username, ok := item.Username()
		if !ok {
			continue
		}
		a, ok := byAuthor[username]
		if !ok {
			a = &AuthorStats{Username: username}
			byAuthor[username] = a
		}
		a.Items++
		a.Downloads += item.Stats.Downloads
		a.Likes += item.Stats.Likes
	}

	for _, a := range byAuthor {
		st.TopAuthors = append(st.TopAuthors, *a)
	}
	sort.Slice(st.TopAuthors, func(i, j int) bool {
		if st.TopAuthors[i].Items != st.TopAuthors[j].Items {
			return st.TopAuthors[i].Items > st.TopAuthors[j].Items
		}
		return st.TopAuthors[i].Username < st.TopAuthors[j].Username
	})
	if len(st.TopAuthors) > topAuthorsLimit {
		st.TopAuthors = st.TopAuthors[:topAuthorsLimit]
	}

	st.TopTags = filter.Facets(all)
	if len(st.TopTags) > topTagsLimit {
		st.TopTags = st.TopTags[:topTagsLimit]
	}
	return st
}
