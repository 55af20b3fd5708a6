package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-showcase/pkg/models"
)

var (
	ErrDuplicateID  = errors.New("duplicate item id")
	ErrItemNotFound = errors.New("item not found")
	ErrMissingID    = errors.New("item without id")
)

// Store holds the catalog snapshot for the session. It is read-only once built.
type Store struct {
	summary    models.Summary
	flows      []models.CatalogItem
	components []models.CatalogItem
	byID       map[string]int // index into all()
}

// Decode reads a snapshot document and builds a Store from it.
func Decode(r io.Reader, log *logrus.Entry) (*Store, error) {
	var snap models.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return New(&snap, log)
}

// New builds a Store from a decoded snapshot, normalizing item types and
// counters and rejecting duplicate ids across flows and components.
func New(snap *models.Snapshot, log *logrus.Entry) (*Store, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	s := &Store{
		summary:    snap.Summary,
		flows:      normalize(snap.Flows, models.ItemTypeFlow),
		components: normalize(snap.Components, models.ItemTypeComponent),
	}

	s.byID = make(map[string]int, len(s.flows)+len(s.components))
	for i, item := range s.all() {
		if item.ID == "" {
			return nil, fmt.Errorf("index item %q: %w", item.Name, ErrMissingID)
		}
		if _, dup := s.byID[item.ID]; dup {
			return nil, fmt.Errorf("index item %s: %w", item.ID, ErrDuplicateID)
		}
		s.byID[item.ID] = i
	}

	if snap.Summary.TotalFlows != len(s.flows) || snap.Summary.TotalComponents != len(s.components) {
		log.WithFields(logrus.Fields{
			"summary_flows":      snap.Summary.TotalFlows,
			"summary_components": snap.Summary.TotalComponents,
			"flows":              len(s.flows),
			"components":         len(s.components),
		}).Warn("snapshot summary does not match item counts")
	}

	return s, nil
}

func normalize(items []models.CatalogItem, t models.ItemType) []models.CatalogItem {
	out := make([]models.CatalogItem, len(items))
	for i, item := range items {
		if item.Type == "" {
			item.Type = t
		}
		item.IsComponent = item.Type == models.ItemTypeComponent
		if item.Stats.Downloads < 0 {
			item.Stats.Downloads = 0
		}
		if item.Stats.Likes < 0 {
			item.Stats.Likes = 0
		}
		out[i] = item
	}
	return out
}

func (s *Store) all() []models.CatalogItem {
	all := make([]models.CatalogItem, 0, len(s.flows)+len(s.components))
	all = append(all, s.flows...)
	return append(all, s.components...)
}

// All returns flows followed by components. The slice is a copy.
func (s *Store) All() []models.CatalogItem {
	return s.all()
}

// Flows returns a copy of the flow subset.
func (s *Store) Flows() []models.CatalogItem {
	return append([]models.CatalogItem(nil), s.flows...)
}

// Components returns a copy of the component subset.
func (s *Store) Components() []models.CatalogItem {
	return append([]models.CatalogItem(nil), s.components...)
}

// Len is the total number of items.
func (s *Store) Len() int {
	return len(s.flows) + len(s.components)
}

// Summary returns the snapshot header as loaded.
func (s *Store) Summary() models.Summary {
	return s.summary
}

// Get looks an item up by id.
func (s *Store) Get(id string) (models.CatalogItem, error) {
	i, ok := s.byID[id]
	if !ok {
		return models.CatalogItem{}, fmt.Errorf("get %s: %w", id, ErrItemNotFound)
	}
	if i < len(s.flows) {
		return s.flows[i], nil
	}
	return s.components[i-len(s.flows)], nil
}

// Authors returns the distinct author usernames, sorted.
func (s *Store) Authors() []string {
	seen := make(map[string]struct{})
	var authors []string
	for _, item := range s.all() {
		username, ok := item.Username()
		if !ok {
			continue
		}
		if _, dup := seen[username]; dup {
			continue
		}
		seen[username] = struct{}{}
		authors = append(authors, username)
	}
	sort.Strings(authors)
	return authors
}
