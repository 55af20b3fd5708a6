package models

import (
	"encoding/json"
	"strings"
	"time"
)

// ItemType represents the kind of catalog item
type ItemType string

const (
	ItemTypeFlow      ItemType = "FLOW"
	ItemTypeComponent ItemType = "COMPONENT"
)

// Dir returns the artifact directory name for the type ("flows" or "components").
func (t ItemType) Dir() string {
	if t == ItemTypeComponent {
		return "components"
	}
	return "flows"
}

// ParseItemType accepts "flow", "FLOW", "component", "components", etc.
func ParseItemType(s string) (ItemType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flow", "flows":
		return ItemTypeFlow, true
	case "component", "components":
		return ItemTypeComponent, true
	}
	return "", false
}

// Author is the publisher of a catalog item
type Author struct {
	Username string  `json:"username"`
	FullName *string `json:"full_name,omitempty"`
	ID       *string `json:"id,omitempty"`
}

// Stats holds usage counters for an item
type Stats struct {
	Downloads int `json:"downloads"`
	Likes     int `json:"likes"`
}

// Popularity is the combined likes and downloads count.
func (s Stats) Popularity() int {
	return s.Likes + s.Downloads
}

// Dates holds the item timestamps
type Dates struct {
	Created Timestamp `json:"created"`
	Updated Timestamp `json:"updated"`
}

// Technical holds optional technical metadata
type Technical struct {
	LastTestedVersion *string `json:"last_tested_version,omitempty"`
	Private           bool    `json:"private,omitempty"`
}

// CatalogItem is a Flow or Component entry of the showcase snapshot.
type CatalogItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        ItemType   `json:"type"`
	IsComponent bool       `json:"is_component"`
	Author      *Author    `json:"author,omitempty"`
	StoreURL    string     `json:"store_url,omitempty"`
	Stats       Stats      `json:"stats"`
	Dates       Dates      `json:"dates"`
	Tags        []Tag      `json:"tags"`
	Technical   *Technical `json:"technical,omitempty"`
}

// Username returns the author's username and whether one is present.
func (i *CatalogItem) Username() (string, bool) {
	if i.Author == nil || i.Author.Username == "" {
		return "", false
	}
	return i.Author.Username, true
}

// TagNames returns the names of the well-formed tags, in order.
func (i *CatalogItem) TagNames() []string {
	var names []string
	for _, t := range i.Tags {
		if t.Valid() {
			names = append(names, t.Name)
		}
	}
	return names
}

// IsPrivate reports whether the item is flagged private.
func (i *CatalogItem) IsPrivate() bool {
	return i.Technical != nil && i.Technical.Private
}

// Tag is a catalog tag. Entries missing an id or a name are kept but
// flagged malformed and contribute nothing to search, filters or facets.
type Tag struct {
	ID   string
	Name string
}

// Valid reports whether the tag carries both an id and a name.
func (t Tag) Valid() bool {
	return t.ID != "" && t.Name != ""
}

// UnmarshalJSON accepts {"tags_id": {"id", "name"}} and the flat {"id", "name"}
// form. Anything else decodes to an empty (malformed) tag instead of failing.
func (t *Tag) UnmarshalJSON(b []byte) error {
	*t = Tag{}
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	if nested, ok := obj["tags_id"].(map[string]any); ok {
		obj = nested
	}
	t.ID, _ = obj["id"].(string)
	t.Name, _ = obj["name"].(string)
	return nil
}

// MarshalJSON writes the snapshot's nested tags_id form.
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]map[string]string{
		"tags_id": {"id": t.ID, "name": t.Name},
	})
}

// Timestamp decodes the snapshot's date strings. Unparseable values decode
// to the zero time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the layouts seen in snapshots.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		ts.Time = time.Time{}
		return nil
	}
	ts.Time, _ = ParseTimestamp(s)
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(ts.Format(time.RFC3339))
}

// Summary is the snapshot header
type Summary struct {
	TotalItems      int    `json:"total_items"`
	TotalFlows      int    `json:"total_flows"`
	TotalComponents int    `json:"total_components"`
	DownloadedAt    string `json:"downloaded_at,omitempty"`
	StoreURL        string `json:"store_url,omitempty"`
}

// Snapshot is the static catalog resource
type Snapshot struct {
	Summary    Summary       `json:"summary"`
	Flows      []CatalogItem `json:"flows"`
	Components []CatalogItem `json:"components"`
}

// IDSet is a set of item ids
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership; a nil set has no members.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Artifact is the per-item export resource: the item metadata plus its
// stored graph payload.
type Artifact struct {
	CatalogItem
	Data json.RawMessage `json:"data,omitempty"`
}
