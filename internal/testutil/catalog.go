// Package testutil builds catalog fixtures on disk for tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mattsolo1/grove-showcase/pkg/export"
	"github.com/mattsolo1/grove-showcase/pkg/models"
)

// Item builds a catalog item with the given id, name and type.
func Item(id, name string, typ models.ItemType, opts ...func(*models.CatalogItem)) models.CatalogItem {
	item := models.CatalogItem{
		ID:          id,
		Name:        name,
		Type:        typ,
		IsComponent: typ == models.ItemTypeComponent,
		Tags:        []models.Tag{},
	}
	for _, opt := range opts {
		opt(&item)
	}
	return item
}

// WithAuthor sets the author username.
func WithAuthor(username string) func(*models.CatalogItem) {
	return func(i *models.CatalogItem) {
		i.Author = &models.Author{Username: username}
	}
}

// WithStats sets downloads and likes.
func WithStats(downloads, likes int) func(*models.CatalogItem) {
	return func(i *models.CatalogItem) {
		i.Stats = models.Stats{Downloads: downloads, Likes: likes}
	}
}

// WithTags appends well-formed tags, using the name as id.
func WithTags(names ...string) func(*models.CatalogItem) {
	return func(i *models.CatalogItem) {
		for _, n := range names {
			i.Tags = append(i.Tags, models.Tag{ID: "tag-" + n, Name: n})
		}
	}
}

// WithDescription sets the description.
func WithDescription(d string) func(*models.CatalogItem) {
	return func(i *models.CatalogItem) {
		i.Description = d
	}
}

// Snapshot wraps flows and components with a matching summary.
func Snapshot(flows, components []models.CatalogItem) *models.Snapshot {
	return &models.Snapshot{
		Summary: models.Summary{
			TotalItems:      len(flows) + len(components),
			TotalFlows:      len(flows),
			TotalComponents: len(components),
		},
		Flows:      flows,
		Components: components,
	}
}

// WriteCatalog writes store_index.json and one artifact per entry of
// payloads (item id to graph payload) under dir.
func WriteCatalog(t testing.TB, dir string, snap *models.Snapshot, payloads map[string]json.RawMessage) {
	t.Helper()

	writeJSON(t, filepath.Join(dir, "store_index.json"), snap)

	items := append(append([]models.CatalogItem{}, snap.Flows...), snap.Components...)
	for _, item := range items {
		payload, ok := payloads[item.ID]
		if !ok {
			continue
		}
		art := models.Artifact{CatalogItem: item, Data: payload}
		writeJSON(t, filepath.Join(dir, filepath.FromSlash(export.ArtifactPath(&item))), art)
	}
}

func writeJSON(t testing.TB, path string, v any) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// FlowGraph is a small stored graph: two nodes joined by one edge.
var FlowGraph = json.RawMessage(`{
	"nodes": [
		{"id": "ChatInput-1", "type": "genericNode", "position": {"x": 10, "y": 20}, "data": {"type": "ChatInput", "node": {"display_name": "Chat Input"}}},
		{"id": "ChatOutput-2", "type": "genericNode", "position": {"x": 300, "y": 20}, "data": {"type": "ChatOutput"}}
	],
	"edges": [
		{"id": "e1", "source": "ChatInput-1", "target": "ChatOutput-2", "animated": true}
	],
	"viewport": {"x": 5, "y": 6, "zoom": 0.7}
}`)
