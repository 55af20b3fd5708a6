package preview

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-showcase/pkg/models"
)

var ignoreRaw = cmpopts.IgnoreUnexported(Node{}, Edge{}, Viewport{})

func TestSynthesizeComponent(t *testing.T) {
	item := &models.CatalogItem{ID: "c1", Name: "Summarizer", Description: "Shortens text", Type: models.ItemTypeComponent}

	got := Synthesize(item)
	want := &Graph{
		Nodes: []Node{{
			ID:        "c1-component",
			Type:      "placeholder",
			Position:  Position{X: 250, Y: 150},
			Data:      NodeData{Label: "Summarizer", Description: "Shortens text"},
			StyleHint: StylePlaceholderComponent,
		}},
		Edges:       []Edge{},
		Viewport:    Viewport{Zoom: 1},
		Placeholder: true,
	}
	if diff := cmp.Diff(want, got, ignoreRaw); diff != "" {
		t.Errorf("Synthesize() mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, got.Validate())
}

func TestSynthesizeFlow(t *testing.T) {
	item := &models.CatalogItem{ID: "f1", Name: "ETL Pipeline", Type: models.ItemTypeFlow}

	got := Synthesize(item)
	require.Len(t, got.Nodes, 3)
	require.Len(t, got.Edges, 2)

	labels := []string{got.Nodes[0].Data.Label, got.Nodes[1].Data.Label, got.Nodes[2].Data.Label}
	assert.Equal(t, []string{"Input", "ETL Pipeline", "Output"}, labels)

	assert.Equal(t, got.Nodes[0].ID, got.Edges[0].Source)
	assert.Equal(t, got.Nodes[1].ID, got.Edges[0].Target)
	assert.Equal(t, got.Nodes[1].ID, got.Edges[1].Source)
	assert.Equal(t, got.Nodes[2].ID, got.Edges[1].Target)

	assert.Less(t, got.Nodes[0].Position.X, got.Nodes[1].Position.X)
	assert.Less(t, got.Nodes[1].Position.X, got.Nodes[2].Position.X)
	assert.True(t, got.Placeholder)
	for _, n := range got.Nodes {
		assert.NotEqual(t, StyleReal, n.StyleHint)
	}
	require.NoError(t, got.Validate())
}

func TestSynthesizeIsDeterministic(t *testing.T) {
	item := &models.CatalogItem{ID: "f1", Name: "ETL Pipeline", Type: models.ItemTypeFlow, Stats: models.Stats{Likes: 3}}
	other := *item
	other.Stats.Likes = 99
	other.Tags = []models.Tag{{ID: "t", Name: "etl"}}

	if diff := cmp.Diff(Synthesize(item), Synthesize(&other), ignoreRaw); diff != "" {
		t.Errorf("Synthesize() depends on more than id, name, description and type:\n%s", diff)
	}
}

const storedGraph = `{
	"nodes": [
		{"id": "A", "type": "genericNode", "position": {"x": 1, "y": 2}, "data": {"node": {"display_name": "Prompt", "description": "Builds the prompt"}}, "width": 384},
		{"id": "B", "position": {"x": 3, "y": 4}, "data": {"label": "Model"}}
	],
	"edges": [{"id": "A-B", "source": "A", "target": "B", "animated": false}],
	"viewport": {"x": 10, "y": 20, "zoom": 0.5, "minZoom": 0.2}
}`

func TestParseStoredGraph(t *testing.T) {
	g, err := Parse(json.RawMessage(storedGraph))
	require.NoError(t, err)

	assert.False(t, g.Placeholder)
	if diff := cmp.Diff(Viewport{X: 10, Y: 20, Zoom: 0.5}, g.Viewport, ignoreRaw); diff != "" {
		t.Errorf("Viewport mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "Prompt", g.Nodes[0].Data.Label)
	assert.Equal(t, "Builds the prompt", g.Nodes[0].Data.Description)
	assert.Equal(t, "Model", g.Nodes[1].Data.Label)
	assert.Equal(t, Position{X: 3, Y: 4}, g.Nodes[1].Position)
	require.NoError(t, g.Validate())

	// nodes, edges and viewport are handed on verbatim
	data, err := json.Marshal(g)
	require.NoError(t, err)
	var out struct {
		Nodes    []map[string]any `json:"nodes"`
		Edges    []map[string]any `json:"edges"`
		Viewport map[string]any   `json:"viewport"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, float64(384), out.Nodes[0]["width"])
	assert.Equal(t, false, out.Edges[0]["animated"])
	assert.Equal(t, 0.2, out.Viewport["minZoom"])
	assert.Equal(t, 0.5, out.Viewport["zoom"])
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{"empty", ``, ErrNoPayload},
		{"null", `null`, ErrNoPayload},
		{"not an object", `[1, 2]`, ErrInvalidGraph},
		{"no nodes", `{"nodes": [], "edges": [{"id": "e"}]}`, ErrEmptyGraph},
		{"no edges", `{"nodes": [{"id": "a"}], "edges": []}`, ErrEmptyGraph},
		{"missing lists", `{"viewport": {"zoom": 1}}`, ErrEmptyGraph},
		{"bad node", `{"nodes": ["a"], "edges": [{"id": "e"}]}`, ErrInvalidGraph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(json.RawMessage(tt.payload))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseDefaultsViewport(t *testing.T) {
	g, err := Parse(json.RawMessage(`{"nodes": [{"id": "a"}, {"id": "b"}], "edges": [{"id": "e", "source": "a", "target": "b"}]}`))
	require.NoError(t, err)
	if diff := cmp.Diff(Viewport{Zoom: 1}, g.Viewport, ignoreRaw); diff != "" {
		t.Errorf("Viewport mismatch (-want +got):\n%s", diff)
	}

	// the default viewport is encoded from its fields
	data, err := json.Marshal(g.Viewport)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": 0, "y": 0, "zoom": 1}`, string(data))
	assert.Equal(t, "a", g.Nodes[0].Data.Label)
}

func TestResolve(t *testing.T) {
	flow := &models.CatalogItem{ID: "f1", Name: "ETL Pipeline", Type: models.ItemTypeFlow}

	stored := Resolve(flow, json.RawMessage(storedGraph))
	assert.False(t, stored.Placeholder)
	assert.Len(t, stored.Nodes, 2)

	for _, payload := range []string{``, `{"nodes": [], "edges": []}`, `{garbage`} {
		g := Resolve(flow, json.RawMessage(payload))
		if diff := cmp.Diff(Synthesize(flow), g, ignoreRaw); diff != "" {
			t.Errorf("Resolve(%q) should fall back to the placeholder:\n%s", payload, diff)
		}
	}
}

func TestValidate(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "a"}},
		Edges: []Edge{{ID: "e", Source: "a", Target: "missing"}},
	}
	assert.ErrorIs(t, g.Validate(), ErrInvalidGraph)
}
