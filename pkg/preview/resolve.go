package preview

import (
	"encoding/json"
	"fmt"

	"github.com/mattsolo1/grove-showcase/pkg/models"
)

var defaultViewport = Viewport{Zoom: 1}

type payloadJSON struct {
	Nodes    []json.RawMessage `json:"nodes"`
	Edges    []json.RawMessage `json:"edges"`
	Viewport json.RawMessage   `json:"viewport"`
}

type rawNode struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Position *Position `json:"position"`
	Data     struct {
		Label       string `json:"label"`
		Type        string `json:"type"`
		Description string `json:"description"`
		Node        struct {
			DisplayName string `json:"display_name"`
			Description string `json:"description"`
		} `json:"node"`
	} `json:"data"`
}

type rawEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Parse decodes a stored graph payload (the "data" object of an item
// artifact). It fails unless both the node and edge lists are non-empty.
func Parse(payload json.RawMessage) (*Graph, error) {
	if len(payload) == 0 || string(payload) == "null" {
		return nil, ErrNoPayload
	}

	var p payloadJSON
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidGraph, err)
	}
	if len(p.Nodes) == 0 || len(p.Edges) == 0 {
		return nil, ErrEmptyGraph
	}

	g := &Graph{
		Nodes:    make([]Node, 0, len(p.Nodes)),
		Edges:    make([]Edge, 0, len(p.Edges)),
		Viewport: defaultViewport,
	}
	if len(p.Viewport) > 0 && string(p.Viewport) != "null" {
		var vp viewportJSON
		if err := json.Unmarshal(p.Viewport, &vp); err != nil {
			return nil, fmt.Errorf("%w: viewport: %w", ErrInvalidGraph, err)
		}
		g.Viewport = Viewport(vp)
		g.Viewport.raw = p.Viewport
	}

	for i, raw := range p.Nodes {
		var rn rawNode
		if err := json.Unmarshal(raw, &rn); err != nil {
			return nil, fmt.Errorf("%w: node %d: %w", ErrInvalidGraph, i, err)
		}
		n := Node{
			ID:   rn.ID,
			Type: rn.Type,
			Data: NodeData{
				Label:       firstNonEmpty(rn.Data.Node.DisplayName, rn.Data.Label, rn.Data.Type, rn.ID),
				Description: firstNonEmpty(rn.Data.Node.Description, rn.Data.Description),
			},
			raw: raw,
		}
		if rn.Position != nil {
			n.Position = *rn.Position
		}
		g.Nodes = append(g.Nodes, n)
	}

	for i, raw := range p.Edges {
		var re rawEdge
		if err := json.Unmarshal(raw, &re); err != nil {
			return nil, fmt.Errorf("%w: edge %d: %w", ErrInvalidGraph, i, err)
		}
		g.Edges = append(g.Edges, Edge{ID: re.ID, Source: re.Source, Target: re.Target, raw: raw})
	}

	return g, nil
}

// Resolve returns the stored graph of item when payload holds one, and a
// placeholder graph otherwise.
func Resolve(item *models.CatalogItem, payload json.RawMessage) *Graph {
	if g, err := Parse(payload); err == nil {
		return g
	}
	return Synthesize(item)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
