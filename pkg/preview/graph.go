// Package preview builds the node graphs shown when previewing a catalog item.
package preview

import (
	"encoding/json"
	"errors"
)

var (
	ErrNoPayload    = errors.New("no graph payload")
	ErrEmptyGraph   = errors.New("graph payload has no nodes or no edges")
	ErrInvalidGraph = errors.New("graph payload is not valid")
)

// StyleHint tells the renderer how to draw a node
type StyleHint string

const (
	StyleReal                 StyleHint = ""
	StylePlaceholderInput     StyleHint = "placeholder-input"
	StylePlaceholderProcess   StyleHint = "placeholder-process"
	StylePlaceholderOutput    StyleHint = "placeholder-output"
	StylePlaceholderComponent StyleHint = "placeholder-component"
)

// Position is a node's canvas coordinate
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NodeData is the display payload of a node
type NodeData struct {
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Node is a vertex of a preview graph. Nodes decoded from a stored payload
// keep their original JSON so they can be handed to the renderer verbatim.
type Node struct {
	ID        string    `json:"id" yaml:"id"`
	Type      string    `json:"type,omitempty" yaml:"type,omitempty"`
	Position  Position  `json:"position" yaml:"position"`
	Data      NodeData  `json:"data" yaml:"data"`
	StyleHint StyleHint `json:"style_hint,omitempty" yaml:"style_hint,omitempty"`

	raw json.RawMessage
}

// Edge is a directed connection between two nodes
type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`

	raw json.RawMessage
}

// Viewport is the initial camera of the renderer. A viewport decoded from a
// stored payload keeps its original JSON like nodes and edges do.
type Viewport struct {
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	Zoom float64 `json:"zoom" yaml:"zoom"`

	raw json.RawMessage
}

// Graph is a node/edge list ready for the renderer.
type Graph struct {
	Nodes       []Node   `json:"nodes" yaml:"nodes"`
	Edges       []Edge   `json:"edges" yaml:"edges"`
	Viewport    Viewport `json:"viewport" yaml:"viewport"`
	Placeholder bool     `json:"placeholder" yaml:"placeholder"`
}

type nodeJSON Node
type edgeJSON Edge
type viewportJSON Viewport

// MarshalJSON returns the stored JSON for nodes of a real graph.
func (n Node) MarshalJSON() ([]byte, error) {
	if len(n.raw) > 0 {
		return n.raw, nil
	}
	return json.Marshal(nodeJSON(n))
}

// MarshalJSON returns the stored JSON for edges of a real graph.
func (e Edge) MarshalJSON() ([]byte, error) {
	if len(e.raw) > 0 {
		return e.raw, nil
	}
	return json.Marshal(edgeJSON(e))
}

// MarshalJSON returns the stored JSON for the viewport of a real graph.
func (v Viewport) MarshalJSON() ([]byte, error) {
	if len(v.raw) > 0 {
		return v.raw, nil
	}
	return json.Marshal(viewportJSON(v))
}

// Validate checks that every edge connects two known nodes.
func (g *Graph) Validate() error {
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return errors.Join(ErrInvalidGraph, errors.New("node without id"))
		}
		ids[n.ID] = struct{}{}
	}
	for _, e := range g.Edges {
		if _, ok := ids[e.Source]; !ok {
			return errors.Join(ErrInvalidGraph, errors.New("edge "+e.ID+": unknown source "+e.Source))
		}
		if _, ok := ids[e.Target]; !ok {
			return errors.Join(ErrInvalidGraph, errors.New("edge "+e.ID+": unknown target "+e.Target))
		}
	}
	return nil
}
