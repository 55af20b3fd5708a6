package preview

import (
	"github.com/mattsolo1/grove-showcase/pkg/models"
)

// Fixed layout of placeholder graphs.
var (
	componentAnchor = Position{X: 250, Y: 150}
	inputPosition   = Position{X: 100, Y: 150}
	processPosition = Position{X: 400, Y: 150}
	outputPosition  = Position{X: 700, Y: 150}

	componentViewport = Viewport{X: 0, Y: 0, Zoom: 1}
	flowViewport      = Viewport{X: 0, Y: 0, Zoom: 0.8}
)

const (
	inputLabel  = "Input"
	outputLabel = "Output"
)

// Synthesize builds the placeholder graph of an item with no usable stored
// graph. The result depends only on the item's id, name, description and
// type. Components get a single node; flows get Input -> item -> Output.
func Synthesize(item *models.CatalogItem) *Graph {
	if item.Type == models.ItemTypeComponent {
		return &Graph{
			Nodes: []Node{{
				ID:        item.ID + "-component",
				Type:      "placeholder",
				Position:  componentAnchor,
				Data:      NodeData{Label: item.Name, Description: item.Description},
				StyleHint: StylePlaceholderComponent,
			}},
			Edges:       []Edge{},
			Viewport:    componentViewport,
			Placeholder: true,
		}
	}

	input := Node{
		ID:        item.ID + "-input",
		Type:      "placeholder",
		Position:  inputPosition,
		Data:      NodeData{Label: inputLabel},
		StyleHint: StylePlaceholderInput,
	}
	process := Node{
		ID:        item.ID + "-process",
		Type:      "placeholder",
		Position:  processPosition,
		Data:      NodeData{Label: item.Name, Description: item.Description},
		StyleHint: StylePlaceholderProcess,
	}
	output := Node{
		ID:        item.ID + "-output",
		Type:      "placeholder",
		Position:  outputPosition,
		Data:      NodeData{Label: outputLabel},
		StyleHint: StylePlaceholderOutput,
	}

	return &Graph{
		Nodes: []Node{input, process, output},
		Edges: []Edge{
			{ID: item.ID + "-input-process", Source: input.ID, Target: process.ID},
			{ID: item.ID + "-process-output", Source: process.ID, Target: output.ID},
		},
		Viewport:    flowViewport,
		Placeholder: true,
	}
}
