package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-showcase/pkg/preview"
	"github.com/mattsolo1/grove-showcase/pkg/service"
)

func NewPreviewCmd(svc **service.Service) *cobra.Command {
	var (
		previewJSON bool
		previewYAML bool
	)

	cmd := &cobra.Command{
		Use:   "preview <item-id>",
		Short: "Show the node graph of an item",
		Long: `Show the node graph of an item. Items without a stored graph get a
placeholder layout, marked as such.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s := *svc

			item, err := lookupItem(ctx, s, args[0])
			if err != nil {
				return err
			}

			g, err := s.Controller.OpenPreview(ctx, item)
			if err != nil {
				return fmt.Errorf("open preview: %w", err)
			}
			defer s.Controller.ClosePreview()

			if err := g.Validate(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}

			if previewJSON {
				return outputJSON(g)
			}
			if previewYAML {
				return outputYAML(g)
			}
			printGraph(item.Name, g)
			return nil
		},
	}

	cmd.Flags().BoolVar(&previewJSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&previewYAML, "yaml", false, "Output in YAML format")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")

	return cmd
}

func printGraph(name string, g *preview.Graph) {
	kind := "stored graph"
	if g.Placeholder {
		kind = "placeholder"
	}
	fmt.Printf("%s (%s, %d nodes, %d edges)\n\n", name, kind, len(g.Nodes), len(g.Edges))

	labels := make(map[string]string, len(g.Nodes))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NODE\tLABEL\tPOSITION")
	for _, n := range g.Nodes {
		labels[n.ID] = n.Data.Label
		fmt.Fprintf(w, "%s\t%s\t(%.0f, %.0f)\n", n.ID, n.Data.Label, n.Position.X, n.Position.Y)
	}
	w.Flush()

	if len(g.Edges) == 0 {
		return
	}
	fmt.Println()
	for _, e := range g.Edges {
		fmt.Printf("  %s -> %s\n", labelOr(labels, e.Source), labelOr(labels, e.Target))
	}
}

func labelOr(labels map[string]string, id string) string {
	if l := labels[id]; l != "" {
		return l
	}
	return id
}
