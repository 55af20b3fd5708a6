package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-showcase/pkg/service"
)

func NewTagsCmd(svc **service.Service) *cobra.Command {
	var (
		tagsLimit int
		tagsJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags with item counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			if err := loadCatalog(context.Background(), s); err != nil {
				return err
			}

			facets, err := s.Controller.Facets()
			if err != nil {
				return err
			}
			if tagsLimit > 0 && len(facets) > tagsLimit {
				facets = facets[:tagsLimit]
			}

			if tagsJSON {
				return outputJSON(facets)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TAG\tITEMS")
			for _, f := range facets {
				fmt.Fprintf(w, "%s\t%d\n", f.Name, f.Count)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&tagsLimit, "limit", "n", 0, "Show at most this many tags")
	cmd.Flags().BoolVar(&tagsJSON, "json", false, "Output in JSON format")

	return cmd
}
