package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-showcase/pkg/catalog"
	"github.com/mattsolo1/grove-showcase/pkg/service"
)

func NewStatsCmd(svc **service.Service) *cobra.Command {
	var (
		statsJSON bool
		statsYAML bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Long:  "Show totals, the top 10 authors by item count and the 20 most used tags.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			if err := loadCatalog(context.Background(), s); err != nil {
				return err
			}

			st, err := s.Controller.Stats()
			if err != nil {
				return err
			}

			if statsJSON {
				return outputJSON(st)
			}
			if statsYAML {
				return outputYAML(st)
			}
			printStats(st)
			return nil
		},
	}

	cmd.Flags().BoolVar(&statsJSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&statsYAML, "yaml", false, "Output in YAML format")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")

	return cmd
}

func printStats(st catalog.Stats) {
	fmt.Printf("Items:       %d (%d flows, %d components)\n", st.TotalItems, st.TotalFlows, st.TotalComponents)
	fmt.Printf("Downloads:   %d\n", st.TotalDownloads)
	fmt.Printf("Likes:       %d\n", st.TotalLikes)
	if st.Summary.DownloadedAt != "" {
		fmt.Printf("Snapshot of: %s\n", st.Summary.DownloadedAt)
	}

	fmt.Println("\nTop authors")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AUTHOR\tITEMS\tDOWNLOADS\tLIKES")
	for _, a := range st.TopAuthors {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", a.Username, a.Items, a.Downloads, a.Likes)
	}
	w.Flush()

	fmt.Println("\nTop tags")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TAG\tITEMS")
	for _, t := range st.TopTags {
		fmt.Fprintf(w, "%s\t%d\n", t.Name, t.Count)
	}
	w.Flush()
}
