package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	grovelogging "github.com/mattsolo1/grove-core/logging"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-showcase/pkg/filter"
	"github.com/mattsolo1/grove-showcase/pkg/service"
	"github.com/mattsolo1/grove-showcase/pkg/showcase"
)

var listUlog = grovelogging.NewUnifiedLogger("grove-showcase.cmd.list")

func NewListCmd(svc **service.Service) *cobra.Command {
	var (
		listSearch  string
		listTags    []string
		listAuthor  string
		listTab     string
		listSort    string
		listPrivate bool
		listPage    int
		listJSON    bool
		listYAML    bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List catalog items",
		Aliases: []string{"ls"},
		Long: `List catalog items matching the given filters, one page at a time.

Examples:
  showcase list                         # Most popular items
  showcase list -s rag --tab flows      # Flows mentioning "rag"
  showcase list --tag agents --tag llm  # Items tagged agents or llm
  showcase list --sort recent -p 2      # Second page of recent items`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s := *svc

			tab, err := filter.ParseTab(listTab)
			if err != nil {
				return err
			}
			sortKey, err := filter.ParseSortKey(listSort)
			if err != nil {
				return err
			}

			if err := loadCatalog(ctx, s); err != nil {
				return err
			}

			c := s.Controller
			c.SetCriteria(filter.Criteria{
				Search:      listSearch,
				Author:      listAuthor,
				Tab:         tab,
				Sort:        sortKey,
				PrivateOnly: listPrivate,
			}.WithTags(listTags...))
			c.SetPage(listPage)

			view, err := c.View()
			if err != nil {
				return fmt.Errorf("render view: %w", err)
			}

			if listJSON {
				return outputJSON(view)
			}
			if listYAML {
				return outputYAML(view)
			}

			if view.TotalItems == 0 {
				listUlog.Info("No items found").
					Field("tab", string(tab)).
					Field("search", listSearch).
					Pretty("No items match the current filters").
					PrettyOnly().
					Log(ctx)
				return nil
			}

			printItemsTable(view)
			return nil
		},
	}

	cmd.Flags().StringVarP(&listSearch, "search", "s", "", "Search name, description, author, tags and tested version")
	cmd.Flags().StringSliceVarP(&listTags, "tag", "t", nil, "Only items with any of these tags")
	cmd.Flags().StringVarP(&listAuthor, "author", "a", "", "Only items whose author matches")
	cmd.Flags().StringVar(&listTab, "tab", string(filter.TabAll), "Tab: all, flows, components, favorites")
	cmd.Flags().StringVar(&listSort, "sort", string(filter.SortPopular), "Sort: popular, recent, alphabetical, downloads, likes")
	cmd.Flags().BoolVar(&listPrivate, "private", false, "Only private items")
	cmd.Flags().IntVarP(&listPage, "page", "p", 1, "Page number")
	cmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&listYAML, "yaml", false, "Output in YAML format")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")

	return cmd
}

func printItemsTable(view showcase.View) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "FAV\tTYPE\tID\tNAME\tAUTHOR\tDOWNLOADS\tLIKES\tTAGS")
	fmt.Fprintln(w, "---\t---------\t------------------------------------\t------------------------------\t------------\t---------\t-----\t----")

	for i := range view.Items {
		item := &view.Items[i]
		fav := " "
		if view.Favorites.Has(item.ID) {
			fav = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			fav,
			item.Type,
			item.ID,
			truncate(item.Name, 30),
			authorName(item),
			item.Stats.Downloads,
			item.Stats.Likes,
			strings.Join(item.TagNames(), ", "),
		)
	}
	w.Flush()

	fmt.Printf("\nPage %d of %d (%d items, sorted by %s)\n",
		view.Page.Page, view.TotalPages, view.TotalItems, view.Criteria.Sort.Label())
}
