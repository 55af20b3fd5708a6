package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	grovelogging "github.com/mattsolo1/grove-core/logging"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-showcase/pkg/service"
)

var favoriteUlog = grovelogging.NewUnifiedLogger("grove-showcase.cmd.favorite")

func NewFavoriteCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorite <item-id>",
		Short: "Toggle the favorite status of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s := *svc

			item, err := lookupItem(ctx, s, args[0])
			if err != nil {
				return err
			}

			res, err := s.Controller.ToggleFavorite(ctx, item)
			if err != nil {
				return err
			}

			favoriteUlog.Success(res.Message).
				Field("item_id", item.ID).
				Field("is_favorited", res.IsFavorited).
				Pretty(fmt.Sprintf("%s: %s", res.Message, item.Name)).
				PrettyOnly().
				Log(ctx)
			return nil
		},
	}
	return cmd
}

func NewFavoritesCmd(svc **service.Service) *cobra.Command {
	var (
		favJSON   bool
		favRemove string
	)

	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "List favorited items",
		Long: `List the favorite records stored by the backend.

Examples:
  showcase favorites                  # List favorites
  showcase favorites --remove <id>    # Remove one favorite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s := *svc

			if favRemove != "" {
				if err := s.Backend().DeleteFavorite(ctx, favRemove); err != nil {
					return err
				}
				favoriteUlog.Success("Favorite removed").
					Field("item_id", favRemove).
					Pretty("Removed " + favRemove + " from favorites").
					PrettyOnly().
					Log(ctx)
				return nil
			}

			records, err := s.ListFavorites(ctx)
			if err != nil {
				return fmt.Errorf("list favorites: %w", err)
			}
			if favJSON {
				return outputJSON(records)
			}
			if len(records) == 0 {
				favoriteUlog.Info("No favorites").
					Pretty("No favorites yet").
					PrettyOnly().
					Log(ctx)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ITEM\tTYPE\tNAME\tAUTHOR\tADDED")
			for _, r := range records {
				author := "-"
				if r.ItemAuthor != nil {
					author = *r.ItemAuthor
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.ItemID, r.ItemType, truncate(r.ItemName, 30), author, r.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&favJSON, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&favRemove, "remove", "", "Remove the favorite of this item id")

	return cmd
}
