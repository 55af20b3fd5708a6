package cmd

import (
	"context"
	"fmt"

	grovelogging "github.com/mattsolo1/grove-core/logging"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-showcase/pkg/service"
)

var grabUlog = grovelogging.NewUnifiedLogger("grove-showcase.cmd.grab")

func NewGrabCmd(svc **service.Service) *cobra.Command {
	var folderID string

	cmd := &cobra.Command{
		Use:   "grab <item-id>",
		Short: "Copy an item into your workspace",
		Long: `Copy an item into your workspace as a new flow. Each grab creates a
new, independent copy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s := *svc

			item, err := lookupItem(ctx, s, args[0])
			if err != nil {
				return err
			}

			var folder *string
			if cmd.Flags().Changed("folder") {
				folder = &folderID
			}

			flow, err := s.Controller.Grab(ctx, item, folder)
			if err != nil {
				return err
			}

			grabUlog.Success("Grabbed").
				Field("item_id", item.ID).
				Field("flow_id", flow.ID).
				Pretty(fmt.Sprintf("Added %s to your workspace (flow %s)", item.Name, flow.ID)).
				PrettyOnly().
				Log(ctx)
			return nil
		},
	}

	cmd.Flags().StringVar(&folderID, "folder", "", "Workspace folder id (default from config)")

	return cmd
}
