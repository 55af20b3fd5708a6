package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	grovelogging "github.com/mattsolo1/grove-core/logging"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-showcase/pkg/export"
	"github.com/mattsolo1/grove-showcase/pkg/service"
)

var downloadUlog = grovelogging.NewUnifiedLogger("grove-showcase.cmd.download")

func NewDownloadCmd(svc **service.Service) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "download <item-id>",
		Short: "Save the export artifact of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s := *svc

			item, err := lookupItem(ctx, s, args[0])
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			dest := filepath.Join(outDir, export.Filename(item))
			tmp, err := os.CreateTemp(outDir, ".download-*")
			if err != nil {
				return fmt.Errorf("create temp file: %w", err)
			}
			defer os.Remove(tmp.Name())

			filename, err := s.Controller.Download(ctx, item, tmp)
			if cerr := tmp.Close(); err == nil && cerr != nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			if err := os.Rename(tmp.Name(), dest); err != nil {
				return fmt.Errorf("save %s: %w", filename, err)
			}

			downloadUlog.Success("Downloaded").
				Field("item_id", item.ID).
				Field("path", dest).
				Pretty("Saved " + dest).
				PrettyOnly().
				Log(ctx)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "Directory to save the artifact in")

	return cmd
}
