package main

import (
	"fmt"
	"os"

	"github.com/mattsolo1/grove-core/cli"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-showcase/cmd"
	"github.com/mattsolo1/grove-showcase/cmd/config"
	"github.com/mattsolo1/grove-showcase/pkg/service"
)

var svc *service.Service

func main() {
	rootCmd := cli.NewStandardCommand(
		"showcase",
		"Browse, preview, favorite and grab items from the flow showcase",
	)
	config.AddGlobalFlags(rootCmd)
	cobra.OnInitialize(config.InitConfig)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// version needs no catalog or backend
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		svc, err = config.InitService()
		if err != nil {
			return fmt.Errorf("failed to initialize service: %w", err)
		}
		return nil
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if svc != nil {
			return svc.Close()
		}
		return nil
	}

	// Add subcommands
	rootCmd.AddCommand(cmd.NewListCmd(&svc))
	rootCmd.AddCommand(cmd.NewTagsCmd(&svc))
	rootCmd.AddCommand(cmd.NewStatsCmd(&svc))
	rootCmd.AddCommand(cmd.NewFavoriteCmd(&svc))
	rootCmd.AddCommand(cmd.NewFavoritesCmd(&svc))
	rootCmd.AddCommand(cmd.NewPreviewCmd(&svc))
	rootCmd.AddCommand(cmd.NewDownloadCmd(&svc))
	rootCmd.AddCommand(cmd.NewGrabCmd(&svc))
	rootCmd.AddCommand(cmd.NewServeCmd(&svc))
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
