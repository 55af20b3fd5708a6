package cmd

import (
	"bytes"
	"context"
	"fmt"
	"runtime"

	grovelogging "github.com/mattsolo1/grove-core/logging"
	"github.com/mattsolo1/grove-core/version"
	"github.com/spf13/cobra"
)

var versionUlog = grovelogging.NewUnifiedLogger("grove-showcase.cmd.version")

// buildInfo is the version report: grove build metadata plus the runtime.
type buildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Branch    string `json:"branch" yaml:"branch"`
	GoVersion string `json:"goVersion" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

func NewVersionCmd() *cobra.Command {
	var (
		versionJSON  bool
		versionYAML  bool
		versionShort bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display the version, commit, branch and build information for showcase, plus the Go runtime it was built with.",
		RunE: func(cmd *cobra.Command, args []string) error {
			core := version.GetInfo()
			info := buildInfo{
				Version:   core.Version,
				Commit:    core.Commit,
				Branch:    core.Branch,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}

			switch {
			case versionShort:
				fmt.Println(info.Version)
				return nil
			case versionJSON:
				return outputJSON(info)
			case versionYAML:
				return outputYAML(info)
			}

			var buf bytes.Buffer
			fmt.Fprintln(&buf, core.String())
			fmt.Fprintf(&buf, "Go: %s (%s)", info.GoVersion, info.Platform)

			versionUlog.Info("Version info").
				Field("version", info.Version).
				Field("commit", info.Commit).
				Field("go_version", info.GoVersion).
				Pretty(buf.String()).
				PrettyOnly().
				Log(context.Background())
			return nil
		},
	}

	cmd.Flags().BoolVar(&versionJSON, "json", false, "Output version information in JSON format")
	cmd.Flags().BoolVar(&versionYAML, "yaml", false, "Output version information in YAML format")
	cmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml", "short")

	return cmd
}
