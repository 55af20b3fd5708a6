package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/grove-showcase/pkg/paginate"
	"github.com/mattsolo1/grove-showcase/pkg/service"
)

var (
	cfgFile string
	verbose bool
)

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "showcase")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("SHOWCASE")
	viper.AutomaticEnv()

	// Set defaults
	home, _ := os.UserHomeDir()
	viper.SetDefault("mode", string(service.ModeLocal))
	viper.SetDefault("snapshot_dir", filepath.Join(home, ".local", "share", "showcase", "store"))
	viper.SetDefault("static_url", "")
	viper.SetDefault("api_url", "")
	viper.SetDefault("token", "")
	viper.SetDefault("data_dir", filepath.Join(home, ".local", "share", "showcase"))
	viper.SetDefault("page_size", paginate.DefaultPageSize)
	viper.SetDefault("locale", "en")
	viper.SetDefault("folder_id", "")
	viper.SetDefault("listen", ":7860")
	viper.SetDefault("http_timeout", 30*time.Second)

	// grove.yml overrides the built-in defaults
	for k, v := range groveDefaults() {
		viper.SetDefault(k, v)
	}

	// A missing config file is fine; defaults and env apply.
	_ = viper.ReadInConfig()
}

// ServiceConfig reads the service configuration from viper.
func ServiceConfig() *service.Config {
	return &service.Config{
		Mode:        service.Mode(viper.GetString("mode")),
		SnapshotDir: viper.GetString("snapshot_dir"),
		StaticURL:   viper.GetString("static_url"),
		APIURL:      viper.GetString("api_url"),
		Token:       viper.GetString("token"),
		DataDir:     viper.GetString("data_dir"),
		PageSize:    viper.GetInt("page_size"),
		Locale:      viper.GetString("locale"),
		FolderID:    viper.GetString("folder_id"),
		HTTPTimeout: viper.GetDuration("http_timeout"),
	}
}

// Listen is the address the serve command binds to.
func Listen() string {
	return viper.GetString("listen")
}

// NewLogger creates the stderr logger shared by the packages.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel) // Keep it quiet unless there are issues.
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func InitService() (*service.Service, error) {
	logger := NewLogger()
	return service.New(ServiceConfig(), logrus.NewEntry(logger))
}

func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/showcase/config.yaml)")
	cmd.PersistentFlags().BoolVar(&verbose, "debug", false, "Enable debug logging")

	cmd.PersistentFlags().String("mode", "", "Catalog mode: local or remote")
	cmd.PersistentFlags().String("snapshot-dir", "", "Directory holding store_index.json (local mode)")
	cmd.PersistentFlags().String("static-url", "", "Base URL of store_index.json (remote mode)")
	cmd.PersistentFlags().String("api-url", "", "Base URL of the favorites and flows API (remote mode)")
	_ = viper.BindPFlag("mode", cmd.PersistentFlags().Lookup("mode"))
	_ = viper.BindPFlag("snapshot_dir", cmd.PersistentFlags().Lookup("snapshot-dir"))
	_ = viper.BindPFlag("static_url", cmd.PersistentFlags().Lookup("static-url"))
	_ = viper.BindPFlag("api_url", cmd.PersistentFlags().Lookup("api-url"))
}
