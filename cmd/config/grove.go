package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mattsolo1/grove-core/config"
)

// groveDefaults reads the 'showcase' section of grove.yml. Only string
// values are returned; a missing config yields an empty map.
//
//	showcase:
//	  snapshot_dir: ~/catalogs/store
//	  data_dir: ~/.local/share/showcase
func groveDefaults() map[string]string {
	out := map[string]string{}

	cfg, err := config.LoadDefault()
	if err != nil {
		return out
	}
	section, ok := cfg.Extensions["showcase"].(map[string]interface{})
	if !ok {
		return out
	}
	for k, v := range section {
		if s, ok := v.(string); ok && s != "" {
			out[k] = expandHome(s)
		}
	}
	return out
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, p[2:])
	}
	return p
}
