package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// PathEnv overrides the config location when --config is not given.
const PathEnv = "NATFMT_CONFIG"

// ResolvePath picks the config file: --config, then NATFMT_CONFIG, then
// $XDG_CONFIG_HOME/natfmt/config.jsonc, then ~/.config/natfmt/config.jsonc.
func ResolvePath(explicit string) (string, error) {
	for _, candidate := range []string{explicit, os.Getenv(PathEnv)} {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			return candidate, nil
		}
	}

	configHome := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME"))
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.New("unable to resolve user home for config fallback")
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "natfmt", "config.jsonc"), nil
}
