package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "nmm", "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. NMM_CONFIG environment variable
//  2. ./config.toml (current directory)
//  3. $XDG_CONFIG_HOME/nmm/config.toml
//  4. /etc/nmm/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv("NMM_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("NMM_CONFIG=%s: %w", envPath, err)
		}
		return envPath, nil
	}

	paths := []string{
		"./config.toml",
		DefaultPath(),
		"/etc/nmm/config.toml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("config not found, checked: %s", strings.Join(paths, ", "))
}
