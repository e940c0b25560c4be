package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Game domains as the repository spells them.
var gameModePattern = regexp.MustCompile(`^[a-z0-9]+$`)

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	switch {
	case c.Game.Mode == "":
		errs = append(errs, "game.mode: required")
	case !gameModePattern.MatchString(c.Game.Mode):
		errs = append(errs, fmt.Sprintf("game.mode: must be lowercase letters and digits, got %q", c.Game.Mode))
	}
	if c.Game.ModsDir != "" {
		if st, err := os.Stat(c.Game.ModsDir); err == nil && !st.IsDir() {
			errs = append(errs, fmt.Sprintf("game.mods_dir: %q is not a directory", c.Game.ModsDir))
		}
	}

	if c.Acquisition.MaxConcurrent < 0 {
		errs = append(errs, fmt.Sprintf("acquisition.max_concurrent: must be at least 1, got %d", c.Acquisition.MaxConcurrent))
	}
	if c.Acquisition.ActivityRetention < 0 {
		errs = append(errs, "acquisition.activity_retention: must not be negative")
	}

	if c.Repository.URL != "" {
		u, err := url.Parse(c.Repository.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("repository.url: must be an http(s) URL, got %q", c.Repository.URL))
		}
	}
	if c.Repository.Timeout < 0 {
		errs = append(errs, "repository.timeout: must not be negative")
	}

	return errs
}
