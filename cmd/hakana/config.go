package main

import (
	"fmt"

	"github.com/hakana-go/hakana/internal/config"
)

// resolveConfig loads hakana.yaml from configPath, or searches upward from
// root (the analyzed path) when configPath is empty, falling back to
// config.Default() when no file is found anywhere on the way up.
func resolveConfig(root string) (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.FindConfig(root)
		if err != nil {
			return nil, fmt.Errorf("searching for hakana.yaml: %w", err)
		}
		path = found
	}

	var cfg *config.Config
	if path == "" {
		cfg = config.Default()
	} else {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if threads > 0 {
		cfg.Threads = threads
	}
	if len(cfg.Paths) == 0 || (len(cfg.Paths) == 1 && cfg.Paths[0] == ".") {
		cfg.Paths = []string{root}
	}
	return cfg, nil
}
