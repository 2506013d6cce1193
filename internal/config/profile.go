package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Profile is the optional on-disk client profile. Values from the profile
// fill in whatever the environment left unset; environment always wins.
type Profile struct {
	BackendURL  string `yaml:"backend_url"`
	AccessToken string `yaml:"access_token"`
	WatchPath   string `yaml:"watch_path"`
}

// DefaultProfilePath returns the conventional profile location.
func DefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dstu", "profile.yaml")
}

// LoadProfile reads and parses a YAML profile file. A missing file is not an
// error; a malformed one is.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return &Profile{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Profile{}, nil
		}
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return &p, nil
}

// Apply overlays profile values onto a config, filling only unset fields.
func (p *Profile) Apply(cfg *Config) {
	if cfg.AccessToken == "" && p.AccessToken != "" {
		cfg.AccessToken = p.AccessToken
	}
	if p.BackendURL != "" && os.Getenv("DSTU_BACKEND_URL") == "" {
		cfg.BackendURL = p.BackendURL
	}
	if p.WatchPath != "" && os.Getenv("DSTU_WATCH_PATH") == "" {
		cfg.WatchPath = p.WatchPath
	}
}
