package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration. It is a flat YAML
// file; a default is written on first run.
type Config struct {
	// Calendar is the meetup calendar source: a local .ics path or an
	// http(s) URL.
	Calendar string `yaml:"calendar" json:"calendar"`

	// Store is the JSON events file the importer appends to.
	Store string `yaml:"store" json:"store"`

	// Timezone is an optional IANA zone (e.g. "Europe/London") event
	// times are converted into for display. Empty keeps each event's own
	// zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// RefreshCron is a cron-style schedule string (e.g. "0 6 * * *") for
	// repeated imports. Empty runs a single import and exits.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// HorizonDays is how far ahead recurring events are materialized.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`

	// CacheDir holds the conditional-GET cache used for calendar URLs.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// OrgPrefix is stripped from the front of descriptions that open
	// with the organization name; AboutMarker truncates the rest. Both
	// are organizational strings, not universal logic.
	OrgPrefix   string `yaml:"org_prefix" json:"org_prefix"`
	AboutMarker string `yaml:"about_marker" json:"about_marker"`

	// DefaultBanner is the image path used when an event page yields no
	// banner; BannerAlt is the alt text stored with every banner.
	DefaultBanner string `yaml:"default_banner" json:"default_banner"`
	BannerAlt     string `yaml:"banner_alt" json:"banner_alt"`

	// LinkTitle / LinkTarget fill the web link block of every event.
	LinkTitle  string `yaml:"link_title" json:"link_title"`
	LinkTarget string `yaml:"link_target" json:"link_target"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Calendar:      "files/meetup.ics",
		Store:         "data/events.json",
		Timezone:      "",
		RefreshCron:   "",
		HorizonDays:   90,
		CacheDir:      "./var/ics-cache",
		OrgPrefix:     "Women Coding Community",
		AboutMarker:   "About Women Coding Community",
		DefaultBanner: "/assets/images/events/default.jpg",
		BannerAlt:     "WCC Meetup event image",
		LinkTitle:     "View meetup event",
		LinkTarget:    "_target",
	}
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly. Timezone and
// RefreshCron stay as given: empty is meaningful for both.
func (c *Config) Normalize() {
	if c.Calendar == "" {
		c.Calendar = "files/meetup.ics"
	}
	if c.Store == "" {
		c.Store = "data/events.json"
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = 90
	}
	if c.CacheDir == "" {
		c.CacheDir = "./var/ics-cache"
	}
	if c.OrgPrefix == "" {
		c.OrgPrefix = "Women Coding Community"
	}
	if c.AboutMarker == "" {
		c.AboutMarker = "About Women Coding Community"
	}
	if c.DefaultBanner == "" {
		c.DefaultBanner = "/assets/images/events/default.jpg"
	}
	if c.BannerAlt == "" {
		c.BannerAlt = "WCC Meetup event image"
	}
	if c.LinkTitle == "" {
		c.LinkTitle = "View meetup event"
	}
	if c.LinkTarget == "" {
		c.LinkTarget = "_target"
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".meetupsync-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Set permissions to 0600 on temp file before rename.
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	// Rename over the target path.
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the
// package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
