package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// TokenEnv is the environment variable holding the bot token
const TokenEnv = "DISCORD_TOKEN"

// Destination is one guild to report on and where to post the charts
type Destination struct {
	GuildID           string   `yaml:"guild_id"`
	ChannelsToTrack   []string `yaml:"channels_to_track"`
	OutputChannelName string   `yaml:"output_channel_name"`
}

type Config struct {
	Destinations []Destination `yaml:"destinations"`

	// Output
	OutputDir string `yaml:"output_dir"`
	HTML      bool   `yaml:"html"`

	// Bucketing
	Timezone string `yaml:"timezone"`

	// History paging
	EmptyPageRetries int  `yaml:"empty_page_retries"`
	KeepGoing        bool `yaml:"keep_going"`

	// UI Settings
	ColorTheme string `yaml:"color_theme"`

	// Token is normally read from DISCORD_TOKEN; a value here takes precedence
	Token string `yaml:"token,omitempty"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		Destinations:     []Destination{},
		OutputDir:        "out",
		HTML:             false,
		Timezone:         "Local",
		EmptyPageRetries: 2,
		KeepGoing:        false,
		ColorTheme:       "auto",
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// A missing file yields defaults; Validate reports what is absent
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Destinations == nil {
		cfg.Destinations = []Destination{}
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "out"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	if cfg.EmptyPageRetries < 0 {
		cfg.EmptyPageRetries = 0
	}
	if cfg.ColorTheme == "" {
		cfg.ColorTheme = "auto"
	}

	return cfg, nil
}

// Validate reports every problem that would make a report run meaningless
func (c *Config) Validate() error {
	var errs []error

	if len(c.Destinations) == 0 {
		errs = append(errs, errors.New("no destinations configured"))
	}

	seen := make(map[string]bool)
	for i, d := range c.Destinations {
		where := fmt.Sprintf("destinations[%d]", i)
		if strings.TrimSpace(d.GuildID) == "" {
			errs = append(errs, fmt.Errorf("%s: guild_id is required", where))
		} else if seen[d.GuildID] {
			errs = append(errs, fmt.Errorf("%s: guild %s listed twice", where, d.GuildID))
		}
		seen[d.GuildID] = true

		if strings.TrimSpace(d.OutputChannelName) == "" {
			errs = append(errs, fmt.Errorf("%s: output_channel_name is required", where))
		}
		if len(d.ChannelsToTrack) == 0 {
			errs = append(errs, fmt.Errorf("%s: channels_to_track is empty", where))
		}
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Location resolves the timezone used for day buckets
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Destination returns the destination for a guild
func (c *Config) Destination(guildID string) (*Destination, bool) {
	for i := range c.Destinations {
		if c.Destinations[i].GuildID == guildID {
			return &c.Destinations[i], true
		}
	}
	return nil, false
}

// Track adds channel names to a guild's destination, creating it when
// missing. It returns the names that were not tracked before.
func (c *Config) Track(guildID string, names ...string) []string {
	dest, ok := c.Destination(guildID)
	if !ok {
		c.Destinations = append(c.Destinations, Destination{GuildID: guildID})
		dest = &c.Destinations[len(c.Destinations)-1]
	}

	tracked := make(map[string]bool, len(dest.ChannelsToTrack))
	for _, n := range dest.ChannelsToTrack {
		tracked[n] = true
	}

	var added []string
	for _, n := range names {
		if tracked[n] {
			continue
		}
		tracked[n] = true
		dest.ChannelsToTrack = append(dest.ChannelsToTrack, n)
		added = append(added, n)
	}
	return added
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveToken returns the configured token, falling back to DISCORD_TOKEN
func (c *Config) ResolveToken() (string, error) {
	if c.Token != "" {
		return c.Token, nil
	}
	if token := os.Getenv(TokenEnv); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("expected a token in %s or the config file", TokenEnv)
}

// LoadEnv reads .env files into the environment without overriding
// variables that are already set. It reports whether a file was found.
func LoadEnv(files ...string) (bool, error) {
	err := godotenv.Load(files...)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to read .env: %w", err)
}
