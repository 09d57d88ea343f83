package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.OutputDir != "out" {
		t.Errorf("expected default OutputDir='out', got %q", cfg.OutputDir)
	}

	if cfg.Timezone != "Local" {
		t.Errorf("expected default Timezone='Local', got %q", cfg.Timezone)
	}

	if cfg.EmptyPageRetries != 2 {
		t.Errorf("expected default EmptyPageRetries=2, got %d", cfg.EmptyPageRetries)
	}

	if cfg.KeepGoing {
		t.Error("expected KeepGoing to default to false")
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	// Loading a non-existent file should return default config
	cfg, err := Load("/nonexistent/path/config.yaml")

	if err != nil {
		t.Fatalf("unexpected error loading non-existent file: %v", err)
	}

	if cfg.OutputDir != "out" {
		t.Errorf("expected default OutputDir='out', got %q", cfg.OutputDir)
	}

	// Defaults alone are not a runnable configuration
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation to fail without destinations")
	}
}

func TestSave_And_Load(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.OutputDir = "charts"
	cfg.HTML = true
	cfg.Destinations = []Destination{
		{GuildID: "1234", ChannelsToTrack: []string{"fan-art", "memes"}, OutputChannelName: "stats"},
	}

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.OutputDir != "charts" {
		t.Errorf("OutputDir: expected %q, got %q", "charts", loaded.OutputDir)
	}
	if !loaded.HTML {
		t.Error("HTML: expected true")
	}
	if len(loaded.Destinations) != 1 {
		t.Fatalf("expected 1 destination, got %d", len(loaded.Destinations))
	}

	d := loaded.Destinations[0]
	if d.GuildID != "1234" || d.OutputChannelName != "stats" {
		t.Errorf("unexpected destination: %+v", d)
	}
	if strings.Join(d.ChannelsToTrack, ",") != "fan-art,memes" {
		t.Errorf("ChannelsToTrack: got %v", d.ChannelsToTrack)
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("expected saved config to validate, got %v", err)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `destinations:
  - guild_id: "42"
    channels_to_track: [fan-art]
    output_channel_name: stats
output_dir: ""
empty_page_retries: -3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.OutputDir != "out" {
		t.Errorf("expected default OutputDir='out' for empty value, got %q", cfg.OutputDir)
	}
	if cfg.EmptyPageRetries != 0 {
		t.Errorf("expected negative retries to clamp to 0, got %d", cfg.EmptyPageRetries)
	}
	if cfg.Timezone != "Local" {
		t.Errorf("expected default Timezone, got %q", cfg.Timezone)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "destinations: [unclosed\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr []string
	}{
		{
			name: "valid",
			cfg: Config{Destinations: []Destination{
				{GuildID: "1", ChannelsToTrack: []string{"a"}, OutputChannelName: "out"},
			}},
		},
		{
			name:    "no destinations",
			cfg:     Config{},
			wantErr: []string{"no destinations"},
		},
		{
			name: "missing fields",
			cfg: Config{Destinations: []Destination{
				{GuildID: " "},
			}},
			wantErr: []string{"guild_id is required", "output_channel_name is required", "channels_to_track is empty"},
		},
		{
			name: "duplicate guild",
			cfg: Config{Destinations: []Destination{
				{GuildID: "1", ChannelsToTrack: []string{"a"}, OutputChannelName: "out"},
				{GuildID: "1", ChannelsToTrack: []string{"b"}, OutputChannelName: "out"},
			}},
			wantErr: []string{"listed twice"},
		},
		{
			name: "bad timezone",
			cfg: Config{
				Timezone: "Mars/Olympus_Mons",
				Destinations: []Destination{
					{GuildID: "1", ChannelsToTrack: []string{"a"}, OutputChannelName: "out"},
				},
			},
			wantErr: []string{"invalid timezone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("expected %q in %q", want, err.Error())
				}
			}
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Errorf("expected time.Local, got %v (%v)", loc, err)
	}

	cfg.Timezone = "UTC"
	loc, err = cfg.Location()
	if err != nil || loc.String() != "UTC" {
		t.Errorf("expected UTC, got %v (%v)", loc, err)
	}
}

func TestTrack(t *testing.T) {
	cfg := DefaultConfig()

	added := cfg.Track("99", "fan-art", "memes")
	if len(added) != 2 {
		t.Fatalf("expected 2 added, got %v", added)
	}

	added = cfg.Track("99", "memes", "clips", "clips")
	if len(added) != 1 || added[0] != "clips" {
		t.Errorf("expected only clips to be added, got %v", added)
	}

	d, ok := cfg.Destination("99")
	if !ok {
		t.Fatal("destination was not created")
	}
	if strings.Join(d.ChannelsToTrack, ",") != "fan-art,memes,clips" {
		t.Errorf("unexpected channels: %v", d.ChannelsToTrack)
	}
}

func TestResolveToken(t *testing.T) {
	t.Setenv(TokenEnv, "from-env")

	cfg := DefaultConfig()
	token, err := cfg.ResolveToken()
	if err != nil || token != "from-env" {
		t.Errorf("expected env token, got %q (%v)", token, err)
	}

	cfg.Token = "from-file"
	token, _ = cfg.ResolveToken()
	if token != "from-file" {
		t.Errorf("expected config token to win, got %q", token)
	}

	t.Setenv(TokenEnv, "")
	cfg.Token = ""
	if _, err := cfg.ResolveToken(); err == nil {
		t.Error("expected error without any token")
	}
}

func TestLoadEnv(t *testing.T) {
	found, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil || found {
		t.Errorf("missing .env should be ignored, got found=%v err=%v", found, err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CHANPLOT_TEST_VALUE=hello\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHANPLOT_TEST_VALUE", "")
	os.Unsetenv("CHANPLOT_TEST_VALUE")

	found, err = LoadEnv(path)
	if err != nil || !found {
		t.Fatalf("expected .env to load, got found=%v err=%v", found, err)
	}
	if got := os.Getenv("CHANPLOT_TEST_VALUE"); got != "hello" {
		t.Errorf("expected hello, got %q", got)
	}
}
