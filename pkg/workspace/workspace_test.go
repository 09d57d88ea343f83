package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_UsesXDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	w, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	want := filepath.Join(dir, "chanplot", "config.yaml")
	if w.ConfigPath != want {
		t.Errorf("ConfigPath = %q, want %q", w.ConfigPath, want)
	}
	if w.EnvPath != filepath.Join(dir, "chanplot", ".env") {
		t.Errorf("unexpected EnvPath %q", w.EnvPath)
	}
}

func TestWorkspace_OutputPath(t *testing.T) {
	w := &Workspace{WorkDir: "/work"}

	tests := []struct {
		name     string
		dir      string
		expected string
	}{
		{"relative", "out", "/work/out"},
		{"nested", "charts/weekly", "/work/charts/weekly"},
		{"absolute", "/tmp/charts/", "/tmp/charts"},
		{"empty falls back", "", "/work/out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.OutputPath(tt.dir); got != tt.expected {
				t.Errorf("OutputPath(%q) = %q, want %q", tt.dir, got, tt.expected)
			}
		})
	}
}

func TestWorkspace_EnvFiles(t *testing.T) {
	work := t.TempDir()
	conf := t.TempDir()
	w := &Workspace{WorkDir: work, ConfigDir: conf, EnvPath: filepath.Join(conf, ".env")}

	if files := w.EnvFiles(); len(files) != 0 {
		t.Errorf("expected no env files, got %v", files)
	}

	for _, f := range []string{filepath.Join(work, ".env"), w.EnvPath} {
		if err := os.WriteFile(f, []byte("X=1\n"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	files := w.EnvFiles()
	if len(files) != 2 || files[0] != filepath.Join(work, ".env") {
		t.Errorf("expected working directory .env first, got %v", files)
	}
}

func TestWorkspace_EnsureConfigDir(t *testing.T) {
	w := &Workspace{ConfigDir: filepath.Join(t.TempDir(), "a", "b")}

	if err := w.EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir() error: %v", err)
	}
	if info, err := os.Stat(w.ConfigDir); err != nil || !info.IsDir() {
		t.Error("config directory was not created")
	}
}
