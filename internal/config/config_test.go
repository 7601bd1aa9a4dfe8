package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Render.FrameCount != 60 {
		t.Fatalf("frame_count = %d, want 60", cfg.Render.FrameCount)
	}
	if cfg.Render.FrameRate != 12.0 {
		t.Fatalf("frame_rate = %v, want 12.0", cfg.Render.FrameRate)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("exists should be false for a missing file")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Tools.Gifski != "gifski" {
		t.Fatalf("gifski tool = %q", cfg.Tools.Gifski)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`staging_dir = "` + filepath.Join(dir, "staging") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		"[render]",
		"frame_count = 12",
		"frame_rate = 24.0",
		"[tools]",
		`mesh_thumbnail = "/opt/mesh-thumbnail"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Render.FrameCount != 12 || cfg.Render.FrameRate != 24.0 {
		t.Fatalf("render overrides not applied: %+v", cfg.Render)
	}
	if cfg.Tools.MeshThumbnail != "/opt/mesh-thumbnail" {
		t.Fatalf("tool override not applied: %q", cfg.Tools.MeshThumbnail)
	}
	// Unset values keep defaults.
	if cfg.Tools.Gifski != "gifski" {
		t.Fatalf("gifski default lost: %q", cfg.Tools.Gifski)
	}
}

func TestLoadRejectsInvalidRender(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"zero frames":    "[render]\nframe_count = 0\n",
		"negative rate":  "[render]\nframe_rate = -1.0\n",
		"steep tilt":     "[render]\ntilt_degrees = 120.0\n",
		"bad background": "[render]\nbackground = \"red\"\n",
		"no concurrency": "[render]\nconcurrency = 0\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, strings.ReplaceAll(name, " ", "-")+".toml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, _, _, err := Load(path); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestTokenEnvFallback(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Discord.Token != "env-token" {
		t.Fatalf("token = %q, want env fallback", cfg.Discord.Token)
	}
}

func TestTokenConfigWinsOverEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	cfg := Default()
	cfg.Discord.Token = "file-token"
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Discord.Token != "file-token" {
		t.Fatalf("token = %q, want file value", cfg.Discord.Token)
	}
}

func TestNormalizeStripsBackgroundHash(t *testing.T) {
	cfg := Default()
	cfg.Render.Background = "#1a2b3c"
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Render.Background != "1a2b3c" {
		t.Fatalf("background = %q", cfg.Render.Background)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.StagingDir = filepath.Join(dir, "staging")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, d := range []string{cfg.Paths.StagingDir, cfg.Paths.LogDir} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %q not created: %v", d, err)
		}
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "frame_count") {
		t.Fatal("sample config missing render keys")
	}
	// The sample must itself be loadable.
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}
