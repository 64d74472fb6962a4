package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Output.Folder != "" {
		t.Errorf("expected empty output folder, got %s", cfg.Output.Folder)
	}
	if cfg.Output.Minimal {
		t.Error("expected minimal to be false by default")
	}
	if cfg.Output.Workers != 1 {
		t.Errorf("expected 1 worker, got %d", cfg.Output.Workers)
	}

	if cfg.Folder.Names.Aperture != "aperture" {
		t.Errorf("expected aperture folder name, got %s", cfg.Folder.Names.Aperture)
	}
	if cfg.Folder.Names.SceneDynamic != "scene/dynamic" {
		t.Errorf("expected scene/dynamic folder name, got %s", cfg.Folder.Names.SceneDynamic)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
output:
  folder: /tmp/scene
  minimal: true
  workers: 4

folder:
  names:
    aperture: openings

logging:
  level: debug
  log_file: compile.log
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("loadFromFile failed: %v", err)
	}

	if cfg.Output.Folder != "/tmp/scene" {
		t.Errorf("expected output folder /tmp/scene, got %s", cfg.Output.Folder)
	}
	if !cfg.Output.Minimal {
		t.Error("expected minimal true")
	}
	if cfg.Output.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Output.Workers)
	}
	if cfg.Folder.Names.Aperture != "openings" {
		t.Errorf("expected aperture override 'openings', got %s", cfg.Folder.Names.Aperture)
	}
	// untouched fields keep their defaults
	if cfg.Folder.Names.Scene != "scene" {
		t.Errorf("expected scene default to survive merge, got %s", cfg.Folder.Names.Scene)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "compile.log" {
		t.Errorf("expected log file compile.log, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadWithFlags(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "radfolder.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  workers: 4\n"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	rest := ParseFlags([]string{"-config", configPath, "-minimal", "-o", "/tmp/scene", "model.json"})
	if len(rest) != 1 || rest[0] != "model.json" {
		t.Fatalf("expected [model.json] positionals, got %v", rest)
	}
	if ConfigPath() != configPath {
		t.Errorf("expected explicit config path %s, got %s", configPath, ConfigPath())
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Workers != 4 {
		t.Errorf("expected 4 workers from file, got %d", cfg.Output.Workers)
	}
	// flags take priority over the file
	if !cfg.Output.Minimal {
		t.Error("expected minimal flag override")
	}
	if cfg.Output.Folder != "/tmp/scene" {
		t.Errorf("expected output folder flag override, got %s", cfg.Output.Folder)
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sub", "config.yaml")

	cfg := Default()
	cfg.Output.Minimal = true
	cfg.Output.Workers = 3
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reading saved config: %v", err)
	}
	if !loaded.Output.Minimal {
		t.Error("expected minimal to round-trip")
	}
	if loaded.Output.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", loaded.Output.Workers)
	}
}
