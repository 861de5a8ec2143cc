package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.DestDir != "textures" {
		t.Errorf("expected default dest dir 'textures', got %s", cfg.DestDir)
	}
	if cfg.Workers != 10 {
		t.Errorf("expected default workers 10, got %d", cfg.Workers)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected default timeout 10s, got %v", cfg.Timeout)
	}
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
dest_dir: assets
manifest: custom.yaml
base_url: https://mirror.example.com/textures
workers: 4
timeout: 30s
progress: true
`
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.DestDir != "assets" {
		t.Errorf("expected dest dir 'assets', got %s", cfg.DestDir)
	}
	if cfg.ManifestPath != "custom.yaml" {
		t.Errorf("expected manifest 'custom.yaml', got %s", cfg.ManifestPath)
	}
	if cfg.BaseURL != "https://mirror.example.com/textures" {
		t.Errorf("unexpected base URL %s", cfg.BaseURL)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected workers 4, got %d", cfg.Workers)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.Timeout)
	}
	if !cfg.Progress {
		t.Error("expected progress true")
	}
}

func TestLoadFromYAMLAppliesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("workers: 2\n"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.DestDir != "textures" {
		t.Errorf("expected default dest dir, got %s", cfg.DestDir)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected default timeout, got %v", cfg.Timeout)
	}
	if cfg.Workers != 2 {
		t.Errorf("expected workers 2, got %d", cfg.Workers)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TEXFETCH_DEST_DIR", "downloads")
	t.Setenv("TEXFETCH_WORKERS", "8")
	t.Setenv("TEXFETCH_TIMEOUT", "5s")
	t.Setenv("TEXFETCH_PROGRESS", "1")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.DestDir != "downloads" {
		t.Errorf("expected dest dir 'downloads', got %s", cfg.DestDir)
	}
	if cfg.Workers != 8 {
		t.Errorf("expected workers 8, got %d", cfg.Workers)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.Timeout)
	}
	if !cfg.Progress {
		t.Error("expected progress true")
	}
}

func TestLoadFromEnvInvalid(t *testing.T) {
	t.Setenv("TEXFETCH_WORKERS", "many")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err == nil {
		t.Error("expected error for invalid TEXFETCH_WORKERS")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  Config{DestDir: "textures", Workers: 10, Timeout: 10 * time.Second},
		},
		{
			name:    "missing dest dir",
			cfg:     Config{Workers: 10, Timeout: 10 * time.Second},
			wantErr: true,
		},
		{
			name:    "zero workers",
			cfg:     Config{DestDir: "textures", Timeout: 10 * time.Second},
			wantErr: true,
		},
		{
			name:    "zero timeout",
			cfg:     Config{DestDir: "textures", Workers: 10},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := Default()

	merged := base.Merge(Config{Workers: 2, BaseURL: "https://mirror.example.com"})

	if merged.DestDir != "textures" {
		t.Errorf("expected DestDir preserved, got %s", merged.DestDir)
	}
	if merged.Timeout != 10*time.Second {
		t.Errorf("expected Timeout preserved, got %v", merged.Timeout)
	}
	if merged.Workers != 2 {
		t.Errorf("expected Workers overridden to 2, got %d", merged.Workers)
	}
	if merged.BaseURL != "https://mirror.example.com" {
		t.Errorf("expected BaseURL overridden, got %s", merged.BaseURL)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}
