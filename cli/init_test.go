package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gear6io/sift/server/config"
)

func TestRunInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "project")

	initCmd.SetContext(context.Background())
	if err := runInit(initCmd, []string{target}); err != nil {
		t.Fatalf("runInit failed: %v", err)
	}

	configPath := filepath.Join(target, "sift.yml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Expected a loadable config at %s: %v", configPath, err)
	}
	if cfg.Storage.DataPath != filepath.Join(target, "data") {
		t.Errorf("Expected data path under project dir, got %q", cfg.Storage.DataPath)
	}

	for _, sub := range []string{"data", "logs"} {
		if _, err := os.Stat(filepath.Join(target, sub)); err != nil {
			t.Errorf("Expected %s directory: %v", sub, err)
		}
	}

	// Running twice must not clobber an existing config
	if err := runInit(initCmd, []string{target}); err == nil {
		t.Error("Expected error when config already exists")
	}
}
