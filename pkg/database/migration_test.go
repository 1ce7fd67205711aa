package database

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_add_index.sql", "0001_sessions.sql", "README.md", "broken.sql"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "0003_dir.sql"), 0o700); err != nil {
		t.Fatal(err)
	}

	files, err := listMigrations(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(files))
	}
	if files[0].Version != "0001" || files[0].Name != "sessions" {
		t.Fatalf("unexpected first migration: %+v", files[0])
	}
	if files[1].Version != "0002" || files[1].Name != "add_index" {
		t.Fatalf("unexpected second migration: %+v", files[1])
	}
}

func TestListMigrationsMissingDir(t *testing.T) {
	if _, err := listMigrations(filepath.Join(t.TempDir(), "missing"), zap.NewNop()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
