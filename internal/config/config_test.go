// ABOUTME: Tests for exercises configuration management.
// ABOUTME: Covers defaults, file and env overrides, save, and path expansion.
package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/exercises/internal/storage"
)

func withConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	withConfigHome(t)

	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}

	if cfg.Store.Driver != "sqlite" {
		t.Errorf("Store.Driver = %q, want sqlite", cfg.Store.Driver)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.API.Limit != 50 || cfg.API.Offset != 1050 {
		t.Errorf("unexpected paging defaults: limit %d offset %d", cfg.API.Limit, cfg.API.Offset)
	}
	if cfg.API.Status != "Published" {
		t.Errorf("API.Status = %q, want Published", cfg.API.Status)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("API.Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.ArchiveEnabled() {
		t.Error("archive should be disabled by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := withConfigHome(t)

	configDir := filepath.Join(dir, "exercises")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	content := `store:
  driver: postgres
  dsn: postgres://localhost/exercises
api:
  limit: 10
  timeout: 5s
archive:
  driver: fs
  dir: /tmp/pages
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Store.Driver != "postgres" || cfg.Store.DSN != "postgres://localhost/exercises" {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.API.Limit != 10 || cfg.API.Timeout != 5*time.Second {
		t.Errorf("unexpected api config: %+v", cfg.API)
	}
	if cfg.API.Offset != DefaultOffset {
		t.Errorf("unset keys should keep defaults, got offset %d", cfg.API.Offset)
	}
	if !cfg.ArchiveEnabled() || cfg.Archive.Dir != "/tmp/pages" {
		t.Errorf("unexpected archive config: %+v", cfg.Archive)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	withConfigHome(t)
	t.Setenv("EXERCISES_API_STATUS", "Draft")
	t.Setenv("EXERCISES_ARCHIVE_DRIVER", "memory")
	t.Setenv("EXERCISES_LOG_LEVEL", "debug")

	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.API.Status != "Draft" {
		t.Errorf("API.Status = %q, want Draft", cfg.API.Status)
	}
	if cfg.Archive.Driver != "memory" {
		t.Errorf("Archive.Driver = %q, want memory", cfg.Archive.Driver)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := withConfigHome(t)

	configDir := filepath.Join(dir, "exercises")
	_ = os.MkdirAll(configDir, 0755)
	_ = os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("store: [unclosed"), 0600)

	if _, err := Load(New()); err == nil {
		t.Error("Expected error for invalid YAML config")
	}
}

func TestSaveAndLoad(t *testing.T) {
	withConfigHome(t)

	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	cfg.Store.DSN = "/tmp/exercises-test.db"
	cfg.API.Limit = 25
	cfg.Archive.Driver = "badger"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load(New())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Store.DSN != "/tmp/exercises-test.db" {
		t.Errorf("DSN mismatch: got %q", loaded.Store.DSN)
	}
	if loaded.API.Limit != 25 {
		t.Errorf("Limit mismatch: got %d", loaded.API.Limit)
	}
	if loaded.API.Timeout != DefaultTimeout {
		t.Errorf("Timeout mismatch: got %v", loaded.API.Timeout)
	}
	if loaded.Archive.Driver != "badger" {
		t.Errorf("Archive.Driver mismatch: got %q", loaded.Archive.Driver)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "nonexistent"))

	cfg := &Config{Store: StoreConfig{Driver: "sqlite"}}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "nonexistent", "exercises")); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestOpenStore(t *testing.T) {
	withConfigHome(t)

	cfg := &Config{Store: StoreConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "ex.db")}}
	db, err := cfg.OpenStore(context.Background())
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	defer db.Close()

	if db.Dialect() != "sqlite" {
		t.Errorf("expected sqlite dialect, got %q", db.Dialect())
	}
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Driver: "oracle"}}
	if _, err := cfg.OpenStore(context.Background()); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestOpenArchive(t *testing.T) {
	cfg := &Config{Archive: ArchiveConfig{Driver: "fs", Dir: t.TempDir()}}
	store, err := cfg.OpenArchive(context.Background())
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	defer store.Close()

	if store.Driver() != "fs" {
		t.Errorf("expected fs driver, got %q", store.Driver())
	}
}

func TestOpenArchiveBadgerDefaultDirPersists(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	ctx := context.Background()
	cfg := &Config{Archive: ArchiveConfig{Driver: "badger"}}

	store, err := cfg.OpenArchive(ctx)
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	if err := store.Put(ctx, "page", []byte(`{"results":[]}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(storage.DataDir(), "pages-badger")); err != nil {
		t.Fatalf("expected badger directory under the data dir: %v", err)
	}

	reopened, err := cfg.OpenArchive(ctx)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	data, err := reopened.Get(ctx, "page")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if string(data) != `{"results":[]}` {
		t.Errorf("unexpected page after reopen: %s", data)
	}
}

func TestOpenArchiveDisabled(t *testing.T) {
	cfg := &Config{}
	if _, err := cfg.OpenArchive(context.Background()); err == nil {
		t.Error("expected error when no archive driver is configured")
	}
}

func TestExpandPathEmpty(t *testing.T) {
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q, want %q", got, "")
	}
}

func TestExpandPathAbsolute(t *testing.T) {
	if got := ExpandPath("/tmp/foo"); got != "/tmp/foo" {
		t.Errorf("ExpandPath(\"/tmp/foo\") = %q, want %q", got, "/tmp/foo")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	got := ExpandPath("~")
	if got != home {
		t.Errorf("ExpandPath(\"~\") = %q, want %q", got, home)
	}
}

func TestExpandPathTildeSlash(t *testing.T) {
	home, _ := os.UserHomeDir()

	got := ExpandPath("~/data/exercises.db")
	want := filepath.Join(home, "data/exercises.db")
	if got != want {
		t.Errorf("ExpandPath(\"~/data/exercises.db\") = %q, want %q", got, want)
	}
}

func TestExpandPathRelative(t *testing.T) {
	if got := ExpandPath("data/exercises.db"); got != "data/exercises.db" {
		t.Errorf("ExpandPath(\"data/exercises.db\") = %q, want %q", got, "data/exercises.db")
	}
}

func TestLoadExpandsTilde(t *testing.T) {
	withConfigHome(t)
	t.Setenv("EXERCISES_STORE_DSN", "~/exercises.db")
	home, _ := os.UserHomeDir()

	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if want := filepath.Join(home, "exercises.db"); cfg.Store.DSN != want {
		t.Errorf("Store.DSN = %q, want %q", cfg.Store.DSN, want)
	}
}

func TestGetConfigPath(t *testing.T) {
	dir := withConfigHome(t)

	want := filepath.Join(dir, "exercises", "config.yaml")
	if got := GetConfigPath(); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}
