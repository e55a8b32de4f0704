package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DOSASSET_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreDriver != DriverSQLite || cfg.Port != "8080" || cfg.Actor != "admin" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWTExpireHours != 24 || cfg.RateLimitPerMinute != 120 {
		t.Errorf("unexpected numeric defaults: %+v", cfg)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "dosasset.yaml")
	data := []byte("store_driver: memory\nport: \"9090\"\nexport_dir: /tmp/exports\ncors_allowed_origins:\n  - http://a.example\n")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOSASSET_CONFIG", path)
	t.Setenv("PORT", "7070")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreDriver != DriverMemory {
		t.Errorf("StoreDriver = %q, want memory", cfg.StoreDriver)
	}
	if cfg.Port != "7070" {
		t.Errorf("Port = %q, env should win over file", cfg.Port)
	}
	if cfg.ExportDir != "/tmp/exports" {
		t.Errorf("ExportDir = %q", cfg.ExportDir)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://a.example" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("DOSASSET_CONFIG", "")
	t.Setenv("EXPORT_CRON", "")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("EXPORT_CRON=@daily\n"), 0600); err != nil {
		t.Fatal(err)
	}
	// godotenv sets the variable process-wide; t.Setenv above restores it afterwards.
	os.Unsetenv("EXPORT_CRON")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ExportCron != "@daily" {
		t.Errorf("ExportCron = %q, want @daily", cfg.ExportCron)
	}
}

func TestLoad_InvalidDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DOSASSET_CONFIG", "")
	t.Setenv("STORE_DRIVER", "mongo")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestValidate_ProdRequiresSecret(t *testing.T) {
	cfg := Defaults()
	cfg.Env = "prod"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default secret in prod")
	}
	cfg.JWTSecret = "a-real-secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_ExportCron(t *testing.T) {
	cfg := Defaults()
	for _, spec := range []string{"@daily", "@every 1h", "0 2 * * *"} {
		cfg.ExportCron = spec
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate(%q): %v", spec, err)
		}
	}
	cfg.ExportCron = "not a schedule"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for bad cron expression")
	}
}

func TestParseCORSOrigins(t *testing.T) {
	got := parseCORSOrigins(" http://a , ,http://b")
	if len(got) != 2 || got[0] != "http://a" || got[1] != "http://b" {
		t.Errorf("parseCORSOrigins = %v", got)
	}
	if parseCORSOrigins("") != nil {
		t.Error("expected nil for empty input")
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
