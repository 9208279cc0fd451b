package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetConfigValuePrecedence(t *testing.T) {
	t.Setenv("BREADCRUMBS_TEST_KEY", "from-env")

	// Flag wins over env.
	if got := getConfigValue("from-flag", "BREADCRUMBS_TEST_KEY", "default"); got != "from-flag" {
		t.Errorf("got %q, want from-flag", got)
	}
	// Env wins over default.
	if got := getConfigValue("", "BREADCRUMBS_TEST_KEY", "default"); got != "from-env" {
		t.Errorf("got %q, want from-env", got)
	}
	// Default when nothing else set.
	if got := getConfigValue("", "BREADCRUMBS_TEST_MISSING", "default"); got != "default" {
		t.Errorf("got %q, want default", got)
	}
}

func TestGetIntAndFloatConfigValue(t *testing.T) {
	if got := getIntConfigValue("42", "UNUSED", 7); got != 42 {
		t.Errorf("int: got %d, want 42", got)
	}
	if got := getIntConfigValue("not-a-number", "UNUSED", 7); got != 7 {
		t.Errorf("int fallback: got %d, want 7", got)
	}
	if got := getFloatConfigValue("2.5", "UNUSED", 1); got != 2.5 {
		t.Errorf("float: got %v, want 2.5", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nBREADCRUMBS_ENVFILE_A=hello\nBREADCRUMBS_ENVFILE_B=\"quoted\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	// Pre-set values are not overwritten by the file.
	t.Setenv("BREADCRUMBS_ENVFILE_B", "preset")

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("BREADCRUMBS_ENVFILE_A") })

	if got := os.Getenv("BREADCRUMBS_ENVFILE_A"); got != "hello" {
		t.Errorf("A: got %q, want hello", got)
	}
	if got := os.Getenv("BREADCRUMBS_ENVFILE_B"); got != "preset" {
		t.Errorf("B: got %q, want preset", got)
	}
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/default/path")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != "/default/path" {
		t.Errorf("got %q, want /default/path", got)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	got, err = expandPath("~/data", "")
	if err != nil {
		t.Fatalf("expandPath tilde: %v", err)
	}
	if got != filepath.Join(home, "data") {
		t.Errorf("got %q, want under %q", got, home)
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		App:       AppConfig{Environment: "development"},
		Logger:    LoggerConfig{Level: "info"},
		Data:      DataConfig{BasePath: "/tmp/breadcrumbs"},
		Server:    ServerConfig{Port: "8080", ReadTimeout: 15 * time.Second},
		RateLimit: RateLimitConfig{WriteRPS: 5, WriteBurst: 10},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bad := *valid
	bad.App.Environment = "testing"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for bad environment")
	}

	bad = *valid
	bad.Logger.Level = "loud"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for bad log level")
	}

	bad = *valid
	bad.RateLimit.WriteRPS = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero rate limit")
	}
}
