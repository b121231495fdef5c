package credentials

import (
	"os"
	"path/filepath"
	"testing"
)

func setupPath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "creds", "credentials.json")
	t.Setenv(PathEnvVar, path)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	return path
}

func TestLoadMissingReturnsEmpty(t *testing.T) {
	setupPath(t)
	creds, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(creds.APIKeys) != 0 {
		t.Errorf("expected no keys, got %v", creds.APIKeys)
	}
}

func TestSetAndGet(t *testing.T) {
	path := setupPath(t)

	if err := SetAPIKey("openai", "sk-stored"); err != nil {
		t.Fatalf("SetAPIKey: %v", err)
	}
	if got := GetAPIKey("openai"); got != "sk-stored" {
		t.Errorf("GetAPIKey = %q, want sk-stored", got)
	}
	if Source("openai") != "stored" {
		t.Errorf("Source = %q, want stored", Source("openai"))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("permissions = %v, want 0600", info.Mode().Perm())
	}
}

func TestEnvWins(t *testing.T) {
	setupPath(t)
	if err := SetAPIKey("google", "stored"); err != nil {
		t.Fatalf("SetAPIKey: %v", err)
	}
	t.Setenv("GOOGLE_API_KEY", "from-env")
	if got := GetAPIKey("google"); got != "from-env" {
		t.Errorf("GetAPIKey = %q, want from-env", got)
	}
	if Source("google") != "env" {
		t.Errorf("Source = %q, want env", Source("google"))
	}
}

func TestRemove(t *testing.T) {
	setupPath(t)
	_ = SetAPIKey("openai", "sk")
	if err := RemoveAPIKey("openai"); err != nil {
		t.Fatalf("RemoveAPIKey: %v", err)
	}
	if got := GetAPIKey("openai"); got != "" {
		t.Errorf("expected key removed, got %q", got)
	}
}

func TestUnknownProvider(t *testing.T) {
	setupPath(t)
	if err := SetAPIKey("acme", "k"); err == nil {
		t.Error("expected error for unknown provider")
	}
	if Known("acme") {
		t.Error("acme should not be known")
	}
	if len(Providers()) != 4 {
		t.Errorf("Providers() = %v", Providers())
	}
}
