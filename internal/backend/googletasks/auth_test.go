package googletasks

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"

	"gtodo/internal/config"
)

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.TokenFile)
	want := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}

	if err := SaveToken(path, want); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	got, err := LoadToken(path)
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if got.RefreshToken != "refresh" || got.AccessToken != "access" {
		t.Errorf("expected stored token, got %+v", got)
	}
}

func TestLoadToken_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.TokenFile)
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadToken(path); err == nil {
		t.Error("expected error for invalid token file")
	}
}

func TestOAuthConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Dir: dir}

	if _, err := OAuthConfig(cfg); err == nil {
		t.Error("expected error without oauth_client.json")
	}

	client := `{"installed":{"client_id":"id","client_secret":"secret","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`
	if err := os.WriteFile(cfg.OAuthClientPath(), []byte(client), 0600); err != nil {
		t.Fatal(err)
	}
	oc, err := OAuthConfig(cfg)
	if err != nil {
		t.Fatalf("OAuthConfig: %v", err)
	}
	if oc.ClientID != "id" {
		t.Errorf("expected client id %q, got %q", "id", oc.ClientID)
	}
	if len(oc.Scopes) != 1 || oc.Scopes[0] != Scope {
		t.Errorf("expected scope %q, got %v", Scope, oc.Scopes)
	}
}
