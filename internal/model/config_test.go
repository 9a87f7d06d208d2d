package model

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

const sampleConfig = `
github:
  user: alice
  password: hunter2
gitlab:
  token: tok123
projects:
  zebra:
    github: https://github.com/alice/zebra
    pypi: https://pypi.org/project/zebra
  apple:
    local: /home/alice/src/apple
  mango: {}
`

func TestConfigUnmarshal_PreservesProjectOrder(t *testing.T) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(sampleConfig), cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []string{"zebra", "apple", "mango"}
	if len(cfg.Projects) != len(want) {
		t.Fatalf("expected %d projects, got %d", len(want), len(cfg.Projects))
	}
	for i, key := range want {
		if cfg.Projects[i].Key != key {
			t.Errorf("project %d: expected %q, got %q", i, key, cfg.Projects[i].Key)
		}
	}
}

func TestConfigUnmarshal_Sources(t *testing.T) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(sampleConfig), cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	zebra := cfg.Projects[0]
	if zebra.Sources["github"] != "https://github.com/alice/zebra" {
		t.Errorf("unexpected github identifier: %q", zebra.Sources["github"])
	}
	if len(cfg.Projects[2].Sources) != 0 {
		t.Errorf("expected mango to have no sources, got %v", cfg.Projects[2].Sources)
	}
}

func TestConfigCredential(t *testing.T) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(sampleConfig), cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := cfg.Credential("github", "user"); got != "alice" {
		t.Errorf("expected alice, got %q", got)
	}
	if got := cfg.Credential("gitlab", "token"); got != "tok123" {
		t.Errorf("expected tok123, got %q", got)
	}
	if got := cfg.Credential("travis", "token"); got != "" {
		t.Errorf("expected empty for absent credentials, got %q", got)
	}

	cfg.SetCredential("github", "password", "env-override")
	if got := cfg.Credential("github", "password"); got != "env-override" {
		t.Errorf("expected override, got %q", got)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "projects.yml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Projects) != 3 {
		t.Errorf("expected 3 projects, got %d", len(cfg.Projects))
	}
	// Defaults survive file decoding.
	if cfg.HTTP.Timeout == 0 {
		t.Error("expected default HTTP timeout to survive")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSelectConfig_ExplicitWins(t *testing.T) {
	path, err := SelectConfig("/some/explicit/path.yml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/some/explicit/path.yml" {
		t.Errorf("expected explicit path, got %q", path)
	}
}

func TestSelectConfig_NothingFound(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	if _, err := SelectConfig(""); err == nil {
		t.Error("expected error when no config file exists")
	}
}
