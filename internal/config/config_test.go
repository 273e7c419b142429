package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ConfirmOverwrite != ConfirmPrompt {
		t.Errorf("ConfirmOverwrite = %q, want prompt", cfg.ConfirmOverwrite)
	}
	if cfg.OnAutoSaveFailure != AutoSaveProceed {
		t.Errorf("OnAutoSaveFailure = %q, want proceed", cfg.OnAutoSaveFailure)
	}
	if cfg.Notifications.Enabled {
		t.Error("notifications should default to disabled")
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ConfirmOverwrite != ConfirmPrompt {
		t.Errorf("ConfirmOverwrite = %q, want prompt", cfg.ConfirmOverwrite)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
confirm_overwrite: always
on_auto_save_failure: abort
notifications:
  enabled: true
  on_switch: true
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ConfirmOverwrite != ConfirmAlways {
		t.Errorf("ConfirmOverwrite = %q, want always", cfg.ConfirmOverwrite)
	}
	if cfg.OnAutoSaveFailure != AutoSaveAbort {
		t.Errorf("OnAutoSaveFailure = %q, want abort", cfg.OnAutoSaveFailure)
	}
	if !cfg.Notifications.Enabled {
		t.Error("notifications should be enabled")
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "confirm_overwrite: never\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ConfirmOverwrite != ConfirmNever {
		t.Errorf("ConfirmOverwrite = %q, want never", cfg.ConfirmOverwrite)
	}
	if cfg.OnAutoSaveFailure != AutoSaveProceed {
		t.Errorf("OnAutoSaveFailure = %q, want the proceed default", cfg.OnAutoSaveFailure)
	}
}

func TestLoad_InvalidPolicy(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "confirm_overwrite: sometimes\n")

	if _, err := Load(dir); err == nil {
		t.Fatal("invalid policy value accepted")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "confirm_overwrite: [unclosed\n")

	if _, err := Load(dir); err == nil {
		t.Fatal("malformed yaml accepted")
	}
}

func TestValidate_FillsEmptyValues(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.ConfirmOverwrite != ConfirmPrompt {
		t.Errorf("ConfirmOverwrite = %q, want prompt", cfg.ConfirmOverwrite)
	}
	if cfg.OnAutoSaveFailure != AutoSaveProceed {
		t.Errorf("OnAutoSaveFailure = %q, want proceed", cfg.OnAutoSaveFailure)
	}
}

func TestBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"0", false},
		{"false", false},
		{"yes", false},
	}

	for _, tt := range tests {
		t.Run("value "+tt.value, func(t *testing.T) {
			t.Setenv("CCPROFILE_DEBUG", tt.value)
			if got := Debug(); got != tt.want {
				t.Errorf("Debug with %q = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestProfilesDir_Override(t *testing.T) {
	t.Setenv("CCPROFILE_DIR", "/tmp/custom-profiles")
	if got := ProfilesDir(); got != "/tmp/custom-profiles" {
		t.Errorf("ProfilesDir = %q, want the override", got)
	}
}
