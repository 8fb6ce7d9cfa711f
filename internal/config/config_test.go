package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(map[string]string{})
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		EnvFile:        ".env",
		Profile:        "supabase",
		OverridePrefix: "GENERATE_",
		Format:         FormatText,
	}
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	cfg, err := Load(map[string]string{
		"ENVSECRETS_FILE":            "docker/.env",
		"ENVSECRETS_PROFILE":         "generic",
		"ENVSECRETS_RULES":           "rules.yaml",
		"ENVSECRETS_OVERRIDE_PREFIX": "PIN_",
		"ENVSECRETS_FORMAT":          " JSON ",
		"ENVSECRETS_VERBOSE":         "true",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.EnvFile != "docker/.env" || cfg.Profile != "generic" || cfg.RulesFile != "rules.yaml" {
		t.Errorf("paths not loaded: %+v", cfg)
	}
	if cfg.OverridePrefix != "PIN_" {
		t.Errorf("OverridePrefix = %q", cfg.OverridePrefix)
	}
	if cfg.Format != FormatJSON {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true")
	}
}

func TestLoadProcessEnvironment(t *testing.T) {
	t.Setenv("ENVSECRETS_PROFILE", "generic")
	cfg, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Profile != "generic" {
		t.Errorf("Profile = %q, want generic", cfg.Profile)
	}
}

func TestLoadInvalidBool(t *testing.T) {
	_, err := Load(map[string]string{"ENVSECRETS_VERBOSE": "maybe"})
	if err == nil {
		t.Error("expected error for invalid bool")
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"text", "json"} {
		if !ValidFormat(f) {
			t.Errorf("ValidFormat(%q) = false", f)
		}
	}
	if ValidFormat("xml") {
		t.Error("ValidFormat(xml) = true")
	}
}
