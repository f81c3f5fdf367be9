package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pkg.jsn.cam/randen/pkg/randen"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Workers != 1 || s.Addr != ":8080" || s.Format != "csv" {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if s.IntMin != randen.DefaultIntMin || s.IntMax != randen.DefaultIntMax {
		t.Errorf("int range = [%d, %d)", s.IntMin, s.IntMax)
	}
	if s.MinLen != randen.DefaultMinStrLen || s.MaxLen != randen.DefaultMaxStrLen || !s.Lowercase {
		t.Errorf("string defaults = %d %d %v", s.MinLen, s.MaxLen, s.Lowercase)
	}
}

func TestLoad_File(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "randen.yaml", "seed: 42\nworkers: 4\nint_min: 0\nint_max: 10\nstore: /tmp/snap.db\n"},
		{"json", "randen.json", `{"seed": 42, "workers": 4, "int_min": 0, "int_max": 10, "store": "/tmp/snap.db"}`},
		{"toml", "randen.toml", "seed = 42\nworkers = 4\nint_min = 0\nint_max = 10\nstore = \"/tmp/snap.db\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if s.Seed != 42 || s.Workers != 4 || s.IntMin != 0 || s.IntMax != 10 || s.Store != "/tmp/snap.db" {
				t.Errorf("unexpected settings: %+v", s)
			}
			// untouched keys keep their defaults
			if s.FloatMax != randen.DefaultFloatMax {
				t.Errorf("FloatMax = %v", s.FloatMax)
			}
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RANDEN_WORKERS", "8")
	t.Setenv("RANDEN_ADDR", ":9999")

	s, err := Load(writeFile(t, "randen.yaml", "workers: 2\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Workers != 8 {
		t.Errorf("Workers = %d, want 8", s.Workers)
	}
	if s.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", s.Addr)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load should fail for a missing file")
	}
}

func TestSettings_Params(t *testing.T) {
	s, _ := Load("")
	s.IntMin, s.IntMax = 5, 6

	spec := s.Params().Spec(randen.Integer)
	if spec.IntMin != 5 || spec.IntMax != 6 {
		t.Errorf("spec range = [%d, %d)", spec.IntMin, spec.IntMax)
	}

	cfg := s.GeneratorConfig()
	if cfg.Workers != s.Workers {
		t.Errorf("GeneratorConfig workers = %d", cfg.Workers)
	}
}

func TestOption(t *testing.T) {
	path := writeFile(t, "config.ini", "[paths]\noutput = /data/out\n\n[limits]\nrows = 1000\n")

	got, err := Option(path, "paths", "output")
	if err != nil {
		t.Fatalf("Option failed: %v", err)
	}
	if got != "/data/out" {
		t.Errorf("Option = %q, want /data/out", got)
	}

	got, err = Option(path, "limits", "rows")
	if err != nil || got != "1000" {
		t.Errorf("Option = %q, %v", got, err)
	}
}

func TestOption_Missing(t *testing.T) {
	path := writeFile(t, "config.ini", "[paths]\noutput = /data/out\n")

	tests := []struct {
		name            string
		path            string
		section, option string
		wantErr         error
		wantMsg         string
	}{
		{"section", path, "db", "host", ErrNoSection, path + " has no section db"},
		{"option", path, "paths", "input", ErrNoOption, path + " has no option input in section paths"},
		{"file", filepath.Join(filepath.Dir(path), "none.ini"), "paths", "output", ErrNoSection, filepath.Join(filepath.Dir(path), "none.ini") + " has no section paths"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Option(tt.path, tt.section, tt.option)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Option error = %v, want %v", err, tt.wantErr)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Option error = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestOption_SectionCase(t *testing.T) {
	path := writeFile(t, "config.ini", "[Paths]\nOutput = /data/out\n\n[empty]\n")

	if _, err := Option(path, "paths", "output"); !errors.Is(err, ErrNoSection) {
		t.Errorf("Option(paths) error = %v, want ErrNoSection", err)
	}

	got, err := Option(path, "Paths", "OUTPUT")
	if err != nil {
		t.Fatalf("Option failed: %v", err)
	}
	if got != "/data/out" {
		t.Errorf("Option = %q, want /data/out", got)
	}

	if _, err := Option(path, "empty", "output"); !errors.Is(err, ErrNoOption) {
		t.Errorf("Option(empty) error = %v, want ErrNoOption", err)
	}
	if _, err := Option(path, "DEFAULT", "output"); !errors.Is(err, ErrNoSection) {
		t.Errorf("Option(DEFAULT) error = %v, want ErrNoSection", err)
	}
}
