package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("missing config file should not error, got %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoadFileParsesSections(t *testing.T) {
	content := `
[packmol]
executable = "mpirun -np 4 packmol"
tolerance = 2.5
output = "cluster.xyz"
nloop = 100

[forcefield]
name = "uff"

[autosize]
max_size = 30.0
step = 0.5
`
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Packmol.Executable != "mpirun -np 4 packmol" {
		t.Errorf("executable = %q", cfg.Packmol.Executable)
	}
	if cfg.Packmol.Tolerance != 2.5 {
		t.Errorf("tolerance = %v", cfg.Packmol.Tolerance)
	}
	if cfg.Packmol.Output != "cluster.xyz" {
		t.Errorf("output = %q", cfg.Packmol.Output)
	}
	if cfg.Packmol.NLoop != 100 {
		t.Errorf("nloop = %d", cfg.Packmol.NLoop)
	}
	if cfg.ForceField.Name != "uff" {
		t.Errorf("forcefield = %q", cfg.ForceField.Name)
	}
	if cfg.Autosize.MaxSize != 30.0 || cfg.Autosize.Step != 0.5 {
		t.Errorf("autosize = %+v", cfg.Autosize)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[packmol\nbroken"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error for malformed file")
	}
}

func TestPathRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join("/tmp/xdg-test", "molpack", "config.toml")
	if path != want {
		t.Errorf("Path() = %q, want %q", path, want)
	}
}
