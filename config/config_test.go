package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segrole.yaml")
	data := `
engine:
  kind: command
  command: ["python3", "annotate.py", "--model", "en_core_web_sm"]
store:
  path: /tmp/segrole.db
batch:
  workers: 8
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Engine.Kind = EngineCommand
	want.Engine.Command = []string{"python3", "annotate.py", "--model", "en_core_web_sm"}
	want.Store.Path = "/tmp/segrole.db"
	want.Batch.Workers = 8
	want.Logging.Level = "debug"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("batch: [\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "failed to parse config") {
		t.Fatalf("expected a parse error, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SEGROLE_ENGINE":         "command",
		"SEGROLE_ENGINE_COMMAND": "python3  annotate.py",
		"SEGROLE_DOC_PATH":       "/corpus",
		"SEGROLE_DB":             "/data/segrole.db",
		"SEGROLE_WORKERS":        "2",
		"SEGROLE_LOG_LEVEL":      "info",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	want := Default()
	want.Engine = EngineConfig{Kind: EngineCommand, Command: []string{"python3", "annotate.py"}, DocPath: "/corpus"}
	want.Store.Path = "/data/segrole.db"
	want.Batch.Workers = 2
	want.Logging.Level = "info"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}

	env["SEGROLE_WORKERS"] = "many"
	if err := cfg.ApplyEnv(lookup); err == nil {
		t.Errorf("expected an error for a non numeric SEGROLE_WORKERS")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown engine", func(c *Config) { c.Engine.Kind = "spacy" }},
		{"command without argv", func(c *Config) { c.Engine.Kind = EngineCommand }},
		{"no workers", func(c *Config) { c.Batch.Workers = 0 }},
		{"unknown encoding", func(c *Config) { c.Logging.Encoding = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected a validation error")
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}
