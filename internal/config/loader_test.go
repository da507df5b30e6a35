package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "schedd.yaml", `
addr: ":9090"
backends_file: /etc/schedd/backends.yaml
memory_budget_mb: 4096
high_watermark_pct: 85
default_context: chat
cors_enabled: true
cors_origins: ["https://ui.example.com"]
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.MemoryBudgetMB != 4096 || cfg.HighWatermarkPct != 85 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.DefaultContext != "chat" || !cfg.CORSEnabled || len(cfg.CORSOrigins) != 1 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	cfg, err := Load(writeFile(t, "schedd.toml", `
addr = ":7070"
memory_budget_mb = 1024
watch_backends = true
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.MemoryBudgetMB != 1024 || !cfg.WatchBackends {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	cfg, err := Load(writeFile(t, "schedd.json", `{"addr":":6060","activity_db":"/tmp/act.db"}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":6060" || cfg.ActivityDB != "/tmp/act.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("empty path must fail")
	}
	if _, err := Load(writeFile(t, "schedd.ini", "addr=:1")); err == nil {
		t.Fatal("unsupported extension must fail")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file must fail")
	}
}
