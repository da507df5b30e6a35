package registry

import (
	"os"
	"path/filepath"
	"testing"
)

const seedYAML = `backends:
  - id: core
    memory_cost_mb: 100
    priority: 90
    required: true
  - id: vision
    memory_cost_mb: 50
    priority: 40
    context_triggers: [vision]
    fallback_id: core
`

func writeSeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestLoadFileYAML(t *testing.T) {
	descs, err := LoadFile(writeSeed(t, "backends.yaml", seedYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(descs) != 2 {
		t.Fatalf("got %d descriptors, want 2", len(descs))
	}
	if descs[0].ID != "core" || !descs[0].Required || descs[0].MemoryCostMB != 100 {
		t.Fatalf("core = %+v", descs[0])
	}
	if descs[1].FallbackID != "core" || !descs[1].TriggeredBy("vision") {
		t.Fatalf("vision = %+v", descs[1])
	}
}

func TestLoadFileJSON(t *testing.T) {
	path := writeSeed(t, "backends.json",
		`{"backends":[{"id":"a","memory_cost_mb":10,"priority":1}]}`)
	descs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(descs) != 1 || descs[0].ID != "a" {
		t.Fatalf("descs = %+v", descs)
	}
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	if _, err := LoadFile(writeSeed(t, "backends.ini", "x")); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestLoadIntoSkipsDuplicates(t *testing.T) {
	r := New()
	if err := r.Register(desc("core", "")); err != nil {
		t.Fatalf("preregister: %v", err)
	}
	added, err := LoadInto(r, writeSeed(t, "backends.yaml", seedYAML))
	if err != nil {
		t.Fatalf("load into: %v", err)
	}
	if len(added) != 1 || added[0] != "vision" {
		t.Fatalf("added = %v, want [vision]", added)
	}
	if r.Len() != 2 {
		t.Fatalf("len = %d, want 2", r.Len())
	}
}
