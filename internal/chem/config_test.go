package chem

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.W != DefaultWidth || cfg.H != DefaultHeight {
		t.Fatalf("default WxH: got=%dx%d want=%dx%d", cfg.W, cfg.H, DefaultWidth, DefaultHeight)
	}
	if cfg.MaxVMs != DefaultMaxVMs || cfg.MoveBufSize != DefaultMoveBufSize {
		t.Fatalf("default capacities: got max_vms=%d move_buf_size=%d", cfg.MaxVMs, cfg.MoveBufSize)
	}
	if cfg.Atoms != (AtomEnergies{MovEnergy: 1, FixEnergy: 1, SplEnergy: 1, IfEnergy: 0}) {
		t.Fatalf("default energies: got=%+v", cfg.Atoms)
	}
	if cfg.Autorun {
		t.Fatal("default autorun should be false")
	}
}

func TestLoadConfigMissingFileFallsBackToDefaults(t *testing.T) {
	cfg := LoadConfig("/nonexistent/path/to/config.json")
	if cfg != DefaultConfig() {
		t.Fatalf("missing-file config: got=%+v want defaults", cfg)
	}
}

func TestApplyConfigDocPartialOverride(t *testing.T) {
	cfg := DefaultConfig()
	w, maxVMs := 64, 16
	doc := configDoc{W: &w, MaxVMs: &maxVMs}
	applyConfigDoc(&cfg, &doc)

	if cfg.W != 64 {
		t.Fatalf("W override: got=%d want=64", cfg.W)
	}
	if cfg.MaxVMs != 16 {
		t.Fatalf("MaxVMs override: got=%d want=16", cfg.MaxVMs)
	}
	// Everything not named in the doc keeps its default.
	if cfg.H != DefaultHeight || cfg.MoveBufSize != DefaultMoveBufSize {
		t.Fatalf("untouched fields changed: H=%d MoveBufSize=%d", cfg.H, cfg.MoveBufSize)
	}
}
