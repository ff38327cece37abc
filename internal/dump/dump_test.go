package dump

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	d := Dump{
		Width:  10,
		Height: 10,
		Blocks: []Block{{
			Atoms: []AtomDump{{A: 0x20C0, X: 0, Y: 0}, {A: 0x60C0, X: 1, Y: 0}},
			VMs:   []VMDump{{X: 0, Y: 0, E: 100}},
		}},
	}

	path := filepath.Join(t.TempDir(), "world.json")
	if err := Save(path, d); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Width != d.Width || got.Height != d.Height {
		t.Fatalf("dims: got=%dx%d want=%dx%d", got.Width, got.Height, d.Width, d.Height)
	}
	if len(got.Blocks) != 1 || len(got.Blocks[0].Atoms) != 2 || len(got.Blocks[0].VMs) != 1 {
		t.Fatalf("block shape: %+v", got.Blocks)
	}
	if got.Blocks[0].Atoms[0] != d.Blocks[0].Atoms[0] {
		t.Fatalf("atom[0]: got=%+v want=%+v", got.Blocks[0].Atoms[0], d.Blocks[0].Atoms[0])
	}
	if got.Blocks[0].VMs[0] != d.Blocks[0].VMs[0] {
		t.Fatalf("vm[0]: got=%+v want=%+v", got.Blocks[0].VMs[0], d.Blocks[0].VMs[0])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("Load on a missing file returned nil error")
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := Save(path, Dump{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Overwrite with malformed content after a valid Save proves the path
	// is writable.
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load on malformed JSON returned nil error")
	}
}
