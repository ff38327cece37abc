// Package dump implements the JSON persisted-world format spec.md §6.3
// describes: a width/height header plus one or more blocks of atoms and
// VMs, addressed by (x,y) pairs the core converts to/from linear offsets.
// This package is pure data plus file I/O — it never reaches into
// internal/chem, so internal/chem can depend on it without a cycle.
package dump

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// ErrSizeMismatch is returned by callers (internal/chem's Core.Restore)
// when a loaded dump's width/height disagree with the target world.
var ErrSizeMismatch = errors.New("dump: width/height mismatch")

// AtomDump describes one atom at grid position (x,y).
type AtomDump struct {
	A uint16 `json:"a"`
	X int64  `json:"x"`
	Y int64  `json:"y"`
}

// VMDump describes one VM at grid position (x,y) with energy e.
type VMDump struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
	E int64 `json:"e"`
}

// Block groups atoms and VMs that belong together, e.g. one organism or
// molecule. Core.Snapshot emits a single block; Save and Load handle any
// number.
type Block struct {
	Atoms []AtomDump `json:"atoms"`
	VMs   []VMDump   `json:"vms"`
}

// Dump is the full persisted-world document, §6.3's JSON shape.
type Dump struct {
	Width  uint32  `json:"width"`
	Height uint32  `json:"height"`
	Blocks []Block `json:"blocks"`
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Save serializes d to path as JSON.
func Save(path string, d Dump) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return errors.Wrapf(err, "marshal dump for %s", path)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.Wrapf(err, "write dump %s", path)
	}
	return nil
}

// Load reads and decodes path as a Dump. Width/height mismatch checking
// against a live world is the caller's responsibility (internal/chem's
// Core.Restore), since this package has no notion of "the current world".
func Load(path string) (Dump, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Dump{}, errors.Wrapf(err, "read dump %s", path)
	}
	var d Dump
	if err := json.Unmarshal(raw, &d); err != nil {
		return Dump{}, errors.Wrapf(err, "unmarshal dump %s", path)
	}
	return d, nil
}
