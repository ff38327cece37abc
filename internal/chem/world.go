package chem

import "github.com/golang/glog"

// Offs is a signed linear offset into the world's dense cell array.
type Offs int64

// World is a dense W*H row-major toroidal grid of atoms. Reads/writes to
// out-of-range offsets are clamped to no-ops rather than panicking, per the
// bus/cpubus addressing style this package borrows from the teacher's
// memory-mapped address-space dispatch.
type World struct {
	width, height int
	size          Offs
	dirs          [DirsLen]int
	cells         []Atom
	bus           *EventBus
}

// NewWorld allocates a width*height toroidal grid. Panics if width or
// height is less than 1 — an empty world is a configuration error the
// caller must not paper over.
func NewWorld(width, height int, bus *EventBus) *World {
	if width < 1 || height < 1 {
		panic("chem: incorrect world size")
	}
	size := Offs(width) * Offs(height)
	glog.V(1).Infof("chem: world %dx%d (%d atoms)", width, height, size)
	return &World{
		width:  width,
		height: height,
		size:   size,
		dirs:   dirOffsets(width),
		cells:  make([]Atom, size),
		bus:    bus,
	}
}

// Width returns the world's column count.
func (w *World) Width() int { return w.width }

// Height returns the world's row count.
func (w *World) Height() int { return w.height }

// Size returns width*height.
func (w *World) Size() Offs { return w.size }

// GetOffs returns the toroidally-wrapped neighbor offset of offs in
// direction d.
func (w *World) GetOffs(offs Offs, d Dir) Offs {
	o := offs + Offs(w.dirs[d])
	if o < 0 {
		return w.size + o
	}
	if o >= w.size {
		return o - w.size
	}
	return o
}

// IsAtom reports whether offs holds a non-empty atom. Out-of-range offsets
// are treated as empty.
func (w *World) IsAtom(offs Offs) bool {
	if offs < 0 || offs >= w.size {
		return false
	}
	return IsAtom(w.cells[offs])
}

// GetAtom returns the atom at offs, or the empty atom if offs is out of
// range.
func (w *World) GetAtom(offs Offs) Atom {
	if offs < 0 || offs >= w.size {
		return TypeEmpty
	}
	return w.cells[offs]
}

// GetDirAtom peeks the cell adjacent to offs in direction d without
// toroidal wrap: it is used only to look at a genuinely-adjacent cell, and
// returns empty if that would fall off the edge of the array.
func (w *World) GetDirAtom(offs Offs, d Dir) Atom {
	o := offs + Offs(w.dirs[d])
	if o < 0 || o >= w.size {
		return TypeEmpty
	}
	return w.cells[o]
}

// SetAtom stores atom at offs and fires SET_DOT. Out-of-range offsets are a
// silent no-op.
func (w *World) SetAtom(offs Offs, atom Atom) {
	if offs < 0 || offs >= w.size {
		return
	}
	w.cells[offs] = atom
	if w.bus != nil {
		w.bus.Fire(EventSetDot, EventParam{Offs0: offs, Atom: atom})
	}
}

// MovAtom copies the atom at src to dst and clears src, firing MOVE_DOT.
// A no-op if either endpoint is out of range.
func (w *World) MovAtom(src, dst Offs) {
	if src < 0 || src >= w.size || dst < 0 || dst >= w.size {
		return
	}
	atom := w.cells[src]
	w.cells[dst] = atom
	w.cells[src] = TypeEmpty
	if w.bus != nil {
		w.bus.Fire(EventMoveDot, EventParam{Offs0: src, Offs1: dst, Atom: atom})
	}
}
