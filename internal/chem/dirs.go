package chem

// Direction indices, clockwise from top-left:
//
//	0 1 2
//	7 X 3
//	6 5 4
const (
	DirUpLeft    Dir = 0
	DirUp        Dir = 1
	DirUpRight   Dir = 2
	DirRight     Dir = 3
	DirDownRight Dir = 4
	DirDown      Dir = 5
	DirDownLeft  Dir = 6
	DirLeft      Dir = 7
)

// DirRev maps a direction to its opposite.
var DirRev = [DirsLen]Dir{4, 5, 6, 7, 0, 1, 2, 3}

// dirOffsets returns the signed linear offsets for each direction over a
// world of the given width. Index matches the Dir constants above.
func dirOffsets(width int) [DirsLen]int {
	w := width
	return [DirsLen]int{-w - 1, -w, -w + 1, 1, w + 1, w, w - 1, -1}
}

// DirMovAtom[old][shift] gives the new bond direction for the atom that just
// moved by `shift`, given it held a bond in direction `old` before moving, or
// DirNone if the bonded peer is now farther than one cell away.
var DirMovAtom = [DirsLen][DirsLen]Dir{
	{DirNone, 7, DirNone, DirNone, DirNone, DirNone, DirNone, 1},
	{3, DirNone, 7, 0, DirNone, DirNone, DirNone, 2},
	{DirNone, 3, DirNone, 1, DirNone, DirNone, DirNone, DirNone},
	{DirNone, 4, 5, DirNone, 1, 2, DirNone, DirNone},
	{DirNone, DirNone, DirNone, 5, DirNone, 3, DirNone, DirNone},
	{DirNone, DirNone, DirNone, 6, 7, DirNone, 3, 4},
	{DirNone, DirNone, DirNone, DirNone, DirNone, 7, DirNone, 5},
	{5, 6, DirNone, DirNone, DirNone, 0, 1, DirNone},
}

// DirNearAtom[old][shift] gives the new bond direction for the stationary
// peer of an atom that moved by `shift`, given the peer's bond pointed back
// in direction `old`, or DirNone if the relationship can no longer be
// expressed as a distance-1 bond.
var DirNearAtom = [DirsLen][DirsLen]Dir{
	{DirNone, DirNone, DirNone, 1, DirNone, 7, DirNone, DirNone},
	{DirNone, DirNone, DirNone, 2, 3, DirNone, 7, 0},
	{DirNone, DirNone, DirNone, DirNone, DirNone, 3, DirNone, 1},
	{1, 2, DirNone, DirNone, DirNone, 4, 5, DirNone},
	{DirNone, 3, DirNone, DirNone, DirNone, DirNone, DirNone, 5},
	{7, DirNone, 3, 4, DirNone, DirNone, DirNone, 6},
	{DirNone, 7, DirNone, 5, DirNone, DirNone, DirNone, DirNone},
	{DirNone, 0, 1, DirNone, 5, 6, DirNone, DirNone},
}
