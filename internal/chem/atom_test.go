package chem

import "testing"

func TestAtomRoundTrip(t *testing.T) {
	for typ := Atom(0); typ < 8; typ++ {
		for vmDir := Dir(0); vmDir < DirsLen; vmDir++ {
			for dir1 := Dir(0); dir1 < DirsLen; dir1++ {
				for dir2 := Dir(0); dir2 < DirsLen; dir2++ {
					for _, vmBond := range []bool{false, true} {
						for _, dir2Bond := range []bool{false, true} {
							a := NewAtom(typ, dir1, dir2, dir2Bond)
							if vmBond {
								a = SetVMDir(a, vmDir)
							}
							if GetType(a) != typ {
								t.Fatalf("type: got=%d want=%d", GetType(a), typ)
							}
							if GetDir1(a) != dir1 {
								t.Fatalf("dir1: got=%d want=%d", GetDir1(a), dir1)
							}
							wantVMDir := DirNone
							if vmBond {
								wantVMDir = vmDir
							}
							if GetVMDir(a) != wantVMDir {
								t.Fatalf("vmDir: got=%d want=%d", GetVMDir(a), wantVMDir)
							}
							if HasVMBond(a) != vmBond {
								t.Fatalf("vmBond: got=%v want=%v", HasVMBond(a), vmBond)
							}
							wantDir2 := DirNone
							if dir2Bond {
								wantDir2 = dir2
							}
							if GetDir2(a) != wantDir2 {
								t.Fatalf("dir2: got=%d want=%d", GetDir2(a), wantDir2)
							}
							if HasDir2Bond(a) != dir2Bond {
								t.Fatalf("dir2Bond: got=%v want=%v", HasDir2Bond(a), dir2Bond)
							}
						}
					}
				}
			}
		}
	}
}

func TestIsAtom(t *testing.T) {
	if IsAtom(TypeEmpty) {
		t.Fatal("empty atom reported as occupied")
	}
	if !IsAtom(NewAtom(TypeMov, DirRight, DirUp, false)) {
		t.Fatal("mov atom reported as empty")
	}
}

func TestResetBondPreservesDirection(t *testing.T) {
	a := SetVMDir(NewAtom(TypeMov, 0, 0, false), DirDownRight)
	a = ResetVMBond(a)
	if HasVMBond(a) {
		t.Fatal("vm-bond still set after reset")
	}
	a = SetVMBond(a)
	if GetVMDir(a) != DirDownRight {
		t.Fatalf("direction field lost across reset/set: got=%d want=%d", GetVMDir(a), DirDownRight)
	}

	b := SetDir2(NewAtom(TypeIf, 0, 0, false), DirLeft)
	b = ResetDir2Bond(b)
	if HasDir2Bond(b) {
		t.Fatal("dir2-bond still set after reset")
	}
	b = SetDir2Bond(b)
	if GetDir2(b) != DirLeft {
		t.Fatalf("dir2 field lost across reset/set: got=%d want=%d", GetDir2(b), DirLeft)
	}
}

// TestScenarioEncodings pins the §8.4 literal hex fixtures to this
// package's NewAtom/SetVMDir construction, so a future encoding change
// that silently breaks the documented wire values fails loudly here
// instead of only inside the scenario tests that consume them.
func TestScenarioEncodings(t *testing.T) {
	a0S1 := NewAtom(TypeMov, DirRight, 0, false)
	if a0S1 != 0x20C0 {
		t.Fatalf("S1 A0: got=0x%04X want=0x20C0", a0S1)
	}

	a0S2 := SetVMDir(NewAtom(TypeMov, DirRight, 0, false), DirRight)
	if a0S2 != 0x2EC0 {
		t.Fatalf("S2 A0: got=0x%04X want=0x2EC0", a0S2)
	}
	a1S2 := NewAtom(TypeSpl, DirRight, 0, false)
	if a1S2 != 0x60C0 {
		t.Fatalf("S2 A1: got=0x%04X want=0x60C0", a1S2)
	}

	a0S3 := SetVMDir(NewAtom(TypeMov, DirRight, 0, false), DirDownRight)
	if a0S3 != 0x32C0 {
		t.Fatalf("S3 A0: got=0x%04X want=0x32C0", a0S3)
	}
	a1S3 := SetVMDir(NewAtom(TypeSpl, 0, 0, false), DirUpLeft)
	if a1S3 != 0x6200 {
		t.Fatalf("S3 A1: got=0x%04X want=0x6200", a1S3)
	}
}
