package chem

// atomOp is the signature every atom-type handler satisfies: given the VM
// executing it, the decoded atom at the VM's offset, and the owning core,
// mutate state and report whether the operation actually ran (false means
// "skipped": preconditions failed, not an error).
type atomOp func(vm *VM, atom Atom, core *Core) bool

// atomDispatch is a fixed-size dispatch table indexed by atom type, the
// natural expression of a small closed set of operators (spec.md §9) —
// the same shape as the teacher's CPU opcode table in nes/cpu.go.
var atomDispatch = [8]atomOp{
	TypeEmpty: atomNoop,
	TypeMov:   runMov,
	TypeFix:   runFix,
	TypeSpl:   runSpl,
	TypeIf:    runIf,
	TypeJob:   runJob,
	6:         atomNoop,
	7:         atomNoop,
}

func atomNoop(*VM, Atom, *Core) bool { return false }

// RunAtom executes one tick for vm: reads the atom at its offset, dispatches
// to the matching operator, and returns whether the operator ran. An empty
// cell always reports false without dispatching.
func RunAtom(vm *VM, core *Core) bool {
	atom := core.world.GetAtom(vm.Offs)
	typ := GetType(atom)
	if typ == TypeEmpty {
		return false
	}
	return atomDispatch[typ](vm, atom, core)
}

// runMov translates the bonded cluster rooted at vm's atom by one cell in
// the atom's dir1, repairing every incident bond so distance-1 bonds are
// never broken: either the bonded peer moves too (pushed onto the same
// stack, so it is moved first) or its direction field is rewritten via
// DirMovAtom/DirNearAtom to keep pointing at the now-one-cell-away partner.
//
// The stack/visited pair is cleared at entry and owned exclusively by this
// call for its duration; no recursion, no allocation once moveBuffer is
// warm, and no cell is the destination of World.MovAtom more than once
// because a peer that still needs to move is pushed back onto the stack
// instead of being moved out from under its own move.
func runMov(vm *VM, _ Atom, core *Core) bool {
	rootAtom := core.world.GetAtom(vm.Offs)
	dir := GetDir1(rootAtom)
	buf := core.buf
	world := core.world
	movEnergy := core.cfg.Atoms.MovEnergy
	vmOrigin := world.GetOffs(vm.Offs, dir)

	buf.reset()
	buf.stack.push(vm.Offs)

	for !buf.stack.empty() {
		offs, _ := buf.stack.last()
		if buf.isVisited(offs) || !world.IsAtom(offs) {
			buf.stack.shrink()
			continue
		}
		to := world.GetOffs(offs, dir)
		if world.IsAtom(to) && !buf.isVisited(to) {
			buf.stack.push(to)
			continue
		}
		buf.stack.shrink()
		world.MovAtom(offs, to)
		buf.markVisited(to)
		vm.Energy -= movEnergy
		repairBonds(buf, world, offs, to, dir)
	}

	if a := world.GetAtom(vmOrigin); IsAtom(a) && HasVMBond(a) {
		vm.Offs = world.GetOffs(vmOrigin, GetVMDir(a))
	}
	return true
}

// repairBonds fixes up the bonds of the atom that just moved from
// offsBefore to offsAfter, for both its vm-bond and (if it is an `if`
// atom) its dir2 bond. See runMov's doc comment for the overall algorithm;
// this covers one bonded direction at a time per the "Bond repair at each
// moved atom" contract.
func repairBonds(buf *moveBuffer, world *World, offsBefore, offsAfter Offs, dir Dir) {
	atom := world.GetAtom(offsAfter)

	// repairOne handles one of the moved atom's own bonded directions
	// (oldDir): rewrite the moved atom's field to the new distance-1
	// direction (or, if the peer is now too far, queue the peer to move
	// too), then separately fix up whichever of the peer's OWN two bond
	// slots (vm-bond, dir2) pointed back at the moved atom — the peer may
	// have bonded back via either slot regardless of which of the moved
	// atom's slots we are currently repairing.
	repairOne := func(a Atom, oldDir Dir, setDir func(Atom, Dir) Atom) Atom {
		if oldDir == DirNone {
			return a
		}
		peerOffs := world.GetOffs(offsBefore, oldDir)
		newDir := DirMovAtom[oldDir][dir]
		if newDir == DirNone {
			if world.IsAtom(peerOffs) && dir != oldDir {
				buf.stack.push(peerOffs)
			}
			return a
		}
		a = setDir(a, newDir)
		world.SetAtom(offsAfter, a)

		revDir := DirRev[oldDir]
		peer := world.GetAtom(peerOffs)
		peerChanged := false
		if HasVMBond(peer) && GetVMDir(peer) == revDir {
			peer = SetVMDir(peer, DirNearAtom[revDir][dir])
			peerChanged = true
		}
		if GetType(peer) == TypeIf && HasDir2Bond(peer) && GetDir2(peer) == revDir {
			peer = SetDir2(peer, DirNearAtom[revDir][dir])
			peerChanged = true
		}
		if peerChanged {
			world.SetAtom(peerOffs, peer)
		}
		return a
	}

	atom = repairOne(atom, GetVMDir(atom), SetVMDir)
	if GetType(atom) == TypeIf {
		repairOne(atom, GetDir2(atom), SetDir2)
	}
}

// runFix attempts to create a bond from the neighbor in dir1 towards the
// neighbor-of-that-neighbor in dir2. The fix atom's own vm-bond, if any,
// advances the VM cursor; fix_energy is charged only on success.
func runFix(vm *VM, atom Atom, core *Core) bool {
	world := core.world
	offs0 := world.GetOffs(vm.Offs, GetDir1(atom))
	atom0 := world.GetAtom(offs0)
	if !IsAtom(atom0) {
		return false
	}
	// dir2 is a plain operand here: read the field whether or not the fix
	// atom's own dir2-bond bit is set.
	d0 := Dir((atom & dir2Mask) >> dir2Shift)
	if !IsAtom(world.GetDirAtom(offs0, d0)) {
		return false
	}

	switch {
	case !HasVMBond(atom0):
		world.SetAtom(offs0, SetVMDir(atom0, d0))
	case GetType(atom0) == TypeIf && !HasDir2Bond(atom0):
		world.SetAtom(offs0, SetDir2(atom0, d0))
	default:
		return false
	}

	if HasVMBond(atom) {
		vm.Offs = world.GetOffs(vm.Offs, GetVMDir(atom))
	}
	vm.Energy -= core.cfg.Atoms.FixEnergy
	return true
}

// runSpl is fix's inverse: breaks an existing vm-bond (or, failing that, an
// if atom's dir2 bond) on the dir1 neighbor, crediting spl_energy.
func runSpl(vm *VM, atom Atom, core *Core) bool {
	world := core.world
	offs0 := world.GetOffs(vm.Offs, GetDir1(atom))
	atom0 := world.GetAtom(offs0)
	if !IsAtom(atom0) {
		return false
	}
	d0 := Dir((atom & dir2Mask) >> dir2Shift)
	if !IsAtom(world.GetDirAtom(offs0, d0)) {
		return false
	}

	switch {
	case HasVMBond(atom0):
		world.SetAtom(offs0, ResetVMBond(atom0))
	case GetType(atom0) == TypeIf && HasDir2Bond(atom0):
		world.SetAtom(offs0, ResetDir2Bond(atom0))
	default:
		return false
	}

	if HasVMBond(atom) {
		vm.Offs = world.GetOffs(vm.Offs, GetVMDir(atom))
	}
	vm.Energy += core.cfg.Atoms.SplEnergy
	return true
}

// runIf branches: takes the "then" path (dir2) when dir2 is bonded and the
// dir1 neighbor is occupied, else takes the vm-bond ("else") path if one is
// present. Both paths charge if_energy; neither present is a skip.
func runIf(vm *VM, atom Atom, core *Core) bool {
	world := core.world
	if HasDir2Bond(atom) && IsAtom(world.GetDirAtom(vm.Offs, GetDir1(atom))) {
		vm.Offs = world.GetOffs(vm.Offs, GetDir2(atom))
		vm.Energy -= core.cfg.Atoms.IfEnergy
		return true
	}
	if HasVMBond(atom) {
		vm.Offs = world.GetOffs(vm.Offs, GetVMDir(atom))
		vm.Energy -= core.cfg.Atoms.IfEnergy
		return true
	}
	return false
}

// runJob spawns a new VM at the vm-direction neighbor, splitting this VM's
// energy in half. Per the reference (and spec.md's open question), the
// energy transfer happens before the capacity check: a denied spawn
// (pool full) still burns the energy.
func runJob(vm *VM, atom Atom, core *Core) bool {
	dir := GetVMDir(atom)
	if dir == DirNone {
		return false
	}
	world := core.world
	target := world.GetOffs(vm.Offs, dir)
	if !IsAtom(world.GetAtom(target)) {
		return false
	}
	half := vm.Energy / 2
	vm.Energy -= half
	if core.vms.Full() {
		return false
	}
	core.vms.Add(NewVM(half, target))
	return true
}
