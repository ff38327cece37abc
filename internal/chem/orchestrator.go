package chem

import (
	"time"

	"github.com/golang/glog"

	"github.com/latticevm/latticevm/internal/dump"
)

// TickSubscriber is called once per outer loop iteration, before the core
// decides whether to run a VM — the hook external renderers/terminals use
// to drain their own input/output once per frame (spec.md §4.12, §6.5's
// idle(core)).
type TickSubscriber func(*Core)

// Core owns every other component in this package and runs the single
// mutation thread: world, VM pool, move buffer, event bus, and config.
// Within this package the operators in vm.go use world/buf/vms directly;
// other packages talk to a Core only through its exported methods and the
// event bus, the "boundary package" contract SPEC_FULL.md's glossary names.
type Core struct {
	cfg   *Config
	world *World
	vms   *VMPool
	buf   *moveBuffer
	bus   *EventBus

	vmIdx int

	ticks       []TickSubscriber
	energySpent []func(int64)
}

// NewCore constructs a Core from cfg, wiring the bus's RUN/QUIT/LOAD_DUMP/
// SAVE_DUMP handlers per spec.md §4.12. cfg is copied; mutations to
// IsRunning/Stopped happen on the copy Core owns.
func NewCore(cfg Config) *Core {
	bus := NewEventBus()
	world := NewWorld(cfg.W, cfg.H, bus)
	c := &Core{
		cfg:   &cfg,
		world: world,
		vms:   NewVMPool(cfg.MaxVMs),
		buf:   newMoveBuffer(cfg.MoveBufSize),
		bus:   bus,
	}
	c.cfg.IsRunning = cfg.Autorun

	bus.On(EventRun, func(EventParam) { c.cfg.IsRunning = !c.cfg.IsRunning })
	bus.On(EventQuit, func(EventParam) { c.cfg.Stopped = true })
	bus.On(EventLoadDump, func(p EventParam) {
		if err := c.loadDumpFile(p.Path); err != nil {
			glog.Errorf("chem: load dump %q: %v", p.Path, err)
		}
	})
	bus.On(EventSaveDump, func(p EventParam) {
		if err := c.saveDumpFile(p.Path); err != nil {
			glog.Errorf("chem: save dump %q: %v", p.Path, err)
		}
	})
	return c
}

// Config returns a copy of the core's current configuration, including the
// live IsRunning/Stopped flags.
func (c *Core) Config() Config { return *c.cfg }

// World returns the core's world (renderers read cell state through it).
// The returned *World also exposes SetAtom and MovAtom.
func (c *Core) World() *World { return c.world }

// VMCount returns the number of live VMs, for metrics' chem_vm_pool_size.
func (c *Core) VMCount() int { return c.vms.Size() }

// Subscribe is a thin wrapper over the event bus so external packages never
// reach c.bus directly.
func (c *Core) Subscribe(event Event, cb Subscriber) int { return c.bus.On(event, cb) }

// Unsubscribe mirrors Subscribe.
func (c *Core) Unsubscribe(event Event, id int) { c.bus.Off(event, id) }

// OnTick registers a callback invoked once per outer loop iteration, before
// the tick decides whether to run a VM. Used by internal/terminal to drain
// stdin and by internal/metrics to sample gauges every iteration.
func (c *Core) OnTick(sub TickSubscriber) { c.ticks = append(c.ticks, sub) }

// OnEnergySpent registers a callback invoked with the signed energy delta
// of each Step whose atom operation changed the running VM's energy
// (negative for mov/fix/if/job, positive for spl); a zero delta is not
// reported. This is the hook chem_vm_energy_spent_total is built from.
func (c *Core) OnEnergySpent(cb func(delta int64)) { c.energySpent = append(c.energySpent, cb) }

// FireRun, FireQuit, FireLoadDump, FireSaveDump fire the corresponding bus
// events — the in-process equivalent of typing a terminal command or
// POSTing to /command.
func (c *Core) FireRun()              { c.bus.Fire(EventRun, EventParam{}) }
func (c *Core) FireQuit()             { c.bus.Fire(EventQuit, EventParam{}) }
func (c *Core) FireLoadDump(path string) { c.bus.Fire(EventLoadDump, EventParam{Path: path}) }
func (c *Core) FireSaveDump(path string) { c.bus.Fire(EventSaveDump, EventParam{Path: path}) }

// Step runs exactly one outer-loop iteration per spec.md §4.12: call every
// tick subscriber, then (unless stopped) run at most one atom for the
// current VM index, advancing/wrapping it. Returns false once Stopped has
// been set, so RunLoop knows to exit.
func (c *Core) Step() bool {
	for _, sub := range c.ticks {
		sub(c)
	}
	if c.cfg.Stopped {
		return false
	}
	if !c.cfg.IsRunning {
		return true
	}
	if c.vms.Size() == 0 {
		return true
	}
	if c.vmIdx >= c.vms.Size() {
		c.vmIdx = 0
	}
	vm := c.vms.At(c.vmIdx)
	before := vm.Energy
	RunAtom(vm, c)
	if delta := vm.Energy - before; delta != 0 {
		for _, cb := range c.energySpent {
			cb(delta)
		}
	}
	if vm.Energy < 1 {
		c.vms.Del(c.vmIdx)
	} else {
		c.vmIdx++
	}
	if c.vmIdx >= c.vms.Size() {
		c.vmIdx = 0
	}
	return true
}

// RunLoop calls Step until it returns false, sleeping frameDelay between
// iterations when non-zero — the "bounded sleep" busy-wait mitigation
// spec.md §5 allows for when IsRunning is false.
func (c *Core) RunLoop(frameDelay time.Duration) {
	for c.Step() {
		if frameDelay > 0 {
			time.Sleep(frameDelay)
		}
	}
}

// Snapshot enumerates every non-empty cell (ascending offset order) and
// every live VM into a single-block dump.Dump, per spec.md §6.3's save
// semantics.
func (c *Core) Snapshot() dump.Dump {
	d := dump.Dump{Width: uint32(c.world.Width()), Height: uint32(c.world.Height())}
	block := dump.Block{}
	w := Offs(c.world.Width())
	for offs := Offs(0); offs < c.world.Size(); offs++ {
		a := c.world.GetAtom(offs)
		if !IsAtom(a) {
			continue
		}
		block.Atoms = append(block.Atoms, dump.AtomDump{
			A: uint16(a),
			X: int64(offs % w),
			Y: int64(offs / w),
		})
	}
	for i := 0; i < c.vms.Size(); i++ {
		vm := c.vms.At(i)
		block.VMs = append(block.VMs, dump.VMDump{
			X: int64(vm.Offs % w),
			Y: int64(vm.Offs / w),
			E: vm.Energy,
		})
	}
	d.Blocks = append(d.Blocks, block)
	return d
}

// Restore applies d to the world and VM pool per spec.md §6.3's load
// semantics: a width/height mismatch rejects the whole dump; out-of-range
// atom entries are logged and skipped; VM entries are appended subject to
// pool capacity. Entries already applied before a rejection are not rolled
// back, matching the reference's documented no-rollback behavior.
func (c *Core) Restore(d dump.Dump) error {
	if int(d.Width) != c.world.Width() || int(d.Height) != c.world.Height() {
		return dump.ErrSizeMismatch
	}
	w := Offs(c.world.Width())
	for _, block := range d.Blocks {
		for _, ad := range block.Atoms {
			offs := Offs(ad.Y)*w + Offs(ad.X)
			if offs < 0 || offs >= c.world.Size() {
				glog.Warningf("chem: dump atom (%d,%d) out of range, skipping", ad.X, ad.Y)
				continue
			}
			c.world.SetAtom(offs, Atom(ad.A))
		}
		for _, vd := range block.VMs {
			offs := Offs(vd.Y)*w + Offs(vd.X)
			if offs < 0 || offs >= c.world.Size() {
				glog.Warningf("chem: dump vm (%d,%d) out of range, skipping", vd.X, vd.Y)
				continue
			}
			if !c.vms.Add(NewVM(vd.E, offs)) {
				glog.Warningf("chem: dump vm (%d,%d) dropped, pool full", vd.X, vd.Y)
			}
		}
	}
	return nil
}

func (c *Core) loadDumpFile(path string) error {
	d, err := dump.Load(path)
	if err != nil {
		return err
	}
	return c.Restore(d)
}

func (c *Core) saveDumpFile(path string) error {
	return dump.Save(path, c.Snapshot())
}
