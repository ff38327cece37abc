package chem

// VM is a cursor (energy, offset) that repeatedly executes the atom at its
// offset. Destroyed by the orchestrator when its energy drops below 1.
type VM struct {
	Energy int64
	Offs   Offs
}

// NewVM constructs a VM at the given energy and offset.
func NewVM(energy int64, offs Offs) VM {
	return VM{Energy: energy, Offs: offs}
}

// VMPool is a fixed-capacity contiguous buffer of VMs with an active
// prefix. Deletion is swap-with-last, O(1); iteration is by index, and
// insertions/deletions keep the active range contiguous at [0, size).
type VMPool struct {
	data []VM
	size int
}

// NewVMPool allocates a pool with room for capacity VMs.
func NewVMPool(capacity int) *VMPool {
	return &VMPool{data: make([]VM, capacity)}
}

// Add appends vm to the pool. Returns false, leaving the pool unchanged, if
// it is already full.
func (p *VMPool) Add(vm VM) bool {
	if p.size == len(p.data) {
		return false
	}
	p.data[p.size] = vm
	p.size++
	return true
}

// Del removes the VM at index i by swapping it with the last active VM.
// Returns false if i is out of the active range.
func (p *VMPool) Del(i int) bool {
	if i < 0 || i >= p.size {
		return false
	}
	p.size--
	p.data[i] = p.data[p.size]
	return true
}

// Size returns the number of active VMs.
func (p *VMPool) Size() int { return p.size }

// Full reports whether the pool is at capacity.
func (p *VMPool) Full() bool { return p.size >= len(p.data) }

// At returns a pointer to the VM at active index i for in-place mutation.
func (p *VMPool) At(i int) *VM { return &p.data[i] }
