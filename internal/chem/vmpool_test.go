package chem

import "testing"

func TestVMPoolAddFull(t *testing.T) {
	p := NewVMPool(2)
	if !p.Add(NewVM(10, 0)) {
		t.Fatal("first Add failed")
	}
	if !p.Add(NewVM(20, 1)) {
		t.Fatal("second Add failed")
	}
	if p.Add(NewVM(30, 2)) {
		t.Fatal("Add on full pool returned true")
	}
	if p.Size() != 2 {
		t.Fatalf("pool mutated by rejected Add: size=%d want=2", p.Size())
	}
	if !p.Full() {
		t.Fatal("Full() false on a full pool")
	}
}

func TestVMPoolDelSwapsWithLast(t *testing.T) {
	p := NewVMPool(3)
	p.Add(NewVM(1, 0))
	p.Add(NewVM(2, 1))
	p.Add(NewVM(3, 2))

	if !p.Del(0) {
		t.Fatal("Del(0) failed")
	}
	if p.Size() != 2 {
		t.Fatalf("size after Del: got=%d want=2", p.Size())
	}
	if p.At(0).Energy != 3 {
		t.Fatalf("swap-with-last: At(0).Energy=%d want=3", p.At(0).Energy)
	}
}

func TestVMPoolDelOutOfRange(t *testing.T) {
	p := NewVMPool(2)
	p.Add(NewVM(1, 0))
	if p.Del(5) {
		t.Fatal("Del out of range returned true")
	}
	p.Del(0)
	if p.Del(0) {
		t.Fatal("Del on empty pool returned true")
	}
}
