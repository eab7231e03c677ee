package arena

import "testing"

func TestAllocContiguous(t *testing.T) {
	a := New(64)
	b1 := a.Alloc(8)
	b2 := a.Alloc(8)
	for i := range b1 {
		b1[i] = 0xAA
	}
	for i := range b2 {
		b2[i] = 0xBB
	}
	for _, b := range b1 {
		if b != 0xAA {
			t.Fatalf("b1 corrupted by b2 allocation")
		}
	}
}

func TestAllocGrowsChunk(t *testing.T) {
	a := New(16)
	a.Alloc(16)
	// This must not fit in the first chunk and should spill into a new one.
	b := a.Alloc(32)
	if len(b) != 32 {
		t.Fatalf("expected 32 bytes, got %d", len(b))
	}
}

func TestMoveString(t *testing.T) {
	a := New(64)
	s := "hello"
	moved := a.MoveString(s)
	if moved != "hello" {
		t.Fatalf("expected hello, got %q", moved)
	}
}

func TestMoveSliceEmptiesSource(t *testing.T) {
	a := New(64)
	src := []int{1, 2, 3}
	out := MoveSlice(a, src)
	if len(out) != 3 || out[0] != 1 || out[2] != 3 {
		t.Fatalf("unexpected output %v", out)
	}
	for _, v := range src {
		if v != 0 {
			t.Fatalf("source slice not emptied: %v", src)
		}
	}
}

func TestResetKeepsFirstChunk(t *testing.T) {
	a := New(16)
	a.Alloc(16)
	a.Alloc(64) // forces a second chunk
	a.Reset()
	if a.curr != a.first {
		t.Fatalf("reset did not collapse to first chunk")
	}
	if len(a.first.buf) != 0 {
		t.Fatalf("reset did not zero used length")
	}
}
