package mm

import (
	"math/rand"
	"testing"
)

func TestAddressDecomposition(t *testing.T) {
	specs := []struct {
		addr      VirtAddr
		expIndex  uint32
		expOffset uint32
	}{
		{0, 0, 0},
		{0x000fffff, 0, 0xfffff},
		{0x00100000, 1, 0},
		{0x00101000, 1, 0x1000},
		{0x80000000, 0x800, 0},
		{0xf0123456, 0xf01, 0x23456},
		{0xffffffff, 0xfff, 0xfffff},
	}

	for specIndex, spec := range specs {
		if got := TableIndex(spec.addr); got != spec.expIndex {
			t.Errorf("[spec %d] expected TableIndex(0x%x) to be 0x%x; got 0x%x", specIndex, spec.addr, spec.expIndex, got)
		}

		if got := PageNumber(spec.addr); got != spec.expIndex {
			t.Errorf("[spec %d] expected PageNumber(0x%x) to be 0x%x; got 0x%x", specIndex, spec.addr, spec.expIndex, got)
		}

		if got := Offset(spec.addr); got != spec.expOffset {
			t.Errorf("[spec %d] expected Offset(0x%x) to be 0x%x; got 0x%x", specIndex, spec.addr, spec.expOffset, got)
		}

		if got := Compose(spec.expIndex, spec.expOffset); got != spec.addr {
			t.Errorf("[spec %d] expected Compose(0x%x, 0x%x) to be 0x%x; got 0x%x", specIndex, spec.expIndex, spec.expOffset, spec.addr, got)
		}
	}
}

func TestComposeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 100000; i++ {
		addr := VirtAddr(rng.Uint32())
		if got := Compose(TableIndex(addr), Offset(addr)); got != addr {
			t.Fatalf("expected Compose(TableIndex(a), Offset(a)) to return 0x%x; got 0x%x", addr, got)
		}
	}
}

func TestDecomposeRoundTrip(t *testing.T) {
	offsets := []uint32{0, 1, 0x1000, 0x7ffff, 0xffffe, 0xfffff}
	for index := uint32(0); index < TableEntries; index++ {
		for _, offset := range offsets {
			addr := Compose(index, offset)
			if gotIndex, gotOffset := TableIndex(addr), Offset(addr); gotIndex != index || gotOffset != offset {
				t.Fatalf("expected (0x%x, 0x%x) to survive a round-trip; got (0x%x, 0x%x)", index, offset, gotIndex, gotOffset)
			}
		}
	}
}

func TestComposeMasksOutOfRangeFields(t *testing.T) {
	if got, exp := Compose(0x1001, 0x100005), VirtAddr(0x00100005); got != exp {
		t.Fatalf("expected out-of-range fields to be masked to 0x%x; got 0x%x", exp, got)
	}
}

func TestIsSectionAligned(t *testing.T) {
	specs := []struct {
		addr uint32
		exp  bool
	}{
		{0, true},
		{0x00100000, true},
		{0x00100001, false},
		{0x000fffff, false},
		{0xfff00000, true},
	}

	for specIndex, spec := range specs {
		if got := IsSectionAligned(spec.addr); got != spec.exp {
			t.Errorf("[spec %d] expected IsSectionAligned(0x%x) to return %t; got %t", specIndex, spec.addr, spec.exp, got)
		}
	}
}
