package kfmt

import (
	"bytes"
	"strings"
	"testing"
)

func TestFprintfVerbs(t *testing.T) {
	specs := []struct {
		format string
		args   []interface{}
		exp    string
	}{
		// binary dumps of entry fields
		{"APX/AP %16b", []interface{}{uint16(0x8c00)}, "APX/AP 1000110000000000"},
		{"type %2b", []interface{}{uint8(2)}, "type 10"},
		{"domain %4b", []interface{}{uint32(0)}, "domain 0000"},
		{"entry %32b", []interface{}{uint32(0xfff00c1e)}, "entry 11111111111100000000110000011110"},
		{"ap %b", []interface{}{uint8(1)}, "ap 1"},
		// hex words as printed by the table and descriptor dumps
		{"0x%8x-0x%8x", []interface{}{uint32(0x00100000), uint32(0x001fffff)}, "0x00100000-0x001fffff"},
		{"sel=0x%4x", []interface{}{uint16(0x1b)}, "sel=0x001b"},
		{"off=0x%4x%4x", []interface{}{uint16(0xf010), uint16(0x3a4c)}, "off=0xf0103a4c"},
		{"checksum 0x%2x", []interface{}{uint8(0x7)}, "checksum 0x07"},
		{"cr3 %x", []interface{}{uintptr(0x3bd000)}, "cr3 3bd000"},
		{"limit %o", []interface{}{uint16(04000 - 1)}, "limit 3777"},
		// decimal values
		{"%3d: gate", []interface{}{14}, " 14: gate"},
		{"%3d: gate", []interface{}{255}, "255: gate"},
		{"%d sections", []interface{}{uint64(4096)}, "4096 sections"},
		{"delta %d", []interface{}{int32(-4096)}, "delta -4096"},
		{"delta '%9d'", []interface{}{int64(-1048576)}, "delta ' -1048576'"},
		{"delta '%9x'", []interface{}{int(-0x100000)}, "delta '-00100000'"},
		{"delta %x", []interface{}{int16(-0x7ff)}, "delta -7ff"},
		{"pad '%80x'", []interface{}{uint32(0x1000)}, "pad '" + strings.Repeat("0", maxBufSize-4) + "1000'"},
		// strings and booleans
		{"perm %s", []interface{}{"SRW/U--"}, "perm SRW/U--"},
		{"perm '%8s'", []interface{}{"SRO/URO"}, "perm ' SRO/URO'"},
		{"perm '%2s'", []interface{}{"SRW/URW"}, "perm 'SRW/URW'"},
		{"name %s", []interface{}{[]byte("devices")}, "name devices"},
		{"present=%t", []interface{}{true}, "present=true"},
		{"system=%6t", []interface{}{false}, "system=false"},
		{"100%% mapped", nil, "100% mapped"},
		{"%s:%d:%t", []interface{}{"ram", uint8(3), true}, "ram:3:true"},
		// malformed input
		{"entry", []interface{}{uint32(1), uint32(2)}, "entry%!(EXTRA)%!(EXTRA)"},
		{"entry 0x%8x", nil, "entry 0x(MISSING)"},
		{"entry %y", []interface{}{uint32(1)}, "entry %!(NOVERB)%!(EXTRA)"},
		{"entry %", nil, "entry %!(NOVERB)"},
		{"entry %8", nil, "entry %!(NOVERB)"},
		{"present=%t", []interface{}{1}, "present=%!(WRONGTYPE)"},
		{"base %x", []interface{}{"0x100000"}, "base %!(WRONGTYPE)"},
		{"perm %s", []interface{}{uint8(2)}, "perm %!(WRONGTYPE)"},
	}

	var buf bytes.Buffer
	for specIndex, spec := range specs {
		buf.Reset()
		Fprintf(&buf, spec.format, spec.args...)

		if got := buf.String(); got != spec.exp {
			t.Errorf("[spec %d] expected to get\n%q\ngot:\n%q", specIndex, spec.exp, got)
		}
	}
}

func TestFprintfNamedTypesRejected(t *testing.T) {
	type physAddr uint32

	var buf bytes.Buffer
	Fprintf(&buf, "base 0x%8x", physAddr(0x00200000))

	if exp, got := "base 0x%!(WRONGTYPE)", buf.String(); got != exp {
		t.Fatalf("expected to get %q; got %q", exp, got)
	}
}

func TestPrintfToRingBuffer(t *testing.T) {
	defer func() {
		outputSink = nil
	}()

	outputSink = nil
	earlyPrintBuffer = ringBuffer{}

	Printf("mapping %s window", "kernel")
	Printf(" at 0x%8x\n", uint32(0x80000000))

	var buf bytes.Buffer
	SetOutputSink(&buf)

	exp := "mapping kernel window at 0x80000000\n"
	if got := buf.String(); got != exp {
		t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
	}

	if GetOutputSink() != &buf {
		t.Fatal("expected GetOutputSink to return the attached sink")
	}

	// Once a sink is attached output bypasses the ring buffer.
	buf.Reset()
	Printf("%d sections\n", 16)
	if exp, got := "16 sections\n", buf.String(); got != exp {
		t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
	}
}
