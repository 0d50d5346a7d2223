package fragment

import (
	"bytes"
	"errors"
	"testing"

	"fragment-decoder/internal/bytecursor"
)

func relocTable(buf []byte, at int, targets ...uint32) {
	be.PutUint32(buf[at:], uint32(len(targets)))
	for i, v := range targets {
		be.PutUint32(buf[at+4+i*4:], v)
	}
}

func TestRelocateNarrow(t *testing.T) {
	buf := make([]byte, 0x100)
	be.PutUint32(buf[0x40:], 0xAB012345)
	be.PutUint32(buf[0x44:], 0x8001FFFF)
	relocTable(buf, 0x10, 0x40, 0xFF000044) // entry high bits are not part of the address

	if err := Relocate(buf, 0x10); err != nil {
		t.Fatalf("Relocate: %v", err)
	}
	if v := be.Uint32(buf[0x40:]); v != 0x2345 {
		t.Errorf("first target = 0x%X", v)
	}
	if v := be.Uint32(buf[0x44:]); v != 0xFFFF {
		t.Errorf("second target = 0x%X", v)
	}
}

func TestRelocateWide(t *testing.T) {
	buf := make([]byte, 0x10100)
	be.PutUint32(buf[0x40:], 0xFF01FFFF)
	relocTable(buf, 0x10000, 0x40)

	if err := Relocate(buf, 0x10000); err != nil {
		t.Fatalf("Relocate: %v", err)
	}
	if v := be.Uint32(buf[0x40:]); v != 0x1FFFF {
		t.Errorf("target = 0x%X", v)
	}
	if RelocMask(0xFFFF) != 0xFFFF || RelocMask(0x10000) != 0x1FFFF {
		t.Error("mask threshold wrong")
	}
}

func TestRelocateIdempotent(t *testing.T) {
	buf := newFixture().bytes()
	if err := Relocate(buf, fxReloc); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	once := append([]byte(nil), buf...)
	if err := Relocate(buf, fxReloc); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if !bytes.Equal(once, buf) {
		t.Error("second relocation pass changed the buffer")
	}
}

func TestRelocateOutOfRange(t *testing.T) {
	buf := make([]byte, 0x40)
	relocTable(buf, 0x10, 0x3E)
	err := Relocate(buf, 0x10)
	var bounds *bytecursor.BoundsError
	if !errors.As(err, &bounds) {
		t.Fatalf("expected BoundsError, got %v", err)
	}
}
