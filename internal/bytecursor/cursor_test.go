package bytecursor

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestReadEndianness(t *testing.T) {
	data := []byte{0x12, 0x34, 0x56, 0x78}
	c := New(data, binary.BigEndian)
	v, err := c.ReadU32()
	if err != nil {
		t.Fatalf("ReadU32: %v", err)
	}
	if v != 0x12345678 {
		t.Errorf("big endian = 0x%X", v)
	}

	c.SetOrder(binary.LittleEndian)
	if err := c.Seek(0); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	h, err := c.ReadU16()
	if err != nil {
		t.Fatalf("ReadU16: %v", err)
	}
	if h != 0x3412 {
		t.Errorf("little endian = 0x%X", h)
	}
}

func TestSignedReads(t *testing.T) {
	c := New([]byte{0xFF, 0xFF, 0xFE, 0x80}, binary.BigEndian)
	v, _ := c.ReadI16()
	if v != -1 {
		t.Errorf("ReadI16 = %d", v)
	}
	b, _ := c.ReadI8()
	if b != -2 {
		t.Errorf("ReadI8 = %d", b)
	}
	if c.Pos() != 3 {
		t.Errorf("pos = %d", c.Pos())
	}
}

func TestReadPastEnd(t *testing.T) {
	c := New([]byte{1, 2, 3}, binary.BigEndian)
	_, err := c.ReadU32()
	var be *BoundsError
	if !errors.As(err, &be) {
		t.Fatalf("expected BoundsError, got %v", err)
	}
	if be.Offset != 0 || be.Length != 4 || be.Size != 3 {
		t.Errorf("unexpected error fields %+v", be)
	}
	if c.Pos() != 0 {
		t.Errorf("failed read moved cursor to %d", c.Pos())
	}
}

func TestSeekBounds(t *testing.T) {
	c := New(make([]byte, 8), binary.BigEndian)
	if err := c.Seek(8); err != nil {
		t.Errorf("seek to end: %v", err)
	}
	if err := c.Seek(9); err == nil {
		t.Error("seek past end succeeded")
	}
	if err := c.Skip(-9); err == nil {
		t.Error("negative skip past start succeeded")
	}
}

func TestReadString(t *testing.T) {
	c := New([]byte("FRAG\x00\x00XY"), binary.BigEndian)
	s, err := c.ReadString(6)
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if s != "FRAG" {
		t.Errorf("ReadString = %q", s)
	}
	if _, err := c.ReadString(3); err == nil {
		t.Error("ReadString past end succeeded")
	}
}

func TestExtractCopies(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	c := New(data, binary.BigEndian)
	out, err := c.Extract(1, 2)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	out[0] = 99
	if data[1] != 2 {
		t.Error("Extract aliases the source buffer")
	}
	if _, err := c.Extract(3, 2); err == nil {
		t.Error("Extract past end succeeded")
	}
}

func TestWriteU32At(t *testing.T) {
	data := make([]byte, 8)
	c := New(data, binary.BigEndian)
	if err := c.WriteU32At(4, 0xAABBCCDD); err != nil {
		t.Fatalf("WriteU32At: %v", err)
	}
	if data[4] != 0xAA || data[7] != 0xDD {
		t.Errorf("data = % X", data)
	}
	if err := c.WriteU32At(6, 1); err == nil {
		t.Error("write past end succeeded")
	}
}

func TestJumpRestores(t *testing.T) {
	c := New(make([]byte, 16), binary.BigEndian)
	_ = c.Seek(4)

	err := c.Jump(10, func() error {
		if c.Pos() != 10 {
			t.Errorf("inside jump pos = %d", c.Pos())
		}
		_, err := c.ReadU32()
		return err
	})
	if err != nil {
		t.Fatalf("Jump: %v", err)
	}
	if c.Pos() != 4 {
		t.Errorf("pos after jump = %d", c.Pos())
	}

	sentinel := errors.New("stop")
	err = c.Jump(2, func() error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Errorf("Jump error = %v", err)
	}
	if c.Pos() != 4 {
		t.Errorf("pos after failing jump = %d", c.Pos())
	}

	if err := c.Jump(100, func() error { return nil }); err == nil {
		t.Error("jump out of range succeeded")
	}
	if c.Pos() != 4 {
		t.Errorf("pos after bad jump = %d", c.Pos())
	}
}
