package bytecursor

import (
	"encoding/binary"
	"fmt"
)

// BoundsError reports an access outside the buffer.
type BoundsError struct {
	Offset int // absolute offset of the attempted access
	Length int // bytes requested
	Size   int // buffer length
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("bytecursor: %d bytes at 0x%X out of range (size 0x%X)", e.Length, e.Offset, e.Size)
}

// Cursor is a random-access reader/writer over an in-memory buffer.
// The byte order applies to every multi-byte access made after SetOrder.
type Cursor struct {
	data  []byte
	pos   int
	order binary.ByteOrder
}

// New wraps data without copying it.
func New(data []byte, order binary.ByteOrder) *Cursor {
	return &Cursor{data: data, order: order}
}

func (c *Cursor) Pos() int { return c.pos }
func (c *Cursor) Len() int { return len(c.data) }
func (c *Cursor) Bytes() []byte { return c.data }
func (c *Cursor) Order() binary.ByteOrder { return c.order }
func (c *Cursor) SetOrder(order binary.ByteOrder) { c.order = order }

func (c *Cursor) check(off, n int) error {
	if off < 0 || n < 0 || off > len(c.data) || len(c.data)-off < n {
		return &BoundsError{Offset: off, Length: n, Size: len(c.data)}
	}
	return nil
}

// Seek moves to an absolute offset. Seeking to len(data) is allowed.
func (c *Cursor) Seek(off int) error {
	if err := c.check(off, 0); err != nil {
		return err
	}
	c.pos = off
	return nil
}

// Skip moves relative to the current position.
func (c *Cursor) Skip(n int) error {
	return c.Seek(c.pos + n)
}

// Jump runs fn with the cursor at off and puts the cursor back where it
// was on every exit path.
func (c *Cursor) Jump(off int, fn func() error) error {
	saved := c.pos
	defer func() { c.pos = saved }()
	if err := c.Seek(off); err != nil {
		return err
	}
	return fn()
}

func (c *Cursor) take(n int) ([]byte, error) {
	if err := c.check(c.pos, n); err != nil {
		return nil, err
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadI8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err
}

func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return c.order.Uint16(b), nil
}

func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err
}

func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return c.order.Uint32(b), nil
}

func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

// ReadString reads a fixed-length field and trims it at the first NUL.
func (c *Cursor) ReadString(n int) (string, error) {
	b, err := c.take(n)
	if err != nil {
		return "", err
	}
	for i, ch := range b {
		if ch == 0 {
			return string(b[:i]), nil
		}
	}
	return string(b), nil
}

// Extract returns a copy of n bytes at off. The cursor does not move.
func (c *Cursor) Extract(off, n int) ([]byte, error) {
	if err := c.check(off, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.data[off:off+n])
	return out, nil
}

// PeekU32At reads a 32-bit value at off without moving the cursor.
func (c *Cursor) PeekU32At(off int) (uint32, error) {
	if err := c.check(off, 4); err != nil {
		return 0, err
	}
	return c.order.Uint32(c.data[off:]), nil
}

// WriteU32At stores v at off in the current byte order.
func (c *Cursor) WriteU32At(off int, v uint32) error {
	if err := c.check(off, 4); err != nil {
		return err
	}
	c.order.PutUint32(c.data[off:], v)
	return nil
}
