package fragment

import (
	"encoding/binary"
	"fmt"

	"fragment-decoder/internal/bytecursor"
)

// Tables stored above this offset address a 17-bit space.
const relocWideThreshold = 0xFFFF

// RelocMask returns the mask applied to relocated values for a table at
// tableOffset.
func RelocMask(tableOffset int) uint32 {
	if tableOffset > relocWideThreshold {
		return 0x1FFFF
	}
	return 0xFFFF
}

// Relocate masks every value named by the relocation table at tableOffset,
// in place. Masking is idempotent, so a second pass is a no-op.
func Relocate(buf []byte, tableOffset int) error {
	return relocate(bytecursor.New(buf, binary.BigEndian), tableOffset)
}

func relocate(c *bytecursor.Cursor, tableOffset int) error {
	if err := c.Seek(tableOffset); err != nil {
		return err
	}
	count, err := c.ReadI32()
	if err != nil {
		return err
	}
	if count < 0 {
		return fmt.Errorf("negative relocation count %d", count)
	}

	mask := RelocMask(tableOffset)
	for i := 0; i < int(count); i++ {
		entry, err := c.ReadU32()
		if err != nil {
			return err
		}
		target := int(entry & offsetMask)
		v, err := c.PeekU32At(target)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		if err := c.WriteU32At(target, v&mask); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}
