package fs

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// AllocTable is the flat in-memory copy of the allocation table, one 16-bit
// entry per data block. Entry 0 is a reserved slot and always holds FatEOC.
type AllocTable []uint16

func NewAllocTable(dataBlocks uint16) AllocTable {
	t := make(AllocTable, dataBlocks)
	t[0] = FatEOC
	return t
}

// LoadAllocTable reads the table from blocks 1..FatBlocks of the device.
func LoadAllocTable(dev BlockDevice, sb Superblock) (AllocTable, error) {
	t := make(AllocTable, sb.DataBlocks)
	buf := make([]byte, BlockSize)

	for i := uint16(0); i < uint16(sb.FatBlocks); i++ {
		err := dev.ReadBlock(i+1, buf)
		if err != nil {
			return nil, errors.Wrapf(err, "load allocation table block %d", i)
		}

		base := int(i) * (BlockSize / 2)
		for j := 0; j < BlockSize/2 && base+j < len(t); j++ {
			t[base+j] = binary.LittleEndian.Uint16(buf[2*j:])
		}
	}

	return t, nil
}

// Store writes the table back to blocks 1..FatBlocks. Entries past the end
// of the table are written as zeroes.
func (t AllocTable) Store(dev BlockDevice, sb Superblock) error {
	buf := make([]byte, BlockSize)

	for i := uint16(0); i < uint16(sb.FatBlocks); i++ {
		base := int(i) * (BlockSize / 2)
		for j := 0; j < BlockSize/2; j++ {
			var entry uint16
			if base+j < len(t) {
				entry = t[base+j]
			}
			binary.LittleEndian.PutUint16(buf[2*j:], entry)
		}

		err := dev.WriteBlock(i+1, buf)
		if err != nil {
			return errors.Wrapf(err, "store allocation table block %d", i)
		}
	}

	return nil
}

// FreeCount returns the number of free entries.
func (t AllocTable) FreeCount() int {
	free := 0
	for _, entry := range t {
		if entry == 0 {
			free++
		}
	}
	return free
}

// FindFree returns the lowest free entry index. Entry 0 never qualifies
// because it always carries the terminal sentinel.
func (t AllocTable) FindFree() (uint16, bool) {
	for i, entry := range t {
		if entry == 0 {
			return uint16(i), true
		}
	}
	return 0, false
}
