package fs

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	// Signature identifies an ECS150FS volume, stored verbatim in block 0.
	Signature       = "ECS150FS"
	SignatureLength = 8

	FilenameLength = 16
	FileMaxCount   = 128
	OpenMaxCount   = 32

	// FatEOC marks an allocation table entry as used and terminal.
	FatEOC uint16 = 0xFFFF
)

// Superblock describes the volume geometry. It occupies block 0, padded with
// zeroes to a full block.
type Superblock struct {
	Signature   [SignatureLength]byte
	TotalBlocks uint16
	RootIndex   uint16
	DataIndex   uint16
	DataBlocks  uint16
	FatBlocks   uint8
}

// fatBlocksFor returns the minimum number of blocks able to hold one 16-bit
// allocation entry per data block.
func fatBlocksFor(dataBlocks uint16) uint8 {
	return uint8((uint32(dataBlocks)*2 + BlockSize - 1) / BlockSize)
}

// NewSuperblock computes the geometry of a fresh volume with the given total
// block count: one superblock, the smallest possible allocation table, one
// root directory block, and data blocks filling the rest.
func NewSuperblock(totalBlocks uint16) (Superblock, error) {
	if totalBlocks < 4 {
		return Superblock{}, GeometryMismatch{fmt.Sprintf("%d blocks cannot hold a volume, 4 is the minimum", totalBlocks)}
	}

	var fatBlocks uint16
	for fatBlocks = 1; fatBlocks < totalBlocks-2; fatBlocks++ {
		dataBlocks := totalBlocks - 2 - fatBlocks
		if uint16(fatBlocksFor(dataBlocks)) == fatBlocks {
			break
		}
	}

	s := Superblock{
		TotalBlocks: totalBlocks,
		RootIndex:   fatBlocks + 1,
		DataIndex:   fatBlocks + 2,
		DataBlocks:  totalBlocks - 2 - fatBlocks,
		FatBlocks:   uint8(fatBlocks),
	}
	copy(s.Signature[:], Signature)

	return s, nil
}

// Encode serializes the superblock into a whole-block buffer. Bytes past the
// fixed fields are zeroed.
func (s Superblock) Encode(block []byte) {
	for i := range block {
		block[i] = 0
	}

	copy(block[:SignatureLength], s.Signature[:])
	binary.LittleEndian.PutUint16(block[8:], s.TotalBlocks)
	binary.LittleEndian.PutUint16(block[10:], s.RootIndex)
	binary.LittleEndian.PutUint16(block[12:], s.DataIndex)
	binary.LittleEndian.PutUint16(block[14:], s.DataBlocks)
	block[16] = s.FatBlocks
}

// Decode deserializes a superblock from a whole-block buffer.
func (s *Superblock) Decode(block []byte) {
	copy(s.Signature[:], block[:SignatureLength])
	s.TotalBlocks = binary.LittleEndian.Uint16(block[8:])
	s.RootIndex = binary.LittleEndian.Uint16(block[10:])
	s.DataIndex = binary.LittleEndian.Uint16(block[12:])
	s.DataBlocks = binary.LittleEndian.Uint16(block[14:])
	s.FatBlocks = block[16]
}

// Validate checks every structural invariant against the device's block
// count, in order, stopping at the first violation.
func (s Superblock) Validate(blockCount uint16) error {
	if !bytes.Equal(s.Signature[:], []byte(Signature)) {
		return SignatureMismatch{s.Signature}
	}
	if uint16(s.FatBlocks)+s.DataBlocks != s.TotalBlocks-2 {
		return GeometryMismatch{fmt.Sprintf("%d fat blocks + %d data blocks != %d total - 2", s.FatBlocks, s.DataBlocks, s.TotalBlocks)}
	}
	if s.TotalBlocks != blockCount {
		return GeometryMismatch{fmt.Sprintf("superblock claims %d blocks, device has %d", s.TotalBlocks, blockCount)}
	}
	if uint16(s.FatBlocks)+1 != s.RootIndex || s.RootIndex+1 != s.DataIndex {
		return GeometryMismatch{fmt.Sprintf("blocks are not contiguous: fat=%d root=%d data=%d", s.FatBlocks, s.RootIndex, s.DataIndex)}
	}
	if s.FatBlocks != fatBlocksFor(s.DataBlocks) {
		return GeometryMismatch{fmt.Sprintf("%d fat blocks cannot be minimal for %d data blocks", s.FatBlocks, s.DataBlocks)}
	}
	if s.DataBlocks == 0 {
		return GeometryMismatch{"volume has no data blocks"}
	}

	return nil
}
