package fs

import (
	"bytes"
	"testing"
)

func TestSuperblockGeometrySmall(t *testing.T) {
	s, err := NewSuperblock(8)
	if err != nil {
		t.Fatal(err)
	}

	if s.FatBlocks != 1 {
		t.Errorf("FatBlocks is %d, should be 1", s.FatBlocks)
	}
	if s.RootIndex != 2 {
		t.Errorf("RootIndex is %d, should be 2", s.RootIndex)
	}
	if s.DataIndex != 3 {
		t.Errorf("DataIndex is %d, should be 3", s.DataIndex)
	}
	if s.DataBlocks != 5 {
		t.Errorf("DataBlocks is %d, should be 5", s.DataBlocks)
	}
	if string(s.Signature[:]) != Signature {
		t.Errorf("bad signature %q", s.Signature[:])
	}
}

func TestSuperblockGeometryNeedsTwoFatBlocks(t *testing.T) {
	// 4100 total: 2 fat blocks hold exactly 4096 entries.
	s, err := NewSuperblock(4100)
	if err != nil {
		t.Fatal(err)
	}

	if s.FatBlocks != 2 {
		t.Errorf("FatBlocks is %d, should be 2", s.FatBlocks)
	}
	if s.DataBlocks != 4096 {
		t.Errorf("DataBlocks is %d, should be 4096", s.DataBlocks)
	}
	if err := s.Validate(4100); err != nil {
		t.Errorf("fresh superblock does not validate: %v", err)
	}
}

func TestSuperblockTooSmall(t *testing.T) {
	_, err := NewSuperblock(3)
	if err == nil {
		t.Error("3-block volume should be refused")
	}
}

func TestSuperblockEncodeDecode(t *testing.T) {
	s, err := NewSuperblock(128)
	if err != nil {
		t.Fatal(err)
	}

	block := make([]byte, BlockSize)
	for i := range block {
		block[i] = 0xAA
	}
	s.Encode(block)

	if !bytes.Equal(block[:8], []byte(Signature)) {
		t.Errorf("signature bytes are %q", block[:8])
	}
	for i := 17; i < BlockSize; i++ {
		if block[i] != 0 {
			t.Fatalf("padding byte %d is not zero", i)
		}
	}

	var decoded Superblock
	decoded.Decode(block)
	if decoded != s {
		t.Errorf("decoded superblock %+v differs from %+v", decoded, s)
	}
}

func TestValidateRejectsBadSignature(t *testing.T) {
	s, _ := NewSuperblock(8)
	copy(s.Signature[:], "ECS150XX")

	err := s.Validate(8)
	if _, ok := err.(SignatureMismatch); !ok {
		t.Errorf("expected SignatureMismatch, got %v", err)
	}
}

func TestValidateRejectsBlockCountMismatch(t *testing.T) {
	s, _ := NewSuperblock(8)

	err := s.Validate(16)
	if err == nil {
		t.Error("device with different block count should be refused")
	}
}

func TestValidateRejectsBrokenGeometry(t *testing.T) {
	s, _ := NewSuperblock(8)
	s.DataBlocks++

	if s.Validate(8) == nil {
		t.Error("fat+data != total-2 should be refused")
	}

	s, _ = NewSuperblock(8)
	s.RootIndex++
	s.DataIndex++
	s.DataBlocks--
	s.FatBlocks++

	if s.Validate(8) == nil {
		t.Error("non-minimal fat should be refused")
	}
}

func TestValidateRejectsBadOrdering(t *testing.T) {
	s, _ := NewSuperblock(8)
	s.RootIndex, s.DataIndex = s.DataIndex, s.RootIndex

	if s.Validate(8) == nil {
		t.Error("out-of-order root and data blocks should be refused")
	}
}
