package fs

import "encoding/binary"

const dirEntrySize = 32

// DirEntry is one slot of the root directory. A zeroed first name byte marks
// the slot as free.
type DirEntry struct {
	Name       [FilenameLength]byte
	Size       uint32
	FirstBlock uint16
}

func (e DirEntry) IsUsed() bool {
	return e.Name[0] != 0
}

// Directory is the root directory: the whole namespace, one block on disk.
type Directory [FileMaxCount]DirEntry

// Encode serializes the directory into a whole-block buffer.
func (d *Directory) Encode(block []byte) {
	for i := range block {
		block[i] = 0
	}

	for i, entry := range d {
		off := i * dirEntrySize
		copy(block[off:off+FilenameLength], entry.Name[:])
		binary.LittleEndian.PutUint32(block[off+FilenameLength:], entry.Size)
		binary.LittleEndian.PutUint16(block[off+FilenameLength+4:], entry.FirstBlock)
	}
}

// Decode deserializes the directory from a whole-block buffer.
func (d *Directory) Decode(block []byte) {
	for i := range d {
		off := i * dirEntrySize
		copy(d[i].Name[:], block[off:off+FilenameLength])
		d[i].Size = binary.LittleEndian.Uint32(block[off+FilenameLength:])
		d[i].FirstBlock = binary.LittleEndian.Uint16(block[off+FilenameLength+4:])
	}
}

// Find returns the slot index of the entry with the given name.
func (d *Directory) Find(name string) (int, bool) {
	nameBytes := NameToBytes(name)
	for i := range d {
		if d[i].IsUsed() && d[i].Name == nameBytes {
			return i, true
		}
	}
	return 0, false
}

// FindFree returns the lowest free slot index.
func (d *Directory) FindFree() (int, bool) {
	for i := range d {
		if !d[i].IsUsed() {
			return i, true
		}
	}
	return 0, false
}

// FreeCount returns the number of free slots.
func (d *Directory) FreeCount() int {
	free := 0
	for i := range d {
		if !d[i].IsUsed() {
			free++
		}
	}
	return free
}

// NameToBytes pads a filename to the fixed on-disk field width.
func NameToBytes(name string) [FilenameLength]byte {
	var nameBytes [FilenameLength]byte
	copy(nameBytes[:], name)
	return nameBytes
}

// NameString trims the fixed-width name field back to a Go string.
func NameString(name []byte) string {
	for i, b := range name {
		if b == 0 {
			return string(name[:i])
		}
	}
	return string(name)
}
