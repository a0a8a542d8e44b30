package fs

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Filesystem is one mounted volume. It owns the in-memory copies of the
// superblock, allocation table and root directory between Mount and Unmount;
// a successful Unmount consumes it.
type Filesystem struct {
	dev   BlockDevice
	super Superblock
	fat   AllocTable
	root  Directory
	files fileTable
}

// Info is the read-only volume summary.
type Info struct {
	TotalBlocks uint16
	FatBlocks   uint8
	RootIndex   uint16
	DataIndex   uint16
	DataBlocks  uint16
	FreeBlocks  int
	FreeEntries int
}

// ListEntry is one row of a directory listing.
type ListEntry struct {
	Name       string
	Size       uint32
	FirstBlock uint16
}

// Format writes a blank filesystem onto the device: superblock, empty
// allocation table and empty root directory. Data blocks are left untouched.
func Format(dev BlockDevice) error {
	sb, err := NewSuperblock(dev.BlockCount())
	if err != nil {
		return err
	}

	block := make([]byte, BlockSize)
	sb.Encode(block)
	err = dev.WriteBlock(0, block)
	if err != nil {
		return errors.Wrap(err, "write superblock")
	}

	err = NewAllocTable(sb.DataBlocks).Store(dev, sb)
	if err != nil {
		return err
	}

	var root Directory
	root.Encode(block)
	err = dev.WriteBlock(sb.RootIndex, block)
	if err != nil {
		return errors.Wrap(err, "write root directory")
	}

	log.WithFields(log.Fields{
		"total_blocks": sb.TotalBlocks,
		"fat_blocks":   sb.FatBlocks,
		"data_blocks":  sb.DataBlocks,
	}).Debug("volume formatted")

	return nil
}

// Mount validates the volume on the device and loads its metadata. On any
// validation or device failure nothing is mounted and the device is left to
// the caller.
func Mount(dev BlockDevice) (*Filesystem, error) {
	block := make([]byte, BlockSize)
	err := dev.ReadBlock(0, block)
	if err != nil {
		return nil, errors.Wrap(err, "read superblock")
	}

	var sb Superblock
	sb.Decode(block)

	err = sb.Validate(dev.BlockCount())
	if err != nil {
		return nil, err
	}

	fat, err := LoadAllocTable(dev, sb)
	if err != nil {
		return nil, err
	}

	if fat[0] != FatEOC {
		return nil, GeometryMismatch{"allocation table entry 0 is not the terminal sentinel"}
	}

	err = dev.ReadBlock(sb.RootIndex, block)
	if err != nil {
		return nil, errors.Wrap(err, "read root directory")
	}

	f := &Filesystem{
		dev:   dev,
		super: sb,
		fat:   fat,
	}
	f.root.Decode(block)

	log.WithFields(log.Fields{
		"total_blocks": sb.TotalBlocks,
		"data_blocks":  sb.DataBlocks,
	}).Debug("volume mounted")

	return f, nil
}

// Mounted reports whether the filesystem still owns a device.
func (f *Filesystem) Mounted() bool {
	return f != nil && f.dev != nil
}

// Unmount persists the superblock, allocation table and root directory, then
// closes the device. After a successful unmount the filesystem is dead.
func (f *Filesystem) Unmount() error {
	if !f.Mounted() {
		return ErrNotMounted
	}

	block := make([]byte, BlockSize)
	f.super.Encode(block)
	err := f.dev.WriteBlock(0, block)
	if err != nil {
		return errors.Wrap(err, "write superblock")
	}

	err = f.fat.Store(f.dev, f.super)
	if err != nil {
		return err
	}

	f.root.Encode(block)
	err = f.dev.WriteBlock(f.super.RootIndex, block)
	if err != nil {
		return errors.Wrap(err, "write root directory")
	}

	err = f.dev.Close()
	if err != nil {
		return errors.Wrap(err, "close device")
	}

	f.dev = nil

	log.Debug("volume unmounted")

	return nil
}

// Info reports the volume geometry and free ratios.
func (f *Filesystem) Info() (Info, error) {
	if !f.Mounted() {
		return Info{}, ErrNotMounted
	}

	return Info{
		TotalBlocks: f.super.TotalBlocks,
		FatBlocks:   f.super.FatBlocks,
		RootIndex:   f.super.RootIndex,
		DataIndex:   f.super.DataIndex,
		DataBlocks:  f.super.DataBlocks,
		FreeBlocks:  f.fat.FreeCount(),
		FreeEntries: f.root.FreeCount(),
	}, nil
}

// Create adds an empty file to the root directory and reserves its first
// data block. It refuses to run while every open-file slot is busy.
func (f *Filesystem) Create(name string) error {
	if !f.Mounted() {
		return ErrNotMounted
	}
	if len(name) == 0 || len(name) >= FilenameLength {
		return InvalidName{name}
	}
	if f.files.open == OpenMaxCount {
		return ErrOpenTableFull
	}
	if _, ok := f.root.Find(name); ok {
		return FileExists{name}
	}

	slot, ok := f.root.FindFree()
	if !ok {
		return ErrDirectoryFull
	}

	firstBlock, ok := f.fat.FindFree()
	if !ok {
		return ErrNoFreeBlock
	}

	f.fat[firstBlock] = FatEOC
	f.root[slot] = DirEntry{
		Name:       NameToBytes(name),
		Size:       0,
		FirstBlock: firstBlock,
	}

	return nil
}

// Delete removes a file and frees its first block. It is refused while any
// file on the volume is open, not just the target.
func (f *Filesystem) Delete(name string) error {
	if !f.Mounted() {
		return ErrNotMounted
	}

	slot, ok := f.root.Find(name)
	if !ok {
		return FileNotFound{name}
	}
	if f.files.open > 0 {
		return ErrFilesOpen
	}

	f.fat[f.root[slot].FirstBlock] = 0
	f.root[slot] = DirEntry{}

	return nil
}

// Ls lists every file in slot order.
func (f *Filesystem) Ls() ([]ListEntry, error) {
	if !f.Mounted() {
		return nil, ErrNotMounted
	}

	listing := make([]ListEntry, 0)
	for _, entry := range f.root {
		if entry.IsUsed() {
			listing = append(listing, ListEntry{
				Name:       NameString(entry.Name[:]),
				Size:       entry.Size,
				FirstBlock: entry.FirstBlock,
			})
		}
	}

	return listing, nil
}

// Open starts a session on an existing file and returns its descriptor.
func (f *Filesystem) Open(name string) (int, error) {
	if !f.Mounted() {
		return 0, ErrNotMounted
	}
	if f.files.open == OpenMaxCount {
		return 0, ErrOpenTableFull
	}
	if len(name) == 0 {
		return 0, InvalidName{name}
	}
	if _, ok := f.root.Find(name); !ok {
		return 0, FileNotFound{name}
	}

	return f.files.allocate(name)
}

// Close ends a session.
func (f *Filesystem) Close(fd int) error {
	if !f.Mounted() {
		return ErrNotMounted
	}

	return f.files.release(fd)
}

// Stat returns the current size of the file a descriptor refers to.
func (f *Filesystem) Stat(fd int) (uint32, error) {
	if !f.Mounted() {
		return 0, ErrNotMounted
	}

	_, entry, err := f.resolve(fd)
	if err != nil {
		return 0, err
	}

	return entry.Size, nil
}

// Lseek moves a session's offset. The offset may land anywhere within the
// file, including exactly at its end.
func (f *Filesystem) Lseek(fd int, offset int64) error {
	if !f.Mounted() {
		return ErrNotMounted
	}

	session, entry, err := f.resolve(fd)
	if err != nil {
		return err
	}

	if offset < 0 || offset > int64(entry.Size) {
		return OffsetOutOfRange{offset, entry.Size}
	}

	session.offset = offset

	return nil
}

// resolve validates a descriptor and re-resolves its filename against the
// directory.
func (f *Filesystem) resolve(fd int) (*openFile, *DirEntry, error) {
	session, err := f.files.get(fd)
	if err != nil {
		return nil, nil, err
	}

	slot, ok := f.root.Find(NameString(session.name[:]))
	if !ok {
		return nil, nil, FileNotFound{NameString(session.name[:])}
	}

	return session, &f.root[slot], nil
}

// blockFor translates a byte offset into the physical block index and the
// offset within that block. Blocks are addressed linearly from the file's
// first block; allocation chains are never walked. The bound is checked on
// the untruncated index so it can never wrap back into the metadata blocks.
func (f *Filesystem) blockFor(entry *DirEntry, offset int64) (uint16, int, error) {
	block := int64(f.super.DataIndex) + int64(entry.FirstBlock) + offset/BlockSize
	if block >= int64(f.super.TotalBlocks) {
		return 0, 0, BlockOutOfRange{block, f.super.TotalBlocks}
	}
	return uint16(block), int(offset % BlockSize), nil
}

// Write stores len(data) bytes at the session's current offset, then grows
// the recorded file size if the offset moved past it. Each touched block is
// read, patched and written back whole. The returned count is the requested
// count; writes are not bounded by the file's block allocation.
func (f *Filesystem) Write(fd int, data []byte) (int, error) {
	if !f.Mounted() {
		return 0, ErrNotMounted
	}

	session, entry, err := f.resolve(fd)
	if err != nil {
		return 0, err
	}

	offset := session.offset
	remaining := data
	staging := make([]byte, BlockSize)

	for len(remaining) > 0 {
		block, within, err := f.blockFor(entry, offset)
		if err != nil {
			return 0, err
		}

		chunk := BlockSize - within
		if chunk > len(remaining) {
			chunk = len(remaining)
		}

		err = f.dev.ReadBlock(block, staging)
		if err != nil {
			return 0, err
		}

		copy(staging[within:], remaining[:chunk])

		err = f.dev.WriteBlock(block, staging)
		if err != nil {
			return 0, err
		}

		offset += int64(chunk)
		remaining = remaining[chunk:]
	}

	session.offset = offset
	if offset > int64(entry.Size) {
		entry.Size = uint32(offset)
	}

	return len(data), nil
}

// Read copies up to len(buf) bytes from the session's current offset,
// bounded by the end of the file. Reading at or past the end returns zero
// bytes and no error.
func (f *Filesystem) Read(fd int, buf []byte) (int, error) {
	if !f.Mounted() {
		return 0, ErrNotMounted
	}

	session, entry, err := f.resolve(fd)
	if err != nil {
		return 0, err
	}

	offset := session.offset
	if offset >= int64(entry.Size) {
		return 0, nil
	}

	count := int64(len(buf))
	if offset+count > int64(entry.Size) {
		count = int64(entry.Size) - offset
	}

	read := 0
	staging := make([]byte, BlockSize)

	for int64(read) < count {
		block, within, err := f.blockFor(entry, offset)
		if err != nil {
			return 0, err
		}

		chunk := int64(BlockSize - within)
		if chunk > count-int64(read) {
			chunk = count - int64(read)
		}

		err = f.dev.ReadBlock(block, staging)
		if err != nil {
			return 0, err
		}

		copy(buf[read:], staging[within:within+int(chunk)])

		offset += chunk
		read += int(chunk)
	}

	session.offset = offset

	return read, nil
}
