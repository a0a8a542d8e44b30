package fs

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// BlockSize is the size of every block on a volume. The on-disk format is
// defined in terms of this value, so it must match across implementations.
const BlockSize = 4096

// BlockDevice is the narrow contract the filesystem consumes: a fixed number
// of equally sized blocks, readable and writable only as whole blocks.
type BlockDevice interface {
	BlockCount() uint16
	ReadBlock(index uint16, buf []byte) error
	WriteBlock(index uint16, data []byte) error
	Close() error
}

type BlockOutOfRange struct {
	Index int64
	Count uint16
}

func (b BlockOutOfRange) Error() string {
	return fmt.Sprintf("block index %d out of range, device has %d blocks", b.Index, b.Count)
}

// Disk is a file-backed block device.
type Disk struct {
	file   *os.File
	blocks uint16
}

// CreateDisk creates a volume file of the given block count, zero-filled.
func CreateDisk(path string, blocks uint16) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create volume file")
	}

	defer func() {
		_ = f.Close()
	}()

	err = f.Truncate(int64(blocks) * BlockSize)
	if err != nil {
		return errors.Wrap(err, "truncate volume file")
	}

	return nil
}

// OpenDisk opens an existing volume file. The file size must be a whole
// number of blocks.
func OpenDisk(path string) (*Disk, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0600)
	if err != nil {
		return nil, errors.Wrap(err, "open volume file")
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "stat volume file")
	}

	if stat.Size()%BlockSize != 0 {
		_ = f.Close()
		return nil, errors.Errorf("volume size %d is not a multiple of the block size", stat.Size())
	}

	log.WithFields(log.Fields{
		"path":   path,
		"blocks": stat.Size() / BlockSize,
	}).Debug("volume file opened")

	return &Disk{
		file:   f,
		blocks: uint16(stat.Size() / BlockSize),
	}, nil
}

func (d *Disk) BlockCount() uint16 {
	return d.blocks
}

func (d *Disk) ReadBlock(index uint16, buf []byte) error {
	if index >= d.blocks {
		return BlockOutOfRange{int64(index), d.blocks}
	}
	if len(buf) != BlockSize {
		return errors.Errorf("read buffer has %d bytes, want %d", len(buf), BlockSize)
	}

	_, err := d.file.Seek(int64(index)*BlockSize, io.SeekStart)
	if err != nil {
		return errors.Wrapf(err, "seek to block %d", index)
	}

	_, err = io.ReadFull(d.file, buf)
	if err != nil {
		return errors.Wrapf(err, "read block %d", index)
	}

	return nil
}

func (d *Disk) WriteBlock(index uint16, data []byte) error {
	if index >= d.blocks {
		return BlockOutOfRange{int64(index), d.blocks}
	}
	if len(data) != BlockSize {
		return errors.Errorf("write buffer has %d bytes, want %d", len(data), BlockSize)
	}

	_, err := d.file.Seek(int64(index)*BlockSize, io.SeekStart)
	if err != nil {
		return errors.Wrapf(err, "seek to block %d", index)
	}

	_, err = d.file.Write(data)
	if err != nil {
		return errors.Wrapf(err, "write block %d", index)
	}

	return nil
}

func (d *Disk) Close() error {
	log.WithField("path", d.file.Name()).Debug("volume file closed")
	return d.file.Close()
}

// Destroy closes the disk and removes the backing file.
func (d *Disk) Destroy() error {
	_ = d.Close()
	return os.Remove(d.file.Name())
}
