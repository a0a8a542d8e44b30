// Package fsapi wraps the descriptor operations of a mounted filesystem in a
// file object with standard io semantics.
package fsapi

import (
	"fmt"
	"io"

	"github.com/tkaspar/fatfs/fs"
)

type File struct {
	filesystem *fs.Filesystem
	fd         int
	name       string
	pos        int64
}

// Open starts a descriptor session on an existing file.
func Open(filesystem *fs.Filesystem, name string) (*File, error) {
	fd, err := filesystem.Open(name)
	if err != nil {
		return nil, err
	}

	return &File{
		filesystem: filesystem,
		fd:         fd,
		name:       name,
		pos:        0,
	}, nil
}

// Create makes the file if it does not exist yet, then opens it.
func Create(filesystem *fs.Filesystem, name string) (*File, error) {
	err := filesystem.Create(name)
	if err != nil {
		if _, ok := err.(fs.FileExists); !ok {
			return nil, err
		}
	}

	return Open(filesystem, name)
}

func (f *File) Name() string {
	return f.name
}

func (f *File) Fd() int {
	return f.fd
}

// Size returns the file's current recorded size.
func (f *File) Size() (int64, error) {
	size, err := f.filesystem.Stat(f.fd)
	if err != nil {
		return 0, err
	}

	return int64(size), nil
}

func (f *File) Read(p []byte) (int, error) {
	n, err := f.filesystem.Read(f.fd, p)
	if err != nil {
		return 0, err
	}

	f.pos += int64(n)

	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}

	return n, nil
}

func (f *File) Write(p []byte) (int, error) {
	n, err := f.filesystem.Write(f.fd, p)
	if err != nil {
		return 0, err
	}

	f.pos += int64(n)

	return n, nil
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	var target int64

	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = f.pos + offset
	case io.SeekEnd:
		size, err := f.Size()
		if err != nil {
			return 0, err
		}
		target = size + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}

	err := f.filesystem.Lseek(f.fd, target)
	if err != nil {
		return 0, err
	}

	f.pos = target

	return target, nil
}

func (f *File) Close() error {
	return f.filesystem.Close(f.fd)
}
