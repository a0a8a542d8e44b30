package fs

import (
	"errors"
	"fmt"
)

var (
	ErrNotMounted    = errors.New("no filesystem is mounted")
	ErrDirectoryFull = errors.New("root directory is full")
	ErrOpenTableFull = errors.New("too many open files")
	ErrNoFreeBlock   = errors.New("no free data block")
	ErrFilesOpen     = errors.New("volume has open files")
)

type SignatureMismatch struct {
	Got [SignatureLength]byte
}

func (s SignatureMismatch) Error() string {
	return fmt.Sprintf("bad superblock signature %q, want %q", s.Got[:], Signature)
}

type GeometryMismatch struct {
	Reason string
}

func (g GeometryMismatch) Error() string {
	return fmt.Sprintf("inconsistent superblock geometry: %s", g.Reason)
}

type InvalidName struct {
	Name string
}

func (i InvalidName) Error() string {
	return fmt.Sprintf("invalid filename %q, must be 1 to %d characters", i.Name, FilenameLength-1)
}

type FileNotFound struct {
	Name string
}

func (f FileNotFound) Error() string {
	return fmt.Sprintf("file %s was not found", f.Name)
}

type FileExists struct {
	Name string
}

func (f FileExists) Error() string {
	return fmt.Sprintf("file %s already exists", f.Name)
}

type BadDescriptor struct {
	Fd int
}

func (b BadDescriptor) Error() string {
	return fmt.Sprintf("file descriptor %d is not open", b.Fd)
}

type OffsetOutOfRange struct {
	Offset int64
	Size   uint32
}

func (o OffsetOutOfRange) Error() string {
	return fmt.Sprintf("offset %d is beyond file size %d", o.Offset, o.Size)
}
