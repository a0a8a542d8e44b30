package fsapi

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkaspar/fatfs/fs"
)

func newTestFS(t *testing.T) *fs.Filesystem {
	t.Helper()

	path := filepath.Join(t.TempDir(), "volume.fs")
	require.NoError(t, fs.CreateDisk(path, 32))

	disk, err := fs.OpenDisk(path)
	require.NoError(t, err)
	require.NoError(t, fs.Format(disk))

	filesystem, err := fs.Mount(disk)
	require.NoError(t, err)

	t.Cleanup(func() {
		if filesystem.Mounted() {
			_ = filesystem.Unmount()
		}
	})

	return filesystem
}

func TestFileRoundTrip(t *testing.T) {
	filesystem := newTestFS(t)

	file, err := Create(filesystem, "notes.txt")
	require.NoError(t, err)

	n, err := file.Write([]byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	pos, err := file.Seek(0, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)

	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	require.NoError(t, file.Close())
}

func TestFileReadAtEndReturnsEOF(t *testing.T) {
	filesystem := newTestFS(t)

	file, err := Create(filesystem, "empty")
	require.NoError(t, err)
	defer func() {
		_ = file.Close()
	}()

	buf := make([]byte, 10)
	n, err := file.Read(buf)
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)
}

func TestFileSeekWhence(t *testing.T) {
	filesystem := newTestFS(t)

	file, err := Create(filesystem, "seek")
	require.NoError(t, err)
	defer func() {
		_ = file.Close()
	}()

	_, err = file.Write([]byte("0123456789"))
	require.NoError(t, err)

	pos, err := file.Seek(-4, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)

	pos, err = file.Seek(-2, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)

	buf := make([]byte, 3)
	_, err = file.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "456", string(buf))

	_, err = file.Seek(11, io.SeekStart)
	assert.Error(t, err)

	_, err = file.Seek(0, 42)
	assert.Error(t, err)
}

func TestFileSize(t *testing.T) {
	filesystem := newTestFS(t)

	file, err := Create(filesystem, "sized")
	require.NoError(t, err)
	defer func() {
		_ = file.Close()
	}()

	size, err := file.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(0), size)

	_, err = file.Write(make([]byte, 5000))
	require.NoError(t, err)

	size, err = file.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(5000), size)
}

func TestCreateOpensExistingFile(t *testing.T) {
	filesystem := newTestFS(t)

	first, err := Create(filesystem, "shared")
	require.NoError(t, err)
	_, err = first.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Create(filesystem, "shared")
	require.NoError(t, err)
	defer func() {
		_ = second.Close()
	}()

	size, err := second.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(7), size, "Create on an existing file must not truncate it")
}

func TestList(t *testing.T) {
	filesystem := newTestFS(t)

	for _, name := range []string{"a", "b"} {
		file, err := Create(filesystem, name)
		require.NoError(t, err)
		require.NoError(t, file.Close())
	}

	listing, err := List(filesystem)
	require.NoError(t, err)
	require.Len(t, listing, 2)
	assert.Equal(t, "a", listing[0].Name())
	assert.Equal(t, "b", listing[1].Name())
	assert.Equal(t, uint16(1), listing[0].FirstBlock())
}
