package commands

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/tkaspar/fatfs/fs"
	"github.com/tkaspar/fatfs/fsapi"
)

func getFilesystem(c *ishell.Context) *fs.Filesystem {
	return c.Get("fs").(*fs.Filesystem)
}

// parseSize converts a human size argument ("64kb", "8mb", plain bytes) to
// a byte count.
func parseSize(arg string) (int64, error) {
	re := regexp.MustCompile(`(?i)^(?P<value>\d+)(?P<unit>[kmg]?b)?$`)
	submatch := re.FindStringSubmatch(arg)
	if submatch == nil {
		return 0, errors.New("invalid size, expected something like 64KB or 8MB")
	}

	value, err := strconv.ParseInt(submatch[1], 10, 64)
	if err != nil {
		return 0, err
	}

	switch strings.ToLower(submatch[2]) {
	case "kb":
		value *= 1e3
	case "mb":
		value *= 1e6
	case "gb":
		value *= 1e9
	}

	return value, nil
}

// blocksForSize converts a byte size to a block count, refusing sizes the
// 16-bit block indices of the on-disk format cannot address.
func blocksForSize(size int64) (uint16, error) {
	blocks := size / fs.BlockSize
	if blocks > math.MaxUint16 {
		return 0, fmt.Errorf("volume of %d blocks is too large, the format addresses at most %d", blocks, math.MaxUint16)
	}

	return uint16(blocks), nil
}

// Format creates a volume file of the requested size at the shell's volume
// path, writes a blank filesystem onto it and mounts it.
func Format(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Err(errors.New("usage: format <size>"))
		return
	}

	size, err := parseSize(c.Args[0])
	if err != nil {
		c.Err(err)
		return
	}

	blocks, err := blocksForSize(size)
	if err != nil {
		c.Err(err)
		return
	}

	path := c.Get("volume_path").(string)
	err = fs.CreateDisk(path, blocks)
	if err != nil {
		c.Err(err)
		return
	}

	disk, err := fs.OpenDisk(path)
	if err != nil {
		c.Err(err)
		return
	}

	err = fs.Format(disk)
	if err != nil {
		c.Err(err)
		return
	}

	mounted, err := fs.Mount(disk)
	if err != nil {
		c.Err(err)
		return
	}

	*getFilesystem(c) = *mounted
}

// Mount loads the filesystem from the shell's volume path.
func Mount(c *ishell.Context) {
	path := c.Get("volume_path").(string)

	disk, err := fs.OpenDisk(path)
	if err != nil {
		c.Err(err)
		return
	}

	mounted, err := fs.Mount(disk)
	if err != nil {
		_ = disk.Close()
		c.Err(err)
		return
	}

	*getFilesystem(c) = *mounted
}

// Umount persists all metadata and closes the volume.
func Umount(c *ishell.Context) {
	err := getFilesystem(c).Unmount()
	if err != nil {
		c.Err(err)
	}
}

func Info(c *ishell.Context) {
	info, err := getFilesystem(c).Info()
	if err != nil {
		c.Err(err)
		return
	}

	c.Println("FS Info:")
	c.Printf("total_blk_count=%d\n", info.TotalBlocks)
	c.Printf("fat_blk_count=%d\n", info.FatBlocks)
	c.Printf("rdir_blk=%d\n", info.RootIndex)
	c.Printf("data_blk=%d\n", info.DataIndex)
	c.Printf("data_blk_count=%d\n", info.DataBlocks)
	c.Printf("fat_free_ratio=%d/%d\n", info.FreeBlocks, info.DataBlocks)
	c.Printf("rdir_free_ratio=%d/%d\n", info.FreeEntries, fs.FileMaxCount)
}

func Create(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Err(errors.New("usage: create <filename>"))
		return
	}

	err := getFilesystem(c).Create(c.Args[0])
	if err != nil {
		c.Err(err)
	}
}

func Rm(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Err(errors.New("usage: rm <filename>"))
		return
	}

	err := getFilesystem(c).Delete(c.Args[0])
	if err != nil {
		c.Err(err)
	}
}

func Ls(c *ishell.Context) {
	listing, err := getFilesystem(c).Ls()
	if err != nil {
		c.Err(err)
		return
	}

	c.Println("FS Ls:")
	for _, entry := range listing {
		c.Printf("file: %s, size: %d, data_blk: %d\n", entry.Name, entry.Size, entry.FirstBlock)
	}
}

func Open(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Err(errors.New("usage: open <filename>"))
		return
	}

	fd, err := getFilesystem(c).Open(c.Args[0])
	if err != nil {
		c.Err(err)
		return
	}

	c.Printf("fd=%d\n", fd)
}

func Close(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Err(errors.New("usage: close <fd>"))
		return
	}

	fd, err := strconv.Atoi(c.Args[0])
	if err != nil {
		c.Err(err)
		return
	}

	err = getFilesystem(c).Close(fd)
	if err != nil {
		c.Err(err)
	}
}

func Stat(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Err(errors.New("usage: stat <fd>"))
		return
	}

	fd, err := strconv.Atoi(c.Args[0])
	if err != nil {
		c.Err(err)
		return
	}

	size, err := getFilesystem(c).Stat(fd)
	if err != nil {
		c.Err(err)
		return
	}

	c.Printf("size=%d\n", size)
}

func Seek(c *ishell.Context) {
	if len(c.Args) != 2 {
		c.Err(errors.New("usage: seek <fd> <offset>"))
		return
	}

	fd, err := strconv.Atoi(c.Args[0])
	if err != nil {
		c.Err(err)
		return
	}

	offset, err := strconv.ParseInt(c.Args[1], 10, 64)
	if err != nil {
		c.Err(err)
		return
	}

	err = getFilesystem(c).Lseek(fd, offset)
	if err != nil {
		c.Err(err)
	}
}

func Read(c *ishell.Context) {
	if len(c.Args) != 2 {
		c.Err(errors.New("usage: read <fd> <count>"))
		return
	}

	fd, err := strconv.Atoi(c.Args[0])
	if err != nil {
		c.Err(err)
		return
	}

	count, err := strconv.Atoi(c.Args[1])
	if err != nil {
		c.Err(err)
		return
	}

	buf := make([]byte, count)
	n, err := getFilesystem(c).Read(fd, buf)
	if err != nil {
		c.Err(err)
		return
	}

	c.Printf("%s\n", buf[:n])
}

func Write(c *ishell.Context) {
	if len(c.Args) < 2 {
		c.Err(errors.New("usage: write <fd> <data>"))
		return
	}

	fd, err := strconv.Atoi(c.Args[0])
	if err != nil {
		c.Err(err)
		return
	}

	data := strings.Join(c.Args[1:], " ")
	n, err := getFilesystem(c).Write(fd, []byte(data))
	if err != nil {
		c.Err(err)
		return
	}

	c.Printf("wrote %d bytes\n", n)
}

// Cat prints a whole file.
func Cat(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Err(errors.New("usage: cat <filename>"))
		return
	}

	file, err := fsapi.Open(getFilesystem(c), c.Args[0])
	if err != nil {
		c.Err(err)
		return
	}

	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		c.Err(err)
		return
	}

	c.Printf("%s\n", data)
}

// Incp copies a host file into the volume.
func Incp(c *ishell.Context) {
	if len(c.Args) != 2 {
		c.Err(errors.New("usage: incp <host path> <filename>"))
		return
	}

	data, err := os.ReadFile(c.Args[0])
	if err != nil {
		c.Err(err)
		return
	}

	file, err := fsapi.Create(getFilesystem(c), c.Args[1])
	if err != nil {
		c.Err(err)
		return
	}

	defer func() {
		_ = file.Close()
	}()

	_, err = file.Write(data)
	if err != nil {
		c.Err(err)
	}
}

// Outcp copies a file out of the volume to the host.
func Outcp(c *ishell.Context) {
	if len(c.Args) != 2 {
		c.Err(errors.New("usage: outcp <filename> <host path>"))
		return
	}

	file, err := fsapi.Open(getFilesystem(c), c.Args[0])
	if err != nil {
		c.Err(err)
		return
	}

	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		c.Err(err)
		return
	}

	err = os.WriteFile(c.Args[1], data, 0644)
	if err != nil {
		c.Err(err)
	}
}
