package fs

// openFile is one open-file session: a copy of the filename used to
// re-resolve the directory entry on every operation, and the byte offset.
type openFile struct {
	name   [FilenameLength]byte
	offset int64
}

func (f openFile) isOpen() bool {
	return f.name[0] != 0
}

// fileTable holds every open-file session. The slot index is the descriptor
// handed back to the caller.
type fileTable struct {
	files [OpenMaxCount]openFile
	open  int
}

// allocate claims the lowest free slot for the given name at offset 0.
func (t *fileTable) allocate(name string) (int, error) {
	if t.open == OpenMaxCount {
		return 0, ErrOpenTableFull
	}

	for i := range t.files {
		if !t.files[i].isOpen() {
			t.files[i] = openFile{name: NameToBytes(name)}
			t.open++
			return i, nil
		}
	}

	return 0, ErrOpenTableFull
}

// get validates a descriptor and returns its session.
func (t *fileTable) get(fd int) (*openFile, error) {
	if fd < 0 || fd >= OpenMaxCount {
		return nil, BadDescriptor{fd}
	}
	if !t.files[fd].isOpen() {
		return nil, BadDescriptor{fd}
	}

	return &t.files[fd], nil
}

// release zeroes a descriptor's session.
func (t *fileTable) release(fd int) error {
	_, err := t.get(fd)
	if err != nil {
		return err
	}

	t.files[fd] = openFile{}
	t.open--

	return nil
}
