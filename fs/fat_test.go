package fs

import "testing"

func TestNewAllocTableSentinel(t *testing.T) {
	table := NewAllocTable(10)

	if table[0] != FatEOC {
		t.Error("entry 0 must hold the terminal sentinel")
	}
	if table.FreeCount() != 9 {
		t.Errorf("free count is %d, should be 9", table.FreeCount())
	}
}

func TestAllocTableFindFreeSkipsSentinel(t *testing.T) {
	table := NewAllocTable(4)

	idx, ok := table.FindFree()
	if !ok {
		t.Fatal("fresh table should have a free entry")
	}
	if idx != 1 {
		t.Errorf("first free entry is %d, should be 1", idx)
	}

	table[1] = FatEOC
	table[2] = FatEOC
	table[3] = FatEOC

	if _, ok := table.FindFree(); ok {
		t.Error("full table should have no free entry")
	}
}

func TestAllocTableStoreLoad(t *testing.T) {
	disk, _ := newTestDisk(t, 8)
	defer func() {
		_ = disk.Close()
	}()

	sb, err := NewSuperblock(8)
	if err != nil {
		t.Fatal(err)
	}

	table := NewAllocTable(sb.DataBlocks)
	table[2] = FatEOC
	table[4] = 0x1234

	err = table.Store(disk, sb)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadAllocTable(disk, sb)
	if err != nil {
		t.Fatal(err)
	}

	if len(loaded) != int(sb.DataBlocks) {
		t.Fatalf("loaded %d entries, should be %d", len(loaded), sb.DataBlocks)
	}
	for i := range table {
		if loaded[i] != table[i] {
			t.Errorf("entry %d is %#x, should be %#x", i, loaded[i], table[i])
		}
	}
}
