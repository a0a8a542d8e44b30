package fs

import "testing"

func TestNameConversion(t *testing.T) {
	nameBytes := NameToBytes("a.txt")

	if NameString(nameBytes[:]) != "a.txt" {
		t.Errorf("round trip gave %q", NameString(nameBytes[:]))
	}
	for i := 5; i < FilenameLength; i++ {
		if nameBytes[i] != 0 {
			t.Fatalf("name byte %d is not zero padding", i)
		}
	}
}

func TestDirectoryFindIsFixedWidth(t *testing.T) {
	var dir Directory
	dir[3] = DirEntry{Name: NameToBytes("a.txt"), Size: 42, FirstBlock: 7}

	slot, ok := dir.Find("a.txt")
	if !ok || slot != 3 {
		t.Errorf("found slot %d (ok=%v), should be 3", slot, ok)
	}

	if _, ok := dir.Find("a.tx"); ok {
		t.Error("prefix must not match a longer name")
	}
	if _, ok := dir.Find("a.txt2"); ok {
		t.Error("longer name must not match")
	}
}

func TestDirectoryFirstFit(t *testing.T) {
	var dir Directory
	dir[0] = DirEntry{Name: NameToBytes("zero")}
	dir[2] = DirEntry{Name: NameToBytes("two")}

	slot, ok := dir.FindFree()
	if !ok || slot != 1 {
		t.Errorf("first free slot is %d (ok=%v), should be 1", slot, ok)
	}

	if dir.FreeCount() != FileMaxCount-2 {
		t.Errorf("free count is %d, should be %d", dir.FreeCount(), FileMaxCount-2)
	}
}

func TestDirectoryEncodeDecode(t *testing.T) {
	var dir Directory
	dir[0] = DirEntry{Name: NameToBytes("first"), Size: 4096, FirstBlock: 1}
	dir[127] = DirEntry{Name: NameToBytes("last"), Size: 3, FirstBlock: 9}

	block := make([]byte, BlockSize)
	dir.Encode(block)

	var decoded Directory
	decoded.Decode(block)

	if decoded != dir {
		t.Error("decoded directory differs from encoded directory")
	}
}
