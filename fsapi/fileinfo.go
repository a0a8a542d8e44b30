package fsapi

import "github.com/tkaspar/fatfs/fs"

type FileInfo struct {
	name       string
	size       int64
	firstBlock uint16
}

func (fi FileInfo) Name() string {
	return fi.name
}

func (fi FileInfo) Size() int64 {
	return fi.size
}

func (fi FileInfo) FirstBlock() uint16 {
	return fi.firstBlock
}

// List returns every file on the volume in directory order.
func List(filesystem *fs.Filesystem) ([]FileInfo, error) {
	listing, err := filesystem.Ls()
	if err != nil {
		return nil, err
	}

	fileInfos := make([]FileInfo, 0, len(listing))
	for _, entry := range listing {
		fileInfos = append(fileInfos, FileInfo{
			name:       entry.Name,
			size:       int64(entry.Size),
			firstBlock: entry.FirstBlock,
		})
	}

	return fileInfos, nil
}
