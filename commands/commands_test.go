package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSize(t *testing.T) {
	cases := []struct {
		arg  string
		want int64
	}{
		{"4096", 4096},
		{"64kb", 64e3},
		{"64KB", 64e3},
		{"8MB", 8e6},
		{"1gb", 1e9},
	}

	for _, c := range cases {
		got, err := parseSize(c.arg)
		assert.NoError(t, err, c.arg)
		assert.Equal(t, c.want, got, c.arg)
	}

	for _, arg := range []string{"", "abc", "12qb", "-5", "8 MB"} {
		_, err := parseSize(arg)
		assert.Error(t, err, arg)
	}
}

func TestBlocksForSize(t *testing.T) {
	blocks, err := blocksForSize(8e6)
	assert.NoError(t, err)
	assert.Equal(t, uint16(1953), blocks)

	blocks, err = blocksForSize(65535 * 4096)
	assert.NoError(t, err)
	assert.Equal(t, uint16(65535), blocks)

	// Sizes past the 16-bit block index range must be refused, not
	// silently truncated.
	_, err = blocksForSize(1e9)
	assert.Error(t, err)

	_, err = blocksForSize(65536 * 4096)
	assert.Error(t, err)
}
