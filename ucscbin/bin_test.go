package ucscbin

import (
	"testing"

	"github.com/grailbio/bamview/interval"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
)

func TestBinFor(t *testing.T) {
	tests := []struct {
		beg, end uint32
		want     Bin
	}{
		{0, 1, 4681},
		{0, 1 << 14, 4681},
		{1<<14 - 1, 1<<14 + 1, 585},
		{1 << 14, 1<<14 + 10, 4682},
		{0, 1 << 17, 585},
		{0, 1<<17 + 1, 73},
		{0, 1 << 20, 73},
		{0, 1 << 23, 9},
		{0, 1 << 26, 1},
		{1 << 26, 1<<26 + 1, 4681 + 1<<12},
		{0, 1<<26 + 1, 0},
		{0, 1 << 29, 0},
	}
	for _, tt := range tests {
		expect.EQ(t, BinFor(tt.beg, tt.end), tt.want, "[%d,%d)", tt.beg, tt.end)
	}
}

func TestBinForStable(t *testing.T) {
	for _, x := range []uint32{0, 1, 16383, 16384, 99999, 1 << 20, 1<<29 - 1} {
		b := BinFor(x, x+1)
		expect.EQ(t, BinFor(x, x+1), b)
		assert.Contains(t, BinsOverlapping(x, x+1), b)
	}
}

func TestBinForInterval(t *testing.T) {
	iv, err := interval.New("chr1", 1, 16384)
	assert.NoError(t, err)
	expect.EQ(t, BinForInterval(iv), Bin(4681))
	iv, err = interval.New("chr1", 16384, 16385)
	assert.NoError(t, err)
	expect.EQ(t, BinForInterval(iv), Bin(585))
}

func TestBinsOverlapping(t *testing.T) {
	expect.EQ(t, BinsOverlapping(0, 1), []Bin{0, 1, 9, 73, 585, 4681})
	expect.EQ(t, BinsOverlapping(1<<14-1, 1<<14+1), []Bin{0, 1, 9, 73, 585, 4681, 4682})
	expect.EQ(t, len(BinsOverlapping(100, 50)), 0)
	expect.EQ(t, len(BinsOverlapping(7, 7)), 0)
}

func TestBinsOverlappingWholeGenome(t *testing.T) {
	bins := BinsOverlapping(0, 1<<29)
	expect.EQ(t, len(bins), 1+8+64+512+4096+32768)
	expect.EQ(t, bins[0], Bin(0))
	for b := Bin(1); b <= 8; b++ {
		assert.Contains(t, bins[:9], b)
	}
	expect.EQ(t, bins[len(bins)-1], Bin(MaxBin-2))

	// Coordinates past 2^29 are clamped.
	expect.EQ(t, BinsOverlapping(0, 1<<30), bins)
}

func TestBinsOverlappingContainsBinFor(t *testing.T) {
	for _, r := range [][2]uint32{{0, 10}, {5000, 70000}, {1 << 20, 1<<20 + 300000}, {123456789, 123456790}} {
		assert.Contains(t, BinsOverlapping(r[0], r[1]), BinFor(r[0], r[1]))
	}
}

func TestLevel(t *testing.T) {
	expect.EQ(t, Level(0), 0)
	expect.EQ(t, Level(8), 1)
	expect.EQ(t, Level(9), 2)
	expect.EQ(t, Level(584), 3)
	expect.EQ(t, Level(585), 4)
	expect.EQ(t, Level(MaxBin-1), 5)
}
