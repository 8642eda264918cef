package layout

import (
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

type testItem struct{ start, end int }

func (t *testItem) Start() int { return t.start }
func (t *testItem) End() int   { return t.end }

func items(spans ...[2]int) []Item {
	var r []Item
	for _, s := range spans {
		r = append(r, &testItem{s[0], s[1]})
	}
	return r
}

func spans(rows Rows) [][][2]int {
	var r [][][2]int
	for _, row := range rows {
		var s [][2]int
		for _, item := range row {
			s = append(s, [2]int{item.Start(), item.End()})
		}
		r = append(r, s)
	}
	return r
}

func TestPack(t *testing.T) {
	tests := []struct {
		in   [][2]int
		want [][][2]int
	}{
		{nil, nil},
		{[][2]int{{100, 110}, {112, 120}, {200, 210}}, [][][2]int{{{100, 110}, {112, 120}, {200, 210}}}},
		{
			[][2]int{{100, 110}, {112, 120}, {200, 210}, {105, 108}},
			[][][2]int{{{100, 110}, {112, 120}, {200, 210}}, {{105, 108}}},
		},
		// Adjacent items need a one-base gap.
		{[][2]int{{100, 110}, {111, 120}}, [][][2]int{{{100, 110}}, {{111, 120}}}},
		// Sorted by start, then end.
		{[][2]int{{50, 60}, {5, 10}, {5, 8}}, [][][2]int{{{5, 8}, {50, 60}}, {{5, 10}}}},
		// Lowest row first, even if a later row also fits.
		{
			[][2]int{{1, 10}, {2, 3}, {20, 30}},
			[][][2]int{{{1, 10}, {20, 30}}, {{2, 3}}},
		},
	}
	for _, test := range tests {
		in := items(test.in...)
		expect.EQ(t, spans(Pack(in)), test.want, "in: %v", test.in)
	}
}

func TestPackDoesNotModifyInput(t *testing.T) {
	in := items([2]int{30, 40}, [2]int{1, 5})
	Pack(in)
	expect.EQ(t, in[0].Start(), 30)
}

func TestPackStable(t *testing.T) {
	a, b := &testItem{10, 20}, &testItem{10, 20}
	rows := Pack([]Item{a, b})
	require.Len(t, rows, 2)
	expect.True(t, rows[0][0] == Item(a))
	expect.True(t, rows[1][0] == Item(b))
}

func TestAssignment(t *testing.T) {
	in := items([2]int{100, 110}, [2]int{105, 108}, [2]int{112, 120})
	m := Pack(in).Assignment()
	expect.EQ(t, len(m), 3)
	expect.EQ(t, m[in[0]], 0)
	expect.EQ(t, m[in[1]], 1)
	expect.EQ(t, m[in[2]], 0)
}

// maxOccupancy returns the largest number of items whose [start, end+1]
// spans share a position.
func maxOccupancy(in []Item) int {
	best := 0
	for _, a := range in {
		n := 0
		for _, b := range in {
			if b.Start() <= a.Start() && a.Start() <= b.End()+1 {
				n++
			}
		}
		if n > best {
			best = n
		}
	}
	return best
}

func TestPackRandom(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for iter := 0; iter < 200; iter++ {
		var in []Item
		for i := r.Intn(50); i >= 0; i-- {
			start := 1 + r.Intn(500)
			in = append(in, &testItem{start, start + r.Intn(60)})
		}
		rows := Pack(in)
		n := 0
		for _, row := range rows {
			for i := 1; i < len(row); i++ {
				require.True(t, row[i-1].End()+1 < row[i].Start(), "row: %v", spans(Rows{row}))
			}
			n += len(row)
		}
		expect.EQ(t, n, len(in))
		expect.EQ(t, len(rows), maxOccupancy(in))
	}
}
