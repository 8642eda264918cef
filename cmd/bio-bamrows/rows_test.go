package main

import (
	"bytes"
	"testing"

	"github.com/grailbio/bamview/encoding/bamprovider"
	"github.com/grailbio/bamview/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func testProvider(t *testing.T) bamprovider.Provider {
	chr1, err := sam.NewReference("chr1", "", "", 10000, nil, nil)
	require.NoError(t, err)
	header, err := sam.NewHeader(nil, []*sam.Reference{chr1})
	require.NoError(t, err)
	mc, err := sam.NewAux(sam.NewTag("MC"), "20M")
	require.NoError(t, err)

	m := func(n int) []sam.CigarOp { return []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, n)} }
	return bamprovider.NewFakeProvider(header, []*sam.Record{
		{Name: "a", Ref: chr1, Pos: 99, MateRef: chr1, MatePos: 149, Flags: sam.Paired | sam.Read1, Cigar: m(10)},
		{Name: "b", Ref: chr1, Pos: 104, MatePos: -1, Cigar: m(10)},
		{Name: "d", Ref: chr1, Pos: 120, MateRef: chr1, MatePos: 350, Flags: sam.Paired | sam.Read1, Cigar: m(10), AuxFields: sam.AuxFields{mc}},
		{Name: "a", Ref: chr1, Pos: 149, MateRef: chr1, MatePos: 99, Flags: sam.Paired | sam.Read2, Cigar: m(10)},
		{Name: "c", Ref: chr1, Pos: 300, MatePos: -1, Cigar: m(10)},
	})
}

func TestLayoutRegion(t *testing.T) {
	region := interval.Interval{Contig: "chr1", Start: 100, End: 200}
	tests := []struct {
		pairs bool
		want  string
	}{
		{true, `#NAME	ROW	START	END
a	0	100	159
b	1	105	114
d	1	121	370
`},
		{false, `#NAME	ROW	START	END
a	0	100	109
d	0	121	130
a	0	150	159
b	1	105	114
`},
	}
	for _, test := range tests {
		rows, err := layoutRegion(testProvider(t), region, test.pairs, false)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, writeRows(&buf, rows))
		expect.EQ(t, buf.String(), test.want, "pairs: %v", test.pairs)
	}
}

func TestLayoutRegionUnknownContig(t *testing.T) {
	_, err := layoutRegion(testProvider(t), interval.Interval{Contig: "chrX", Start: 1, End: 10}, true, false)
	expect.True(t, errors.Is(errors.NotExist, err), "err: %v", err)
}

func TestBamrowsArgs(t *testing.T) {
	expect.True(t, bamrows(vcontext.Background(), rowsOpts{Region: "chr1:1-10"}) != nil)
	expect.True(t, bamrows(vcontext.Background(), rowsOpts{BamPath: "x.bam", Region: "chr1:10-1"}) != nil)
}
