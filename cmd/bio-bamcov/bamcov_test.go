package main

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/bamview/coverage"
	"github.com/grailbio/bamview/encoding/bamprovider"
	"github.com/grailbio/bamview/interval"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/bgzf"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func testProviders(t *testing.T) []bamprovider.Provider {
	chr1, err := sam.NewReference("chr1", "", "", 1000, nil, nil)
	require.NoError(t, err)
	h1, err := sam.NewHeader(nil, []*sam.Reference{chr1})
	require.NoError(t, err)
	chr2, err := sam.NewReference("chr2", "", "", 1000, nil, nil)
	require.NoError(t, err)
	h2, err := sam.NewHeader(nil, []*sam.Reference{chr2})
	require.NoError(t, err)

	m := func(n int) []sam.CigarOp { return []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, n)} }
	return []bamprovider.Provider{
		bamprovider.NewFakeProvider(h1, []*sam.Record{
			{Name: "a", Ref: chr1, Pos: 99, Cigar: m(10)},
			{Name: "b", Ref: chr1, Pos: 99, Cigar: m(5)},
			{Name: "dup", Ref: chr1, Pos: 99, Cigar: m(5), Flags: sam.Duplicate},
		}),
		bamprovider.NewFakeProvider(h1, nil),
		// No chr1: the track is skipped.
		bamprovider.NewFakeProvider(h2, nil),
	}
}

func testOpts(format string) *bamcovOpts {
	return &bamcovOpts{
		TrackOpts: coverage.TrackOpts{
			Opts:   coverage.Opts{Width: 2},
			Filter: coverage.DefaultFilter,
		},
		BamsPath: "bams.txt",
		Region:   "chr1:100-109",
		Format:   format,
	}
}

func TestWriteRegionsTSV(t *testing.T) {
	var buf bytes.Buffer
	regions := []interval.Interval{{Contig: "chr1", Start: 100, End: 109}}
	err := writeRegions(&buf, []string{"a.bam", "b.bam", "c.bam"}, testProviders(t), regions, testOpts("tsv"))
	require.NoError(t, err)
	expect.EQ(t, buf.String(), `#CHROM	START	END	ORIG_START	ORIG_END	BAM	BUCKET	DEPTH
chr1	100	109	100	109	a.bam	0	2
chr1	100	109	100	109	a.bam	1	1
chr1	100	109	100	109	b.bam	0	0
chr1	100	109	100	109	b.bam	1	0
`)
}

func TestWriteRegionsBGZF(t *testing.T) {
	var buf bytes.Buffer
	regions := []interval.Interval{{Contig: "chr1", Start: 100, End: 109}}
	w := bgzf.NewWriter(&buf, 1)
	err := writeRegions(w, []string{"a.bam", "b.bam", "c.bam"}, testProviders(t), regions, testOpts("tsv-bgz"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := bgzf.NewReader(&buf, 1)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	expect.True(t, strings.HasPrefix(string(data), "#CHROM\tSTART\tEND\tORIG_START\tORIG_END\tBAM\tBUCKET\tDEPTH\nchr1\t100\t109\t100\t109\ta.bam\t0\t2\n"), string(data))
}

func TestWriteRegionsExtend(t *testing.T) {
	var buf bytes.Buffer
	opts := testOpts("tsv")
	opts.Extend = 0.5
	regions := []interval.Interval{{Contig: "chr1", Start: 100, End: 109}}
	err := writeRegions(&buf, []string{"a.bam", "b.bam", "c.bam"}, testProviders(t)[:1], regions, opts)
	require.NoError(t, err)
	// Length 10 widened by 15 on each side of the midpoint 105; the
	// requested bounds follow the queried ones.
	expect.True(t, strings.Contains(buf.String(), "chr1\t90\t120\t100\t109\ta.bam\t0\t"), buf.String())
}

func TestWriteRegionsASCIIExtend(t *testing.T) {
	var buf bytes.Buffer
	opts := testOpts("ascii")
	opts.Extend = 0.5
	regions := []interval.Interval{{Contig: "chr1", Start: 100, End: 109}}
	err := writeRegions(&buf, []string{"a.bam"}, testProviders(t)[:1], regions, opts)
	require.NoError(t, err)
	expect.True(t, strings.Contains(buf.String(), "a.bam chr1:90-120 max depth: 1 (extended from chr1:100-109)"), buf.String())
}

func TestWriteRegionsASCII(t *testing.T) {
	var buf bytes.Buffer
	regions := []interval.Interval{{Contig: "chr1", Start: 100, End: 109}}
	err := writeRegions(&buf, []string{"a.bam", "b.bam", "c.bam"}, testProviders(t), regions, testOpts("ascii"))
	require.NoError(t, err)
	expect.True(t, strings.Contains(buf.String(), "a.bam chr1:100-109 max depth: 2"), buf.String())
	expect.True(t, strings.Contains(buf.String(), "b.bam chr1:100-109 max depth: 2"), buf.String())
	expect.False(t, strings.Contains(buf.String(), "c.bam"), buf.String())
}

func TestValidate(t *testing.T) {
	expect.NoError(t, validate(testOpts("tsv")))
	for _, mutate := range []func(o *bamcovOpts){
		func(o *bamcovOpts) { o.BamsPath = "" },
		func(o *bamcovOpts) { o.RegionsPath = "x.bed" },
		func(o *bamcovOpts) { o.Region = "" },
		func(o *bamcovOpts) { o.Extend = -1 },
		func(o *bamcovOpts) { o.Format = "png" },
		func(o *bamcovOpts) { o.Width = 0 },
	} {
		o := testOpts("tsv")
		mutate(o)
		expect.True(t, validate(o) != nil, "opts: %+v", o)
	}
}

func TestReadBAMListAndRegions(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	write := func(name, data string) string {
		path := filepath.Join(tmpDir, name)
		out, err := file.Create(ctx, path)
		require.NoError(t, err)
		_, err = out.Writer(ctx).Write([]byte(data))
		require.NoError(t, err)
		require.NoError(t, out.Close(ctx))
		return path
	}

	paths, err := readBAMList(ctx, write("bams.txt", "# comment\n/a.bam\n\n  /b.bam \n"))
	require.NoError(t, err)
	expect.EQ(t, paths, []string{"/a.bam", "/b.bam"})
	_, err = readBAMList(ctx, write("empty.txt", "#\n"))
	expect.True(t, err != nil)

	opts := testOpts("tsv")
	opts.Region = ""
	opts.RegionsPath = write("r.bed", "track name=x\nchr1\t99\t109\nchr2\t0\t5\n")
	regions, err := loadRegions(ctx, opts)
	require.NoError(t, err)
	expect.EQ(t, regions, []interval.Interval{{Contig: "chr1", Start: 100, End: 109}, {Contig: "chr2", Start: 1, End: 5}})

	opts = testOpts("tsv")
	regions, err = loadRegions(ctx, opts)
	require.NoError(t, err)
	expect.EQ(t, regions, []interval.Interval{{Contig: "chr1", Start: 100, End: 109}})
}
