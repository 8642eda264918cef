package interval

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	iv, err := New("chr1", 100, 110)
	require.NoError(t, err)
	expect.EQ(t, iv.Len(), 11)
	expect.EQ(t, iv.String(), "chr1:100-110")

	iv, err = New("chr1", 5, 5)
	require.NoError(t, err)
	expect.EQ(t, iv.Len(), 1)

	_, err = New("chr1", 0, 10)
	expect.True(t, errors.Is(errors.Invalid, err))
	_, err = New("chr1", 11, 10)
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestOverlaps(t *testing.T) {
	a := Interval{"chr1", 100, 110}
	expect.True(t, a.Overlaps(Interval{"chr1", 110, 120}))
	expect.True(t, a.Overlaps(Interval{"chr1", 90, 100}))
	expect.True(t, a.Overlaps(Interval{"chr1", 103, 105}))
	expect.False(t, a.Overlaps(Interval{"chr1", 111, 120}))
	expect.False(t, a.Overlaps(Interval{"chr2", 100, 110}))
	expect.True(t, a.Contains("chr1", 110))
	expect.False(t, a.Contains("chr1", 99))
}

func TestExtend(t *testing.T) {
	iv := Interval{"chr1", 1000, 1099}
	expect.EQ(t, iv.Extend(0), iv)
	// L=100, L2=150, mid=1050.
	expect.EQ(t, iv.Extend(0.5), Interval{"chr1", 900, 1200})
	expect.EQ(t, Interval{"chr1", 10, 19}.Extend(1), Interval{"chr1", 1, 35})
	expect.EQ(t, Interval{"chr1", 10, 19}.Pad(200), Interval{"chr1", 1, 219})
}

func TestParse(t *testing.T) {
	tests := []struct {
		region string
		want   Interval
	}{
		{"chr1:100-200", Interval{"chr1", 100, 200}},
		{"chr1:1,000-2,000", Interval{"chr1", 1000, 2000}},
		{"chr1:0-10", Interval{"chr1", 1, 10}},
		{"2:500+100", Interval{"2", 400, 600}},
		{"2:50+100", Interval{"2", 1, 150}},
		{"chrX:77", Interval{"chrX", 77, 77}},
		{"chr3\t99\t200", Interval{"chr3", 100, 200}},
		{"chr3\t99\t200\tname\t0\t+\n", Interval{"chr3", 100, 200}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.region)
		require.NoError(t, err, tt.region)
		expect.EQ(t, got, tt.want)
	}
}

func TestParseErrors(t *testing.T) {
	for _, region := range []string{"", "chr1", ":1-10", "chr1:20-10", "chr1:a-b", "chr1:0", "chr1\t10", "chr1\t10\t10", "chr1\t-1\t10"} {
		_, err := Parse(region)
		assert.Error(t, err, region)
		assert.True(t, errors.Is(errors.Invalid, err), region)
	}
}

func TestContigResolver(t *testing.T) {
	chr1, _ := sam.NewReference("chr1", "", "", 1000, nil, nil)
	two, _ := sam.NewReference("2", "", "", 2000, nil, nil)
	chrM, _ := sam.NewReference("chrM", "", "", 16569, nil, nil)
	header, _ := sam.NewHeader(nil, []*sam.Reference{chr1, two, chrM})
	r := NewContigResolver(header)

	for _, tt := range []struct {
		name string
		want *sam.Reference
	}{
		{"chr1", chr1},
		{"1", chr1},
		{"2", two},
		{"chr2", two},
		{"M", chrM},
	} {
		ref, err := r.Resolve(tt.name)
		require.NoError(t, err, tt.name)
		expect.EQ(t, ref.Name(), tt.want.Name())
	}
	_, err := r.Resolve("chr3")
	expect.True(t, errors.Is(errors.NotExist, err))
	_, err = r.Resolve("chr")
	expect.True(t, errors.Is(errors.NotExist, err))

	expect.EQ(t, ContigCandidates("chr7"), [2]string{"chr7", "7"})
	expect.EQ(t, ContigCandidates("7"), [2]string{"7", "chr7"})
}
