package bam

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/grailbio/bamview/ucscbin"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/bgzf"
)

// linearShift is the width, as a power of two, of a linear-index window.
const linearShift = 14

// Index represents the content of a .bai index file (for use with a .bam file).
type Index struct {
	Magic         [4]byte
	Refs          []Reference
	UnmappedCount *uint64
}

// Reference represents the reference data within a .bai file.
type Reference struct {
	Bins      []Bin
	Intervals []bgzf.Offset
	Meta      Metadata
	// binIdx maps a bin number to its position in Bins.
	binIdx map[uint32]int
}

// Bin represents the bin data within a .bai file.
type Bin struct {
	BinNum uint32
	Chunks []Chunk
}

// Chunk represents the Chunk data within a .bai file.
type Chunk struct {
	Begin bgzf.Offset
	End   bgzf.Offset
}

// Metadata represents the Metadata data within a .bai file.
type Metadata struct {
	UnmappedBegin uint64
	UnmappedEnd   uint64
	MappedCount   uint64
	UnmappedCount uint64
}

// ReadIndex parses the content of r and returns an Index or nil and an error.
func ReadIndex(r io.Reader) (*Index, error) {
	i := &Index{}

	if _, err := io.ReadFull(r, i.Magic[0:]); err != nil {
		return nil, err
	}
	if i.Magic != [4]byte{'B', 'A', 'I', 0x1} {
		return nil, fmt.Errorf("bam index invalid magic: %v", i.Magic)
	}

	refCount, err := readCount(r, "reference")
	if err != nil {
		return nil, err
	}
	i.Refs = make([]Reference, 0, preallocCap(refCount))

	for refID := 0; refID < refCount; refID++ {
		binCount, err := readCount(r, "bin")
		if err != nil {
			return nil, err
		}
		ref := Reference{
			Bins:   make([]Bin, 0, preallocCap(binCount)),
			binIdx: make(map[uint32]int, preallocCap(binCount)),
		}
		for b := 0; b < binCount; b++ {
			var binNum uint32
			if err := binary.Read(r, binary.LittleEndian, &binNum); err != nil {
				return nil, err
			}
			chunkCount, err := readCount(r, "chunk")
			if err != nil {
				return nil, err
			}

			bin := Bin{
				BinNum: binNum,
				Chunks: make([]Chunk, 0, preallocCap(chunkCount)),
			}
			for c := 0; c < chunkCount; c++ {
				var offsets [2]uint64
				if err := binary.Read(r, binary.LittleEndian, &offsets); err != nil {
					return nil, err
				}
				bin.Chunks = append(bin.Chunks, Chunk{
					Begin: toOffset(offsets[0]),
					End:   toOffset(offsets[1]),
				})
			}

			if binNum == ucscbin.MaxBin {
				// The metadata pseudo-bin goes in ref.Meta instead of ref.Bins.
				if len(bin.Chunks) != 2 {
					return nil, fmt.Errorf("Invalid metadata chunk has %d chunks, should have 2", len(bin.Chunks))
				}
				ref.Meta = Metadata{
					UnmappedBegin: fromOffset(bin.Chunks[0].Begin),
					UnmappedEnd:   fromOffset(bin.Chunks[0].End),
					MappedCount:   fromOffset(bin.Chunks[1].Begin),
					UnmappedCount: fromOffset(bin.Chunks[1].End),
				}
			} else {
				ref.binIdx[binNum] = len(ref.Bins)
				ref.Bins = append(ref.Bins, bin)
			}
		}

		intervalCount, err := readCount(r, "interval")
		if err != nil {
			return nil, err
		}
		ref.Intervals = make([]bgzf.Offset, 0, preallocCap(intervalCount))
		for inv := 0; inv < intervalCount; inv++ {
			var ioffset uint64
			if err := binary.Read(r, binary.LittleEndian, &ioffset); err != nil {
				return nil, err
			}
			ref.Intervals = append(ref.Intervals, toOffset(ioffset))
		}
		i.Refs = append(i.Refs, ref)
	}

	var unmappedCount uint64
	if err := binary.Read(r, binary.LittleEndian, &unmappedCount); err == nil {
		i.UnmappedCount = &unmappedCount
	} else if err != io.EOF {
		return nil, err
	}
	return i, nil
}

// maxPrealloc bounds the capacity reserved for a count read from the file.
// Larger tables grow as their entries are actually read, so a corrupt count
// fails on the short read instead of on a huge allocation.
const maxPrealloc = 1 << 16

// readCount reads an int32 element count and rejects negative values.
func readCount(r io.Reader, what string) (int, error) {
	var n int32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.E(errors.Invalid, fmt.Sprintf("bam index: negative %s count %d", what, n))
	}
	return int(n), nil
}

func preallocCap(n int) int {
	if n > maxPrealloc {
		return maxPrealloc
	}
	return n
}

// Chunks returns the file regions which may hold records of reference refID
// overlapping the 0-based half-open [beg, end).  Candidate bins come from
// ucscbin.BinsOverlapping; chunks ending before the linear-index lower bound
// for beg are dropped, and the rest are sorted and merged.
func (i *Index) Chunks(refID int, beg, end int) ([]bgzf.Chunk, error) {
	if refID < 0 || refID >= len(i.Refs) {
		return nil, fmt.Errorf("bam index: reference id %d out of range [0, %d)", refID, len(i.Refs))
	}
	if beg < 0 {
		beg = 0
	}
	if end <= beg {
		return nil, nil
	}
	ref := &i.Refs[refID]

	var minOffset uint64
	if w := beg >> linearShift; w < len(ref.Intervals) {
		minOffset = fromOffset(ref.Intervals[w])
	} else if len(ref.Intervals) > 0 {
		minOffset = fromOffset(ref.Intervals[len(ref.Intervals)-1])
	}

	var chunks []bgzf.Chunk
	for _, binNum := range ucscbin.BinsOverlapping(uint32(beg), uint32(end)) {
		idx, ok := ref.binIdx[uint32(binNum)]
		if !ok {
			continue
		}
		for _, c := range ref.Bins[idx].Chunks {
			if fromOffset(c.End) <= minOffset {
				continue
			}
			chunks = append(chunks, bgzf.Chunk{Begin: c.Begin, End: c.End})
		}
	}
	if len(chunks) == 0 {
		return nil, nil
	}
	sort.Slice(chunks, func(a, b int) bool {
		return fromOffset(chunks[a].Begin) < fromOffset(chunks[b].Begin)
	})
	merged := chunks[:1]
	for _, c := range chunks[1:] {
		last := &merged[len(merged)-1]
		if fromOffset(c.Begin) <= fromOffset(last.End) {
			if fromOffset(c.End) > fromOffset(last.End) {
				last.End = c.End
			}
			continue
		}
		merged = append(merged, c)
	}
	return merged, nil
}

func toOffset(voffset uint64) bgzf.Offset {
	return bgzf.Offset{
		File:  int64(voffset >> 16),
		Block: uint16(voffset),
	}
}

func fromOffset(offset bgzf.Offset) uint64 {
	return uint64(offset.File<<16) | uint64(offset.Block)
}
