// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*
Package ucscbin implements the five-level hierarchical binning scheme used by
UCSC and by the .bai/.tbi index formats.  The genome is split into 2^29 bases
covered by one root bin, 8 bins of 2^26 bases, 64 of 2^23, 512 of 2^20,
4096 of 2^17 and 32768 of 2^14.  Bin numbers must stay bit-compatible with
existing index files.

All functions are pure and safe for concurrent use.
*/
package ucscbin

import "github.com/grailbio/bamview/interval"

// Bin identifies a single bin.
type Bin = uint16

const (
	// MaxCoord is the exclusive upper bound of binnable coordinates.
	MaxCoord = 1 << 29
	// MaxBin is one past the largest real bin, (8^6-1)/7+1.  The .bai format
	// reuses it as the metadata pseudo-bin.
	MaxBin = 37450
)

// levels lists (shift, first bin) from the finest level to the coarsest.
var levels = [...]struct {
	shift  uint
	offset uint32
}{
	{14, 4681},
	{17, 585},
	{20, 73},
	{23, 9},
	{26, 1},
}

// BinFor returns the smallest bin fully containing the 0-based half-open
// region [beg, end).
func BinFor(beg, end uint32) Bin {
	end--
	for _, l := range levels {
		if beg>>l.shift == end>>l.shift {
			return Bin(l.offset + (beg >> l.shift))
		}
	}
	return 0
}

// BinForInterval returns the bin for a 1-based inclusive interval.
func BinForInterval(iv interval.Interval) Bin {
	return BinFor(uint32(iv.Start-1), uint32(iv.End))
}

// BinsOverlapping returns every bin which may hold a region intersecting the
// 0-based half-open [beg, end).  Bin 0 comes first, followed by each level from
// coarsest to finest in ascending order.  end is clamped to MaxCoord; an empty
// or inverted region yields nil.
func BinsOverlapping(beg, end uint32) []Bin {
	if beg >= end {
		return nil
	}
	if end > MaxCoord {
		end = MaxCoord
	}
	if beg >= end {
		return nil
	}
	end--
	n := 1
	for _, l := range levels {
		n += int(end>>l.shift) - int(beg>>l.shift) + 1
	}
	bins := make([]Bin, 0, n)
	bins = append(bins, 0)
	for i := len(levels) - 1; i >= 0; i-- {
		l := levels[i]
		for k := l.offset + (beg >> l.shift); k <= l.offset+(end>>l.shift); k++ {
			bins = append(bins, Bin(k))
		}
	}
	return bins
}

// Level returns the level of bin b, 0 for the root through 5 for the
// 16kb bins.
func Level(b Bin) int {
	switch {
	case b >= 4681:
		return 5
	case b >= 585:
		return 4
	case b >= 73:
		return 3
	case b >= 9:
		return 2
	case b >= 1:
		return 1
	}
	return 0
}
