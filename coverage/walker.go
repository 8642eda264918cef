// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package coverage

import (
	"fmt"

	"github.com/grailbio/bamview/cigar"
)

// WalkFunc translates an alignment whose first aligned base is at 1-based
// reference position start into runs of covered reference positions inside
// [windowStart, windowEnd).  For every run of Match, Equal or Diff bases it
// calls fn(pos, n), meaning positions pos, pos+1, ..., pos+n-1 each gain one
// unit of depth.  Deletions and skips advance the reference position without
// emitting anything.  Insertions, padding and clips do not move it.
//
// The walk stops as soon as the reference position reaches windowEnd.  An
// operator outside the fixed CIGAR taxonomy causes a panic; such a CIGAR
// cannot come out of cigar.Parse or a decoded BAM record.
func WalkFunc(start int, c cigar.Cigar, windowStart, windowEnd int, fn func(pos, n int)) {
	pos := start
	for _, e := range c {
		if pos >= windowEnd {
			return
		}
		switch e.Op {
		case cigar.Match, cigar.Equal, cigar.Diff:
			lo, hi := pos, pos+e.Len
			if lo < windowStart {
				lo = windowStart
			}
			if hi > windowEnd {
				hi = windowEnd
			}
			if lo < hi {
				fn(lo, hi-lo)
			}
			pos += e.Len
		case cigar.Deletion, cigar.Skip:
			pos += e.Len
		case cigar.Insertion, cigar.Padding, cigar.SoftClip, cigar.HardClip:
		default:
			panic(fmt.Sprintf("coverage.Walk: unknown cigar operator %d in %v", e.Op, c))
		}
	}
}

// Walk adds the aligned bases of one alignment to depth.  depth[i] holds the
// depth of reference position windowStart+i, so len(depth) must be at least
// windowEnd-windowStart.  Positions outside the window are ignored.
func Walk(start int, c cigar.Cigar, windowStart, windowEnd int, depth []int32) {
	WalkFunc(start, c, windowStart, windowEnd, func(pos, n int) {
		run := depth[pos-windowStart : pos-windowStart+n]
		for i := range run {
			run[i]++
		}
	})
}
