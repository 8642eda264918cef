// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package layout

import (
	gbam "github.com/grailbio/bamview/encoding/bam"
)

// Read is a single alignment displayed on its own.
type Read struct {
	Rec        *gbam.Record
	start, end int
}

// NewRead creates a Read spanning the alignment of rec, extended to the
// unclipped span when clip is set.  rec must be mapped.
func NewRead(rec *gbam.Record, clip bool) *Read {
	start, end := span(rec, clip)
	return &Read{Rec: rec, start: start, end: end}
}

func (r *Read) Start() int { return r.start }

func (r *Read) End() int { return r.end }

// Name returns the read name.
func (r *Read) Name() string { return r.Rec.Name }

// Pair groups the two mates of a template.  Second is nil when only one mate
// was observed.
type Pair struct {
	First, Second *gbam.Record
	clip          bool
	start, end    int
}

// NewPair creates a Pair from its first observed mate.  Until the other mate
// is added with SetMate, the span is estimated as described for Pair.Start.
func NewPair(first *gbam.Record, clip bool) *Pair {
	p := &Pair{First: first, clip: clip}
	p.update()
	return p
}

// SetMate records the second observed mate and recomputes the span.
func (p *Pair) SetMate(second *gbam.Record) {
	p.Second = second
	p.update()
}

// Start returns the smaller start of the two mates.  With a single observed
// mate whose partner maps to the same contig, the partner's span is
// derived from its start and the MC tag.  Without MC the span is that of the
// observed mate alone, so pairs whose mate lies outside the query window are
// drawn shorter than they are.
func (p *Pair) Start() int { return p.start }

// End returns the larger end of the two mates; see Start.
func (p *Pair) End() int { return p.end }

// Name returns the read name shared by the mates.
func (p *Pair) Name() string { return p.First.Name }

func (p *Pair) update() {
	p.start, p.end = span(p.First, p.clip)
	var (
		s, e int
		ok   bool
	)
	if p.Second != nil {
		s, e = span(p.Second, p.clip)
		ok = true
	} else {
		s, e, ok = mateSpan(p.First, p.clip)
	}
	if !ok {
		return
	}
	if s < p.start {
		p.start = s
	}
	if e > p.end {
		p.end = e
	}
}

func span(rec *gbam.Record, clip bool) (start, end int) {
	if clip {
		return rec.UnclippedStart(), rec.UnclippedEnd()
	}
	return rec.AlignmentStart(), rec.AlignmentEnd()
}

// mateSpan estimates the span of rec's unobserved mate.  ok is false when
// the mate is unmapped, on another contig, or has no usable MC tag.
func mateSpan(rec *gbam.Record, clip bool) (start, end int, ok bool) {
	if !rec.HasMateMappedOnSameReference() {
		return 0, 0, false
	}
	c, err := rec.MateCigar()
	if err != nil || len(c) == 0 {
		return 0, 0, false
	}
	start = rec.MateAlignmentStart()
	end = start + c.ReferenceLength() - 1
	if clip {
		start -= c.LeftClipLength()
		end += c.RightClipLength()
	}
	return start, end, true
}
