// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bam

import (
	"github.com/grailbio/bamview/cigar"
	"github.com/grailbio/hts/sam"
)

// NoAlignmentStart is returned by the position accessors of Record when the
// requested position is undefined (unmapped read, unpaired read, unmapped
// mate, or missing mate CIGAR).
const NoAlignmentStart = -1

// MateCigarTag is the aux tag holding the mate's CIGAR string.
var MateCigarTag = sam.NewTag("MC")

// Record is a read-only view of a decoded alignment which caches its
// CIGAR-derived quantities.  It never modifies the wrapped sam.Record.  A
// Record is not safe for concurrent use, since the caches fill lazily.
type Record struct {
	*sam.Record

	cigar    cigar.Cigar
	hasCigar bool
	// end caches AlignmentEnd; 0 means not yet computed.
	end int
}

// NewRecord wraps r.
func NewRecord(r *sam.Record) *Record {
	return &Record{Record: r}
}

// Cigar returns the record's CIGAR in the cigar package representation.  It
// returns nil for unmapped records.
func (r *Record) Cigar() cigar.Cigar {
	if IsUnmapped(r.Record) {
		return nil
	}
	if !r.hasCigar {
		r.cigar = cigar.FromSAM(r.Record.Cigar)
		r.hasCigar = true
	}
	return r.cigar
}

// AlignmentStart returns the 1-based position of the first aligned base.
func (r *Record) AlignmentStart() int {
	if IsUnmapped(r.Record) {
		return NoAlignmentStart
	}
	return r.Pos + 1
}

// AlignmentEnd returns the 1-based inclusive position of the last aligned
// base.
func (r *Record) AlignmentEnd() int {
	if IsUnmapped(r.Record) {
		return NoAlignmentStart
	}
	if r.end == 0 {
		r.end = r.AlignmentStart() + r.Cigar().ReferenceLength() - 1
	}
	return r.end
}

// UnclippedStart returns AlignmentStart minus the leading clip length.  The
// result can be below 1 for reads clipped at the start of a contig.
func (r *Record) UnclippedStart() int {
	if IsUnmapped(r.Record) {
		return NoAlignmentStart
	}
	return r.AlignmentStart() - r.Cigar().LeftClipLength()
}

// UnclippedEnd returns AlignmentEnd plus the trailing clip length.
func (r *Record) UnclippedEnd() int {
	if IsUnmapped(r.Record) {
		return NoAlignmentStart
	}
	return r.AlignmentEnd() + r.Cigar().RightClipLength()
}

// MateAlignmentStart returns the 1-based start of the mate, or
// NoAlignmentStart when there is no mapped mate.
func (r *Record) MateAlignmentStart() int {
	if HasNoMappedMate(r.Record) {
		return NoAlignmentStart
	}
	return r.MatePos + 1
}

// MateCigar parses the MC aux tag.  It returns (nil, nil) when the tag is
// absent and an errors.Invalid error when it is malformed.
func (r *Record) MateCigar() (cigar.Cigar, error) {
	aux := r.AuxFields.Get(MateCigarTag)
	if aux == nil {
		return nil, nil
	}
	s, ok := aux.Value().(string)
	if !ok {
		return nil, nil
	}
	return cigar.Parse(s)
}

// MateAlignmentEnd returns the 1-based inclusive end of the mate, derived from
// the mate start and the MC tag.  It returns NoAlignmentStart if the mate is
// unmapped or the tag is missing or malformed.
func (r *Record) MateAlignmentEnd() int {
	p := r.MateAlignmentStart()
	if p == NoAlignmentStart {
		return p
	}
	c, err := r.MateCigar()
	if err != nil || c == nil {
		return NoAlignmentStart
	}
	return p + c.ReferenceLength() - 1
}

// MateAlignmentEndThenStart returns MateAlignmentEnd, or MateAlignmentStart
// when the end cannot be derived.
func (r *Record) MateAlignmentEndThenStart() int {
	if n := r.MateAlignmentEnd(); n != NoAlignmentStart {
		return n
	}
	return r.MateAlignmentStart()
}

// HasMateMappedOnSameReference returns whether both ends are mapped to the
// same contig.  References are compared by identity, as decoded records share
// the header's references.
func (r *Record) HasMateMappedOnSameReference() bool {
	if IsUnmapped(r.Record) || HasNoMappedMate(r.Record) {
		return false
	}
	return r.Ref != nil && r.Ref == r.MateRef
}
