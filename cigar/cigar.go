// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cigar

import (
	"fmt"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
)

// Operator is a CIGAR operation type.  The numeric values follow the BAM
// encoding, so a decoded sam.CigarOpType converts without a lookup.
type Operator uint8

const (
	// Match is 'M': aligned, may be a match or a mismatch.
	Match Operator = iota
	// Insertion is 'I': bases present in the read only.
	Insertion
	// Deletion is 'D': bases present in the reference only.
	Deletion
	// Skip is 'N': skipped reference region, e.g. an intron.
	Skip
	// SoftClip is 'S': clipped read bases that remain in SEQ.
	SoftClip
	// HardClip is 'H': clipped read bases absent from SEQ.
	HardClip
	// Padding is 'P': silent deletion from a padded reference.
	Padding
	// Equal is '=': aligned sequence match.
	Equal
	// Diff is 'X': aligned sequence mismatch.
	Diff

	numOperators
)

// opInfo holds the fixed operator taxonomy.  It is never extended at runtime.
var opInfo = [numOperators]struct {
	char        byte
	consumesRef bool
	consumesSeq bool
}{
	Match:     {'M', true, true},
	Insertion: {'I', false, true},
	Deletion:  {'D', true, false},
	Skip:      {'N', true, false},
	SoftClip:  {'S', false, true},
	HardClip:  {'H', false, false},
	Padding:   {'P', false, false},
	Equal:     {'=', true, true},
	Diff:      {'X', true, true},
}

// charToOp maps an ASCII operator character to Operator+1; zero marks an
// unrecognized character.
var charToOp [256]uint8

func init() {
	for op, info := range opInfo {
		charToOp[info.char] = uint8(op) + 1
	}
}

// Valid returns whether op is one of the nine known operators.
func (op Operator) Valid() bool { return op < numOperators }

// ConsumesReference returns whether op advances the reference position.
func (op Operator) ConsumesReference() bool { return opInfo[op].consumesRef }

// ConsumesRead returns whether op advances the read position.
func (op Operator) ConsumesRead() bool { return opInfo[op].consumesSeq }

// IsClip returns true for SoftClip and HardClip.
func (op Operator) IsClip() bool { return op == SoftClip || op == HardClip }

// IsAligned returns true for the operators that place a read base on a
// reference base: Match, Equal and Diff.
func (op Operator) IsAligned() bool { return op == Match || op == Equal || op == Diff }

// Char returns the SAM text character for op.
func (op Operator) Char() byte {
	if !op.Valid() {
		return '?'
	}
	return opInfo[op].char
}

func (op Operator) String() string {
	return string(op.Char())
}

// Element is a single run-length CIGAR operation.
type Element struct {
	Op  Operator
	Len int
}

func (e Element) String() string {
	return fmt.Sprintf("%d%c", e.Len, e.Op.Char())
}

// Cigar is an ordered sequence of elements.  It is treated as immutable once
// constructed.
type Cigar []Element

// Unavailable is the SAM marker for a missing CIGAR.
const Unavailable = "*"

// Parse parses a textual CIGAR such as "5S90M2I3M".  It fails with an
// errors.Invalid error for the unavailable marker "*", an empty string, a
// non-positive element length, a missing operator or an unrecognized operator
// character.
func Parse(s string) (Cigar, error) {
	if s == Unavailable {
		return nil, errors.E(errors.Invalid, "cigar.Parse: cannot handle unavailable cigar", s)
	}
	if len(s) == 0 {
		return nil, errors.E(errors.Invalid, "cigar.Parse: empty cigar")
	}
	c := make(Cigar, 0, len(s)/2)
	n := 0
	digits := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= '0' && ch <= '9' {
			n = n*10 + int(ch-'0')
			digits++
			if n > 1<<28 {
				return nil, errors.E(errors.Invalid, fmt.Sprintf("cigar.Parse: element length overflow in %q", s))
			}
			continue
		}
		op := charToOp[ch]
		if op == 0 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("cigar.Parse: unknown operator %q in %q", ch, s))
		}
		if digits == 0 || n <= 0 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("cigar.Parse: non-positive length for operator %c in %q", ch, s))
		}
		c = append(c, Element{Op: Operator(op - 1), Len: n})
		n = 0
		digits = 0
	}
	if digits != 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("cigar.Parse: missing operator at end of %q", s))
	}
	return c, nil
}

// IsParseError returns whether err was produced by Parse.
func IsParseError(err error) bool {
	return err != nil && errors.Is(errors.Invalid, err)
}

// FromSAM converts a decoded binary CIGAR.  The alignment source has already
// validated it, so lengths are copied as is.
func FromSAM(sc sam.Cigar) Cigar {
	if len(sc) == 0 {
		return nil
	}
	return AppendSAM(make(Cigar, 0, len(sc)), sc)
}

// AppendSAM appends the elements of sc to dst and returns the extended slice.
// Callers walking many records reuse dst to avoid an allocation per record.
func AppendSAM(dst Cigar, sc sam.Cigar) Cigar {
	for _, co := range sc {
		dst = append(dst, Element{Op: Operator(co.Type()), Len: co.Len()})
	}
	return dst
}

// ReferenceLength returns the number of reference bases spanned by c.
func (c Cigar) ReferenceLength() int {
	n := 0
	for _, e := range c {
		if e.Op.Valid() && e.Op.ConsumesReference() {
			n += e.Len
		}
	}
	return n
}

// ReadLength returns the number of read bases described by c, hard clips
// excluded.
func (c Cigar) ReadLength() int {
	n := 0
	for _, e := range c {
		if e.Op.Valid() && e.Op.ConsumesRead() {
			n += e.Len
		}
	}
	return n
}

// LeftClipLength sums the leading run of soft and hard clips.
func (c Cigar) LeftClipLength() int {
	n := 0
	for _, e := range c {
		if !e.Op.IsClip() {
			break
		}
		n += e.Len
	}
	return n
}

// RightClipLength sums the trailing run of soft and hard clips.
func (c Cigar) RightClipLength() int {
	n := 0
	for i := len(c) - 1; i >= 0; i-- {
		if !c[i].Op.IsClip() {
			break
		}
		n += c[i].Len
	}
	return n
}

func (c Cigar) String() string {
	if len(c) == 0 {
		return Unavailable
	}
	var b strings.Builder
	for _, e := range c {
		fmt.Fprintf(&b, "%d%c", e.Len, e.Op.Char())
	}
	return b.String()
}
