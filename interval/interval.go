package interval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
)

// Interval is a 1-based inclusive reference span.  It is a value type and is
// never modified after construction.
type Interval struct {
	Contig string
	Start  int
	End    int
}

// New returns the interval contig:start-end, or an errors.Invalid error if
// start < 1 or start > end.
func New(contig string, start, end int) (Interval, error) {
	if start < 1 {
		return Interval{}, errors.E(errors.Invalid, fmt.Sprintf("interval.New: start %d < 1", start))
	}
	if start > end {
		return Interval{}, errors.E(errors.Invalid, fmt.Sprintf("interval.New: start %d > end %d", start, end))
	}
	return Interval{Contig: contig, Start: start, End: end}, nil
}

// Len returns the number of bases in the interval.
func (iv Interval) Len() int {
	return iv.End - iv.Start + 1
}

// Overlaps returns whether iv and o share at least one base.  Intervals on
// different contigs never overlap; contig names are compared literally.
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Contig == o.Contig && iv.Start <= o.End && o.Start <= iv.End
}

// Contains returns whether the 1-based position pos on contig lies in iv.
func (iv Interval) Contains(contig string, pos int) bool {
	return iv.Contig == contig && iv.Start <= pos && pos <= iv.End
}

// Extend widens the interval around its midpoint.  With L the current length,
// the result spans mid-L2 .. mid+L2 where L2 = int(L*(1+factor)), clipped at
// position 1.  A zero factor returns iv unchanged.
func (iv Interval) Extend(factor float64) Interval {
	if factor == 0 {
		return iv
	}
	l := iv.Len()
	l2 := int(float64(l) * (1.0 + factor))
	mid := iv.Start + l/2
	start := mid - l2
	if start < 1 {
		start = 1
	}
	end := mid + l2
	if end < start {
		end = start
	}
	return Interval{Contig: iv.Contig, Start: start, End: end}
}

// Pad returns iv grown by margin bases on both sides, clipped at position 1.
func (iv Interval) Pad(margin int) Interval {
	start := iv.Start - margin
	if start < 1 {
		start = 1
	}
	return Interval{Contig: iv.Contig, Start: start, End: iv.End + margin}
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s:%d-%d", iv.Contig, iv.Start, iv.End)
}

// Parse parses a region string of one of the forms
//   [contig]:[1-based first pos]-[last pos]
//   [contig]:[1-based pos]+[flank]
//   [contig]:[1-based pos]
//   [contig]<TAB>[0-based start]<TAB>[end]   (a BED line)
// Thousands separators (',') are ignored in positions.  A start below 1 is
// raised to 1.
func Parse(region string) (Interval, error) {
	region = strings.TrimSpace(region)
	if len(region) == 0 {
		return Interval{}, errors.E(errors.Invalid, "interval.Parse: empty region string")
	}
	if strings.IndexByte(region, '\t') != -1 {
		return parseBEDLine(region)
	}
	colonPos := strings.LastIndexByte(region, ':')
	if colonPos == -1 {
		return Interval{}, errors.E(errors.Invalid, fmt.Sprintf("interval.Parse: no ':' in region %q", region))
	}
	if colonPos == 0 {
		return Interval{}, errors.E(errors.Invalid, fmt.Sprintf("interval.Parse: empty contig in region %q", region))
	}
	contig := region[:colonPos]
	rangeStr := strings.Replace(region[colonPos+1:], ",", "", -1)

	sepPos := strings.IndexAny(rangeStr, "-+")
	if sepPos == -1 {
		pos, err := parsePos(rangeStr, region)
		if err != nil {
			return Interval{}, err
		}
		if pos < 1 {
			return Interval{}, errors.E(errors.Invalid, fmt.Sprintf("interval.Parse: position %d in region %q out of range", pos, region))
		}
		return Interval{Contig: contig, Start: pos, End: pos}, nil
	}
	num1, err := parsePos(rangeStr[:sepPos], region)
	if err != nil {
		return Interval{}, err
	}
	num2, err := parsePos(rangeStr[sepPos+1:], region)
	if err != nil {
		return Interval{}, err
	}
	if rangeStr[sepPos] == '+' {
		start := num1 - num2
		if start < 1 {
			start = 1
		}
		num1, num2 = start, num1+num2
	}
	if num1 < 1 {
		num1 = 1
	}
	if num2 < num1 {
		return Interval{}, errors.E(errors.Invalid, fmt.Sprintf("interval.Parse: end before start in region %q", region))
	}
	return Interval{Contig: contig, Start: num1, End: num2}, nil
}

func parsePos(s, region string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, errors.E(errors.Invalid, fmt.Sprintf("interval.Parse: bad number %q in region %q", s, region))
	}
	return v, nil
}

func parseBEDLine(line string) (Interval, error) {
	var tokens [3][]byte
	if getTokens(tokens[:], []byte(line)) != 3 {
		return Interval{}, errors.E(errors.Invalid, fmt.Sprintf("interval.Parse: fewer than 3 columns in %q", line))
	}
	iv, err := bedInterval(tokens)
	if err != nil {
		return Interval{}, err
	}
	if iv.Start > iv.End {
		return Interval{}, errors.E(errors.Invalid, fmt.Sprintf("interval.Parse: empty interval %q", line))
	}
	return iv, nil
}
