package coverage

import (
	"github.com/grailbio/bamview/interval"
)

// DefaultHighCoverageFactor is the multiple of the mean covered depth at which
// a base counts as highly covered.
const DefaultHighCoverageFactor = 10.0

// DepthStats accumulates the depth of covered bases.  Bases of depth zero are
// ignored, so Mean is the mean over covered bases only.
type DepthStats struct {
	Sum     float64
	Covered int64
}

// Add folds in one window of raw per-base depth.
func (s *DepthStats) Add(depth []int32) {
	for _, d := range depth {
		if d > 0 {
			s.Sum += float64(d)
			s.Covered++
		}
	}
}

// Merge folds in the counts of o.
func (s *DepthStats) Merge(o DepthStats) {
	s.Sum += o.Sum
	s.Covered += o.Covered
}

// Mean returns the mean covered depth, or 0 if no base is covered.
func (s DepthStats) Mean() float64 {
	if s.Covered == 0 {
		return 0
	}
	return s.Sum / float64(s.Covered)
}

// HighCoverageThreshold returns the depth a base must reach to be reported
// as highly covered: mean*factor truncated, and at least 1 so that uncovered
// bases are never reported.
func HighCoverageThreshold(mean, factor float64) int32 {
	t := int32(mean * factor)
	if t < 1 {
		t = 1
	}
	return t
}

// RunFinder reports the maximal runs of consecutive bases whose depth reaches
// a threshold.  Windows are fed in coordinate order with Add; a run that
// reaches the end of one window continues into the next when that window
// starts at the following base of the same contig.  A run ends at a base
// below the threshold, a gap between windows, a contig change, or Flush.
type RunFinder struct {
	threshold int32
	emit      func(interval.Interval)
	cur       interval.Interval
	open      bool
}

// NewRunFinder creates a RunFinder passing each completed run to emit.
func NewRunFinder(threshold int32, emit func(interval.Interval)) *RunFinder {
	return &RunFinder{threshold: threshold, emit: emit}
}

// Add scans depth, where depth[i] is the depth at region.Start+i.
func (f *RunFinder) Add(region interval.Interval, depth []int32) {
	for i, d := range depth {
		pos := region.Start + i
		if d < f.threshold {
			f.Flush()
			continue
		}
		if f.open && f.cur.Contig == region.Contig && f.cur.End+1 == pos {
			f.cur.End = pos
			continue
		}
		f.Flush()
		f.cur = interval.Interval{Contig: region.Contig, Start: pos, End: pos}
		f.open = true
	}
}

// Flush emits the open run, if any.
func (f *RunFinder) Flush() {
	if f.open {
		f.emit(f.cur)
		f.open = false
	}
}

// HighCoverage returns the runs of region whose depth reaches
// HighCoverageThreshold(mean, factor), with the mean taken over the covered
// bases of depth itself.
func HighCoverage(region interval.Interval, depth []int32, factor float64) []interval.Interval {
	var stats DepthStats
	stats.Add(depth)
	if stats.Covered == 0 {
		return nil
	}
	var runs []interval.Interval
	f := NewRunFinder(HighCoverageThreshold(stats.Mean(), factor), func(iv interval.Interval) {
		runs = append(runs, iv)
	})
	f.Add(region, depth)
	f.Flush()
	return runs
}
