// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package coverage

import (
	"github.com/grailbio/bamview/cigar"
	"github.com/grailbio/bamview/interval"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/hts/sam"
)

// minMaxDepth is the smallest maximum a track reports, so that an empty track
// still has a usable vertical scale.
const minMaxDepth = 1.0

// Iterator yields the alignment records of one file overlapping a region.
// bamprovider.Iterator satisfies it.
type Iterator interface {
	Scan() bool
	Record() *sam.Record
	Close() error
}

// TrackOpts configures ComputeTracks.
type TrackOpts struct {
	Opts
	Filter
}

// DefaultTrackOpts is the default configuration for ComputeTracks.
var DefaultTrackOpts = TrackOpts{
	Opts:   DefaultOpts,
	Filter: DefaultFilter,
}

// Track is the depth series of one alignment file over one region.
type Track struct {
	Region interval.Interval
	Series DepthSeries
	// Err is set if the track could not be computed.  Series is then empty.
	Err error
}

// Accumulate returns the raw per-base depth of region, one element per
// reference base, from the records of iter that pass filter.  iter must only
// yield records on region's contig; it is not closed.
func Accumulate(iter Iterator, region interval.Interval, filter Filter) []int32 {
	var (
		depth       = make([]int32, region.Len())
		windowStart = region.Start
		windowEnd   = region.End + 1
		buf         cigar.Cigar
		nRecs       int
	)
	for iter.Scan() {
		r := iter.Record()
		if !filter.Keep(r) {
			continue
		}
		buf = cigar.AppendSAM(buf[:0], r.Cigar)
		Walk(r.Pos+1, buf, windowStart, windowEnd, depth)
		nRecs++
	}
	log.Debug.Printf("coverage: %v: %d records", region, nRecs)
	return depth
}

// ComputeTracks computes one track per iterator over region.  The iterators
// are drained and closed concurrently, one goroutine per track.  A track
// whose iterator or configuration fails carries the error in Track.Err and is
// excluded from normalization; the other tracks are unaffected.  The
// maximum of every successful track is set to the global maximum as computed
// by NormalizeMax.
func ComputeTracks(region interval.Interval, iters []Iterator, opts TrackOpts) []Track {
	tracks := make([]Track, len(iters))
	// Failures are per track, in Track.Err, so the traversal itself never fails.
	_ = traverse.Each(len(iters), func(i int) error {
		tracks[i] = computeTrack(region, iters[i], opts)
		if tracks[i].Err != nil {
			log.Printf("coverage: %v: track %d: %v", region, i, tracks[i].Err)
		}
		return nil
	})
	NormalizeMax(tracks, opts.MaxDepth)
	return tracks
}

// computeTrack drains and closes iter.
func computeTrack(region interval.Interval, iter Iterator, opts TrackOpts) Track {
	t := Track{Region: region}
	raw := Accumulate(iter, region, opts.Filter)
	if t.Err = iter.Close(); t.Err != nil {
		return t
	}
	t.Series, t.Err = Resample(raw, opts.Opts)
	return t
}

// NormalizeMax sets the MaxDepth of every successful track to the largest
// MaxDepth among them, so that all tracks share one vertical scale.  The
// shared maximum is at least 1, and at most maxDepth when maxDepth is
// positive.  It returns the shared maximum.
func NormalizeMax(tracks []Track, maxDepth float64) float64 {
	m := minMaxDepth
	for _, t := range tracks {
		if t.Err == nil && t.Series.MaxDepth > m {
			m = t.Series.MaxDepth
		}
	}
	if maxDepth > 0 && m > maxDepth {
		m = maxDepth
	}
	for i := range tracks {
		if tracks[i].Err == nil {
			tracks[i].Series.MaxDepth = m
		}
	}
	return m
}
