// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*
Package coverage computes read depth over a genomic region and reduces it to
a fixed number of display buckets.

The pipeline has three stages.  Walk (or WalkFunc) translates one alignment's
CIGAR into per-reference-base depth increments inside a window.  Accumulate
runs the walker over every record of an iterator.  Resample optionally
smooths the raw per-base array, averages it into Opts.Width buckets and
applies the depth cap.

Smoothing always runs on raw per-base values before bucketing; the smoothing
half-width is len(raw)/Opts.Smoothing bases, not a number of buckets.

ComputeTracks runs one independent pipeline per alignment file and
normalizes the reported maximum across them.  A failure in one track is
recorded in that track only.

DepthStats, HighCoverageThreshold and RunFinder find the runs of bases whose
depth is a multiple of the mean covered depth, streaming over consecutive
windows so that whole contigs never need to be held in memory.
*/
package coverage
