// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package coverage

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"gonum.org/v1/gonum/floats"
)

// Opts controls Resample.
type Opts struct {
	// Width is the number of output buckets.  Must be positive.
	Width int
	// Smoothing enables a sliding-window mean over the raw per-base depth when
	// it is greater than 1.  The window half-width is len(raw)/Smoothing, so
	// larger values give narrower windows.  0 and 1 disable smoothing.
	Smoothing int
	// MaxDepth caps every bucket, and the reported maximum, when positive.  0
	// disables the cap.
	MaxDepth float64
}

// DefaultOpts is the configuration used by bio-bamcov when no flags are set.
var DefaultOpts = Opts{
	Width:     1000,
	Smoothing: 0,
	MaxDepth:  0,
}

// Validate checks the parts of opts that do not depend on the input length.
// The error is of kind errors.Invalid.
func (o Opts) Validate() error {
	if o.Width <= 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("coverage: width must be positive, got %d", o.Width))
	}
	if o.Smoothing < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("coverage: smoothing must be non-negative, got %d", o.Smoothing))
	}
	if o.MaxDepth < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("coverage: max depth must be non-negative, got %v", o.MaxDepth))
	}
	return nil
}

// halfWidth returns the smoothing half-width for an input of n bases, or 0
// when smoothing is disabled.
func (o Opts) halfWidth(n int) (int, error) {
	if o.Smoothing <= 1 || n == 0 {
		return 0, nil
	}
	h := n / o.Smoothing
	if h <= 0 {
		return 0, errors.E(errors.Invalid,
			fmt.Sprintf("coverage: smoothing factor %d exceeds region length %d", o.Smoothing, n))
	}
	return h, nil
}

// DepthSeries is the bucketed depth of one track over one region.
type DepthSeries struct {
	// Values has one mean depth per bucket.
	Values []float64
	// MaxDepth is the largest element of Values, or the normalized maximum
	// after NormalizeMax.
	MaxDepth float64
}

// Resample smooths raw (when enabled), averages it into opts.Width buckets
// and applies the depth cap.  Bucket i covers raw[i*L/W : (i+1)*L/W] where L
// is len(raw).  A bucket whose range is empty, which happens only when
// W > L, keeps the value 0.  raw is not modified.
func Resample(raw []int32, opts Opts) (DepthSeries, error) {
	if err := opts.Validate(); err != nil {
		return DepthSeries{}, err
	}
	h, err := opts.halfWidth(len(raw))
	if err != nil {
		return DepthSeries{}, err
	}
	values := make([]float64, len(raw))
	for i, d := range raw {
		values[i] = float64(d)
	}
	if h > 0 {
		values = smooth(values, h)
	}

	var (
		n      = len(values)
		series = DepthSeries{Values: make([]float64, opts.Width)}
	)
	for i := range series.Values {
		lo, hi := i*n/opts.Width, (i+1)*n/opts.Width
		if lo < hi {
			series.Values[i] = floats.Sum(values[lo:hi]) / float64(hi-lo)
		}
		if opts.MaxDepth > 0 && series.Values[i] > opts.MaxDepth {
			series.Values[i] = opts.MaxDepth
		}
		if series.Values[i] > series.MaxDepth {
			series.MaxDepth = series.Values[i]
		}
	}
	return series, nil
}

// smooth replaces each value with the mean of values[i-h : i+h+1], with the
// window clipped to the slice bounds.  The clipped window always contains i,
// so it is never empty.
func smooth(values []float64, h int) []float64 {
	n := len(values)
	prefix := make([]float64, n+1)
	floats.CumSum(prefix[1:], values)
	out := make([]float64, n)
	for i := range out {
		lo, hi := i-h, i+h+1
		if lo < 0 {
			lo = 0
		}
		if hi > n {
			hi = n
		}
		out[i] = (prefix[hi] - prefix[lo]) / float64(hi-lo)
	}
	return out
}
