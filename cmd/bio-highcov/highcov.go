package main

import (
	"context"
	"io"
	"os"

	"github.com/grailbio/bamview/coverage"
	"github.com/grailbio/bamview/encoding/bamprovider"
	"github.com/grailbio/bamview/interval"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"
)

const (
	defaultMinMapQ    = 10
	defaultWindowSize = 1000000
)

type highcovOpts struct {
	coverage.Filter
	BamPath    string
	IndexPath  string
	Region     string
	Factor     float64
	WindowSize int
	OutPath    string
}

func validate(opts *highcovOpts) error {
	if opts.BamPath == "" {
		return errors.New("you must specify a bam file with -bam")
	}
	if opts.Factor <= 0 {
		return errors.Errorf("factor must be positive, got %v", opts.Factor)
	}
	if opts.WindowSize <= 0 {
		return errors.Errorf("window must be positive, got %d", opts.WindowSize)
	}
	if opts.MinMapQ < 0 {
		return errors.Errorf("min-mapq must be non-negative, got %d", opts.MinMapQ)
	}
	return nil
}

// targets returns the contig spans to scan, named as in the BAM header: the
// -region clipped to its contig, or every contig of the header.
func targets(p bamprovider.Provider, region string) ([]interval.Interval, error) {
	if region != "" {
		iv, err := interval.Parse(region)
		if err != nil {
			return nil, errors.Wrapf(err, "-region")
		}
		ref, err := p.ResolveContig(iv.Contig)
		if err != nil {
			return nil, err
		}
		iv.Contig = ref.Name()
		if iv.End > ref.Len() {
			iv.End = ref.Len()
		}
		if iv.Start > iv.End {
			return nil, nil
		}
		return []interval.Interval{iv}, nil
	}
	header, err := p.GetHeader()
	if err != nil {
		return nil, err
	}
	var ivs []interval.Interval
	for _, ref := range header.Refs() {
		if ref.Len() > 0 {
			ivs = append(ivs, interval.Interval{Contig: ref.Name(), Start: 1, End: ref.Len()})
		}
	}
	return ivs, nil
}

// windows splits iv into consecutive windows of at most size bases.
func windows(iv interval.Interval, size int) []interval.Interval {
	var ws []interval.Interval
	for start := iv.Start; start <= iv.End; start += size {
		end := start + size - 1
		if end > iv.End {
			end = iv.End
		}
		ws = append(ws, interval.Interval{Contig: iv.Contig, Start: start, End: end})
	}
	return ws
}

// scanTarget passes the raw depth of every window of target to fn, in
// coordinate order.
func scanTarget(p bamprovider.Provider, target interval.Interval, opts *highcovOpts, fn func(w interval.Interval, depth []int32)) error {
	for _, w := range windows(target, opts.WindowSize) {
		iter := p.NewIterator(w)
		depth := coverage.Accumulate(iter, w, opts.Filter)
		if err := iter.Close(); err != nil {
			return errors.Wrapf(err, "%v", w)
		}
		fn(w, depth)
	}
	return nil
}

// meanDepth is the first pass: the mean depth over the covered bases of all
// targets.
func meanDepth(p bamprovider.Provider, ts []interval.Interval, opts *highcovOpts) (coverage.DepthStats, error) {
	stats := make([]coverage.DepthStats, len(ts))
	err := traverse.Each(len(ts), func(i int) error {
		return scanTarget(p, ts[i], opts, func(_ interval.Interval, depth []int32) {
			stats[i].Add(depth)
		})
	})
	var total coverage.DepthStats
	for _, s := range stats {
		total.Merge(s)
	}
	return total, err
}

// highRuns is the second pass: the runs of every target reaching threshold,
// in target order.
func highRuns(p bamprovider.Provider, ts []interval.Interval, threshold int32, opts *highcovOpts) ([]interval.Interval, error) {
	runs := make([][]interval.Interval, len(ts))
	err := traverse.Each(len(ts), func(i int) error {
		f := coverage.NewRunFinder(threshold, func(iv interval.Interval) {
			runs[i] = append(runs[i], iv)
		})
		if err := scanTarget(p, ts[i], opts, f.Add); err != nil {
			return err
		}
		f.Flush()
		return nil
	})
	if err != nil {
		return nil, err
	}
	var all []interval.Interval
	for _, r := range runs {
		all = append(all, r...)
	}
	return all, nil
}

// findHighCoverage runs both passes over p.
func findHighCoverage(p bamprovider.Provider, opts *highcovOpts) ([]interval.Interval, coverage.DepthStats, error) {
	ts, err := targets(p, opts.Region)
	if err != nil {
		return nil, coverage.DepthStats{}, err
	}
	stats, err := meanDepth(p, ts, opts)
	if err != nil {
		return nil, stats, err
	}
	log.Printf("%s\t%d\t%f", opts.BamPath, stats.Covered, stats.Mean())
	if stats.Covered == 0 {
		return nil, stats, nil
	}
	threshold := coverage.HighCoverageThreshold(stats.Mean(), opts.Factor)
	log.Debug.Printf("%s: depth threshold %d", opts.BamPath, threshold)
	runs, err := highRuns(p, ts, threshold, opts)
	return runs, stats, err
}

func writeBED(w io.Writer, runs []interval.Interval) error {
	tsvw := tsv.NewWriter(w)
	for _, r := range runs {
		tsvw.WriteString(r.Contig)
		tsvw.WriteInt64(int64(r.Start - 1))
		tsvw.WriteInt64(int64(r.End))
		if err := tsvw.EndLine(); err != nil {
			return err
		}
	}
	return tsvw.Flush()
}

func highcov(ctx context.Context, opts highcovOpts) (err error) {
	if err = validate(&opts); err != nil {
		return err
	}
	p := bamprovider.NewProvider(opts.BamPath, bamprovider.ProviderOpts{Index: opts.IndexPath})
	defer func() {
		if e := p.Close(); e != nil && err == nil {
			err = e
		}
	}()
	runs, _, err := findHighCoverage(p, &opts)
	if err != nil {
		return errors.Wrapf(err, "%s", opts.BamPath)
	}

	var w io.Writer = os.Stdout
	if opts.OutPath != "" {
		var out file.File
		if out, err = file.Create(ctx, opts.OutPath); err != nil {
			return err
		}
		defer file.CloseAndReport(ctx, out, &err)
		w = out.Writer(ctx)
	}
	return writeBED(w, runs)
}
