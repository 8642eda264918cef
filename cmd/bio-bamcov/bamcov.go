package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/bamview/coverage"
	"github.com/grailbio/bamview/encoding/bamprovider"
	"github.com/grailbio/bamview/interval"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/bgzf"
	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
)

type bamcovOpts struct {
	coverage.TrackOpts
	BamsPath    string
	RegionsPath string
	Region      string
	Extend      float64
	Format      string
	OutPath     string
}

const asciiHeight = 10

func validate(opts *bamcovOpts) error {
	if opts.BamsPath == "" {
		return errors.New("you must specify a list of bam files with -bams")
	}
	if (opts.RegionsPath == "") == (opts.Region == "") {
		return errors.New("exactly one of -regions and -region must be set")
	}
	if opts.Extend < 0 {
		return errors.Errorf("extend must be non-negative, got %v", opts.Extend)
	}
	if opts.Format != "tsv" && opts.Format != "tsv-bgz" && opts.Format != "ascii" {
		return errors.Errorf("unknown output format %s", opts.Format)
	}
	return opts.Opts.Validate()
}

// readBAMList returns the non-blank lines of path that do not start with '#'.
func readBAMList(ctx context.Context, path string) (paths []string, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer file.CloseAndReport(ctx, in, &err)
	scanner := bufio.NewScanner(in.Reader(ctx))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		paths = append(paths, line)
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "%s: read", path)
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("%s: list of bams is empty", path)
	}
	return paths, nil
}

func loadRegions(ctx context.Context, opts *bamcovOpts) ([]interval.Interval, error) {
	if opts.Region != "" {
		r, err := interval.Parse(opts.Region)
		if err != nil {
			return nil, err
		}
		return []interval.Interval{r}, nil
	}
	regions, err := interval.ReadBEDFromPath(ctx, opts.RegionsPath)
	if err != nil {
		return nil, err
	}
	if len(regions) == 0 {
		return nil, errors.Errorf("%s: list of regions is empty", opts.RegionsPath)
	}
	return regions, nil
}

// computeRegion runs one coverage pipeline per provider over region.
func computeRegion(providers []bamprovider.Provider, region interval.Interval, opts coverage.TrackOpts) []coverage.Track {
	iters := make([]coverage.Iterator, len(providers))
	for i, p := range providers {
		iters[i] = p.NewIterator(region)
	}
	return coverage.ComputeTracks(region, iters, opts)
}

func formatDepth(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeTSVHeader(w *tsv.Writer) error {
	w.WriteString("#CHROM\tSTART\tEND\tORIG_START\tORIG_END\tBAM\tBUCKET\tDEPTH")
	return w.EndLine()
}

// writeTSV writes one line per bucket of track.  orig is the region before
// extension; track.Region is the region actually queried.
func writeTSV(w *tsv.Writer, bamPath string, orig interval.Interval, track coverage.Track) error {
	for i, v := range track.Series.Values {
		w.WriteString(track.Region.Contig)
		w.WriteInt64(int64(track.Region.Start))
		w.WriteInt64(int64(track.Region.End))
		w.WriteInt64(int64(orig.Start))
		w.WriteInt64(int64(orig.End))
		w.WriteString(bamPath)
		w.WriteInt64(int64(i))
		w.WriteString(formatDepth(v))
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

func writeASCII(w io.Writer, bamPath string, orig interval.Interval, track coverage.Track) error {
	if len(track.Series.Values) == 0 {
		return nil
	}
	caption := fmt.Sprintf("%s %v max depth: %s", bamPath, track.Region, formatDepth(track.Series.MaxDepth))
	if orig != track.Region {
		caption += fmt.Sprintf(" (extended from %v)", orig)
	}
	_, err := fmt.Fprintf(w, "%s\n\n", asciigraph.Plot(track.Series.Values,
		asciigraph.Height(asciiHeight), asciigraph.Precision(1), asciigraph.Caption(caption)))
	return err
}

// writeRegions computes and writes every region.  Tracks that fail are
// logged and left out of the output.
func writeRegions(w io.Writer, bamPaths []string, providers []bamprovider.Provider, regions []interval.Interval, opts *bamcovOpts) error {
	var tsvw *tsv.Writer
	if opts.Format != "ascii" {
		tsvw = tsv.NewWriter(w)
		if err := writeTSVHeader(tsvw); err != nil {
			return err
		}
	}
	for _, region := range regions {
		query := region
		if opts.Extend > 0 {
			query = region.Extend(opts.Extend)
		}
		tracks := computeRegion(providers, query, opts.TrackOpts)
		for i, track := range tracks {
			if track.Err != nil {
				log.Printf("%s: %v: skipping track: %v", bamPaths[i], query, track.Err)
				continue
			}
			var err error
			if tsvw != nil {
				err = writeTSV(tsvw, bamPaths[i], region, track)
			} else {
				err = writeASCII(w, bamPaths[i], region, track)
			}
			if err != nil {
				return errors.Wrapf(err, "%s: write", opts.OutPath)
			}
		}
	}
	if tsvw != nil {
		return tsvw.Flush()
	}
	return nil
}

func bamcov(ctx context.Context, opts bamcovOpts) (err error) {
	if err = validate(&opts); err != nil {
		return err
	}
	bamPaths, err := readBAMList(ctx, opts.BamsPath)
	if err != nil {
		return err
	}
	regions, err := loadRegions(ctx, &opts)
	if err != nil {
		return err
	}
	providers := make([]bamprovider.Provider, len(bamPaths))
	for i, path := range bamPaths {
		providers[i] = bamprovider.NewProvider(path)
	}
	defer func() {
		for i, p := range providers {
			if e := p.Close(); e != nil {
				log.Printf("%s: %v", bamPaths[i], e)
			}
		}
	}()

	var w io.Writer = os.Stdout
	if opts.OutPath != "" {
		var out file.File
		if out, err = file.Create(ctx, opts.OutPath); err != nil {
			return err
		}
		defer file.CloseAndReport(ctx, out, &err)
		w = out.Writer(ctx)
	}
	if opts.Format == "tsv-bgz" {
		bgzw := bgzf.NewWriter(w, 1)
		defer func() {
			if e := bgzw.Close(); e != nil && err == nil {
				err = e
			}
		}()
		w = bgzw
	}
	log.Printf("bio-bamcov: %d bams, %d regions", len(bamPaths), len(regions))
	return writeRegions(w, bamPaths, providers, regions, &opts)
}
