package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/bamview/coverage"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/sam"
)

var (
	bamsPath    = flag.String("bams", "", "File listing one BAM path per line; required")
	regionsPath = flag.String("regions", "", "BED file of regions; this xor -region required")
	region      = flag.String("region", "", "Single region, as <contig>:<start>-<end> or <contig>:<pos>+<flank>")
	width       = flag.Int("width", coverage.DefaultOpts.Width, "Number of depth buckets per region")
	smooth      = flag.Int("smooth", coverage.DefaultOpts.Smoothing, "Smoothing factor; the window half-width is region length / smooth. 0 or 1 disables smoothing")
	maxDepth    = flag.Float64("max-depth", coverage.DefaultOpts.MaxDepth, "Cap on reported depth; 0 = no cap")
	extend      = flag.Float64("extend", 0, "Widen each region by this fraction of its length on each side")
	flagExclude = flag.Int("flag-exclude", int(coverage.DefaultFlagExclude), "Reads with a FLAG bit intersecting this value are skipped")
	minMapQ     = flag.Int("min-mapq", coverage.DefaultFilter.MinMapQ, "Reads with a lower mapping quality are skipped")
	format      = flag.String("format", "tsv", "Output format; 'tsv', 'tsv-bgz' and 'ascii' supported")
	outPath     = flag.String("out", "", "Output path; stdout if empty")
)

func bamcovUsage() {
	fmt.Printf("Usage: %s [OPTIONS]\n", os.Args[0])
	fmt.Printf("Options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bamcovUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 0 {
		log.Fatalf("Unexpected positional arguments: %v", flag.Args())
	}
	opts := bamcovOpts{
		TrackOpts: coverage.TrackOpts{
			Opts: coverage.Opts{
				Width:     *width,
				Smoothing: *smooth,
				MaxDepth:  *maxDepth,
			},
			Filter: coverage.Filter{
				FlagExclude: sam.Flags(*flagExclude),
				MinMapQ:     *minMapQ,
			},
		},
		BamsPath:    *bamsPath,
		RegionsPath: *regionsPath,
		Region:      *region,
		Extend:      *extend,
		Format:      *format,
		OutPath:     *outPath,
	}
	if err := bamcov(vcontext.Background(), opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
