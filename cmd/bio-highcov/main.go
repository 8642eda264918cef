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
	bamPath     = flag.String("bam", "", "Input BAM path; required")
	indexPath   = flag.String("index", "", "Input BAM index path. Defaults to bampath + .bai")
	region      = flag.String("region", "", "Restrict the scan to this region; the whole genome if empty")
	factor      = flag.Float64("factor", coverage.DefaultHighCoverageFactor, "Report bases whose depth is at least this multiple of the mean covered depth")
	minMapQ     = flag.Int("min-mapq", defaultMinMapQ, "Reads with a lower mapping quality are skipped")
	flagExclude = flag.Int("flag-exclude", int(coverage.DefaultFlagExclude), "Reads with a FLAG bit intersecting this value are skipped")
	windowSize  = flag.Int("window", defaultWindowSize, "Number of bases held in memory per contig")
	outPath     = flag.String("out", "", "Output BED path; stdout if empty")
)

func highcovUsage() {
	fmt.Printf("Usage: %s [OPTIONS]\n", os.Args[0])
	fmt.Printf("Options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = highcovUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 0 {
		log.Fatalf("Unexpected positional arguments: %v", flag.Args())
	}
	opts := highcovOpts{
		Filter: coverage.Filter{
			FlagExclude: sam.Flags(*flagExclude),
			MinMapQ:     *minMapQ,
		},
		BamPath:    *bamPath,
		IndexPath:  *indexPath,
		Region:     *region,
		Factor:     *factor,
		WindowSize: *windowSize,
		OutPath:    *outPath,
	}
	if err := highcov(vcontext.Background(), opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
