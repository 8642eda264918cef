package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/bamview/layout"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

var (
	bamPath   = flag.String("bam", "", "Input BAM path; required")
	indexPath = flag.String("index", "", "Input BAM index path. Defaults to bampath + .bai")
	region    = flag.String("region", "", "Region to lay out, as <contig>:<start>-<end>; required")
	pairs     = flag.Bool("pairs", layout.DefaultGroupOpts.Pairs, "Group mates into one item")
	clip      = flag.Bool("clip", layout.DefaultGroupOpts.Clip, "Lay out unclipped spans")
	outPath   = flag.String("out", "", "Output path; stdout if empty")
)

func bamrowsUsage() {
	fmt.Printf("Usage: %s [OPTIONS]\n", os.Args[0])
	fmt.Printf("Options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bamrowsUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 0 {
		log.Fatalf("Unexpected positional arguments: %v", flag.Args())
	}
	opts := rowsOpts{
		BamPath:   *bamPath,
		IndexPath: *indexPath,
		Region:    *region,
		Pairs:     *pairs,
		Clip:      *clip,
		OutPath:   *outPath,
	}
	if err := bamrows(vcontext.Background(), opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
