package main

import (
	"context"
	"io"
	"os"

	"github.com/grailbio/bamview/encoding/bamprovider"
	"github.com/grailbio/bamview/interval"
	"github.com/grailbio/bamview/layout"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"
)

type rowsOpts struct {
	BamPath   string
	IndexPath string
	Region    string
	Pairs     bool
	Clip      bool
	OutPath   string
}

type named interface {
	Name() string
}

// layoutRegion fetches the records around region and packs those
// intersecting it into rows.
func layoutRegion(p bamprovider.Provider, region interval.Interval, pairs, clip bool) (layout.Rows, error) {
	recs, err := bamprovider.ReadAll(p.NewIterator(region.Pad(layout.QueryMargin)))
	if err != nil {
		return nil, err
	}
	items := layout.Group(recs, layout.GroupOpts{Pairs: pairs, Clip: clip, Region: region})
	log.Debug.Printf("%v: %d records, %d items", region, len(recs), len(items))
	return layout.Pack(items), nil
}

func writeRows(w io.Writer, rows layout.Rows) error {
	tsvw := tsv.NewWriter(w)
	tsvw.WriteString("#NAME\tROW\tSTART\tEND")
	if err := tsvw.EndLine(); err != nil {
		return err
	}
	for r, row := range rows {
		for _, item := range row {
			name := "."
			if n, ok := item.(named); ok {
				name = n.Name()
			}
			tsvw.WriteString(name)
			tsvw.WriteInt64(int64(r))
			tsvw.WriteInt64(int64(item.Start()))
			tsvw.WriteInt64(int64(item.End()))
			if err := tsvw.EndLine(); err != nil {
				return err
			}
		}
	}
	return tsvw.Flush()
}

func bamrows(ctx context.Context, opts rowsOpts) (err error) {
	if opts.BamPath == "" {
		return errors.New("you must specify a bam file with -bam")
	}
	region, err := interval.Parse(opts.Region)
	if err != nil {
		return errors.Wrapf(err, "-region")
	}
	p := bamprovider.NewProvider(opts.BamPath, bamprovider.ProviderOpts{Index: opts.IndexPath})
	defer func() {
		if e := p.Close(); e != nil && err == nil {
			err = e
		}
	}()
	rows, err := layoutRegion(p, region, opts.Pairs, opts.Clip)
	if err != nil {
		return errors.Wrapf(err, "%s: %v", opts.BamPath, region)
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
	return writeRows(w, rows)
}
