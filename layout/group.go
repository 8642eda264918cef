// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package layout

import (
	gbam "github.com/grailbio/bamview/encoding/bam"
	"github.com/grailbio/bamview/interval"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
)

// QueryMargin is how far beyond the displayed region records are fetched, so
// that mates just outside it can still be joined into pairs.
const QueryMargin = 200

// GroupOpts configures Group.
type GroupOpts struct {
	// Pairs joins records sharing a read name into one Pair.  Otherwise every
	// record becomes a Read.
	Pairs bool
	// Clip lays out unclipped spans.
	Clip bool
	// Region, when its Contig is set, drops records whose span does not
	// intersect [Region.Start, Region.End].  Contig names are not compared;
	// the record source is expected to have selected the right contig.
	Region interval.Interval
	// FlagExclude drops records having any of these flags.  Unmapped records
	// are always dropped.
	FlagExclude sam.Flags
}

// DefaultGroupOpts pairs mates and keeps every mapped record.
var DefaultGroupOpts = GroupOpts{Pairs: true}

// Group turns records into layout items, in the order their first record
// appears.  With opts.Pairs, a third record carrying an already paired name
// is logged and dropped.  The records are retained by the returned items.
func Group(records []*sam.Record, opts GroupOpts) []Item {
	var (
		items  []Item
		byName map[string]*Pair
	)
	if opts.Pairs {
		byName = make(map[string]*Pair)
	}
	for _, r := range records {
		if r.Flags&opts.FlagExclude != 0 || !gbam.IsPlaced(r) {
			continue
		}
		rec := gbam.NewRecord(r)
		if opts.Region.Contig != "" {
			if start, end := span(rec, opts.Clip); start > opts.Region.End || end < opts.Region.Start {
				continue
			}
		}
		if !opts.Pairs {
			items = append(items, NewRead(rec, opts.Clip))
			continue
		}
		p, ok := byName[r.Name]
		switch {
		case !ok:
			p = NewPair(rec, opts.Clip)
			byName[r.Name] = p
			items = append(items, p)
		case p.Second == nil:
			p.SetMate(rec)
		default:
			log.Printf("layout: duplicate read name %s", r.Name)
		}
	}
	return items
}
