package bamprovider

import (
	"github.com/grailbio/bamview/interval"
	"github.com/grailbio/hts/sam"
)

// fakeProvider is only for unittests. It yields the given records.
type fakeProvider struct {
	header   *sam.Header
	resolver *interval.ContigResolver
	recs     []*sam.Record
}

type fakeIterator struct {
	recs     []*sam.Record
	rec      *sam.Record
	ref      *sam.Reference
	beg, end int
}

// NewFakeProvider creates a provider that returns "header" in response to a
// GetHeader() call, and those of recs overlapping the queried region from
// NewIterator.  recs must be sorted by coordinate.
func NewFakeProvider(header *sam.Header, recs []*sam.Record) Provider {
	return &fakeProvider{header, interval.NewContigResolver(header), recs}
}

// GetHeader implements the Provider interface. It returns the header passed to
// the constructor.
func (b *fakeProvider) GetHeader() (*sam.Header, error) {
	return b.header, nil
}

// ResolveContig implements the Provider interface.
func (b *fakeProvider) ResolveContig(name string) (*sam.Reference, error) {
	return b.resolver.Resolve(name)
}

// Close implements the Provider interface.
func (b *fakeProvider) Close() error {
	return nil
}

// NewIterator implements the Provider interface.
func (b *fakeProvider) NewIterator(region interval.Interval) Iterator {
	ref, err := b.resolver.Resolve(region.Contig)
	if err != nil {
		return NewErrorIterator(err)
	}
	return &fakeIterator{recs: b.recs, ref: ref, beg: region.Start - 1, end: region.End}
}

// Err implements the Iterator interface.
func (i *fakeIterator) Err() error {
	return nil
}

// Close implements the Iterator interface.
func (i *fakeIterator) Close() error {
	return nil
}

func (i *fakeIterator) Scan() bool {
	for {
		if len(i.recs) == 0 {
			return false
		}
		i.rec = i.recs[0]
		i.recs = i.recs[1:]
		if i.rec.Ref == i.ref && i.rec.Pos < i.end && i.rec.End() > i.beg {
			return true
		}
	}
}

func (i *fakeIterator) Record() *sam.Record {
	// Return a copy so that the code under test cannot alter the
	// original test input data.
	copy := sam.GetFromFreePool()
	*copy = *i.rec
	return copy
}
