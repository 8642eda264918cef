package bamprovider

import (
	"io"
	"sync"

	gbam "github.com/grailbio/bamview/encoding/bam"
	"github.com/grailbio/bamview/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"v.io/x/lib/vlog"
)

// BAMProvider implements Provider for BAM files.  Both the BAM and the index
// are opened through grailbio/base/file, so any registered file
// implementation can serve them; the local filesystem is always available.
type BAMProvider struct {
	// Path of the *.bam file. Must be nonempty.
	Path string
	// Index is the pathname of *.bam.bai file. If "", Path + ".bai"
	Index string
	err   errors.Once

	mu        sync.Mutex
	nActive   int
	freeIters []*bamIterator
	header    *sam.Header
	resolver  *interval.ContigResolver
	index     *gbam.Index
}

type bamIterator struct {
	provider *BAMProvider
	in       file.File
	reader   *bam.Reader
	// Reference and 0-based half-open range to read.
	refID    int
	beg, end int

	active bool
	err    error
	next   *sam.Record
}

func (b *BAMProvider) indexPath() string {
	index := b.Index
	if index == "" {
		index = b.Path + ".bai"
	}
	return index
}

// GetHeader implements the Provider interface.
func (b *BAMProvider) GetHeader() (*sam.Header, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.getHeaderLocked()
}

func (b *BAMProvider) getHeaderLocked() (*sam.Header, error) {
	if b.header != nil {
		return b.header, nil
	}

	ctx := vcontext.Background()
	reader, err := file.Open(ctx, b.Path)
	if err != nil {
		b.err.Set(err)
		return nil, err
	}
	defer reader.Close(ctx)
	bamReader, err := bam.NewReader(reader.Reader(ctx), 1)
	if err != nil {
		b.err.Set(err)
		return nil, err
	}
	defer bamReader.Close()
	b.header = bamReader.Header()
	b.resolver = interval.NewContigResolver(b.header)
	return b.header, nil
}

// getIndexLocked reads the .bai file on first use.  The index is shared by
// all iterators.
func (b *BAMProvider) getIndexLocked() (*gbam.Index, error) {
	if b.index != nil {
		return b.index, nil
	}
	ctx := vcontext.Background()
	in, err := file.Open(ctx, b.indexPath())
	if err != nil {
		return nil, err
	}
	defer in.Close(ctx)
	if b.index, err = gbam.ReadIndex(in.Reader(ctx)); err != nil {
		return nil, errors.E(err, b.indexPath())
	}
	return b.index, nil
}

// ResolveContig implements the Provider interface.
func (b *BAMProvider) ResolveContig(name string) (*sam.Reference, error) {
	if _, err := b.GetHeader(); err != nil {
		return nil, err
	}
	ref, err := b.resolver.Resolve(name)
	if err == nil && ref.Name() != name {
		vlog.VI(1).Infof("%v: contig %s resolved as %s", b.Path, name, ref.Name())
	}
	return ref, err
}

// Close implements the Provider interface.
func (b *BAMProvider) Close() error {
	if b.nActive > 0 {
		vlog.Fatalf("%d iterators still active for %+v", b.nActive, b)
	}
	for _, iter := range b.freeIters {
		iter.internalClose()
	}
	b.freeIters = nil
	return b.err.Err()
}

func (b *BAMProvider) freeIterator(i *bamIterator) {
	if !i.active {
		vlog.Fatal(i)
	}
	i.active = false
	if i.Err() != nil || i.reader == nil {
		// The iter may be invalid. Don't reuse it.
		i.internalClose() // Will set b.err
		i = nil
	}
	b.mu.Lock()
	if i != nil {
		b.freeIters = append(b.freeIters, i)
	}
	b.nActive--
	if b.nActive < 0 {
		vlog.Fatalf("Negative active count for %+v", b)
	}
	b.mu.Unlock()
}

// Return an unused iterator. If b.freeIters is nonempty, this function returns
// one from freeIters. Else, it opens the BAM file, creates a BAM reader and
// returns an iterator containing them. On error, returns an iterator with
// non-nil err field.
func (b *BAMProvider) allocateIterator() *bamIterator {
	b.mu.Lock()
	b.nActive++
	if len(b.freeIters) > 0 {
		iter := b.freeIters[len(b.freeIters)-1]
		iter.active = true
		iter.err = nil
		iter.next = nil
		b.freeIters = b.freeIters[:len(b.freeIters)-1]
		b.mu.Unlock()
		return iter
	}
	iter := bamIterator{
		provider: b,
		active:   true,
	}
	if _, iter.err = b.getHeaderLocked(); iter.err == nil {
		_, iter.err = b.getIndexLocked()
	}
	b.mu.Unlock()
	if iter.err != nil {
		return &iter
	}

	ctx := vcontext.Background()
	if iter.in, iter.err = file.Open(ctx, b.Path); iter.err != nil {
		return &iter
	}
	iter.reader, iter.err = bam.NewReader(iter.in.Reader(ctx), 1)
	return &iter
}

// NewIterator implements the Provider interface.
func (b *BAMProvider) NewIterator(region interval.Interval) Iterator {
	iter := b.allocateIterator()
	if iter.err != nil {
		return iter
	}
	ref, err := b.resolver.Resolve(region.Contig)
	if err != nil {
		// A bad query leaves the reader usable.
		b.freeIterator(iter)
		return NewErrorIterator(err)
	}
	iter.reset(ref, region.Start-1, region.End)
	return iter
}

// Reset the iterator to read records overlapping [beg, end) of ref.
func (i *bamIterator) reset(ref *sam.Reference, beg, end int) {
	i.refID, i.beg, i.end = ref.ID(), beg, end
	chunks, err := i.provider.index.Chunks(ref.ID(), beg, end)
	if err != nil {
		i.err = err
		return
	}
	if len(chunks) == 0 {
		// No reads for this interval.
		i.err = io.EOF
		return
	}
	vlog.VI(2).Infof("%v: %s:%d-%d: %d chunks, first %+v", i.provider.Path, ref.Name(), beg, end, len(chunks), chunks[0])
	i.err = i.reader.Seek(chunks[0].Begin)
}

// Err implements the Iterator interface.
func (i *bamIterator) Err() error {
	if i.err == io.EOF {
		return nil
	}
	return i.err
}

// Close implements the Iterator interface.
func (i *bamIterator) Close() error {
	err := i.Err()
	i.provider.freeIterator(i)
	return err
}

func (i *bamIterator) Scan() bool {
	if !i.active {
		vlog.Fatal("Reusing iterator")
	}
	if i.err != nil {
		return false
	}
	for {
		i.next, i.err = i.reader.Read()
		if i.err != nil {
			return false
		}
		r := i.next
		if r.Ref == nil || r.Ref.ID() > i.refID || (r.Ref.ID() == i.refID && r.Pos >= i.end) {
			// Sorted input: nothing further can overlap.
			i.err = io.EOF
			return false
		}
		if r.Ref.ID() < i.refID || r.End() <= i.beg {
			continue
		}
		return true
	}
}

func (i *bamIterator) Record() *sam.Record {
	return i.next
}

func (i *bamIterator) internalClose() {
	if i.reader != nil {
		if err := i.reader.Close(); err != nil && i.err == nil {
			i.err = err
		}
		i.reader = nil
	}
	if i.in != nil {
		if err := i.in.Close(vcontext.Background()); err != nil && i.err == nil {
			i.err = err
		}
		i.in = nil
	}
	i.provider.err.Set(i.Err())
}
