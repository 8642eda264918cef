package bamprovider

import (
	"github.com/grailbio/bamview/interval"
	"github.com/grailbio/hts/sam"
)

// ProviderOpts defines options for NewProvider.
type ProviderOpts struct {
	// Index specifies the name of the BAM index file. If Index=="", it defaults
	// to path + ".bai".
	Index string
}

// Provider allows reading a BAM file by region. Thread safe.
type Provider interface {
	// GetHeader returns the header for the provided BAM data.  The callee
	// must not modify the returned header object.
	//
	// REQUIRES: Close has not been called.
	GetHeader() (*sam.Header, error)

	// ResolveContig returns the reference for a user-supplied contig name.
	// Names are matched literally first, then with the "chr" prefix removed or
	// added.  It returns an errors.NotExist error when nothing matches.
	//
	// REQUIRES: Close has not been called.
	ResolveContig(name string) (*sam.Reference, error)

	// NewIterator returns an iterator over the records whose alignment
	// intersects region, in coordinate order.  Errors, including an unknown
	// contig, are reported by the iterator's Err and Close.
	//
	// REQUIRES: Close has not been called.
	NewIterator(region interval.Interval) Iterator

	// Close must be called exactly once. It returns any error encountered
	// by the provider, or any iterator created by the provider.
	//
	// REQUIRES: All the iterators created by NewIterator have been closed.
	Close() error
}

// Iterator iterates over sam.Records in a particular genomic range, in
// coordinate order. Thread compatible.
type Iterator interface {
	// Scan returns where there are any records remaining in the iterator,
	// and if so, advances the iterator to the next record. If the iterator
	// reaches the end of its range, Scan() returns false.  If an error
	// occurs, Scan() returns false and the error can be retrieved by
	// calling Err().
	//
	// REQUIRES: Close has not been called.
	Scan() bool

	// Record returns the current record in the iterator. This must be
	// called only after a call to Scan() returns true.  The record is owned
	// by the caller.
	//
	// REQUIRES: Close has not been called.
	Record() *sam.Record

	// Err returns the error encoutered during iteration, or nil if no error
	// occurred.  An io.EOF error will be translated to nil.
	Err() error

	// Close must be called exactly once. It returns the value of Err().
	Close() error
}

func mergeOpts(optList []ProviderOpts) ProviderOpts {
	opts := ProviderOpts{}
	for _, o := range optList {
		if o.Index != "" {
			opts.Index = o.Index
		}
	}
	return opts
}

// NewProvider creates a Provider for the BAM file at path.
func NewProvider(path string, optList ...ProviderOpts) Provider {
	opts := mergeOpts(optList)
	return &BAMProvider{Path: path, Index: opts.Index}
}

// ReadAll drains iter, closes it and returns its records.
func ReadAll(iter Iterator) ([]*sam.Record, error) {
	var recs []*sam.Record
	for iter.Scan() {
		recs = append(recs, iter.Record())
	}
	return recs, iter.Close()
}
