package interval

import (
	"fmt"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
)

const chrPrefix = "chr"

// ContigCandidates returns the names tried, in order, when looking up a
// user-supplied contig name in a reference set that may follow the other
// "chr" naming convention: the literal name, then the name with "chr" stripped
// (if it has the prefix) or with "chr" prepended (if it does not).
func ContigCandidates(name string) [2]string {
	if strings.HasPrefix(name, chrPrefix) {
		return [2]string{name, name[len(chrPrefix):]}
	}
	return [2]string{name, chrPrefix + name}
}

// ContigResolver maps contig names to the references of one BAM header.
// It is read-only after construction and may be shared across goroutines.
type ContigResolver struct {
	byName map[string]*sam.Reference
}

// NewContigResolver indexes the references of header.
func NewContigResolver(header *sam.Header) *ContigResolver {
	refs := header.Refs()
	r := &ContigResolver{byName: make(map[string]*sam.Reference, len(refs))}
	for _, ref := range refs {
		r.byName[ref.Name()] = ref
	}
	return r
}

// Resolve returns the reference named name, falling back to the alternate
// "chr" spelling.  It returns an errors.NotExist error if neither is present.
func (r *ContigResolver) Resolve(name string) (*sam.Reference, error) {
	for _, candidate := range ContigCandidates(name) {
		if candidate == "" {
			continue
		}
		if ref, ok := r.byName[candidate]; ok {
			return ref, nil
		}
	}
	return nil, errors.E(errors.NotExist, fmt.Sprintf("no such contig %q", name))
}
