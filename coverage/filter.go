package coverage

import (
	gbam "github.com/grailbio/bamview/encoding/bam"
	"github.com/grailbio/hts/sam"
)

// DefaultFlagExclude drops unmapped, secondary, QC-failed and duplicate
// records.
const DefaultFlagExclude = sam.Unmapped | sam.Secondary | sam.QCFail | sam.Duplicate

// Filter selects the records that contribute to depth.
type Filter struct {
	// FlagExclude drops records having any of these flags.
	FlagExclude sam.Flags
	// MinMapQ drops records whose mapping quality is below it.
	MinMapQ int
}

// DefaultFilter keeps every placed primary record that passed QC and is not
// a duplicate, whatever its mapping quality.
var DefaultFilter = Filter{FlagExclude: DefaultFlagExclude}

// Keep returns whether r passes the filter.  Unmapped records and records
// without a reference are never kept.
func (f Filter) Keep(r *sam.Record) bool {
	return r.Flags&f.FlagExclude == 0 && int(r.MapQ) >= f.MinMapQ && gbam.IsPlaced(r)
}
