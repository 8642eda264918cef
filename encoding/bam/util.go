package bam

import "github.com/grailbio/hts/sam"

// HasNoMappedMate returns true if record is unpaired or has an unmapped mate.
func HasNoMappedMate(record *sam.Record) bool {
	return !IsPaired(record) || IsMateUnmapped(record)
}

// IsPaired returns true if the read is paired.
func IsPaired(record *sam.Record) bool { return record.Flags&sam.Paired != 0 }

// IsUnmapped returns true if the read itself is unmapped.
func IsUnmapped(record *sam.Record) bool { return record.Flags&sam.Unmapped != 0 }

// IsMateUnmapped returns true if the mate is unmapped.
func IsMateUnmapped(record *sam.Record) bool { return record.Flags&sam.MateUnmapped != 0 }

// IsPlaced returns true if record is mapped and carries a reference, so its
// alignment span can be computed.
func IsPlaced(record *sam.Record) bool { return !IsUnmapped(record) && record.Ref != nil }
