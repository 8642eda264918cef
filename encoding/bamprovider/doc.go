// Package bamprovider reads the alignments of an indexed BAM file that
// overlap a genomic region.
//
// A Provider hands out Iterators, one per region query.  Iterators are pooled
// by the provider so that repeated queries against the same file, as issued
// by a viewer moving between regions, reuse the open file and BAM reader.
package bamprovider
