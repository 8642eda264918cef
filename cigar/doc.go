// Package cigar models CIGAR strings: the fixed operator taxonomy, parsing
// from SAM text, conversion from decoded BAM records, and the derived
// reference-length and clip-length quantities used to compute alignment spans.
package cigar
