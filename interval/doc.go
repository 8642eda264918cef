/*Package interval defines the genomic interval type shared by the coverage,
  layout and binning packages, together with the small adapters that produce
  intervals: region-string parsing, BED loading, and contig-name resolution
  against a BAM header.

  Intervals use 1-based inclusive coordinates, as the SAM text format and the
  region strings typed by users do.  The binary formats are 0-based half-open;
  conversions happen at the boundary (see ucscbin.BinForInterval).
*/
package interval
