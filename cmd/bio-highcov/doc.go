/*Command bio-highcov writes a BED file of the regions of a BAM whose read
  depth is far above its mean.

  The mean is taken over covered bases only, so large uncovered stretches do
  not lower it.  A first pass over the BAM computes it; a second pass reports
  every maximal run of bases whose depth reaches int(mean * -factor).  Both
  passes walk each contig in windows of -window bases, one goroutine per
  contig.  Records are filtered as in bio-bamcov, and additionally by
  -min-mapq.

  Usage: bio-highcov -bam file.bam [-index file.bam.bai] [-region chr:s-e]
    [-factor 10] [-min-mapq 10] [-flag-exclude 0x704] [-window 1000000]
    [-out cov.bed]

  The mean is logged as "<bam> <covered bases> <mean>".  Output lines are
  BED: contig, 0-based start, end.
*/
package main
