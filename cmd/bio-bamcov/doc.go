/*Command bio-bamcov reports the read depth of one or more BAM files over a
  set of regions, reduced to a fixed number of buckets per region.

  Every BAM in the -bams list (one path per line, '#' lines ignored) is
  read over every region of -regions (a BED file, optionally gzipped) or
  the single -region.  Each region may be widened with -extend before
  querying.  Tracks of the same region share one maximum depth so that
  their scales are comparable.

  Usage: bio-bamcov -bams bams.txt -regions targets.bed [-width 1000]
    [-smooth 0] [-max-depth 0] [-extend 0] [-flag-exclude 0x704] [-min-mapq 0]
    [-format tsv|tsv-bgz|ascii] [-out path]

  The tsv format has one line per bucket; tsv-bgz is the same, block
  gzipped:

    #CHROM START END ORIG_START ORIG_END BAM BUCKET DEPTH

  where START and END are the 1-based inclusive bounds of the queried
  region and ORIG_START and ORIG_END those of the region before -extend.
*/
package main
