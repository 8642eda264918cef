/*Command bio-bamrows stacks the alignments of one region of a BAM file into
  display rows, such that no two reads (or read pairs) in a row overlap or
  touch, and prints the assignment.

  Records are fetched 200 bases beyond each side of the region so that mates
  just outside it can be paired, then only those intersecting the region are
  kept.

  Usage: bio-bamrows -bam foo.bam -region chr1:1000-2000 [-pairs=true] [-clip]

  Output is a TSV with one line per read or pair, in row order:

    #NAME ROW START END
*/
package main
