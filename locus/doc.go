/*Package locus implements strand-aware genomic intervals (Locus), a bucketed
  spatial index over them (Collection), and region stitching, which merges
  loci lying within a fixed distance of each other into maximal regions.

  Coordinates are closed: a Locus covers every position in [Start, End].
  A strand of '.' is a wildcard that matches both '+' and '-'.
*/
package locus
