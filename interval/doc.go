/*Package interval implements interval-union operations for sets of genomic
  coordinates, e.g. blacklist masks loaded from BED files or a region
  restriction given on the command line.
  (Note the 'union'.  Overlapping intervals are merged, not tracked
  separately; use locus.Collection when individual intervals matter.)
  Coordinates are 0-based and half-open, as in BED.
*/
package interval
