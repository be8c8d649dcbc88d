/*
bio-rose stitches enriched regions (e.g. ChIP-seq peaks of a master
transcription factor or H3K27ac) into candidate enhancer regions.

  bio-rose stitch -i peaks.gff -g hg19_refseq.ucsc -o stitched.gff -tss 2500

reads 9-column region records, drops regions lying entirely within -tss bases
of an annotated TSS, stitches regions closer than -stitch bases, and splits
back any stitched region spanning the promoters of more than two genes. The
output has one record per region, with the region ID in the second and ninth
columns. Stitched IDs have the form "<count>_<id>_lociStitched".

  bio-rose tss -g hg19_refseq.ucsc -o tss.gff -window 50

writes the TSS window of every annotated gene.

The annotation is either a UCSC refGene-style table (the file name must
mention "refseq" or "refgene") or a GENCODE GTF. Any input may be compressed.
*/
package main
