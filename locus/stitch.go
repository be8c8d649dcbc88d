package locus

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// StitchedSuffix marks the ID of every locus produced by Stitch.
const StitchedSuffix = "_lociStitched"

// mergeGroup accumulates the loci absorbed into one stitched region.
type mergeGroup struct {
	chrom      string
	strand     Strand
	start, end int
	n          int    // number of loci absorbed, including the seed
	seedID     string // lexicographically smallest ID seen
}

func newMergeGroup(seed Locus) *mergeGroup {
	return &mergeGroup{
		chrom:  seed.Chrom,
		strand: seed.Strand,
		start:  seed.Start,
		end:    seed.End,
		n:      1,
		seedID: seed.ID,
	}
}

func (g *mergeGroup) add(l Locus) {
	if l.Start < g.start {
		g.start = l.Start
	}
	if l.End > g.end {
		g.end = l.End
	}
	if l.ID < g.seedID {
		g.seedID = l.ID
	}
	g.n++
}

// span is the current union of the group, without an ID.
func (g *mergeGroup) span() Locus {
	return Locus{Chrom: g.chrom, Start: g.start, End: g.end, Strand: g.strand}
}

// finish labels the group's union. This is the only place a stitched ID is
// built.
func (g *mergeGroup) finish() Locus {
	return g.span().WithID(StitchedID(g.n, g.seedID))
}

// StitchedID formats the ID of a stitched region that absorbed n loci.
func StitchedID(n int, seedID string) string {
	return fmt.Sprintf("%d_%s%s", n, seedID, StitchedSuffix)
}

// Stitch merges members of c that lie within window positions of each other
// (on compatible strands per sense) into maximal regions and returns them in a
// new Collection. c is not modified.
//
// With sense == Both, loci on any strand are merged and every merged region
// that absorbed more than one locus is unstranded. With sense == Sense, only
// strand-compatible loci are merged and the region keeps its seed's strand.
// Antisense stitching is not supported.
//
// Each result is labelled StitchedID(n, id), where n counts the absorbed loci
// and id is the smallest ID among them, so labels do not depend on the order
// in which members are visited.
func Stitch(c *Collection, window int, sense Strandedness) (*Collection, error) {
	if window < 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("locus.Stitch: negative window %d", window))
	}
	if sense != Sense && sense != Both {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("locus.Stitch: unsupported strandedness %v", sense))
	}
	seeds := c.Loci()
	scratch := NewCollection(seeds, DefaultBucketSize)
	stitched := NewCollection(nil, DefaultBucketSize)
	for _, seed := range seeds {
		if !scratch.Has(seed) {
			continue // absorbed by an earlier group
		}
		mustRemove(scratch, seed)
		g := newMergeGroup(seed)
		for {
			overlapping, err := scratch.Overlapping(g.span().Expand(window), sense)
			if err != nil {
				return nil, err
			}
			if len(overlapping) == 0 {
				break
			}
			for _, l := range overlapping {
				mustRemove(scratch, l)
				g.add(l)
			}
			if sense == Both {
				g.strand = Unstranded
			}
		}
		if g.n > 1 {
			log.Debug.Printf("locus.Stitch: %d loci -> %v", g.n, g.span())
		}
		stitched.Insert(g.finish())
	}
	return stitched, nil
}

// mustRemove removes l from the scratch collection. Anything returned by a
// query on c is a member, so failure is an invariant violation.
func mustRemove(c *Collection, l Locus) {
	if err := c.Remove(l); err != nil {
		log.Panicf("locus.Stitch: %v", err)
	}
}
