package rose

import (
	"fmt"

	"github.com/grailbio/base/log"
	"github.com/grailbio/rose/interval"
	"github.com/grailbio/rose/locus"
)

// Stats counts the regions handled by each stage of StitchRegions.
type Stats struct {
	// Input is the # of distinct input regions.
	Input int
	// Blacklisted is the # of input regions dropped because they intersect
	// Opts.Blacklist.
	Blacklisted int
	// OutsideRegion is the # of input regions dropped because they lie outside
	// Opts.Region.
	OutsideRegion int
	// TSSRemoved is the # of regions dropped because a TSS window contains them.
	TSSRemoved int
	// Stitched is the # of regions produced by stitching.
	Stitched int
	// ConflictRemoved is the # of stitched regions that spanned too many gene
	// promoters and were split back.
	ConflictRemoved int
	// Restored is the # of original regions that replaced them.
	Restored int
	// Output is the # of regions returned.
	Output int
	// InputBases and OutputBases are the # of positions covered by the input
	// and output regions, ignoring strand.
	InputBases  int
	OutputBases int
}

// Log prints s to the info log.
func (s Stats) Log() {
	log.Printf("Input: %d regions, %d bases", s.Input, s.InputBases)
	if s.Blacklisted > 0 || s.OutsideRegion > 0 {
		log.Printf("Masked: %d blacklisted, %d outside region", s.Blacklisted, s.OutsideRegion)
	}
	log.Printf("Stitched: %d regions", s.Stitched)
	log.Printf("Output: %d regions, %d bases", s.Output, s.OutputBases)
}

// coveredBases returns the number of positions covered by members of c on
// either strand.
func coveredBases(c *locus.Collection) int {
	loci := c.Loci()
	entries := make([]interval.Entry, len(loci))
	for i, l := range loci {
		entries[i] = interval.Entry{ChrName: l.Chrom, Start0: l.Start - 1, End: l.End}
	}
	u, err := interval.NewBEDUnionFromEntries(entries)
	if err != nil {
		// Loci always have Start <= End.
		log.Panicf("rose: %v", err)
	}
	return u.Covered()
}

// String implements fmt.Stringer.
func (s Stats) String() string {
	return fmt.Sprintf("input=%d blacklisted=%d outside_region=%d tss_removed=%d stitched=%d conflict_removed=%d restored=%d output=%d",
		s.Input, s.Blacklisted, s.OutsideRegion, s.TSSRemoved, s.Stitched, s.ConflictRemoved, s.Restored, s.Output)
}
