// Package rose identifies stitched enhancer regions: it merges nearby
// enriched regions while keeping promoter-only regions and regions that
// bridge unrelated promoters out of the merge.
package rose

import (
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/rose/annotation"
	"github.com/grailbio/rose/interval"
	"github.com/grailbio/rose/locus"
)

// StitchRegions runs the stitching pipeline on regions:
//
// 1. Regions intersecting opts.Blacklist or outside opts.Region are dropped.
//
// 2. If opts.TSSWindow > 0, regions lying entirely within opts.TSSWindow of a
// gene's TSS are dropped.
//
// 3. The remaining regions are stitched with opts.StitchWindow, ignoring
// strand.
//
// 4. If opts.TSSWindow > 0, every stitched region overlapping the
// ±opts.ConflictWindow TSS windows of more than opts.MaxConflictGenes distinct
// genes is replaced by the regions it was stitched from.
//
// genes may be nil if opts.TSSWindow is zero. regions is not modified.
func StitchRegions(regions *locus.Collection, genes *annotation.Table, opts Opts) (*locus.Collection, Stats, error) {
	var stats Stats
	if err := opts.Validate(); err != nil {
		return nil, stats, err
	}
	removeTSS := opts.TSSWindow > 0
	if removeTSS {
		if genes == nil {
			return nil, stats, errors.E(errors.Invalid, "rose.StitchRegions: TSS filtering needs a gene annotation")
		}
		genes = genes.Restrict(opts.Genes)
	}

	bound := locus.NewCollection(regions.Loci(), opts.BucketSize)
	stats.Input = bound.Len()
	stats.InputBases = coveredBases(bound)
	if err := mask(bound, opts, &stats); err != nil {
		return nil, stats, err
	}

	if removeTSS {
		tss := genes.TSSCollection(opts.TSSWindow, opts.TSSWindow, opts.TSSBucketSize)
		for _, l := range bound.Loci() {
			containers, err := tss.Containers(l, locus.Both)
			if err != nil {
				return nil, stats, err
			}
			if len(containers) > 0 {
				if err := bound.Remove(l); err != nil {
					return nil, stats, err
				}
				stats.TSSRemoved++
			}
		}
		log.Printf("Removed %d loci because they were contained by a TSS", stats.TSSRemoved)
	}

	stitched, err := locus.Stitch(bound, opts.StitchWindow, locus.Both)
	if err != nil {
		return nil, stats, err
	}
	stats.Stitched = stitched.Len()

	result := stitched
	if removeTSS {
		if result, err = resolveConflicts(stitched, bound, genes, opts, &stats); err != nil {
			return nil, stats, err
		}
		log.Printf("Removed %d stitched loci because they overlapped multiple TSSs", stats.ConflictRemoved)
		log.Printf("Added back %d original loci", stats.Restored)
	}
	stats.Output = result.Len()
	stats.OutputBases = coveredBases(result)
	return result, stats, nil
}

// mask drops the members of c excluded by opts.Blacklist and opts.Region.
func mask(c *locus.Collection, opts Opts, stats *Stats) error {
	var region *interval.BEDUnion
	if opts.Region != "" {
		entry, err := interval.ParseRegionString(opts.Region)
		if err != nil {
			return err
		}
		u, err := interval.NewBEDUnionFromEntries([]interval.Entry{entry})
		if err != nil {
			return err
		}
		region = &u
	}
	if region == nil && opts.Blacklist == nil {
		return nil
	}
	for _, l := range c.Loci() {
		var drop *int
		switch {
		case region != nil && !region.IntersectsByName(l.Chrom, l.Start-1, l.End):
			drop = &stats.OutsideRegion
		case opts.Blacklist != nil && opts.Blacklist.IntersectsByName(l.Chrom, l.Start-1, l.End):
			drop = &stats.Blacklisted
		default:
			continue
		}
		if err := c.Remove(l); err != nil {
			return err
		}
		*drop++
	}
	if opts.Region != "" {
		log.Printf("Removed %d loci outside %s", stats.OutsideRegion, opts.Region)
	}
	if opts.Blacklist != nil {
		log.Printf("Removed %d blacklisted loci", stats.Blacklisted)
	}
	return nil
}

// resolveConflicts replaces each member of stitched that spans the promoters
// of too many distinct genes by the members of original it overlaps.
func resolveConflicts(stitched, original *locus.Collection, genes *annotation.Table, opts Opts, stats *Stats) (*locus.Collection, error) {
	tss := genes.TSSCollection(opts.ConflictWindow, opts.ConflictWindow, opts.TSSBucketSize)
	var fixed []locus.Locus
	for _, s := range stitched.Loci() {
		windows, err := tss.Overlapping(s, locus.Both)
		if err != nil {
			return nil, err
		}
		names := distinctGeneNames(windows, genes)
		if len(names) <= opts.MaxConflictGenes {
			fixed = append(fixed, s)
			continue
		}
		originals, err := original.Overlapping(s, locus.Both)
		if err != nil {
			return nil, err
		}
		log.Debug.Printf("rose: splitting %v (%s) spanning %v into %d regions", s, s.ID, names, len(originals))
		fixed = append(fixed, originals...)
		stats.ConflictRemoved++
		stats.Restored += len(originals)
	}
	return locus.NewCollection(fixed, opts.TSSBucketSize), nil
}

// distinctGeneNames returns the display names of the genes owning windows,
// without duplicates, in the order first seen.
func distinctGeneNames(windows []locus.Locus, genes *annotation.Table) []string {
	var names []string
	seen := map[string]bool{}
	for _, w := range windows {
		name := w.ID
		if g := genes.Gene(w.ID); g != nil {
			name = g.DisplayName()
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
