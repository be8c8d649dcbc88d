package rose

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/rose/interval"
)

// Opts configures StitchRegions.
type Opts struct {
	// StitchWindow is the maximum distance between two regions that are
	// stitched together.
	StitchWindow int
	// TSSWindow is the half-width of the window around each gene's TSS.
	// Regions lying entirely within a window are dropped before stitching.
	// Zero disables both the TSS filter and conflict resolution.
	TSSWindow int
	// ConflictWindow is the half-width of the TSS windows used to find the
	// promoters a stitched region spans.
	ConflictWindow int
	// MaxConflictGenes is the largest number of distinct gene promoters a
	// stitched region may span. Regions spanning more are split back into the
	// regions they were stitched from.
	MaxConflictGenes int
	// BucketSize is the bucket width of the input collection.
	BucketSize int
	// TSSBucketSize is the bucket width of the TSS collections and of the
	// result.
	TSSBucketSize int

	// Genes restricts the annotation to the listed gene IDs. Empty means all
	// genes.
	Genes []string
	// Blacklist, if non-nil, drops input regions intersecting it.
	Blacklist *interval.BEDUnion
	// Region, if non-empty, drops input regions outside it. The format is
	// "chr[:start-end]", 1-based and inclusive.
	Region string
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	StitchWindow:     12500, // -stitch
	TSSWindow:        0,     // -tss
	ConflictWindow:   50,
	MaxConflictGenes: 2,
	BucketSize:       500,
	TSSBucketSize:    50,
}

// Validate checks that opts can be passed to StitchRegions.
func (opts *Opts) Validate() error {
	for _, w := range []struct {
		name string
		val  int
	}{
		{"stitch window", opts.StitchWindow},
		{"TSS window", opts.TSSWindow},
		{"conflict window", opts.ConflictWindow},
		{"max conflict genes", opts.MaxConflictGenes},
	} {
		if w.val < 0 {
			return errors.E(errors.Invalid, fmt.Sprintf("rose: negative %s %d", w.name, w.val))
		}
	}
	if opts.BucketSize <= 0 || opts.TSSBucketSize <= 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("rose: bucket sizes must be positive, got %d and %d", opts.BucketSize, opts.TSSBucketSize))
	}
	if opts.Region != "" {
		if _, err := interval.ParseRegionString(opts.Region); err != nil {
			return err
		}
	}
	return nil
}
