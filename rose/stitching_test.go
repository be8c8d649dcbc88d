package rose

import (
	"os"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/rose/annotation"
	"github.com/grailbio/rose/interval"
	"github.com/grailbio/rose/locus"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func collection(loci ...locus.Locus) *locus.Collection {
	return locus.NewCollection(loci, locus.DefaultBucketSize)
}

func opts(mod func(*Opts)) Opts {
	o := DefaultOpts
	mod(&o)
	return o
}

func TestStitchWithoutTSS(t *testing.T) {
	regions := collection(
		locus.New("chr1", 100, 200, locus.Forward, "r1"),
		locus.New("chr1", 180, 300, locus.Forward, "r2"),
		locus.New("chr1", 10000, 10100, locus.Forward, "r3"),
	)
	result, stats, err := StitchRegions(regions, nil, opts(func(o *Opts) { o.StitchWindow = 50 }))
	assert.NoError(t, err)
	expect.EQ(t, result.Loci(), []locus.Locus{
		locus.New("chr1", 100, 300, locus.Unstranded, "2_r1_lociStitched"),
		locus.New("chr1", 10000, 10100, locus.Forward, "1_r3_lociStitched"),
	})
	expect.EQ(t, stats, Stats{
		Input:       3,
		Stitched:    2,
		Output:      2,
		InputBases:  302,
		OutputBases: 302,
	})
	expect.EQ(t, regions.Len(), 3)
}

func TestTSSFilter(t *testing.T) {
	genes := annotation.NewTable([]*annotation.Gene{
		{ID: "NM_1", Name: "G1", Chrom: "chr1", Strand: locus.Forward, TSS: []int{150}, TES: []int{900}},
	})
	regions := collection(
		locus.New("chr1", 200, 300, locus.Forward, "inside"),
		locus.New("chr1", 1, 2150, locus.Reverse, "inside-antisense"),
		locus.New("chr1", 2100, 2200, locus.Forward, "straddles"),
		locus.New("chr2", 200, 300, locus.Forward, "elsewhere"),
	)
	result, stats, err := StitchRegions(regions, genes, opts(func(o *Opts) {
		o.StitchWindow = 0
		o.TSSWindow = 2000
	}))
	assert.NoError(t, err)
	expect.EQ(t, stats.TSSRemoved, 2)
	expect.EQ(t, result.Loci(), []locus.Locus{
		locus.New("chr1", 2100, 2200, locus.Forward, "1_straddles_lociStitched"),
		locus.New("chr2", 200, 300, locus.Forward, "1_elsewhere_lociStitched"),
	})
}

func TestTSSFilterNegativeWindow(t *testing.T) {
	// The promoter chr1:140-160 widened by 2000 on each side spans
	// chr1:-1860-2160.
	genes := annotation.NewTable([]*annotation.Gene{
		{ID: "NM_1", Name: "G1", Chrom: "chr1", Strand: locus.Forward, TSS: []int{150}},
	})
	regions := collection(
		locus.New("chr1", -1860, 2160, locus.Forward, "exact"),
		locus.New("chr1", 1, 2160, locus.Reverse, "antisense"),
		locus.New("chr1", -1861, 100, locus.Forward, "left"),
		locus.New("chr1", 2000, 2161, locus.Forward, "right"),
	)
	result, stats, err := StitchRegions(regions, genes, opts(func(o *Opts) {
		o.StitchWindow = 0
		o.TSSWindow = 2010
	}))
	assert.NoError(t, err)
	expect.EQ(t, stats.TSSRemoved, 2)
	expect.EQ(t, result.Loci(), []locus.Locus{
		locus.New("chr1", -1861, 100, locus.Forward, "1_left_lociStitched"),
		locus.New("chr1", 2000, 2161, locus.Forward, "1_right_lociStitched"),
	})
}

// promoterGenes returns genes with promoters at 1000, 5000 and 9000 on chr1.
func promoterGenes(thirdName string) *annotation.Table {
	return annotation.NewTable([]*annotation.Gene{
		{ID: "A", Name: "GA", Chrom: "chr1", Strand: locus.Forward, TSS: []int{1000}},
		{ID: "B", Name: "GB", Chrom: "chr1", Strand: locus.Forward, TSS: []int{5000}},
		{ID: "C", Name: thirdName, Chrom: "chr1", Strand: locus.Reverse, TSS: []int{9000}},
	})
}

func promoterRegions() *locus.Collection {
	return collection(
		locus.New("chr1", 1000, 1500, locus.Forward, "r1"),
		locus.New("chr1", 4000, 4500, locus.Reverse, "r2"),
		locus.New("chr1", 5200, 5500, locus.Forward, "r3"),
		locus.New("chr1", 8000, 8960, locus.Forward, "r4"),
	)
}

func TestConflictSplitsRegion(t *testing.T) {
	regions := promoterRegions()
	result, stats, err := StitchRegions(regions, promoterGenes("GC"), opts(func(o *Opts) { o.TSSWindow = 100 }))
	assert.NoError(t, err)
	expect.EQ(t, stats.TSSRemoved, 0)
	expect.EQ(t, stats.Stitched, 1)
	expect.EQ(t, stats.ConflictRemoved, 1)
	expect.EQ(t, stats.Restored, 4)
	expect.EQ(t, stats.Output, 4)
	// The restored regions are exactly the pre-stitch ones.
	expect.EQ(t, result.Loci(), regions.Loci())
	expect.EQ(t, result.BucketSize(), DefaultOpts.TSSBucketSize)
	expect.True(t, stats.OutputBases <= stats.InputBases)
}

func TestConflictKeepsTwoGenes(t *testing.T) {
	tests := []struct {
		name  string
		genes *annotation.Table
		opts  Opts
	}{
		{
			// C shares A's name, so only two distinct genes are spanned.
			"shared name",
			promoterGenes("GA"),
			opts(func(o *Opts) { o.TSSWindow = 100 }),
		},
		{
			"restricted genes",
			promoterGenes("GC"),
			opts(func(o *Opts) {
				o.TSSWindow = 100
				o.Genes = []string{"A", "B"}
			}),
		},
		{
			"higher limit",
			promoterGenes("GC"),
			opts(func(o *Opts) {
				o.TSSWindow = 100
				o.MaxConflictGenes = 3
			}),
		},
	}
	for _, test := range tests {
		result, stats, err := StitchRegions(promoterRegions(), test.genes, test.opts)
		assert.NoError(t, err, test.name)
		expect.EQ(t, stats.ConflictRemoved, 0, test.name)
		expect.EQ(t, result.Loci(), []locus.Locus{
			locus.New("chr1", 1000, 8960, locus.Unstranded, "4_r1_lociStitched"),
		}, test.name)
	}
}

func TestMasks(t *testing.T) {
	blacklist, err := interval.NewBEDUnionFromEntries([]interval.Entry{{ChrName: "chr1", Start0: 499, End: 600}})
	assert.NoError(t, err)
	regions := collection(
		locus.New("chr1", 100, 200, locus.Forward, "kept"),
		locus.New("chr1", 500, 550, locus.Forward, "blacklisted"),
		locus.New("chr1", 5000, 5100, locus.Forward, "outside"),
		locus.New("chr2", 100, 200, locus.Forward, "other-chrom"),
	)
	result, stats, err := StitchRegions(regions, nil, opts(func(o *Opts) {
		o.StitchWindow = 0
		o.Blacklist = &blacklist
		o.Region = "chr1:1-1000"
	}))
	assert.NoError(t, err)
	expect.EQ(t, stats.Blacklisted, 1)
	expect.EQ(t, stats.OutsideRegion, 2)
	expect.EQ(t, result.Loci(), []locus.Locus{
		locus.New("chr1", 100, 200, locus.Forward, "1_kept_lociStitched"),
	})
}

func TestInvalidOpts(t *testing.T) {
	regions := collection(locus.New("chr1", 1, 2, locus.Forward, "x"))
	for _, o := range []Opts{
		opts(func(o *Opts) { o.StitchWindow = -1 }),
		opts(func(o *Opts) { o.TSSWindow = -1 }),
		opts(func(o *Opts) { o.BucketSize = 0 }),
		opts(func(o *Opts) { o.Region = "chr1:10-1" }),
		// TSS filtering without an annotation.
		opts(func(o *Opts) { o.TSSWindow = 10 }),
	} {
		_, _, err := StitchRegions(regions, nil, o)
		expect.True(t, errors.Is(errors.Invalid, err), "opts %+v: err: %v", o, err)
	}
}

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	status := m.Run()
	shutdown()
	os.Exit(status)
}
