package main

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/rose/annotation"
	"github.com/grailbio/rose/encoding/gff"
	"github.com/grailbio/rose/interval"
	"github.com/grailbio/rose/rose"
)

type stitchFlags struct {
	input      string
	annotation string
	output     string
	genes      string
	blacklist  string
}

// loadGenes reads the annotation at path, restricted to the IDs listed in
// genesPath if it is nonempty.
func loadGenes(ctx context.Context, path, genesPath string) (*annotation.Table, error) {
	genes, err := annotation.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	if genesPath == "" {
		return genes, nil
	}
	ids, err := annotation.ReadGeneList(ctx, genesPath)
	if err != nil {
		return nil, err
	}
	genes = genes.Restrict(ids)
	log.Printf("Using %d of %d listed genes", genes.Len(), len(ids))
	return genes, nil
}

func runStitch(ctx context.Context, flags stitchFlags, opts rose.Opts) (rose.Stats, error) {
	if flags.input == "" || flags.output == "" {
		return rose.Stats{}, errors.E(errors.Invalid, "stitch: -i and -o are required")
	}
	if err := opts.Validate(); err != nil {
		return rose.Stats{}, err
	}
	log.Printf("Using %s as the input regions", flags.input)
	regions, err := gff.ReadFile(ctx, flags.input, opts.BucketSize)
	if err != nil {
		return rose.Stats{}, err
	}

	var genes *annotation.Table
	if flags.annotation != "" {
		log.Printf("Using %s as the annotation", flags.annotation)
		if genes, err = loadGenes(ctx, flags.annotation, flags.genes); err != nil {
			return rose.Stats{}, err
		}
	}
	if flags.blacklist != "" {
		blacklist, err := interval.NewBEDUnionFromPath(flags.blacklist, interval.NewBEDOpts{})
		if err != nil {
			return rose.Stats{}, errors.E(err, flags.blacklist)
		}
		opts.Blacklist = &blacklist
	}

	log.Printf("Stitching regions together")
	stitched, stats, err := rose.StitchRegions(regions, genes, opts)
	if err != nil {
		return stats, err
	}
	stats.Log()
	log.Printf("Writing stitched regions to %s", flags.output)
	return stats, gff.WriteFile(ctx, flags.output, stitched)
}
