package main

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/rose/encoding/gff"
	"github.com/grailbio/rose/rose"
)

type tssFlags struct {
	annotation string
	output     string
	genes      string
	window     int
}

func runTSS(ctx context.Context, flags tssFlags) error {
	if flags.annotation == "" || flags.output == "" {
		return errors.E(errors.Invalid, "tss: -g and -o are required")
	}
	if flags.window < 0 {
		return errors.E(errors.Invalid, "tss: negative window")
	}
	genes, err := loadGenes(ctx, flags.annotation, flags.genes)
	if err != nil {
		return err
	}
	windows := genes.TSSCollection(flags.window, flags.window, rose.DefaultOpts.TSSBucketSize)
	log.Printf("Writing %d TSS windows to %s", windows.Len(), flags.output)
	return gff.WriteFile(ctx, flags.output, windows)
}
