package main

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/rose/rose"
	"v.io/x/lib/cmdline"
)

func newCmdStitch() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "stitch",
		Short: "Stitch enriched regions into enhancer regions",
	}
	flags := stitchFlags{}
	opts := rose.DefaultOpts
	cmd.Flags.StringVar(&flags.input, "i", "", "Input region file (9-column GFF layout)")
	cmd.Flags.StringVar(&flags.annotation, "g", "", "Gene annotation: a UCSC refGene table or a GTF. Required if -tss > 0")
	cmd.Flags.StringVar(&flags.output, "o", "", "Output region file")
	cmd.Flags.StringVar(&flags.genes, "genes", "", "File listing the gene IDs to use, one per line. By default all annotated genes are used")
	cmd.Flags.StringVar(&flags.blacklist, "blacklist", "", "BED file of regions to mask. Input regions intersecting them are dropped")
	cmd.Flags.StringVar(&opts.Region, "region", rose.DefaultOpts.Region, `Restrict stitching to input regions intersecting this region.
Format as <contig ID>:<1-based first pos>-<last pos>, <contig ID>:<1-based pos>, or just <contig ID>`)
	cmd.Flags.IntVar(&opts.StitchWindow, "stitch", rose.DefaultOpts.StitchWindow, "Max linking distance for stitching")
	cmd.Flags.IntVar(&opts.TSSWindow, "tss", rose.DefaultOpts.TSSWindow, "Distance from a TSS within which regions are excluded. 0 = no TSS exclusion")
	cmd.Flags.IntVar(&opts.ConflictWindow, "conflict-window", rose.DefaultOpts.ConflictWindow, "Half-width of the promoter windows used to split stitched regions")
	cmd.Flags.IntVar(&opts.MaxConflictGenes, "max-conflict-genes", rose.DefaultOpts.MaxConflictGenes, "Stitched regions spanning the promoters of more genes than this are split back")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("stitch takes no positional arguments, but got %v", argv)
		}
		_, err := runStitch(vcontext.Background(), flags, opts)
		return err
	})
	return cmd
}

func newCmdTSS() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "tss",
		Short: "Write the TSS windows of annotated genes",
	}
	flags := tssFlags{}
	cmd.Flags.StringVar(&flags.annotation, "g", "", "Gene annotation: a UCSC refGene table or a GTF")
	cmd.Flags.StringVar(&flags.output, "o", "", "Output region file")
	cmd.Flags.StringVar(&flags.genes, "genes", "", "File listing the gene IDs to use, one per line")
	cmd.Flags.IntVar(&flags.window, "window", rose.DefaultOpts.ConflictWindow, "Half-width of each window")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("tss takes no positional arguments, but got %v", argv)
		}
		return runTSS(vcontext.Background(), flags)
	})
	return cmd
}

func newCmdChecksum() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "checksum",
		Short: `Compute a checksum of a region file.
The checksum is a JSON string summarizing the regions on each chromosome. It
does not depend on the order of the records`,
		ArgsName: "path",
	}
	opts := checksumOpts{}
	cmd.Flags.BoolVar(&opts.ids, "ids", false, "Checksum the region IDs")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("checksum takes a path, but found %v", argv)
		}
		return checksum(vcontext.Background(), argv[0], env.Stdout, opts)
	})
	return cmd
}

func main() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-rose",
			Short:    "Stitch enriched regions into enhancer regions",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdStitch(),
				newCmdTSS(),
				newCmdChecksum(),
			},
		})
}
