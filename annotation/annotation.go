// Package annotation loads gene annotation tables (UCSC refGene-style tables
// and GENCODE GTFs) and derives transcription-start-site (TSS) windows from
// them.
package annotation

import (
	"context"
	"io"
	"sort"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/rose/locus"
)

// Gene stores the coordinates of one annotated gene or transcript.
type Gene struct {
	// ID is the table key, e.g. a RefSeq accession ("NM_000014") or an Ensembl
	// gene ID.
	ID string
	// Name is the display name, e.g. "A2M". Several IDs may share a name.
	Name   string
	Chrom  string
	Strand locus.Strand
	// TSS lists transcription start coordinates. Only TSS[0] is used to build
	// windows.
	TSS []int
	// TES lists transcription end coordinates.
	TES []int
}

// DisplayName returns Name, or ID if the gene has no name.
func (g *Gene) DisplayName() string {
	if g.Name != "" {
		return g.Name
	}
	return g.ID
}

// Table is a set of genes keyed by ID. Thread compatible.
type Table struct {
	genes map[string]*Gene
}

// NewTable creates a Table. When several genes share an ID the first one is
// kept.
func NewTable(genes []*Gene) *Table {
	t := &Table{genes: make(map[string]*Gene, len(genes))}
	for _, g := range genes {
		if _, ok := t.genes[g.ID]; !ok {
			t.genes[g.ID] = g
		}
	}
	return t
}

// Len returns the number of genes.
func (t *Table) Len() int { return len(t.genes) }

// Gene returns the gene with the given ID, or nil.
func (t *Table) Gene(id string) *Gene { return t.genes[id] }

// Genes returns all genes sorted by ID.
func (t *Table) Genes() []*Gene {
	genes := make([]*Gene, 0, len(t.genes))
	for _, g := range t.genes {
		genes = append(genes, g)
	}
	sort.Slice(genes, func(i, j int) bool { return genes[i].ID < genes[j].ID })
	return genes
}

// Restrict returns the subset of t whose IDs appear in ids. IDs missing from t
// are ignored. An empty ids means no restriction, and t itself is returned.
func (t *Table) Restrict(ids []string) *Table {
	if len(ids) == 0 {
		return t
	}
	var genes []*Gene
	for _, id := range ids {
		if g := t.genes[id]; g != nil {
			genes = append(genes, g)
		}
	}
	return NewTable(genes)
}

// TSSLocus returns the window around g's first TSS extending upstream and
// downstream positions in the gene's orientation. The locus ID is g.ID.
//
// REQUIRES: len(g.TSS) > 0.
func TSSLocus(g *Gene, upstream, downstream int) locus.Locus {
	tss := g.TSS[0]
	if g.Strand == locus.Reverse {
		return locus.New(g.Chrom, tss-downstream, tss+upstream, locus.Reverse, g.ID)
	}
	return locus.New(g.Chrom, tss-upstream, tss+downstream, locus.Forward, g.ID)
}

// TSSCollection returns the TSS windows of every gene in t. Genes without a
// TSS are skipped.
func (t *Table) TSSCollection(upstream, downstream, bucketSize int) *locus.Collection {
	c := locus.NewCollection(nil, bucketSize)
	for _, g := range t.Genes() {
		if len(g.TSS) == 0 {
			continue
		}
		c.Insert(TSSLocus(g, upstream, downstream))
	}
	return c
}

// readPath opens path, decompressing it if its name says so, and passes the
// contents to fn.
func readPath(ctx context.Context, path string, fn func(io.Reader) error) (err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return errors.E(err, "open", path)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = errors.E(e, "close", path)
		}
	}()
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	return fn(r)
}
