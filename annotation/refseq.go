package annotation

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/rose/locus"
)

// refseqRow is the leading part of a UCSC refGene row. Trailing columns
// (exonFrames etc.) are ignored.
type refseqRow struct {
	Bin        string
	Name       string
	Chrom      string
	Strand     string
	TxStart    int
	TxEnd      int
	CdsStart   string
	CdsEnd     string
	ExonCount  string
	ExonStarts string
	ExonEnds   string
	Score      string
	Name2      string
}

// refseqColumns is the number of columns read into a refseqRow.
const refseqColumns = 13

// ParseRefseq reads a UCSC refGene-style table. The first line is a header and
// is skipped; every row must have as many columns as the header. Accessions
// that occur more than once keep their first row.
//
// The TSS of a '+' gene is txStart and of a '-' gene txEnd; the TES is the
// other end. Coordinates are used as they appear in the table.
func ParseRefseq(in io.Reader) (*Table, error) {
	r := tsv.NewReader(in)
	r.LazyQuotes = true
	// The header fixes the width of every following row.
	header, err := r.Reader.Read()
	if err == io.EOF {
		return NewTable(nil), nil
	}
	if err != nil {
		return nil, errors.E(errors.Invalid, "refseq header", err)
	}
	if len(header) < refseqColumns {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("refseq header has %d columns, want at least %d", len(header), refseqColumns))
	}
	var (
		genes []*Gene
		row   refseqRow
	)
	for line := 2; ; line++ {
		if err := r.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, fmt.Sprintf("refseq line %d", line), err)
		}
		strand, err := locus.ParseStrand(row.Strand)
		if err != nil {
			return nil, errors.E(fmt.Sprintf("refseq line %d", line), err)
		}
		g := &Gene{ID: row.Name, Name: row.Name2, Chrom: row.Chrom, Strand: strand}
		if strand == locus.Reverse {
			g.TSS, g.TES = []int{row.TxEnd}, []int{row.TxStart}
		} else {
			g.TSS, g.TES = []int{row.TxStart}, []int{row.TxEnd}
		}
		genes = append(genes, g)
	}
	return NewTable(genes), nil
}

// ReadRefseq reads a refGene-style table from path. Compressed files are
// decompressed based on the file name.
func ReadRefseq(ctx context.Context, path string) (t *Table, err error) {
	err = readPath(ctx, path, func(r io.Reader) (err error) {
		t, err = ParseRefseq(r)
		return
	})
	if err != nil {
		return nil, errors.E(err, path)
	}
	return t, nil
}
