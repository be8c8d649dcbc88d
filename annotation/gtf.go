package annotation

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/rose/locus"
)

// gtfRecord stores one line of a GTF file.
type gtfRecord struct {
	Chrom    string
	Source   string
	Molecule string
	Start    int
	Stop     int
	Score    string // unused floating point value, but may be "."
	Strand   string
	Frame    string
	Fields   string
}

// parseInfoFields parses the attribute column of a GTF record, e.g.
// `gene_id "ENSG1.1"; gene_name "A1";`, into fields. Previous contents of
// fields are discarded.
func parseInfoFields(fields map[string]string, info string) {
	for k := range fields {
		delete(fields, k)
	}
	for _, field := range strings.Split(strings.TrimSpace(info), ";") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		pair := strings.SplitN(field, " ", 2)
		if len(pair) != 2 {
			continue
		}
		fields[pair[0]] = strings.Trim(strings.TrimSpace(pair[1]), "\"")
	}
}

// ParseGTF reads the "gene" records of a GENCODE-style GTF. The gene ID comes
// from the gene_id attribute and the name from gene_name. The TSS of a '+'
// gene is its start and of a '-' gene its end.
func ParseGTF(in io.Reader) (*Table, error) {
	r := tsv.NewReader(in)
	r.Comment = '#'
	r.LazyQuotes = true
	r.FieldsPerRecord = 9
	var (
		genes  []*Gene
		line   gtfRecord
		fields = map[string]string{}
	)
	for n := 1; ; n++ {
		if err := r.Read(&line); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, fmt.Sprintf("gtf record %d", n), err)
		}
		if line.Molecule != "gene" {
			continue
		}
		strand, err := locus.ParseStrand(line.Strand)
		if err != nil {
			return nil, errors.E(fmt.Sprintf("gtf record %d", n), err)
		}
		parseInfoFields(fields, line.Fields)
		g := &Gene{
			ID:     fields["gene_id"],
			Name:   fields["gene_name"],
			Chrom:  line.Chrom,
			Strand: strand,
		}
		if g.ID == "" {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("gtf record %d: missing gene_id", n))
		}
		if strand == locus.Reverse {
			g.TSS, g.TES = []int{line.Stop}, []int{line.Start}
		} else {
			g.TSS, g.TES = []int{line.Start}, []int{line.Stop}
		}
		genes = append(genes, g)
	}
	return NewTable(genes), nil
}

// ReadGTF reads the genes of a GTF file at path.
func ReadGTF(ctx context.Context, path string) (t *Table, err error) {
	err = readPath(ctx, path, func(r io.Reader) (err error) {
		t, err = ParseGTF(r)
		return
	})
	if err != nil {
		return nil, errors.E(err, path)
	}
	return t, nil
}
