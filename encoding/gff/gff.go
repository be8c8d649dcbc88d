// Package gff reads and writes the 9-column region files used by the
// stitching pipeline. The layout follows GFF, but the columns carry region
// identifiers rather than GFF semantics:
//
//   chrom  source  feature  start  end  score  strand  frame  attribute
//
// When reading, a region's identifier is taken from the feature column, then
// from the attribute column, and is otherwise synthesized from the
// coordinates. When writing, the identifier goes into both the source and the
// attribute columns.
package gff

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/rose/locus"
	pkgerrors "github.com/pkg/errors"
)

// Record is one row of a region file. Fields are in file order. Start and End
// are copied verbatim.
type Record struct {
	Chrom     string
	Source    string
	Feature   string
	Start     int
	End       int
	Score     string
	Strand    string
	Frame     string
	Attribute string
}

// ID returns the identifier of the region described by r.
func (r *Record) ID() string {
	switch {
	case r.Feature != "":
		return r.Feature
	case r.Attribute != "":
		return r.Attribute
	}
	return fmt.Sprintf("%s:%s:%d-%d", r.Chrom, r.Strand, r.Start, r.End)
}

// Locus converts r to a Locus. It fails if the strand column is not one of
// "+", "-" or ".".
func (r *Record) Locus() (locus.Locus, error) {
	strand, err := locus.ParseStrand(r.Strand)
	if err != nil {
		return locus.Locus{}, err
	}
	return locus.New(r.Chrom, r.Start, r.End, strand, r.ID()), nil
}

// FromLocus creates the output record for l.
func FromLocus(l locus.Locus) Record {
	return Record{
		Chrom:     l.Chrom,
		Source:    l.ID,
		Start:     l.Start,
		End:       l.End,
		Strand:    l.Strand.String(),
		Attribute: l.ID,
	}
}

// Read parses region records from in. Lines starting with '#' are skipped.
// Every other line must have exactly nine columns.
func Read(in io.Reader) ([]Record, error) {
	r := tsv.NewReader(in)
	r.Comment = '#'
	r.LazyQuotes = true
	r.FieldsPerRecord = 9
	var recs []Record
	for line := 1; ; line++ {
		var rec Record
		if err := r.Read(&rec); err != nil {
			if err == io.EOF {
				return recs, nil
			}
			return nil, errors.E(errors.Invalid, pkgerrors.Wrapf(err, "gff: record %d", line))
		}
		recs = append(recs, rec)
	}
}

// ReadCollection parses region records from in and indexes them in a new
// Collection with the given bucket size. Records that describe the same
// region collapse to the first one.
func ReadCollection(in io.Reader, bucketSize int) (*locus.Collection, error) {
	recs, err := Read(in)
	if err != nil {
		return nil, err
	}
	c := locus.NewCollection(nil, bucketSize)
	for i := range recs {
		l, err := recs[i].Locus()
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "gff: record %d", i+1)
		}
		c.Insert(l)
	}
	return c, nil
}

// ReadFile reads the region file at path, which may be compressed, into a
// Collection.
func ReadFile(ctx context.Context, path string, bucketSize int) (c *locus.Collection, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer file.CloseAndReport(ctx, in, &err)
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	if c, err = ReadCollection(r, bucketSize); err != nil {
		err = pkgerrors.Wrap(err, path)
	}
	return
}

// Write writes one record per locus, sorted by chromosome, start, end and
// strand.
func Write(out io.Writer, loci []locus.Locus) error {
	sorted := append([]locus.Locus(nil), loci...)
	locus.Sort(sorted)
	w := tsv.NewWriter(out)
	for _, l := range sorted {
		rec := FromLocus(l)
		w.WriteString(rec.Chrom)
		w.WriteString(rec.Source)
		w.WriteString(rec.Feature)
		w.WriteInt64(int64(rec.Start))
		w.WriteInt64(int64(rec.End))
		w.WriteString(rec.Score)
		w.WriteString(rec.Strand)
		w.WriteString(rec.Frame)
		w.WriteString(rec.Attribute)
		if err := w.EndLine(); err != nil {
			return pkgerrors.Wrap(err, "gff: write")
		}
	}
	return w.Flush()
}

// WriteFile writes the members of c to path.
func WriteFile(ctx context.Context, path string, c *locus.Collection) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	return Write(out.Writer(ctx), c.Loci())
}
