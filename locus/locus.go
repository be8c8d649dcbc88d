package locus

import (
	"fmt"
	"sort"

	"github.com/grailbio/base/errors"
)

// Strand is the orientation of a Locus.
type Strand byte

const (
	// Forward is the '+' strand.
	Forward Strand = '+'
	// Reverse is the '-' strand.
	Reverse Strand = '-'
	// Unstranded ('.') matches both Forward and Reverse.
	Unstranded Strand = '.'
)

// ParseStrand converts "+", "-" or "." to a Strand.
func ParseStrand(s string) (Strand, error) {
	if len(s) == 1 {
		switch st := Strand(s[0]); st {
		case Forward, Reverse, Unstranded:
			return st, nil
		}
	}
	return 0, errors.E(errors.Invalid, fmt.Sprintf("locus.ParseStrand: invalid strand %q", s))
}

// Flip returns the opposite strand. Unstranded is its own opposite.
func (s Strand) Flip() Strand {
	switch s {
	case Forward:
		return Reverse
	case Reverse:
		return Forward
	}
	return s
}

// String implements fmt.Stringer.
func (s Strand) String() string { return string(s) }

// compatible is symmetric; Unstranded matches anything.
func (s Strand) compatible(o Strand) bool {
	return s == Unstranded || o == Unstranded || s == o
}

// Locus is a closed genomic range on one chromosome and strand. Loci are
// values; equality (Equal, Compare, Collection membership) is over Chrom,
// Start, End and Strand only. ID is a label and is not guaranteed unique.
type Locus struct {
	Chrom  string
	Start  int // smallest coordinate
	End    int // largest coordinate, inclusive
	Strand Strand
	ID     string
}

// New creates a Locus. The coordinates may be given in either order.
func New(chrom string, start, end int, strand Strand, id string) Locus {
	return Locus{Chrom: chrom, Start: start, End: end, Strand: strand, ID: id}.normalize()
}

// normalize swaps Start and End if they are out of order.
func (l Locus) normalize() Locus {
	if l.Start > l.End {
		l.Start, l.End = l.End, l.Start
	}
	return l
}

// Len is the number of positions covered by l.
func (l Locus) Len() int { return l.End - l.Start + 1 }

// WithID returns a copy of l labelled with id.
func (l Locus) WithID(id string) Locus {
	l.ID = id
	return l
}

// Expand returns a copy of l widened by w on both sides.
func (l Locus) Expand(w int) Locus {
	return New(l.Chrom, l.Start-w, l.End+w, l.Strand, l.ID)
}

// Antisense returns l on the opposite strand. The result carries no ID, and an
// unstranded locus is returned unchanged.
func (l Locus) Antisense() Locus {
	if l.Strand == Unstranded {
		return l
	}
	return Locus{Chrom: l.Chrom, Start: l.Start, End: l.End, Strand: l.Strand.Flip()}
}

// Overlaps checks whether l and o share at least one position on compatible
// strands.
func (l Locus) Overlaps(o Locus) bool {
	return l.Chrom == o.Chrom && l.Strand.compatible(o.Strand) &&
		l.Start <= o.End && o.Start <= l.End
}

// Contains checks whether every position of o is covered by l on a compatible
// strand.
func (l Locus) Contains(o Locus) bool {
	return l.Chrom == o.Chrom && l.Strand.compatible(o.Strand) &&
		l.Start <= o.Start && o.End <= l.End
}

// OverlapsAntisense is Overlaps evaluated against the opposite strand of l.
func (l Locus) OverlapsAntisense(o Locus) bool { return l.Antisense().Overlaps(o) }

// ContainsAntisense is Contains evaluated against the opposite strand of l.
func (l Locus) ContainsAntisense(o Locus) bool { return l.Antisense().Contains(o) }

// Equal reports structural equality. IDs are ignored.
func (l Locus) Equal(o Locus) bool { return Compare(l, o) == 0 }

// String returns e.g. "chr1(+):100-200".
func (l Locus) String() string {
	return fmt.Sprintf("%s(%c):%d-%d", l.Chrom, l.Strand, l.Start, l.End)
}

// Compare returns (negative, 0, positive) if a sorts (before, equal to, after)
// b. Loci are ordered by chromosome name, start, end, then strand. IDs do not
// participate.
func Compare(a, b Locus) int {
	if a.Chrom != b.Chrom {
		if a.Chrom < b.Chrom {
			return -1
		}
		return 1
	}
	if c := compareInt(a.Start, b.Start); c != 0 {
		return c
	}
	if c := compareInt(a.End, b.End); c != 0 {
		return c
	}
	return compareInt(int(a.Strand), int(b.Strand))
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Sort sorts loci in Compare order. Loci that compare equal keep their
// relative order.
func Sort(loci []Locus) {
	sort.SliceStable(loci, func(i, j int) bool { return Compare(loci[i], loci[j]) < 0 })
}
