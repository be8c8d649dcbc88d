package locus

import (
	"math/rand"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestParseStrand(t *testing.T) {
	for _, s := range []string{"+", "-", "."} {
		st, err := ParseStrand(s)
		assert.NoError(t, err)
		expect.EQ(t, st.String(), s)
	}
	for _, s := range []string{"", "++", "x", "1"} {
		_, err := ParseStrand(s)
		expect.True(t, errors.Is(errors.Invalid, err), "strand %q: %v", s, err)
	}
	expect.EQ(t, Forward.Flip(), Reverse)
	expect.EQ(t, Reverse.Flip(), Forward)
	expect.EQ(t, Unstranded.Flip(), Unstranded)
}

func TestNewNormalizes(t *testing.T) {
	l := New("chr1", 200, 100, Forward, "a")
	expect.EQ(t, l.Start, 100)
	expect.EQ(t, l.End, 200)
	expect.EQ(t, l.Len(), 101)
	expect.EQ(t, l.String(), "chr1(+):100-200")
	expect.EQ(t, l.Expand(50), New("chr1", 50, 250, Forward, "a"))
}

func TestEqualIgnoresID(t *testing.T) {
	a := New("chr1", 1, 10, Forward, "a")
	expect.True(t, a.Equal(a.WithID("b")))
	expect.False(t, a.Equal(New("chr2", 1, 10, Forward, "a")))
	expect.False(t, a.Equal(New("chr1", 1, 10, Reverse, "a")))
	expect.False(t, a.Equal(New("chr1", 1, 11, Forward, "a")))
	expect.EQ(t, a.WithID("b").ID, "b")
	expect.EQ(t, a.ID, "a")
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		a, b               Locus
		overlaps, contains bool
		overlapsAS         bool
	}{
		{New("chr1", 100, 200, Forward, ""), New("chr1", 150, 250, Forward, ""), true, false, false},
		{New("chr1", 100, 200, Forward, ""), New("chr1", 200, 250, Forward, ""), true, false, false},
		{New("chr1", 100, 200, Forward, ""), New("chr1", 201, 250, Forward, ""), false, false, false},
		{New("chr1", 100, 200, Forward, ""), New("chr1", 120, 180, Forward, ""), true, true, false},
		{New("chr1", 100, 200, Forward, ""), New("chr1", 120, 180, Reverse, ""), false, false, true},
		{New("chr1", 100, 200, Forward, ""), New("chr1", 120, 180, Unstranded, ""), true, true, true},
		{New("chr1", 100, 200, Unstranded, ""), New("chr1", 120, 180, Reverse, ""), true, true, true},
		{New("chr1", 100, 200, Forward, ""), New("chr2", 120, 180, Forward, ""), false, false, false},
		{New("chr1", 100, 200, Forward, ""), New("chr1", 100, 200, Forward, ""), true, true, false},
	}
	for _, tt := range tests {
		expect.EQ(t, tt.a.Overlaps(tt.b), tt.overlaps, "%v overlaps %v", tt.a, tt.b)
		expect.EQ(t, tt.a.Contains(tt.b), tt.contains, "%v contains %v", tt.a, tt.b)
		expect.EQ(t, tt.a.OverlapsAntisense(tt.b), tt.overlapsAS, "%v overlapsAntisense %v", tt.a, tt.b)
	}
}

func randomLocus(r *rand.Rand) Locus {
	chroms := []string{"chr1", "chr2"}
	strands := []Strand{Forward, Reverse, Unstranded}
	start := r.Intn(5000) - 200
	return New(chroms[r.Intn(len(chroms))], start, start+r.Intn(400), strands[r.Intn(len(strands))], "")
}

func TestPredicateProperties(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	loci := make([]Locus, 300)
	for i := range loci {
		loci[i] = randomLocus(r)
	}
	for _, a := range loci {
		for _, b := range loci {
			if a.Overlaps(b) != b.Overlaps(a) {
				t.Errorf("overlap not symmetric: %v %v", a, b)
			}
			if a.Contains(b) && !a.Overlaps(b) {
				t.Errorf("%v contains %v but does not overlap it", a, b)
			}
			if a.Strand == Unstranded && a.Chrom == b.Chrom {
				flipped := b.Antisense()
				if a.Overlaps(b) != a.Overlaps(flipped) || a.Contains(b) != a.Contains(flipped) {
					t.Errorf("unstranded %v treats %v and %v differently", a, b, flipped)
				}
			}
		}
	}
}

func TestCompare(t *testing.T) {
	expect.True(t, Compare(New("chr1", 5, 10, Forward, ""), New("chr2", 1, 2, Forward, "")) < 0)
	expect.True(t, Compare(New("chr1", 5, 10, Forward, ""), New("chr1", 6, 7, Forward, "")) < 0)
	expect.True(t, Compare(New("chr1", 5, 10, Forward, ""), New("chr1", 5, 9, Forward, "")) > 0)
	expect.True(t, Compare(New("chr1", 5, 10, Forward, ""), New("chr1", 5, 10, Reverse, "")) < 0)
	expect.EQ(t, Compare(New("chr1", 5, 10, Forward, "x"), New("chr1", 5, 10, Forward, "y")), 0)

	// Differences of these coordinates do not fit in an int.
	const maxInt = int(^uint(0) >> 1)
	lo := New("chr1", -maxInt-1, 0, Forward, "")
	hi := New("chr1", maxInt, maxInt, Forward, "")
	expect.True(t, Compare(lo, hi) < 0)
	expect.True(t, Compare(hi, lo) > 0)
	expect.True(t, Compare(New("chr1", -maxInt, -1, Forward, ""), New("chr1", -maxInt, maxInt, Forward, "")) < 0)
}

func TestSort(t *testing.T) {
	loci := []Locus{
		New("chr2", 1, 2, Forward, "d"),
		New("chr1", 5, 10, Reverse, "c"),
		New("chr1", 5, 10, Forward, "b"),
		New("chr1", 1, 100, Unstranded, "a"),
	}
	Sort(loci)
	var ids []string
	for _, l := range loci {
		ids = append(ids, l.ID)
	}
	expect.EQ(t, ids, []string{"a", "b", "c", "d"})
}
