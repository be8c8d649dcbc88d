package locus

import (
	"fmt"
	"strings"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// DefaultBucketSize is the bucket width used by Stitch and by callers that do
// not care. Bucket size affects only query cost, never query results.
const DefaultBucketSize = 500

// Strandedness selects which strands a Collection query considers.
type Strandedness int

const (
	// Sense matches loci on the query's strand.
	Sense Strandedness = iota + 1
	// Antisense matches loci on the strand opposite to the query's.
	Antisense
	// Both matches loci on either strand.
	Both
)

// ParseStrandedness converts "sense", "antisense" or "both" (any case) to a
// Strandedness.
func ParseStrandedness(s string) (Strandedness, error) {
	switch strings.ToLower(s) {
	case "sense":
		return Sense, nil
	case "antisense":
		return Antisense, nil
	case "both":
		return Both, nil
	}
	return 0, errors.E(errors.Invalid, fmt.Sprintf("locus: invalid strandedness %q", s))
}

func (s Strandedness) String() string {
	switch s {
	case Sense:
		return "sense"
	case Antisense:
		return "antisense"
	case Both:
		return "both"
	}
	return fmt.Sprintf("Strandedness(%d)", int(s))
}

func (s Strandedness) valid() bool { return s == Sense || s == Antisense || s == Both }

// QueryMode selects the geometric relation tested by Collection.Query.
type QueryMode int

const (
	// Overlap matches members sharing at least one position with the query.
	Overlap QueryMode = iota + 1
	// ContainedBy matches members lying entirely within the query.
	ContainedBy
	// Contains matches members that entirely cover the query.
	Contains
)

func (m QueryMode) String() string {
	switch m {
	case Overlap:
		return "overlap"
	case ContainedBy:
		return "contained-by"
	case Contains:
		return "contains"
	}
	return fmt.Sprintf("QueryMode(%d)", int(m))
}

// member adapts a Locus to llrb.Comparable using structural order.
type member Locus

// Compare implements llrb.Comparable.
func (m member) Compare(c llrb.Comparable) int {
	return Compare(Locus(m), Locus(c.(member)))
}

type chromStrand struct {
	chrom  string
	strand Strand
}

// Collection is a set of loci, indexed for overlap queries.
//
// Membership is an ordered set keyed by (Chrom, Start, End, Strand). In
// addition every member is registered, per chromosome and strand, in each
// fixed-width coordinate bucket its span touches. Unstranded members are
// registered under both '+' and '-'. Thread compatible.
//
// The zero value is an empty Collection with DefaultBucketSize buckets.
// Loci given with Start > End are treated as New would order them.
type Collection struct {
	bucketSize int
	set        llrb.Tree
	// buckets maps (chromosome, strand) -> bucket index -> members touching it.
	buckets map[chromStrand]map[int][]Locus
}

// NewCollection creates a Collection with the given bucket width and inserts
// loci into it. Structurally equal loci collapse to the first one seen.
//
// REQUIRES: bucketSize > 0.
func NewCollection(loci []Locus, bucketSize int) *Collection {
	if bucketSize <= 0 {
		log.Panicf("locus.NewCollection: bucket size must be positive, got %d", bucketSize)
	}
	c := &Collection{
		bucketSize: bucketSize,
		buckets:    make(map[chromStrand]map[int][]Locus),
	}
	for _, l := range loci {
		c.Insert(l)
	}
	return c
}

// BucketSize returns the bucket width of c.
func (c *Collection) BucketSize() int {
	if c.bucketSize == 0 {
		return DefaultBucketSize
	}
	return c.bucketSize
}

// Len returns the number of members.
func (c *Collection) Len() int { return c.set.Len() }

// Has checks whether a locus structurally equal to l is a member.
func (c *Collection) Has(l Locus) bool { return c.set.Get(member(l.normalize())) != nil }

// Loci returns all members in Compare order.
func (c *Collection) Loci() []Locus {
	loci := make([]Locus, 0, c.set.Len())
	c.set.Do(func(e llrb.Comparable) bool {
		loci = append(loci, Locus(e.(member)))
		return false
	})
	return loci
}

// Chromosomes returns the distinct chromosome names of the members, sorted.
func (c *Collection) Chromosomes() []string {
	var chroms []string
	c.set.Do(func(e llrb.Comparable) bool {
		if chrom := e.(member).Chrom; len(chroms) == 0 || chroms[len(chroms)-1] != chrom {
			chroms = append(chroms, chrom)
		}
		return false
	})
	return chroms
}

// Clone returns an independent copy of c with the same bucket size.
func (c *Collection) Clone() *Collection { return NewCollection(c.Loci(), c.BucketSize()) }

// bucket is floor(pos / bucketSize). Negative positions occur for TSS windows
// near the start of a chromosome.
func (c *Collection) bucket(pos int) int {
	size := c.BucketSize()
	b := pos / size
	if pos%size != 0 && pos < 0 {
		b--
	}
	return b
}

// strandKeys lists the bucket keys a member with strand s is registered under.
func strandKeys(s Strand) []Strand {
	if s == Unstranded {
		return []Strand{Forward, Reverse}
	}
	return []Strand{s}
}

// Insert adds l to c. It returns false, leaving c unchanged, if a structurally
// equal locus is already a member.
func (c *Collection) Insert(l Locus) bool {
	l = l.normalize()
	if c.Has(l) {
		return false
	}
	if c.buckets == nil {
		c.buckets = make(map[chromStrand]map[int][]Locus)
	}
	c.set.Insert(member(l))
	for _, s := range strandKeys(l.Strand) {
		key := chromStrand{l.Chrom, s}
		buckets := c.buckets[key]
		if buckets == nil {
			buckets = make(map[int][]Locus)
			c.buckets[key] = buckets
		}
		for b, limit := c.bucket(l.Start), c.bucket(l.End); b <= limit; b++ {
			buckets[b] = append(buckets[b], l)
		}
	}
	return true
}

// Remove deletes the member structurally equal to l. It returns an
// errors.NotExist error if there is none.
func (c *Collection) Remove(l Locus) error {
	l = l.normalize()
	if !c.Has(l) {
		return errors.E(errors.NotExist, fmt.Sprintf("locus.Remove: %v is not in the collection", l))
	}
	c.set.Delete(member(l))
	for _, s := range strandKeys(l.Strand) {
		key := chromStrand{l.Chrom, s}
		buckets := c.buckets[key]
		for b, limit := c.bucket(l.Start), c.bucket(l.End); b <= limit; b++ {
			list := buckets[b]
			i := 0
			for ; i < len(list); i++ {
				if Compare(list[i], l) == 0 {
					break
				}
			}
			if i == len(list) {
				log.Panicf("locus.Remove: %v missing from bucket %d of %s%c", l, b, l.Chrom, s)
			}
			list[i] = list[len(list)-1]
			list = list[:len(list)-1]
			if len(list) == 0 {
				delete(buckets, b)
			} else {
				buckets[b] = list
			}
		}
		if len(buckets) == 0 {
			delete(c.buckets, key)
		}
	}
	return nil
}

// Query returns the members standing in relation mode to q, considering the
// strands selected by sense. The result is deduplicated and sorted in Compare
// order. It returns an errors.Invalid error for an unknown mode or sense.
func (c *Collection) Query(mode QueryMode, q Locus, sense Strandedness) ([]Locus, error) {
	if !sense.valid() {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("locus.Query: invalid strandedness %v", sense))
	}
	q = q.normalize()
	var senseMatch, antisenseMatch func(m Locus) bool
	switch mode {
	case Overlap:
		senseMatch = func(m Locus) bool { return m.Overlaps(q) }
		antisenseMatch = func(m Locus) bool { return m.OverlapsAntisense(q) }
	case ContainedBy:
		senseMatch = func(m Locus) bool { return q.Contains(m) }
		antisenseMatch = func(m Locus) bool { return q.ContainsAntisense(m) }
	case Contains:
		senseMatch = func(m Locus) bool { return m.Contains(q) }
		antisenseMatch = func(m Locus) bool { return m.ContainsAntisense(q) }
	default:
		return nil, errors.E(errors.Invalid, fmt.Sprintf("locus.Query: invalid query mode %v", mode))
	}

	var strands []Strand
	switch {
	case q.Strand == Unstranded || sense == Both:
		strands = []Strand{Forward, Reverse}
	case sense == Sense:
		strands = []Strand{q.Strand}
	default:
		strands = []Strand{q.Strand.Flip()}
	}

	var matches llrb.Tree
	for _, s := range strands {
		buckets := c.buckets[chromStrand{q.Chrom, s}]
		if buckets == nil {
			continue
		}
		for b, limit := c.bucket(q.Start), c.bucket(q.End); b <= limit; b++ {
			for _, m := range buckets[b] {
				if matches.Get(member(m)) != nil {
					continue
				}
				if (sense != Antisense && senseMatch(m)) || (sense != Sense && antisenseMatch(m)) {
					matches.Insert(member(m))
				}
			}
		}
	}
	result := make([]Locus, 0, matches.Len())
	matches.Do(func(e llrb.Comparable) bool {
		result = append(result, Locus(e.(member)))
		return false
	})
	return result, nil
}

// Overlapping returns the members overlapping q.
func (c *Collection) Overlapping(q Locus, sense Strandedness) ([]Locus, error) {
	return c.Query(Overlap, q, sense)
}

// Contained returns the members that lie entirely within q.
func (c *Collection) Contained(q Locus, sense Strandedness) ([]Locus, error) {
	return c.Query(ContainedBy, q, sense)
}

// Containers returns the members that entirely cover q.
func (c *Collection) Containers(q Locus, sense Strandedness) ([]Locus, error) {
	return c.Query(Contains, q, sense)
}
