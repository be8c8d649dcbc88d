package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash"
	"io"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/unsafe"
	"github.com/grailbio/rose/encoding/gff"
	"github.com/grailbio/rose/locus"
)

type checksumOpts struct {
	// ids causes the region IDs to be added to the checksum.
	ids bool
}

// chromChecksum is the checksum of the regions on one chromosome. All the
// sums are commutative, so the checksum does not depend on record order.
type chromChecksum struct {
	// Name is the chromosome name.
	Name string
	// NRegions is the # of distinct regions.
	NRegions int64
	// SumStart is the sum of all start coordinates.
	SumStart uint64
	// SumEnd is the sum of all end coordinates.
	SumEnd uint64
	// SumStrand is the sum of hashes of strands.
	SumStrand uint64
	// SumID is the sum of hashes of IDs. Zero unless checksumOpts.ids is set.
	SumID uint64
}

func hashField(h hash.Hash64, pos [16]byte, value []byte) uint64 {
	h.Reset()
	h.Write(pos[:])
	h.Write(value)
	return h.Sum64()
}

func (c *chromChecksum) add(l locus.Locus, h hash.Hash64, opts checksumOpts) {
	c.NRegions++
	c.SumStart += uint64(l.Start)
	c.SumEnd += uint64(l.End)

	pos := [16]byte{}
	binary.LittleEndian.PutUint64(pos[:], uint64(l.Start))
	binary.LittleEndian.PutUint64(pos[8:], uint64(l.End))
	c.SumStrand += hashField(h, pos, []byte{byte(l.Strand)})
	if opts.ids {
		c.SumID += hashField(h, pos, unsafe.StringToBytes(l.ID))
	}
}

// fileChecksum represents the checksum of a region file.
type fileChecksum struct {
	Chroms []chromChecksum // Sorted by name.
}

func checksumCollection(c *locus.Collection, opts checksumOpts) fileChecksum {
	var csum fileChecksum
	h := seahash.New()
	for _, l := range c.Loci() {
		if n := len(csum.Chroms); n == 0 || csum.Chroms[n-1].Name != l.Chrom {
			csum.Chroms = append(csum.Chroms, chromChecksum{Name: l.Chrom})
		}
		csum.Chroms[len(csum.Chroms)-1].add(l, h, opts)
	}
	return csum
}

func checksum(ctx context.Context, path string, out io.Writer, opts checksumOpts) error {
	c, err := gff.ReadFile(ctx, path, locus.DefaultBucketSize)
	if err != nil {
		return err
	}
	data, err := json.Marshal(checksumCollection(c, opts))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
