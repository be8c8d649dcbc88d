package annotation

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
)

// Read loads an annotation table, choosing the format from the file name:
// names mentioning "refseq" or "refgene" are read by ReadRefseq, and names
// ending in .gtf (optionally compressed) by ReadGTF.
func Read(ctx context.Context, path string) (*Table, error) {
	base := strings.ToLower(filepath.Base(path))
	for _, ext := range []string{".gz", ".zst", ".bz2"} {
		base = strings.TrimSuffix(base, ext)
	}
	var (
		t   *Table
		err error
	)
	switch {
	case strings.Contains(base, "refseq") || strings.Contains(base, "refgene"):
		t, err = ReadRefseq(ctx, path)
	case strings.HasSuffix(base, ".gtf"):
		t, err = ReadGTF(ctx, path)
	default:
		return nil, errors.E(errors.NotSupported, "annotation.Read: cannot tell the format of", path)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("Read %d genes from %s", t.Len(), path)
	return t, nil
}

// ReadGeneList reads the first column of each line of path, e.g. a list of
// gene IDs to pass to Table.Restrict.
func ReadGeneList(ctx context.Context, path string) (ids []string, err error) {
	err = readPath(ctx, path, func(in io.Reader) error {
		r := tsv.NewReader(in)
		r.Comment = '#'
		r.FieldsPerRecord = -1
		var row struct{ ID string }
		for {
			if err := r.Read(&row); err != nil {
				if err == io.EOF {
					return nil
				}
				return errors.E(errors.Invalid, err)
			}
			if row.ID != "" {
				ids = append(ids, row.ID)
			}
		}
	})
	if err != nil {
		return nil, errors.E(err, path)
	}
	return ids, nil
}
