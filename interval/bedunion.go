package interval

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// posMax is the end of the range returned by ParseRegionString when the
// region names a whole chromosome.
const posMax = math.MaxInt32

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// NewBEDOpts defines behavior of this package's BED-loading function(s).
type NewBEDOpts struct {
	// OneBasedInput interprets the BED interval boundaries as one-based [start,
	// end] instead of the usual zero-based [start, end).
	OneBasedInput bool
}

// Entry represents a single interval, with 0-based coordinates.
type Entry struct {
	ChrName string
	Start0  int
	End     int
}

// BEDUnion is implemented as a chromosome-keyed map of length-2N sequences,
// where N is the number of disjoint intervals on the chromosome, the (0-based)
// start position of the interval #k (numbering from zero) is in element [2k]
// and the end position is in element [2k+1], and the intervals are stored in
// increasing order.  Immutable after construction.
type BEDUnion struct {
	// nameMap is a chromosome-keyed map with disjoint-interval-set values.
	// Always initialized.
	nameMap map[string][]int
}

// IntersectsByName checks whether the (0-based) interval [start0, end) on the
// given chromosome shares at least one position with the BEDUnion.  An empty
// interval intersects nothing.
func (u *BEDUnion) IntersectsByName(chrName string, start0, end int) bool {
	if end <= start0 {
		return false
	}
	endpoints := u.nameMap[chrName]
	idx := NewEndpointIndex(start0, endpoints)
	if idx.Contained() {
		return true
	}
	return !idx.Finished(endpoints) && end > endpoints[idx]
}

// Covered returns the number of positions in the union.
func (u *BEDUnion) Covered() int {
	total := 0
	for _, endpoints := range u.nameMap {
		for i := 0; i < len(endpoints); i += 2 {
			total += endpoints[i+1] - endpoints[i]
		}
	}
	return total
}

// NewBEDUnionFromEntries initializes a BEDUnion from entries in any order,
// merging touching/overlapping intervals and eliminating empty ones in the
// process.  Negative coordinates are permitted.
func NewBEDUnionFromEntries(entries []Entry) (bedUnion BEDUnion, err error) {
	bedUnion.nameMap = make(map[string][]int)
	sorted := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.End < entry.Start0 {
			err = errors.E(errors.Invalid, fmt.Sprintf("interval.NewBEDUnionFromEntries: invalid coordinate pair %s:[%d, %d)", entry.ChrName, entry.Start0, entry.End))
			return
		}
		if entry.End == entry.Start0 {
			continue
		}
		sorted = append(sorted, entry)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ChrName != sorted[j].ChrName {
			return sorted[i].ChrName < sorted[j].ChrName
		}
		return sorted[i].Start0 < sorted[j].Start0
	})
	for i := 0; i < len(sorted); {
		chrName := sorted[i].ChrName
		prevStart, prevEnd := sorted[i].Start0, sorted[i].End
		var chrIntervals []int
		for i++; i < len(sorted) && sorted[i].ChrName == chrName; i++ {
			entry := sorted[i]
			if entry.Start0 > prevEnd {
				// New interval doesn't overlap previous one, so we can save the
				// previous one.
				chrIntervals = append(chrIntervals, prevStart, prevEnd)
				prevStart, prevEnd = entry.Start0, entry.End
			} else if entry.End > prevEnd {
				// Intervals overlap, merge them.
				prevEnd = entry.End
			}
		}
		bedUnion.nameMap[chrName] = append(chrIntervals, prevStart, prevEnd)
	}
	return
}

func scanBEDEntries(scanner *bufio.Scanner, opts NewBEDOpts) (entries []Entry, err error) {
	var startSubtract int
	if opts.OneBasedInput {
		startSubtract++
	}
	var tokens [3][]byte
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken == 0 {
			continue
		}
		if first := gunsafe.BytesToString(tokens[0]); first[0] == '#' || first == "track" || first == "browser" {
			continue
		}
		if nToken != 3 {
			err = errors.E(errors.Invalid, fmt.Sprintf("interval.scanBEDEntries: line %d has fewer tokens than expected", lineIdx))
			return
		}
		var parsedStart, parsedEnd int
		if parsedStart, err = strconv.Atoi(gunsafe.BytesToString(tokens[1])); err != nil {
			err = errors.E(errors.Invalid, fmt.Sprintf("interval.scanBEDEntries: line %d", lineIdx), err)
			return
		}
		parsedStart -= startSubtract
		if parsedStart < 0 {
			err = errors.E(errors.Invalid, fmt.Sprintf("interval.scanBEDEntries: negative start coordinate %s on line %d", tokens[1], lineIdx))
			return
		}
		if parsedEnd, err = strconv.Atoi(gunsafe.BytesToString(tokens[2])); err != nil {
			err = errors.E(errors.Invalid, fmt.Sprintf("interval.scanBEDEntries: line %d", lineIdx), err)
			return
		}
		if parsedEnd < parsedStart {
			err = errors.E(errors.Invalid, fmt.Sprintf("interval.scanBEDEntries: invalid coordinate pair on line %d", lineIdx))
			return
		}
		// The chromosome name must be copied, since it refers to bytes on
		// curLine that will be overwritten soon.
		entries = append(entries, Entry{ChrName: string(tokens[0]), Start0: parsedStart, End: parsedEnd})
	}
	err = scanner.Err()
	return
}

// NewBEDUnion loads just the intervals from an interval-BED, merging
// touching/overlapping intervals and eliminating empty ones in the process.
// The input need not be sorted.  Comment, "track" and "browser" lines are
// skipped.
func NewBEDUnion(reader io.Reader, opts NewBEDOpts) (bedUnion BEDUnion, err error) {
	scanner := bufio.NewScanner(reader)
	var entries []Entry
	if entries, err = scanBEDEntries(scanner, opts); err != nil {
		return
	}
	if bedUnion, err = NewBEDUnionFromEntries(entries); err != nil {
		return
	}
	log.Printf("BED loaded, %d base(s) covered.", bedUnion.Covered())
	return
}

// NewBEDUnionFromPath is a wrapper for NewBEDUnion that takes a path instead
// of an io.Reader.
func NewBEDUnionFromPath(path string, opts NewBEDOpts) (bedUnion BEDUnion, err error) {
	ctx := vcontext.Background()
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return
		}
		defer gz.Close()
		reader = gz
	}
	return NewBEDUnion(reader, opts)
}

// ParseRegionString parses a region string of one of the forms
//   [contig ID]:[1-based first pos]-[last pos]
//   [contig ID]:[1-based pos]
//   [contig ID]
// returning a contig ID and 0-based interval boundaries.  The interval
// [0, posMax) is returned if there is no positional restriction.
func ParseRegionString(region string) (result Entry, err error) {
	if len(region) == 0 {
		err = errors.E(errors.Invalid, "interval.ParseRegionString: empty region string")
		return
	}
	colonPos := strings.IndexByte(region, ':')
	if colonPos == -1 {
		result.ChrName = region
		result.Start0 = 0
		result.End = posMax
		return
	}
	if colonPos == 0 {
		err = errors.E(errors.Invalid, "interval.ParseRegionString: empty contig ID")
		return
	}
	result.ChrName = region[0:colonPos]
	rangeStr := strings.Replace(region[colonPos+1:], ",", "", -1)
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		var pos1 int
		if pos1, err = strconv.Atoi(rangeStr); err != nil {
			err = errors.E(errors.Invalid, "interval.ParseRegionString", err)
			return
		}
		if pos1 <= 0 || pos1 > posMax {
			err = errors.E(errors.Invalid, fmt.Sprintf("interval.ParseRegionString: position %v in region string out of range", rangeStr))
			return
		}
		result.Start0 = pos1 - 1
		result.End = pos1
		return
	}
	start1Str := rangeStr[:dashPos]
	endStr := rangeStr[dashPos+1:]
	var start1, end int
	if start1, err = strconv.Atoi(start1Str); err != nil {
		err = errors.E(errors.Invalid, "interval.ParseRegionString", err)
		return
	}
	if start1 <= 0 {
		err = errors.E(errors.Invalid, fmt.Sprintf("interval.ParseRegionString: position %v in region string out of range", start1Str))
		return
	}
	if end, err = strconv.Atoi(endStr); err != nil {
		err = errors.E(errors.Invalid, "interval.ParseRegionString", err)
		return
	}
	if end < start1 || end > posMax {
		err = errors.E(errors.Invalid, fmt.Sprintf("interval.ParseRegionString: invalid range string %v", rangeStr))
		return
	}
	result.Start0 = start1 - 1
	result.End = end
	return
}
