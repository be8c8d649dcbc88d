package interval

import (
	"sort"
)

// This file includes support functions for representing an interval-union as
// an []int containing a sorted sequence of interval-endpoints.
//
// For example, given the intervals
//   [5, 15)
//   [7, 17)
//   [20, 25)
// the interval-union would be
//   [5, 17) U [20, 25)
// so the sorted sequence of endpoints would be
//   {5, 17, 20, 25}.

// SearchEndpoints returns the index of x in a[], or the position where x would
// be inserted if x isn't in a (this could be len(a)).  It's exactly the same
// as sort.SearchInts(), except that it returns an EndpointIndex.
func SearchEndpoints(a []int, x int) EndpointIndex {
	return EndpointIndex(sort.SearchInts(a, x))
}

// EndpointIndex is intended to represent the result of
// SearchEndpoints(endpoints, pos+1).
// NOTE THE "+1"!  This is necessary to get SearchEndpoints to line up with our
// usual left-closed right-open intervals.
type EndpointIndex uint32

// NewEndpointIndex returns an EndpointIndex initialized to
// SearchEndpoints(endpoints, pos+1).
func NewEndpointIndex(pos int, endpoints []int) EndpointIndex {
	return SearchEndpoints(endpoints, pos+1)
}

// Contained returns whether we're inside an interval.
func (ei EndpointIndex) Contained() bool {
	return ei&1 != 0
}

// Finished returns whether we're past all the intervals.
func (ei EndpointIndex) Finished(endpoints []int) bool {
	return ei >= EndpointIndex(len(endpoints))
}
