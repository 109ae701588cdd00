package hybridindex

import "github.com/mixuechu/wememory/pkg/vectorstore"

// Filter restricts the set of sessions eligible for a search. A zero
// Filter admits everything. The two fields compose by conjunction.
type Filter struct {
	TimeRange    *TimeRange
	Participants []string
}

// TimeRange admits sessions whose StartTS falls within [Start, End]
// inclusive.
type TimeRange struct {
	Start, End int64 // unix seconds
}

func (f Filter) admits(meta vectorstore.Meta) bool {
	if f.TimeRange != nil {
		ts := meta.StartTS.Unix()
		if ts < f.TimeRange.Start || ts > f.TimeRange.End {
			return false
		}
	}
	if len(f.Participants) > 0 && !intersects(meta.Participants, f.Participants) {
		return false
	}
	return true
}

func intersects(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
