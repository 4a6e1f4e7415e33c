package crawler

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// VisitedSet guarantees at-most-once enqueue per normalized URL for the life
// of a run. Owned exclusively by the driver.
type VisitedSet struct {
	set mapset.Set[string]
}

func NewVisitedSet() *VisitedSet {
	return &VisitedSet{set: mapset.NewSet[string]()}
}

// MarkSeen records url and reports whether it was previously unseen. The
// set's Add is the atomic check-and-insert this needs; no extra locking.
func (v *VisitedSet) MarkSeen(url string) bool {
	return v.set.Add(url)
}

func (v *VisitedSet) Seen(url string) bool {
	return v.set.Contains(url)
}

func (v *VisitedSet) Len() int {
	return v.set.Cardinality()
}
