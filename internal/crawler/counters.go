package crawler

import "sync"

// Counters is the run-wide accounting shared by workers. A single mutex
// serializes all writers; the driver owns the instance, so independent runs
// never share state.
type Counters struct {
	mu              sync.Mutex
	saved           int
	enqueuedDetails int
	listingsSeen    int
	failedURLs      []string
}

// TrySave increments savedCount unless the quota target is already met,
// reporting whether the caller may hand its record to the sink. target <= 0
// means unbounded.
func (c *Counters) TrySave(target int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if target > 0 && c.saved >= target {
		return false
	}
	c.saved++
	return true
}

func (c *Counters) Saved() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saved
}

// ReserveDetail counts a detail enqueue against the quota and reports whether
// room remained. Quota bounding uses saved-or-enqueued, so a full frontier
// stops growing before fetches resolve.
func (c *Counters) ReserveDetail(target int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if target > 0 && c.enqueuedDetails >= target {
		return false
	}
	c.enqueuedDetails++
	return true
}

func (c *Counters) EnqueuedDetails() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enqueuedDetails
}

func (c *Counters) AddListing() {
	c.mu.Lock()
	c.listingsSeen++
	c.mu.Unlock()
}

func (c *Counters) Listings() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listingsSeen
}

func (c *Counters) RecordFailure(url string) {
	c.mu.Lock()
	c.failedURLs = append(c.failedURLs, url)
	c.mu.Unlock()
}

func (c *Counters) FailedURLs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.failedURLs))
	copy(out, c.failedURLs)
	return out
}

// QuotaMet reports whether savedCount reached the target.
func (c *Counters) QuotaMet(target int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return target > 0 && c.saved >= target
}
