package crawler

// TaskKind distinguishes the two page roles in the crawl frontier.
type TaskKind int

const (
	KindListing TaskKind = iota
	KindDetail
)

func (k TaskKind) String() string {
	if k == KindDetail {
		return "detail"
	}
	return "listing"
}

// TaskState tracks a task through its lifecycle:
//
//	Queued -> Fetching -> Parsed -> Dispatched
//	                   \> Failed -> Retrying -> Queued
//	                              \> Abandoned
type TaskState int

const (
	StateQueued TaskState = iota
	StateFetching
	StateParsed
	StateDispatched
	StateFailed
	StateRetrying
	StateAbandoned
)

// Task is one unit of crawl work. Created by seed initialization or by
// listing/pagination extraction, consumed exactly once; the URL never changes
// after creation. Attempts and Session mutate only on the retry path.
type Task struct {
	URL       string
	Kind      TaskKind
	PageIndex int // 1-based, meaningful only for listings
	Attempts  int
	Session   string
	State     TaskState
}
