package crawler

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"go-jobhunt-crawler/internal/extract"
	"go-jobhunt-crawler/internal/fetch"
	"go-jobhunt-crawler/internal/filter"
	"go-jobhunt-crawler/internal/model"
	"go-jobhunt-crawler/internal/urlutil"
)

// ErrNoSeeds is the only error Run returns: configuration problems are fatal
// before crawling starts, everything per-task is recorded and survived.
var ErrNoSeeds = errors.New("no usable seed URLs")

// Sink receives completed records. Append is fire-and-forget from the
// driver's perspective; ordering is not significant.
type Sink interface {
	Append(model.JobRecord) error
}

// Options configures a single crawl run.
type Options struct {
	Seeds          []string
	TargetCount    int  // max records to save; <= 0 means unbounded
	MaxPages       int  // max listing pages per branch; <= 0 means unbounded
	CollectDetails bool // when false, records come from listing cards only
	MinDelay       time.Duration
	MaxDelay       time.Duration
	Workers        int
	RetryLimit     int
	DateFilter     filter.Window
	KnownURLs      []string // pre-seeded into the visited set (cross-run dedup)
}

// Summary is the run's final accounting.
type Summary struct {
	Saved      int
	FailedURLs []string
	Listings   int
	Duration   time.Duration
}

// Anomalous reports the zero-saved-despite-seeds condition that must never
// pass silently.
func (s Summary) Anomalous() bool {
	return s.Saved == 0
}

// Driver runs the breadth-first list→detail traversal: seed enqueue, dedup,
// concurrency-bounded fetch/parse/dispatch, and termination on quota or
// frontier exhaustion. The visited set, counters and queue are the only
// shared mutable state; all three are serialized.
type Driver struct {
	opts     Options
	fetcher  fetch.Fetcher
	sink     Sink
	visited  *VisitedSet
	counters *Counters
	queue    chan Task
	// pending counts enqueued-but-unfinished tasks; the queue closes when it
	// reaches zero
	pending sync.WaitGroup
}

func New(opts Options, fetcher fetch.Fetcher, sink Sink) *Driver {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Workers > 20 {
		opts.Workers = 20
	}
	if opts.RetryLimit < 0 {
		opts.RetryLimit = 0
	}
	if opts.DateFilter == "" {
		opts.DateFilter = filter.WindowAll
	}

	capacity := 1024
	if opts.TargetCount > 0 && opts.TargetCount*4 > capacity {
		capacity = opts.TargetCount * 4
	}

	return &Driver{
		opts:     opts,
		fetcher:  fetcher,
		sink:     sink,
		visited:  NewVisitedSet(),
		counters: &Counters{},
		queue:    make(chan Task, capacity),
	}
}

// Run crawls until the frontier drains. In-flight tasks are allowed to
// complete after the quota is met; only new enqueues stop.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	for _, u := range d.opts.KnownURLs {
		d.visited.MarkSeen(u)
	}

	session := d.fetcher.Rotate("")
	seeded := 0
	for _, seed := range d.opts.Seeds {
		u := urlutil.Normalize(seed, seed)
		if u == "" {
			log.Printf("⚠️ Skipping malformed seed: %s", seed)
			continue
		}
		if d.enqueue(Task{URL: u, Kind: KindListing, PageIndex: 1, Session: session}) {
			seeded++
		}
	}
	if seeded == 0 {
		return Summary{}, ErrNoSeeds
	}

	done := make(chan struct{})
	for i := 0; i < d.opts.Workers; i++ {
		go d.worker(ctx, done)
	}

	// close the queue once every enqueued task has been fully processed
	go func() {
		d.pending.Wait()
		close(d.queue)
	}()
	for i := 0; i < d.opts.Workers; i++ {
		<-done
	}

	summary := Summary{
		Saved:      d.counters.Saved(),
		FailedURLs: d.counters.FailedURLs(),
		Listings:   d.counters.Listings(),
		Duration:   time.Since(start),
	}
	return summary, nil
}

// enqueue admits a task into the frontier if its URL is unseen. Detail tasks
// also reserve a quota slot; when none remain the task is dropped.
func (d *Driver) enqueue(t Task) bool {
	if !d.visited.MarkSeen(t.URL) {
		return false
	}
	if t.Kind == KindDetail && !d.counters.ReserveDetail(d.opts.TargetCount) {
		return false
	}
	t.State = StateQueued
	d.push(t)
	return true
}

// requeue re-admits a retrying task. Retries bypass the visited set: the set
// blocks duplicate discoveries, not the same task cycling through its retry
// states.
func (d *Driver) requeue(t Task) {
	t.State = StateQueued
	d.push(t)
}

func (d *Driver) push(t Task) {
	d.pending.Add(1)
	select {
	case d.queue <- t:
	default:
		// frontier overflow: park the handoff instead of blocking a worker
		go func() { d.queue <- t }()
	}
}

func (d *Driver) worker(ctx context.Context, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()
	for task := range d.queue {
		d.process(ctx, task)
		d.pending.Done()
	}
}

func (d *Driver) process(ctx context.Context, task Task) {
	if ctx.Err() != nil {
		task.State = StateAbandoned
		d.counters.RecordFailure(task.URL)
		return
	}

	d.politeness()

	task.State = StateFetching
	res, err := d.fetcher.Fetch(ctx, task.URL, task.Session)
	switch {
	case err != nil:
		d.retry(task, err.Error())
		return
	case res == nil || res.Doc == nil:
		d.retry(task, "empty response")
		return
	case fetch.Blocked(res.StatusCode):
		d.retry(task, "blocked status")
		return
	case fetch.BlockedContent(res.Doc):
		d.retry(task, "block interstitial")
		return
	}

	task.State = StateParsed
	switch task.Kind {
	case KindListing:
		d.handleListing(task, res.Doc)
	case KindDetail:
		d.handleDetail(task, res.Doc)
	}
	task.State = StateDispatched
}

// retry moves a task through Failed -> Retrying -> Queued with a fresh
// session identity, or to Abandoned once the ceiling is hit. Abandonment is
// recorded, never fatal.
func (d *Driver) retry(t Task, cause string) {
	t.State = StateFailed
	t.Attempts++
	if t.Attempts > d.opts.RetryLimit {
		t.State = StateAbandoned
		log.Printf("❌ Abandoning %s after %d attempts (%s)", t.URL, t.Attempts, cause)
		d.counters.RecordFailure(t.URL)
		return
	}
	t.State = StateRetrying
	t.Session = d.fetcher.Rotate(t.Session)
	log.Printf("🔄 Retrying %s (attempt %d, %s) with fresh session", t.URL, t.Attempts+1, cause)
	d.requeue(t)
}

func (d *Driver) handleListing(t Task, doc *goquery.Document) {
	d.counters.AddListing()

	links, shape := extract.DetailLinks(doc, t.URL)
	log.Printf("📋 Listing page %d (%s shape): %d candidate links", t.PageIndex, shape, len(links))

	if d.opts.CollectDetails {
		enqueued := 0
		for _, u := range links {
			if d.enqueue(Task{URL: u, Kind: KindDetail, Session: t.Session}) {
				enqueued++
			}
		}
		if enqueued > 0 {
			log.Printf("  ➕ Enqueued %d detail pages", enqueued)
		}
	} else {
		for _, rec := range extract.ListingCards(doc, t.URL) {
			if !filter.Include(rec.DatePosted, d.opts.DateFilter) {
				continue
			}
			// card URLs double as dedup keys across listing pages
			if rec.URL != t.URL && !d.visited.MarkSeen(rec.URL) {
				continue
			}
			d.save(rec)
		}
	}

	quotaMet := d.quotaFilled()
	next := extract.NextPage(doc, t.URL, t.PageIndex, d.opts.MaxPages, quotaMet)
	if next == "" {
		return
	}
	if d.enqueue(Task{URL: next, Kind: KindListing, PageIndex: t.PageIndex + 1, Session: t.Session}) {
		log.Printf("  ➡️ Enqueued page %d", t.PageIndex+1)
	}
}

func (d *Driver) handleDetail(t Task, doc *goquery.Document) {
	rec, err := extract.Job(doc, t.URL)
	if err != nil {
		// the page content will not change; extraction failures never retry
		log.Printf("⚠️ Extraction failed for %s: %v", t.URL, err)
		d.counters.RecordFailure(t.URL)
		return
	}
	if !filter.Include(rec.DatePosted, d.opts.DateFilter) {
		log.Printf("🗓️ Outside date window, skipping: %s", t.URL)
		return
	}
	d.save(rec)
}

func (d *Driver) save(rec model.JobRecord) {
	if !d.counters.TrySave(d.opts.TargetCount) {
		return
	}
	if err := d.sink.Append(rec); err != nil {
		log.Printf("⚠️ Sink append failed for %s: %v", rec.URL, err)
	}
	log.Printf("✅ [%d] %s - %s", d.counters.Saved(), rec.Title, rec.Company)
}

// quotaFilled reports whether pagination should stop growing the frontier:
// either enough records are saved, or enough detail fetches are already
// committed to cover the target.
func (d *Driver) quotaFilled() bool {
	if d.opts.TargetCount <= 0 {
		return false
	}
	if d.counters.QuotaMet(d.opts.TargetCount) {
		return true
	}
	return d.opts.CollectDetails && d.counters.EnqueuedDetails() >= d.opts.TargetCount
}

// politeness sleeps a uniformly random duration from [MinDelay, MaxDelay]
// before every dispatched request, independent of concurrency level.
func (d *Driver) politeness() {
	min, max := d.opts.MinDelay, d.opts.MaxDelay
	if max <= 0 || max < min {
		return
	}
	span := max - min
	delay := min
	if span > 0 {
		delay += time.Duration(rand.Int63n(int64(span) + 1))
	}
	time.Sleep(delay)
}
