package fetch

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/google/uuid"
)

// CollyFetcher fetches pages through one colly collector per session
// identity. The collector brings its own cookie handling and transport;
// retries revisit the same URL, so revisits are explicitly allowed.
type CollyFetcher struct {
	mu         sync.Mutex
	collectors map[string]*colly.Collector
	proxy      string
	timeout    time.Duration
}

func NewCollyFetcher(proxy string, timeout time.Duration) *CollyFetcher {
	return &CollyFetcher{
		collectors: make(map[string]*colly.Collector),
		proxy:      proxy,
		timeout:    timeout,
	}
}

func (f *CollyFetcher) collector(session string) *colly.Collector {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.collectors[session]; ok {
		return c
	}

	c := colly.NewCollector(
		colly.UserAgent(userAgentFor(session)),
	)
	c.AllowURLRevisit = true
	c.SetRequestTimeout(f.timeout)
	if f.proxy != "" {
		// proxy errors surface on the first visit, not here
		_ = c.SetProxy(f.proxy)
	}

	// responses land in the per-request context so concurrent fetches on the
	// same session cannot interleave
	c.OnResponse(func(r *colly.Response) {
		r.Ctx.Put("status", r.StatusCode)
		r.Ctx.Put("body", r.Body)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r == nil {
			return
		}
		r.Ctx.Put("status", r.StatusCode)
		if len(r.Body) > 0 {
			r.Ctx.Put("body", r.Body)
		}
		r.Ctx.Put("err", err)
	})

	f.collectors[session] = c
	return c
}

func (f *CollyFetcher) Fetch(ctx context.Context, pageURL string, session string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := f.collector(session)
	reqCtx := colly.NewContext()
	if err := c.Request("GET", pageURL, nil, reqCtx, nil); err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	c.Wait()

	status, _ := reqCtx.GetAny("status").(int)
	body, _ := reqCtx.GetAny("body").([]byte)
	reqErr, _ := reqCtx.GetAny("err").(error)

	if status == 0 {
		if reqErr != nil {
			return nil, fmt.Errorf("fetch: %w", reqErr)
		}
		return nil, fmt.Errorf("fetch: no response for %s", pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse body: %w", err)
	}
	// blocked statuses are handed back for the driver to classify
	return &Result{Doc: doc, StatusCode: status}, nil
}

// Rotate drops the old session's collector (and with it, its cookies) and
// hands out a fresh identity.
func (f *CollyFetcher) Rotate(old string) string {
	f.mu.Lock()
	delete(f.collectors, old)
	f.mu.Unlock()
	return uuid.NewString()
}

func (f *CollyFetcher) Close() error {
	return nil
}
