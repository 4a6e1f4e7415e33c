package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 5 * 1024 * 1024

// HTTPFetcher fetches pages over plain net/http. Each session identity gets
// its own cookie jar and user agent; a shared limiter rate-shapes the whole
// strategy on top of the driver's politeness delays.
type HTTPFetcher struct {
	mu       sync.Mutex
	clients  map[string]*http.Client
	limiter  *rate.Limiter
	proxyURL *url.URL
	timeout  time.Duration
}

func NewHTTPFetcher(proxy string, timeout time.Duration, perSecond float64) (*HTTPFetcher, error) {
	f := &HTTPFetcher{
		clients: make(map[string]*http.Client),
		timeout: timeout,
	}
	if perSecond <= 0 {
		perSecond = 2
	}
	f.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	if proxy != "" {
		parsed, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		f.proxyURL = parsed
	}
	return f, nil
}

func (f *HTTPFetcher) client(session string) *http.Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.clients[session]; ok {
		return c
	}
	jar, _ := cookiejar.New(nil)
	transport := &http.Transport{}
	if f.proxyURL != nil {
		transport.Proxy = http.ProxyURL(f.proxyURL)
	}
	c := &http.Client{
		Timeout:   f.timeout,
		Jar:       jar,
		Transport: transport,
	}
	f.clients[session] = c
	return c
}

func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string, session string) (*Result, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgentFor(session))
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client(session).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxBodyBytes)
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse body: %w", err)
	}
	return &Result{Doc: doc, StatusCode: resp.StatusCode}, nil
}

// Rotate discards the old session's cookie jar and hands out a fresh
// identity.
func (f *HTTPFetcher) Rotate(old string) string {
	f.mu.Lock()
	delete(f.clients, old)
	f.mu.Unlock()
	return uuid.NewString()
}

func (f *HTTPFetcher) Close() error {
	return nil
}
