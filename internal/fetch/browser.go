package fetch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
)

// BrowserFetcher renders pages in headless Chromium for listings that only
// materialize client-side. Each session identity maps to an isolated browser
// context; rotation closes the context, dropping cookies and storage with it.
type BrowserFetcher struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	mu       sync.Mutex
	contexts map[string]playwright.BrowserContext
	cookies  []playwright.OptionalCookie
	landmark string
	timeout  time.Duration
}

// NewBrowserFetcher launches headless Chromium. landmark is a selector whose
// appearance signals the page is ready; waiting for it is bounded and always
// resolves to proceed-anyway.
func NewBrowserFetcher(landmark string, timeout time.Duration, proxy string, cookies []playwright.OptionalCookie) (*BrowserFetcher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	}
	if proxy != "" {
		opts.Proxy = &playwright.Proxy{Server: proxy}
	}
	browser, err := pw.Chromium.Launch(opts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	return &BrowserFetcher{
		pw:       pw,
		browser:  browser,
		contexts: make(map[string]playwright.BrowserContext),
		cookies:  cookies,
		landmark: landmark,
		timeout:  timeout,
	}, nil
}

func (f *BrowserFetcher) context(session string) (playwright.BrowserContext, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if bctx, ok := f.contexts[session]; ok {
		return bctx, nil
	}
	bctx, err := f.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgentFor(session)),
	})
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}
	if len(f.cookies) > 0 {
		if err := bctx.AddCookies(f.cookies); err != nil {
			return nil, fmt.Errorf("add cookies: %w", err)
		}
	}
	f.contexts[session] = bctx
	return bctx, nil
}

func (f *BrowserFetcher) Fetch(ctx context.Context, pageURL string, session string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bctx, err := f.context(session)
	if err != nil {
		return nil, err
	}
	page, err := bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}
	defer page.Close()

	resp, err := page.Goto(pageURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(f.timeout.Milliseconds())),
	})
	if err != nil {
		return nil, fmt.Errorf("goto: %w", err)
	}
	status := 200
	if resp != nil {
		status = resp.Status()
	}

	// bounded landmark wait: timing out means proceed with whatever rendered
	if f.landmark != "" {
		_ = page.Locator(f.landmark).First().WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(float64(f.timeout.Milliseconds()) / 2),
		})
	}

	humanize(page)

	content, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("page content: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	return &Result{Doc: doc, StatusCode: status}, nil
}

// Rotate closes the old session's browser context and hands out a fresh one.
func (f *BrowserFetcher) Rotate(old string) string {
	f.mu.Lock()
	if bctx, ok := f.contexts[old]; ok {
		bctx.Close()
		delete(f.contexts, old)
	}
	f.mu.Unlock()
	return uuid.NewString()
}

func (f *BrowserFetcher) Close() error {
	f.mu.Lock()
	for _, bctx := range f.contexts {
		bctx.Close()
	}
	f.contexts = make(map[string]playwright.BrowserContext)
	f.mu.Unlock()

	if err := f.browser.Close(); err != nil {
		return err
	}
	return f.pw.Stop()
}
