package fetch

import (
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Result is what a fetch strategy hands back to the crawl driver.
type Result struct {
	Doc        *goquery.Document
	StatusCode int
}

// Fetcher is the driver's view of a fetch strategy. Implementations own
// transport details (cookies, proxies, rendering); session names an opaque
// client identity that Rotate replaces after a block, discarding any state
// tied to the old one.
type Fetcher interface {
	Fetch(ctx context.Context, url string, session string) (*Result, error)
	Rotate(old string) string
	Close() error
}

// Blocked reports whether an HTTP status is an anti-bot signal that warrants
// a retry with a fresh session identity rather than a hard failure.
func Blocked(status int) bool {
	switch status {
	case http.StatusForbidden, http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	}
	return false
}

var blockMarkers = []string{
	"just a moment",
	"attention required",
	"cloudflare",
	"access denied",
	"verify you are a human",
	"enable javascript and cookies",
}

// BlockedContent sniffs a parsed page for anti-bot interstitial markers.
func BlockedContent(doc *goquery.Document) bool {
	if doc == nil {
		return false
	}
	title := strings.ToLower(doc.Find("title").Text())
	for _, marker := range blockMarkers {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return doc.Find(".captcha, .g-recaptcha, [data-captcha]").Length() > 0
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:122.0) Gecko/20100101 Firefox/122.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:122.0) Gecko/20100101 Firefox/122.0",
}

// userAgentFor deterministically assigns a user agent to a session identity,
// so a session keeps one browser fingerprint for its whole life.
func userAgentFor(session string) string {
	var sum uint32
	for i := 0; i < len(session); i++ {
		sum = sum*31 + uint32(session[i])
	}
	return userAgents[int(sum)%len(userAgents)]
}
