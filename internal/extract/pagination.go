package extract

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-jobhunt-crawler/internal/urlutil"
)

// query parameters that carry a 1-based page number
var pageParams = []string{"page", "p", "pg", "pn"}

var nextLabels = []string{"next", "next page", "next »", "next ›", "»", "›", "→", ">", ">>"}

// NextPage computes the next listing URL for a branch, or "" to terminate
// pagination. Strategies are tried first-match-wins: an explicit rel=next
// link, a next/chevron-labeled anchor, the anchor numbered one past the
// active pagination control, and finally a page-parameter rewrite. The
// function is pure over its inputs: it never consults crawl state, so the
// caller passes quotaMet explicitly.
func NextPage(doc *goquery.Document, baseURL string, currentPage, maxPages int, quotaMet bool) string {
	if quotaMet {
		return ""
	}
	if maxPages > 0 && currentPage >= maxPages {
		return ""
	}

	// 1. explicit next relation
	if href, ok := doc.Find(`a[rel="next"], link[rel="next"]`).First().Attr("href"); ok {
		if u := urlutil.Normalize(href, baseURL); u != "" {
			return u
		}
	}

	// 2. next-labeled or chevron-labeled anchor
	if u := nextLabeledAnchor(doc, baseURL); u != "" {
		return u
	}

	// 3. active indicator + 1
	if u := anchorAfterActive(doc, baseURL, currentPage); u != "" {
		return u
	}

	// 4. page-parameter rewrite
	return rewrittenPageParam(doc, baseURL, currentPage)
}

func nextLabeledAnchor(doc *goquery.Document, baseURL string) string {
	result := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label := strings.ToLower(CleanText(s.Text()))
		aria, _ := s.Attr("aria-label")
		class, _ := s.Attr("class")

		matched := false
		for _, want := range nextLabels {
			if label == want {
				matched = true
				break
			}
		}
		if !matched && strings.Contains(strings.ToLower(aria), "next") {
			matched = true
		}
		if !matched && strings.Contains(strings.ToLower(class), "next") {
			matched = true
		}
		if !matched {
			return true
		}

		href, _ := s.Attr("href")
		if u := urlutil.Normalize(href, baseURL); u != "" {
			result = u
			return false
		}
		return true
	})
	return result
}

// anchorAfterActive infers the next page from the highlighted pagination
// control: when an active indicator showing currentPage exists, the anchor
// whose visible text equals currentPage+1 is the next page.
func anchorAfterActive(doc *goquery.Document, baseURL string, currentPage int) string {
	active := doc.Find(".active, .current, [class*=active], [class*=current]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return CleanText(s.Text()) == strconv.Itoa(currentPage)
	})
	if active.Length() == 0 {
		return ""
	}

	want := strconv.Itoa(currentPage + 1)
	result := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if CleanText(s.Text()) != want {
			return true
		}
		href, _ := s.Attr("href")
		if u := urlutil.Normalize(href, baseURL); u != "" {
			result = u
			return false
		}
		return true
	})
	return result
}

// rewrittenPageParam synthesizes the next URL from any anchor carrying a
// page-like query parameter, setting it to currentPage+1. Assumes 1-based
// page numbering, which holds for every shape of this site observed so far.
func rewrittenPageParam(doc *goquery.Document, baseURL string, currentPage int) string {
	result := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		u := urlutil.Normalize(href, baseURL)
		if u == "" {
			return true
		}
		parsed, err := url.Parse(u)
		if err != nil {
			return true
		}
		q := parsed.Query()
		for _, name := range pageParams {
			if !q.Has(name) {
				continue
			}
			if _, err := strconv.Atoi(q.Get(name)); err != nil {
				continue
			}
			q.Set(name, strconv.Itoa(currentPage+1))
			parsed.RawQuery = q.Encode()
			result = parsed.String()
			return false
		}
		return true
	})
	return result
}
