package extract

import (
	"sort"

	"github.com/PuerkitoBio/goquery"

	"go-jobhunt-crawler/internal/model"
	"go-jobhunt-crawler/internal/urlutil"
)

// DetailLinks produces the deduplicated set of job detail URLs found on a
// listing page, as a union across three sources in priority order: embedded
// JobPosting metadata, plain anchors, and serialized state blobs in inline
// scripts. Every candidate passes through the normalizer; excluded-path
// candidates are dropped at every stage. Pure over the parsed document.
//
// The returned shape tag records whether the page carried structured posting
// metadata, which selects the authoritative detail-URL pattern for the
// remaining stages.
func DetailLinks(doc *goquery.Document, baseURL string) ([]string, urlutil.PageShape) {
	shape := urlutil.ShapeClassic
	seen := make(map[string]struct{})
	var out []string

	add := func(raw string) {
		u := urlutil.Normalize(raw, baseURL)
		if u == "" || !urlutil.IsDetailURLFor(u, shape) {
			return
		}
		if _, dup := seen[u]; dup {
			return
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}

	// 1. structured metadata blocks
	structured := PostingURLs(doc)
	if len(structured) > 0 {
		shape = urlutil.ShapeStructured
	}
	for _, u := range structured {
		add(u)
	}

	// 2. anchors, regardless of container
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			add(href)
		}
	})

	// 3. embedded state blobs
	for _, u := range StateBlobURLs(doc) {
		add(u)
	}

	sort.Strings(out)
	return out, shape
}

// listing card selector cascade, loosest last
var (
	cardSelectors    = []string{".job-item", ".job-card", ".job-listing", "article.job", "li.job", "[class*=job-listing-item]"}
	cardTitleSels    = "h2 a, h3 a, .job-title a, a.title, h2, h3, .job-title"
	cardCompanySels  = ".company-name, .company, a.company, [class*=company]"
	cardLocationSels = ".location, .address, .job-location, [class*=location]"
	cardSalarySels   = ".salary, .job-salary, [class*=salary]"
	cardDateSels     = ".date, .posted, time, [class*=posted], [class*=date]"
)

// ListingCards extracts listing-visible fields directly from job cards, for
// runs that skip the detail stage entirely. Cards without both a title and a
// company are dropped, mirroring the record validity rule.
func ListingCards(doc *goquery.Document, baseURL string) []model.JobRecord {
	var cards *goquery.Selection
	for _, sel := range cardSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			cards = found
			break
		}
	}
	if cards == nil {
		return nil
	}

	var out []model.JobRecord
	cards.Each(func(_ int, card *goquery.Selection) {
		titleEl := card.Find(cardTitleSels).First()
		title := CleanText(titleEl.Text())
		if title == "" {
			return
		}

		href, _ := titleEl.Attr("href")
		if href == "" {
			href, _ = card.Find("a[href]").First().Attr("href")
		}
		u := urlutil.Normalize(href, baseURL)
		if u == "" {
			u = baseURL
		}

		rec := model.NewJobRecord(u)
		rec.Title = title
		rec.Company = CleanText(card.Find(cardCompanySels).First().Text())
		if loc := CleanText(card.Find(cardLocationSels).First().Text()); loc != "" {
			rec.Location = loc
		}
		if sal := CleanText(card.Find(cardSalarySels).First().Text()); sal != "" {
			rec.Salary = sal
		}
		if posted := CleanText(card.Find(cardDateSels).First().Text()); posted != "" {
			rec.DatePosted = posted
		}
		if !rec.Valid() {
			return
		}
		out = append(out, rec)
	})
	return out
}
