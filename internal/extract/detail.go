package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-jobhunt-crawler/internal/model"
)

// ReasonMissingRequired tags pages whose cascade could not produce both a
// title and a company. These are never retried; the content will not change.
const ReasonMissingRequired = "missing-required-field"

// Failure describes a detail page that could not become a valid record.
type Failure struct {
	URL    string
	Reason string
}

func (f *Failure) Error() string {
	return f.Reason + ": " + f.URL
}

// maxRawScan bounds the raw-text regex fallback so a pathological page cannot
// drag a worker into a megabyte-scale scan.
const maxRawScan = 20000

var (
	salaryRe  = regexp.MustCompile(`(?i)(?:PKR|Rs\.?|₨|\$|USD|€|£)\s?[\d,]+(?:k)?(?:\s*(?:-|–|to)\s*(?:PKR|Rs\.?|₨|\$|USD|€|£)?\s?[\d,]+(?:k)?)?(?:\s*(?:/|per)\s*(?:month|year|annum|hour))?`)
	expRe     = regexp.MustCompile(`(?i)\b(\d+(?:\s*(?:-|–|to)\s*\d+)?\s*\+?\s*years?)\b`)
	typeRe    = regexp.MustCompile(`(?i)\b(full[\s-]?time|part[\s-]?time|contract|internship|temporary|freelance|remote|hybrid|on[\s-]?site)\b`)
	postedRe  = regexp.MustCompile(`(?i)\b(\d+\s*(?:minute|min|hour|hr|day|week|month)s?\s*ago|today|yesterday|(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{1,2},?\s+\d{4})\b`)
	companyRe = regexp.MustCompile(`(?i)\bcompany\s*:?\s*([^\n|•<]{2,80})`)
)

// fieldFn is one tier of a per-field cascade.
type fieldFn func() string

// firstNonEmpty runs extractor tiers in priority order and returns the first
// cleaned non-empty candidate.
func firstNonEmpty(fns ...fieldFn) string {
	for _, fn := range fns {
		if v := CleanText(fn()); v != "" {
			return v
		}
	}
	return ""
}

// Job runs the full per-field extraction cascade over a parsed detail page:
// structured metadata first, DOM heuristics second, bounded raw-text regexes
// last. When title or company stay empty after all three tiers the page is
// rejected with a Failure rather than producing a partial record.
func Job(doc *goquery.Document, pageURL string) (model.JobRecord, error) {
	rec := model.NewJobRecord(pageURL)

	var posting Posting
	if ps := Postings(doc); len(ps) > 0 {
		posting = ps[0]
	}

	raw := boundedBodyText(doc)

	rec.Title = firstNonEmpty(
		func() string { return posting.Title },
		func() string { return domTitle(doc) },
	)
	rec.Company = firstNonEmpty(
		func() string { return posting.Org.Name },
		func() string { return domCompany(doc) },
		func() string { return regexGroup(companyRe, raw) },
	)

	if rec.Title == "" || rec.Company == "" {
		return model.JobRecord{}, &Failure{URL: pageURL, Reason: ReasonMissingRequired}
	}

	setIfFound(&rec.Location, firstNonEmpty(
		func() string { return posting.LocationText() },
		func() string { return labelValue(doc, "location", "city", "job location") },
	))
	setIfFound(&rec.Salary, firstNonEmpty(
		func() string { return posting.SalaryText() },
		func() string { return labelValue(doc, "salary", "monthly salary", "pay") },
		func() string { return salaryRe.FindString(raw) },
	))
	setIfFound(&rec.JobType, firstNonEmpty(
		func() string { return posting.Employment },
		func() string { return labelValue(doc, "job type", "employment type", "job shift") },
		func() string { return typeRe.FindString(raw) },
	))
	setIfFound(&rec.Category, firstNonEmpty(
		func() string { return posting.Industry },
		func() string { return labelValue(doc, "category", "industry", "functional area") },
	))
	setIfFound(&rec.Experience, firstNonEmpty(
		func() string { return posting.Experience },
		func() string { return labelValue(doc, "experience", "minimum experience") },
		func() string { return regexGroup(expRe, raw) },
	))
	setIfFound(&rec.DatePosted, firstNonEmpty(
		func() string { return posting.DatePosted },
		func() string { return domPostedDate(doc) },
		func() string { return regexGroup(postedRe, raw) },
	))

	if desc := description(doc, posting); desc != "" {
		rec.Description = Truncate(desc, model.MaxDescriptionLen)
	}

	return rec, nil
}

func setIfFound(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func regexGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) > 1 {
		return m[1]
	}
	if len(m) == 1 {
		return m[0]
	}
	return ""
}

// domTitle prefers the first heading on the page, falling back to the <title>
// tag with the usual " - Site Name" suffix split off.
func domTitle(doc *goquery.Document) string {
	if h := CleanText(doc.Find("h1, h2.job-title, .job-title h2, .job-title").First().Text()); h != "" {
		return h
	}
	title := CleanText(doc.Find("title").Text())
	for _, delim := range []string{" | ", " - ", " – "} {
		if idx := strings.Index(title, delim); idx > 0 {
			return strings.TrimSpace(title[:idx])
		}
	}
	return title
}

// domCompany looks for anchors and elements whose class or href signal a
// company page.
func domCompany(doc *goquery.Document) string {
	sels := []string{
		`a[href*="/company/"]`,
		`a[href*="/companies/"]`,
		".company-name",
		"a.company",
		"[class*=company-title]",
		"[itemprop=hiringOrganization]",
		"[class*=company] a",
	}
	for _, sel := range sels {
		if v := CleanText(doc.Find(sel).First().Text()); v != "" {
			return v
		}
	}
	return ""
}

func domPostedDate(doc *goquery.Document) string {
	if dt, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok && dt != "" {
		return dt
	}
	return labelValue(doc, "posted", "date posted", "posted date", "published")
}

// labelValue scans label-bearing elements for one matching the given labels
// (case-insensitive, trailing colon ignored) and returns the adjacent value
// text: the next sibling when present, otherwise the parent's text with the
// label removed.
func labelValue(doc *goquery.Document, labels ...string) string {
	result := ""
	doc.Find("dt, th, label, strong, b, span, h4, h5, .label").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSuffix(CleanText(s.Text()), ":"))
		matched := false
		for _, want := range labels {
			if text == want {
				matched = true
				break
			}
		}
		if !matched {
			return true
		}

		if v := CleanText(s.Next().Text()); v != "" {
			result = v
			return false
		}
		parent := CleanText(s.Parent().Text())
		own := CleanText(s.Text())
		if v := CleanText(strings.TrimPrefix(parent, own)); v != "" {
			result = strings.TrimPrefix(v, ": ")
			result = strings.TrimPrefix(result, ":")
			result = CleanText(result)
			return false
		}
		return true
	})
	return result
}

var descriptionSels = []string{
	".job-description", "#job-description", "[class*=job-desc]",
	"[itemprop=description]", ".description", "article",
}

// description prefers the structured posting's HTML description, then the
// first description-ish container, then nothing. The raw body dump is too
// noisy to be worth sinking.
func description(doc *goquery.Document, posting Posting) string {
	if posting.Description != "" {
		return HTMLToText(posting.Description)
	}
	for _, sel := range descriptionSels {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if htmlStr, err := node.Html(); err == nil {
			if v := HTMLToText(htmlStr); v != "" {
				return v
			}
		}
	}
	return ""
}

// boundedBodyText returns the page's visible text capped for regex fallbacks.
func boundedBodyText(doc *goquery.Document) string {
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript").Remove()
	text := CleanText(body.Text())
	if len(text) > maxRawScan {
		text = text[:maxRawScan]
	}
	return text
}
