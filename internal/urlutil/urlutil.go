package urlutil

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PageShape tags the listing layout detected by the link extractor. The
// authoritative detail pattern differs per shape: structured listings carry
// numeric posting ids in their slugs, classic server-rendered grids do not
// reliably.
type PageShape string

const (
	// ShapeStructured marks listings driven by embedded JobPosting metadata.
	ShapeStructured PageShape = "structured"
	// ShapeClassic marks plain server-rendered anchor grids.
	ShapeClassic PageShape = "classic"
)

var (
	// strict: numeric posting id at the end of the path,
	// e.g. /job/golang-developer-123456
	strictDetailRe = regexp.MustCompile(`(?i)/jobs?/[^/?#]*[-/](\d{4,})/?$`)
	// loose: a /job/ or /jobs/ segment followed by a slug
	looseDetailRe = regexp.MustCompile(`(?i)/jobs?/[a-z0-9][^/?#]*/?$`)
)

// path segments that never lead to a single posting
var excludedSegments = map[string]bool{
	"company": true, "companies": true, "employer": true, "employers": true,
	"login": true, "signup": true, "register": true, "about": true,
	"contact": true, "apply": true, "privacy": true, "terms": true,
	"blog": true, "category": true, "categories": true, "search": true,
	"browse": true, "page": true, "faq": true, "help": true,
}

// query parameters dropped during normalization
var trackingParams = map[string]bool{
	"fbclid": true, "gclid": true, "ref": true, "source": true, "src": true,
}

// Normalize resolves href against base, strips the fragment and tracking
// parameters, and returns the absolute URL. Malformed or non-http input
// returns "" and is treated by callers as a skip, never an error.
func Normalize(href, base string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") || strings.HasPrefix(lower, "data:") {
		return ""
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	abs := baseURL.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	if abs.Host == "" {
		return ""
	}

	abs.Fragment = ""
	q := abs.Query()
	changed := false
	for key := range q {
		if trackingParams[key] || strings.HasPrefix(strings.ToLower(key), "utm_") {
			q.Del(key)
			changed = true
		}
	}
	if changed {
		abs.RawQuery = q.Encode()
	}
	return abs.String()
}

// IsDetailURL reports whether u points at a single job posting, using the
// classic-shape heuristics.
func IsDetailURL(u string) bool {
	return IsDetailURLFor(u, ShapeClassic)
}

// IsDetailURLFor classifies u under the pattern strategy authoritative for the
// given listing shape. Classic listings try the loose slug pattern first and
// fall back to the strict numeric-id one; structured listings trust only the
// strict pattern since their slugs always carry posting ids.
func IsDetailURLFor(u string, shape PageShape) bool {
	if IsExcludedPath(u) {
		return false
	}
	path := pathOf(u)
	if path == "" {
		return false
	}
	if shape == ShapeStructured {
		return strictDetailRe.MatchString(path)
	}
	return looseDetailRe.MatchString(path) || strictDetailRe.MatchString(path)
}

// IsExcludedPath reports whether any path segment belongs to a known non-job
// section of the site.
func IsExcludedPath(u string) bool {
	path := pathOf(u)
	for _, seg := range strings.Split(path, "/") {
		if excludedSegments[seg] {
			return true
		}
	}
	return false
}

func pathOf(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Path)
}

// Slugify lowercases s, folds diacritics away and joins the remaining
// alphanumeric runs with hyphens, the shape job boards use in search URLs.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	lastDash := true
	for _, r := range folded {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
