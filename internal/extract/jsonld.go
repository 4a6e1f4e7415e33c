package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxBlobScan bounds how much of an inline script body is scanned for
// serialized application state.
const maxBlobScan = 256 * 1024

// Posting is the subset of a schema.org JobPosting this crawler cares about.
// Fields stay strings; shape drift in third-party markup is absorbed by the
// tree-walk fallback, not by loosening the struct.
type Posting struct {
	Type        string `json:"@type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DatePosted  string `json:"datePosted"`
	Employment  string `json:"employmentType"`
	Industry    string `json:"industry"`
	URL         string `json:"url"`
	Experience  string `json:"experienceRequirements"`
	Org         struct {
		Name string `json:"name"`
	} `json:"hiringOrganization"`
	Location struct {
		Address struct {
			Locality string `json:"addressLocality"`
			Region   string `json:"addressRegion"`
			Country  string `json:"addressCountry"`
		} `json:"address"`
	} `json:"jobLocation"`
	Salary struct {
		Currency string `json:"currency"`
		Value    struct {
			Value    json.Number `json:"value"`
			MinValue json.Number `json:"minValue"`
			MaxValue json.Number `json:"maxValue"`
			Unit     string      `json:"unitText"`
		} `json:"value"`
	} `json:"baseSalary"`
}

// IsJobPosting reports whether the block declared itself a JobPosting.
func (p Posting) IsJobPosting() bool {
	return strings.EqualFold(p.Type, "JobPosting")
}

// LocationText flattens the nested address into a single display string.
func (p Posting) LocationText() string {
	parts := []string{}
	for _, s := range []string{p.Location.Address.Locality, p.Location.Address.Region, p.Location.Address.Country} {
		if v := CleanText(s); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// SalaryText flattens baseSalary into a display string.
func (p Posting) SalaryText() string {
	v := p.Salary.Value
	var amount string
	switch {
	case v.MinValue != "" && v.MaxValue != "":
		amount = string(v.MinValue) + " - " + string(v.MaxValue)
	case v.Value != "":
		amount = string(v.Value)
	default:
		return ""
	}
	out := strings.TrimSpace(p.Salary.Currency + " " + amount)
	if v.Unit != "" {
		out += " per " + strings.ToLower(v.Unit)
	}
	return out
}

// Postings decodes every ld+json block on the page into Posting values.
// Each block is tried strictly first; when the markup's shape does not match
// (arrays where scalars are expected, @graph wrappers and so on) the block is
// re-read through an untyped tree walk that hunts for known key names.
// Per-block failures are skipped, never propagated.
func Postings(doc *goquery.Document) []Posting {
	var out []Posting
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := []byte(s.Text())
		for _, p := range decodeBlock(raw) {
			if p.IsJobPosting() {
				out = append(out, p)
			}
		}
	})
	return out
}

func decodeBlock(raw []byte) []Posting {
	// strict tier: single object, then array of objects; anything that is not
	// a JobPosting at this tier may still wrap one (@graph, ItemList), so it
	// falls through to the tree walk
	var one Posting
	if err := json.Unmarshal(raw, &one); err == nil && one.IsJobPosting() {
		return []Posting{one}
	}
	var many []Posting
	if err := json.Unmarshal(raw, &many); err == nil {
		var kept []Posting
		for _, p := range many {
			if p.IsJobPosting() {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			return kept
		}
	}

	// fallback tier: untyped tree walk
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil
	}
	return postingsFromTree(tree)
}

// postingsFromTree walks an untyped JSON tree and rebuilds Posting values
// from any node that looks like a JobPosting, tolerating @graph and ItemList
// wrappers and fields that are arrays instead of scalars.
func postingsFromTree(v any) []Posting {
	var out []Posting
	switch node := v.(type) {
	case []any:
		for _, item := range node {
			out = append(out, postingsFromTree(item)...)
		}
	case map[string]any:
		if strings.EqualFold(stringAt(node, "@type"), "JobPosting") {
			out = append(out, postingFromMap(node))
		}
		for _, key := range []string{"@graph", "itemListElement", "item", "mainEntity"} {
			if child, ok := node[key]; ok {
				out = append(out, postingsFromTree(child)...)
			}
		}
	}
	return out
}

func postingFromMap(m map[string]any) Posting {
	p := Posting{Type: "JobPosting"}
	p.Title = stringAt(m, "title")
	p.Description = stringAt(m, "description")
	p.DatePosted = stringAt(m, "datePosted")
	p.Employment = stringAt(m, "employmentType")
	p.Industry = stringAt(m, "industry")
	p.URL = stringAt(m, "url")
	p.Experience = stringAt(m, "experienceRequirements")
	if org, ok := m["hiringOrganization"].(map[string]any); ok {
		p.Org.Name = stringAt(org, "name")
	}
	if loc := firstMap(m["jobLocation"]); loc != nil {
		if addr, ok := loc["address"].(map[string]any); ok {
			p.Location.Address.Locality = stringAt(addr, "addressLocality")
			p.Location.Address.Region = stringAt(addr, "addressRegion")
			p.Location.Address.Country = stringAt(addr, "addressCountry")
		}
	}
	return p
}

// stringAt returns the value under key as a string, accepting the first
// element when the markup wrapped it in an array.
func stringAt(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// firstMap unwraps v into a map, accepting the first element of an array.
func firstMap(v any) map[string]any {
	switch node := v.(type) {
	case map[string]any:
		return node
	case []any:
		if len(node) > 0 {
			if m, ok := node[0].(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

// PostingURLs collects every URL-shaped string reachable from the page's
// ld+json blocks, including ItemList entries that are bare URLs.
func PostingURLs(doc *goquery.Document) []string {
	var out []string
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var tree any
		if err := json.Unmarshal([]byte(s.Text()), &tree); err != nil {
			return
		}
		collectURLStrings(tree, &out)
	})
	return out
}

func collectURLStrings(v any, out *[]string) {
	switch node := v.(type) {
	case string:
		if strings.HasPrefix(node, "http://") || strings.HasPrefix(node, "https://") {
			*out = append(*out, node)
		}
	case []any:
		for _, item := range node {
			collectURLStrings(item, out)
		}
	case map[string]any:
		for _, item := range node {
			collectURLStrings(item, out)
		}
	}
}

var (
	stateMarkerRe = regexp.MustCompile(`(?:__INITIAL_STATE__|__NEXT_DATA__|__NUXT__|window\.appState)\s*=\s*`)
	rawURLRe      = regexp.MustCompile(`https?://[^"'\s\\<>]+`)
)

// StateBlobURLs scans inline (non ld+json) scripts for serialized application
// state and harvests URL-shaped strings from it. A bounded balanced-brace
// substring after a known state marker is parsed as JSON when possible;
// whether or not that parse succeeds, the raw text is also swept with a URL
// regex. Parse failures are ignored per-block.
func StateBlobURLs(doc *goquery.Document) []string {
	var out []string
	doc.Find("script:not([type='application/ld+json'])").Each(func(_ int, s *goquery.Selection) {
		body := s.Text()
		if body == "" {
			return
		}
		if len(body) > maxBlobScan {
			body = body[:maxBlobScan]
		}

		if loc := stateMarkerRe.FindStringIndex(body); loc != nil {
			if blob := balancedJSON(body[loc[1]:]); blob != "" {
				var tree any
				if err := json.Unmarshal([]byte(blob), &tree); err == nil {
					collectURLStrings(tree, &out)
				}
			}
		}

		for _, m := range rawURLRe.FindAllString(body, -1) {
			out = append(out, strings.TrimRight(m, ",;)"))
		}
	})
	return out
}

// balancedJSON returns the leading {...} or [...] region of s, bounded by
// maxBlobScan. Brace counting ignores string contents.
func balancedJSON(s string) string {
	if s == "" {
		return ""
	}
	open := s[0]
	var closer byte
	switch open {
	case '{':
		closer = '}'
	case '[':
		closer = ']'
	default:
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s) && i < maxBlobScan; i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
