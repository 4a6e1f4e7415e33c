package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostingsStrict(t *testing.T) {
	doc := mustDoc(t, `<html><head><script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@type": "JobPosting",
		"title": "Senior Golang Engineer",
		"datePosted": "2025-08-20",
		"employmentType": "FULL_TIME",
		"hiringOrganization": {"@type": "Organization", "name": "Acme Soft"},
		"jobLocation": {"@type": "Place", "address": {"addressLocality": "Karachi", "addressCountry": "Pakistan"}},
		"baseSalary": {"@type": "MonetaryAmount", "currency": "PKR", "value": {"minValue": 150000, "maxValue": 250000, "unitText": "MONTH"}}
	}
	</script></head><body></body></html>`)

	ps := Postings(doc)
	require.Len(t, ps, 1)
	p := ps[0]
	assert.Equal(t, "Senior Golang Engineer", p.Title)
	assert.Equal(t, "Acme Soft", p.Org.Name)
	assert.Equal(t, "2025-08-20", p.DatePosted)
	assert.Equal(t, "FULL_TIME", p.Employment)
	assert.Equal(t, "Karachi, Pakistan", p.LocationText())
	assert.Equal(t, "PKR 150000 - 250000 per month", p.SalaryText())
}

func TestPostingsGraphAndArrayFields(t *testing.T) {
	// real-world markup wraps the posting in @graph and turns scalars into
	// arrays; the strict decode fails and the tree walk recovers it
	doc := mustDoc(t, `<html><head><script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "WebSite", "url": "https://example.com"},
			{
				"@type": "JobPosting",
				"title": "Data Engineer",
				"employmentType": ["FULL_TIME", "CONTRACTOR"],
				"hiringOrganization": {"name": "Beta Labs"},
				"jobLocation": [{"address": {"addressLocality": "Lahore"}}]
			}
		]
	}
	</script></head><body></body></html>`)

	ps := Postings(doc)
	require.Len(t, ps, 1)
	p := ps[0]
	assert.Equal(t, "Data Engineer", p.Title)
	assert.Equal(t, "FULL_TIME", p.Employment)
	assert.Equal(t, "Beta Labs", p.Org.Name)
	assert.Equal(t, "Lahore", p.LocationText())
}

func TestPostingsSkipsMalformedBlocks(t *testing.T) {
	doc := mustDoc(t, `<html><head>
	<script type="application/ld+json">{not even json</script>
	<script type="application/ld+json">{"@type": "JobPosting", "title": "Survivor"}</script>
	</head><body></body></html>`)

	ps := Postings(doc)
	require.Len(t, ps, 1)
	assert.Equal(t, "Survivor", ps[0].Title)
}

func TestSalaryTextSingleValue(t *testing.T) {
	var p Posting
	p.Salary.Currency = "USD"
	p.Salary.Value.Value = "90000"
	p.Salary.Value.Unit = "YEAR"
	assert.Equal(t, "USD 90000 per year", p.SalaryText())

	var empty Posting
	assert.Equal(t, "", empty.SalaryText())
}

func TestPostingURLs(t *testing.T) {
	doc := mustDoc(t, `<html><head><script type="application/ld+json">
	{"@type": "ItemList", "itemListElement": [
		"https://example.com/job/analyst-1",
		{"url": "https://example.com/job/analyst-2"}
	]}
	</script></head><body></body></html>`)

	urls := PostingURLs(doc)
	assert.Contains(t, urls, "https://example.com/job/analyst-1")
	assert.Contains(t, urls, "https://example.com/job/analyst-2")
}

func TestStateBlobURLs(t *testing.T) {
	doc := mustDoc(t, `<html><body><script>
	window.__INITIAL_STATE__ = {"filters":{"label":"{braces} inside a string"},"jobs":[
		{"url":"https://example.com/job/data-analyst-30001"},
		{"url":"https://example.com/job/ml-engineer-30002"}
	]};
	doSomethingElse();
	</script></body></html>`)

	urls := StateBlobURLs(doc)
	assert.Contains(t, urls, "https://example.com/job/data-analyst-30001")
	assert.Contains(t, urls, "https://example.com/job/ml-engineer-30002")
}

func TestBalancedJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"flat object", `{"a":1}; rest`, `{"a":1}`},
		{"nested", `{"a":{"b":[1,2]}}tail`, `{"a":{"b":[1,2]}}`},
		{"brace in string", `{"a":"}"}x`, `{"a":"}"}`},
		{"array root", `[1,2,3];`, `[1,2,3]`},
		{"unterminated", `{"a":1`, ""},
		{"not json start", `var x = 1`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, balancedJSON(tt.in))
		})
	}
}
