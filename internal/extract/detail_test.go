package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobhunt-crawler/internal/model"
)

const detailPageURL = "https://example.com/job/test-posting-1"

func TestJobFromStructuredMetadata(t *testing.T) {
	doc := mustDoc(t, `<html><head><script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@type": "JobPosting",
		"title": "Senior Golang Engineer",
		"description": "<p>Build crawlers.</p><p>Ship daily.</p>",
		"datePosted": "2025-08-20",
		"employmentType": "FULL_TIME",
		"industry": "Software",
		"experienceRequirements": "3+ years",
		"hiringOrganization": {"@type": "Organization", "name": "Acme Soft"},
		"jobLocation": {"@type": "Place", "address": {"addressLocality": "Karachi", "addressCountry": "Pakistan"}},
		"baseSalary": {"@type": "MonetaryAmount", "currency": "PKR", "value": {"minValue": 150000, "maxValue": 250000, "unitText": "MONTH"}}
	}
	</script></head><body><h1>Fallback Heading</h1></body></html>`)

	rec, err := Job(doc, detailPageURL)
	require.NoError(t, err)

	assert.Equal(t, "Senior Golang Engineer", rec.Title)
	assert.Equal(t, "Acme Soft", rec.Company)
	assert.Equal(t, "Karachi, Pakistan", rec.Location)
	assert.Equal(t, "PKR 150000 - 250000 per month", rec.Salary)
	assert.Equal(t, "FULL_TIME", rec.JobType)
	assert.Equal(t, "Software", rec.Category)
	assert.Equal(t, "3+ years", rec.Experience)
	assert.Equal(t, "2025-08-20", rec.DatePosted)
	assert.Equal(t, "Build crawlers.\nShip daily.", rec.Description)
	assert.Equal(t, detailPageURL, rec.URL)
	assert.True(t, rec.Valid())
}

func TestJobFromDOM(t *testing.T) {
	doc := mustDoc(t, `<html><head><title>Accountant - ExampleJobs</title></head><body>
		<h1>Accountant</h1>
		<a href="/company/ledgerworks">LedgerWorks</a>
		<ul class="job-meta">
			<li><strong>Location:</strong> Islamabad</li>
			<li><strong>Salary:</strong> PKR 90,000</li>
			<li><strong>Job Type:</strong> Contract</li>
			<li><strong>Experience:</strong> 2 years</li>
			<li><strong>Category:</strong> Finance</li>
		</ul>
		<time datetime="2025-08-25">Aug 25, 2025</time>
		<div class="job-description"><p>Prepare ledgers.</p><p>Close the books monthly.</p></div>
	</body></html>`)

	rec, err := Job(doc, detailPageURL)
	require.NoError(t, err)

	assert.Equal(t, "Accountant", rec.Title)
	assert.Equal(t, "LedgerWorks", rec.Company)
	assert.Equal(t, "Islamabad", rec.Location)
	assert.Equal(t, "PKR 90,000", rec.Salary)
	assert.Equal(t, "Contract", rec.JobType)
	assert.Equal(t, "Finance", rec.Category)
	assert.Equal(t, "2 years", rec.Experience)
	assert.Equal(t, "2025-08-25", rec.DatePosted)
	assert.Equal(t, "Prepare ledgers.\nClose the books monthly.", rec.Description)
}

func TestJobRegexFallback(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<h1>Support Specialist</h1>
		<p>Company: HelpDesk Heroes | Posted 3 days ago | Full-time | 2-4 years | Salary $40,000 per year</p>
	</body></html>`)

	rec, err := Job(doc, detailPageURL)
	require.NoError(t, err)

	assert.Equal(t, "Support Specialist", rec.Title)
	assert.Equal(t, "HelpDesk Heroes", rec.Company)
	assert.Equal(t, "Full-time", rec.JobType)
	assert.Equal(t, "2-4 years", rec.Experience)
	assert.Equal(t, "$40,000 per year", rec.Salary)
	assert.Equal(t, "3 days ago", rec.DatePosted)
}

func TestJobTitleFromTitleTag(t *testing.T) {
	doc := mustDoc(t, `<html><head><title>Junior Designer - ExampleJobs</title></head><body>
		<div class="company-name">PixelWorks</div>
	</body></html>`)

	rec, err := Job(doc, detailPageURL)
	require.NoError(t, err)
	assert.Equal(t, "Junior Designer", rec.Title)
	assert.Equal(t, "PixelWorks", rec.Company)
}

func TestJobMissingCompanyFails(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<h1>Mystery Role</h1>
		<p>No employer is named anywhere on this page.</p>
	</body></html>`)

	rec, err := Job(doc, detailPageURL)
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, ReasonMissingRequired, failure.Reason)
	assert.Equal(t, detailPageURL, failure.URL)
	assert.False(t, rec.Valid())
}

func TestJobMissingTitleFails(t *testing.T) {
	doc := mustDoc(t, `<html><body><a href="/company/acme">Acme</a></body></html>`)

	_, err := Job(doc, detailPageURL)
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, ReasonMissingRequired, failure.Reason)
}

func TestJobSentinelsForMissingOptionals(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<h1>Product Manager</h1>
		<div class="company-name">BrightSoft</div>
	</body></html>`)

	rec, err := Job(doc, detailPageURL)
	require.NoError(t, err)

	assert.Equal(t, model.DefaultLocation, rec.Location)
	assert.Equal(t, model.NotSpecified, rec.Salary)
	assert.Equal(t, model.NotSpecified, rec.JobType)
	assert.Equal(t, model.NotSpecified, rec.Category)
	assert.Equal(t, model.NotSpecified, rec.Experience)
	assert.Equal(t, model.Unknown, rec.DatePosted)
	assert.Equal(t, model.NotSpecified, rec.Description)
	assert.NotEmpty(t, rec.ID)
}

func TestJobDescriptionTruncated(t *testing.T) {
	long := "<div class=\"job-description\">"
	for i := 0; i < 400; i++ {
		long += "<p>Responsibilities grow without end.</p>"
	}
	long += "</div>"
	doc := mustDoc(t, `<html><body><h1>Writer</h1><div class="company-name">InkCo</div>`+long+`</body></html>`)

	rec, err := Job(doc, detailPageURL)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(rec.Description), model.MaxDescriptionLen)
	assert.NotContains(t, rec.Description, "<")
}
