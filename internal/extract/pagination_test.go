package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextPageRelNext(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<a href="/jobs?page=9" class="pagination-next">9</a>
		<a rel="next" href="/jobs?page=2">Next</a>
	</body></html>`)

	// the explicit relation wins over the class heuristic regardless of order
	got := NextPage(doc, listingBase, 1, 10, false)
	assert.Equal(t, "https://example.com/jobs?page=2", got)
}

func TestNextPageLabeledAnchor(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"text label", `<a href="/jobs?page=3">Next</a>`},
		{"chevron label", `<a href="/jobs?page=3">»</a>`},
		{"aria label", `<a href="/jobs?page=3" aria-label="Next page">3</a>`},
		{"class marker", `<a href="/jobs?page=3" class="btn-next">more</a>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, "<html><body>"+tt.html+"</body></html>")
			got := NextPage(doc, listingBase, 2, 10, false)
			assert.Equal(t, "https://example.com/jobs?page=3", got)
		})
	}
}

func TestNextPageActivePlusOne(t *testing.T) {
	doc := mustDoc(t, `<html><body><ul class="pagination">
		<li><a href="/jobs?page=1">1</a></li>
		<li><span class="active">2</span></li>
		<li><a href="/jobs?page=3">3</a></li>
	</ul></body></html>`)

	got := NextPage(doc, listingBase, 2, 10, false)
	assert.Equal(t, "https://example.com/jobs?page=3", got)
}

func TestNextPageParamRewrite(t *testing.T) {
	// no next markers anywhere; any anchor carrying a page-like parameter
	// donates its shape, rewritten to currentPage+1
	doc := mustDoc(t, `<html><body>
		<a href="/jobs?page=7&sort=new">older postings</a>
	</body></html>`)

	got := NextPage(doc, listingBase, 3, 10, false)
	assert.Equal(t, "https://example.com/jobs?page=4&sort=new", got)
}

func TestNextPageQuotaStops(t *testing.T) {
	doc := mustDoc(t, `<html><body><a rel="next" href="/jobs?page=2">Next</a></body></html>`)
	assert.Equal(t, "", NextPage(doc, listingBase, 1, 10, true))
}

func TestNextPageMaxPages(t *testing.T) {
	doc := mustDoc(t, `<html><body><a rel="next" href="/jobs?page=4">Next</a></body></html>`)

	assert.Equal(t, "", NextPage(doc, listingBase, 3, 3, false))
	// zero means unbounded
	assert.Equal(t, "https://example.com/jobs?page=4", NextPage(doc, listingBase, 3, 0, false))
}

func TestNextPageNoSignals(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<a href="/job/golang-developer-1001">Golang Developer</a>
	</body></html>`)
	assert.Equal(t, "", NextPage(doc, listingBase, 1, 10, false))
}
