package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobhunt-crawler/internal/model"
)

func TestCachePersistsAcrossRuns(t *testing.T) {
	dir := t.TempDir()

	first := NewCache(dir)
	rec := model.NewJobRecord("https://example.com/job/golang-developer-12345")
	require.NoError(t, first.Append(rec))
	require.NoError(t, first.Append(rec), "re-appending the same url must be a no-op")
	require.NoError(t, first.Close())

	second := NewCache(dir)
	urls := second.URLs()
	assert.Equal(t, []string{"https://example.com/job/golang-developer-12345"}, urls)
}

func TestCacheEmptyDir(t *testing.T) {
	c := NewCache(t.TempDir())
	assert.Empty(t, c.URLs())
	require.NoError(t, c.Close())
}
