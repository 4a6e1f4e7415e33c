package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedsExplicitURLs(t *testing.T) {
	cfg := &Config{SeedURLs: []string{"https://example.com/jobs", "https://example.com/remote-jobs"}}
	assert.Equal(t, cfg.SeedURLs, cfg.Seeds())
}

func TestSeedsSynthesizedFromKeyword(t *testing.T) {
	cfg := &Config{Keyword: "Gólang Developer", BaseURL: "https://example.com/"}
	assert.Equal(t, []string{"https://example.com/jobs/search/golang-developer"}, cfg.Seeds())
}

func TestSeedsCustomSearchPath(t *testing.T) {
	cfg := &Config{
		Keyword:    "data engineer",
		BaseURL:    "https://example.com",
		SearchPath: "/search?q=%s",
	}
	assert.Equal(t, []string{"https://example.com/search?q=data-engineer"}, cfg.Seeds())
}
