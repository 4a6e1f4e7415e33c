package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-jobhunt-crawler/internal/model"
)

type seenEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

const retentionMs = int64(30 * 24 * 60 * 60 * 1000)

// Cache remembers saved posting URLs across runs so re-crawls do not re-save
// the same jobs. It also satisfies the sink interface: appending a record
// marks its URL seen.
type Cache struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]int64
}

// NewCache creates or loads the cache under cacheDir. Entries older than 30
// days are dropped on load.
func NewCache(cacheDir string) *Cache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	c := &Cache{
		filePath: filepath.Join(cacheDir, "seen_jobs.json"),
		seen:     make(map[string]int64),
	}
	c.load()
	return c
}

// URLs returns every remembered URL, for pre-seeding a run's visited set.
func (c *Cache) URLs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.seen))
	for u := range c.seen {
		out = append(out, u)
	}
	return out
}

// Append marks a saved record's URL as seen.
func (c *Cache) Append(rec model.JobRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.seen[rec.URL]; !exists {
		c.seen[rec.URL] = time.Now().UnixMilli()
	}
	return nil
}

// Close persists the cache to disk.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save()
}

func (c *Cache) load() {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read seen_jobs.json: %v", err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse seen_jobs.json: %v", err)
		return
	}

	cutoff := time.Now().UnixMilli() - retentionMs
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			c.seen[e.URL] = e.Timestamp
			loaded++
		}
	}
	log.Printf("📋 Loaded %d previously seen jobs (%d expired)", loaded, len(entries)-loaded)
}

func (c *Cache) save() error {
	entries := make([]seenEntry, 0, len(c.seen))
	for u, ts := range c.seen {
		entries = append(entries, seenEntry{URL: u, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return err
	}
	log.Printf("💾 Saved %d seen jobs to cache", len(entries))
	return nil
}
