package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-jobhunt-crawler/internal/model"
)

// JSONFile buffers records and writes them as one indented JSON document on
// Close, named job-search-YYYY-MM-DD.json when pointed at a directory.
type JSONFile struct {
	mu      sync.Mutex
	path    string
	records []model.JobRecord
}

func NewJSONFile(path string) *JSONFile {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		name := fmt.Sprintf("job-search-%s.json", time.Now().Format("2006-01-02"))
		path = filepath.Join(path, name)
	}
	return &JSONFile{path: path}
}

func (j *JSONFile) Append(rec model.JobRecord) error {
	j.mu.Lock()
	j.records = append(j.records, rec)
	j.mu.Unlock()
	return nil
}

func (j *JSONFile) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.records) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(j.records, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(j.path, data, 0644)
}
