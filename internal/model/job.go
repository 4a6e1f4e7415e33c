package model

import (
	"time"

	"github.com/google/uuid"
)

// Sentinel values used for optional fields the page did not provide. Records
// never carry empty optional fields; absence is always explicit.
const (
	NotSpecified    = "Not specified"
	DefaultLocation = "Pakistan"
	Unknown         = "Unknown"
)

// MaxDescriptionLen caps the description stored on a record.
const MaxDescriptionLen = 3000

// JobRecord is the final extracted entity for a single posting. It is built
// once by the detail extractor and never mutated after being handed to a sink.
type JobRecord struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Salary      string    `json:"salary"`
	JobType     string    `json:"job_type"`
	Category    string    `json:"category"`
	Experience  string    `json:"experience"`
	DatePosted  string    `json:"date_posted"`
	Description string    `json:"description"`
	ScrapedAt   time.Time `json:"scraped_at"`
}

// NewJobRecord returns a record for url with every optional field preset to
// its sentinel. Title and Company start empty; a record is only valid once
// extraction fills both.
func NewJobRecord(url string) JobRecord {
	return JobRecord{
		ID:          uuid.NewString(),
		URL:         url,
		Location:    DefaultLocation,
		Salary:      NotSpecified,
		JobType:     NotSpecified,
		Category:    NotSpecified,
		Experience:  NotSpecified,
		DatePosted:  Unknown,
		Description: NotSpecified,
		ScrapedAt:   time.Now(),
	}
}

// Valid reports whether the required fields survived extraction.
func (j JobRecord) Valid() bool {
	return j.Title != "" && j.Company != ""
}
