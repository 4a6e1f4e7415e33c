package sink

import (
	"encoding/csv"
	"os"
	"sync"

	"go-jobhunt-crawler/internal/model"
)

var csvHeader = []string{
	"ID", "URL", "Title", "Company", "Location", "Salary", "JobType",
	"Category", "Experience", "DatePosted", "Description", "ScrapedAt",
}

// CSV appends records to a CSV file, flushing after every row so a killed
// run keeps what it saved.
type CSV struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

func NewCSV(path string) (*CSV, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		file.Close()
		return nil, err
	}
	writer.Flush()
	return &CSV{file: file, writer: writer}, nil
}

func (c *CSV) Append(rec model.JobRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	row := []string{
		rec.ID, rec.URL, rec.Title, rec.Company, rec.Location, rec.Salary,
		rec.JobType, rec.Category, rec.Experience, rec.DatePosted,
		rec.Description, rec.ScrapedAt.Format("2006-01-02 15:04:05"),
	}
	if err := c.writer.Write(row); err != nil {
		return err
	}
	c.writer.Flush()
	return c.writer.Error()
}

func (c *CSV) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		c.file.Close()
		return err
	}
	return c.file.Close()
}
