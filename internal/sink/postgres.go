package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-jobhunt-crawler/internal/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS job_records (
	id          uuid PRIMARY KEY,
	url         text NOT NULL,
	title       text NOT NULL,
	company     text NOT NULL,
	location    text,
	salary      text,
	job_type    text,
	category    text,
	experience  text,
	date_posted text,
	description text,
	scraped_at  timestamptz NOT NULL
)`

const insertSQL = `
INSERT INTO job_records
	(id, url, title, company, location, salary, job_type, category, experience, date_posted, description, scraped_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO NOTHING`

// Postgres appends records to a job_records table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	// pooled connections (PgBouncer in transaction mode) choke on prepared
	// statements, so the statement cache stays off
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ensure job_records table: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Append(rec model.JobRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := p.pool.Exec(ctx, insertSQL,
		rec.ID, rec.URL, rec.Title, rec.Company, rec.Location, rec.Salary,
		rec.JobType, rec.Category, rec.Experience, rec.DatePosted,
		rec.Description, rec.ScrapedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job record: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
