package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/datsun80zx/repairtrack/internal/db"
	"github.com/datsun80zx/repairtrack/internal/jobs"
)

// Open connects to Postgres and verifies the connection
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	database, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return database, nil
}

// Postgres is the job store backed by the jobs table
type Postgres struct {
	queries *db.Queries
}

// NewPostgres creates a store on an open database
func NewPostgres(database *sql.DB) *Postgres {
	return &Postgres{queries: db.New(database)}
}

func (p *Postgres) ListJobs(ctx context.Context) ([]jobs.Job, error) {
	rows, err := p.queries.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	out := make([]jobs.Job, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromRow(r))
	}
	return out, nil
}

func (p *Postgres) AddJob(ctx context.Context, job jobs.Job) error {
	params, err := InsertParams(job, sql.NullInt64{})
	if err != nil {
		return err
	}
	if _, err := p.queries.InsertJob(ctx, params); err != nil {
		return fmt.Errorf("inserting job: %w", err)
	}
	return nil
}

func (p *Postgres) UpdateJob(ctx context.Context, id string, job jobs.Job) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return jobs.ErrNotFound
	}
	n, err := p.queries.UpdateJob(ctx, db.UpdateJobParams{
		ID:           uid,
		JobDate:      job.Date,
		CustomerName: job.CustomerName,
		Mobile:       job.Mobile,
		DeviceModel:  job.DeviceModel,
		WorkDone:     job.WorkDescription,
		Price:        job.Price,
		PartsCost:    job.PartsCost,
		Profit:       job.Profit,
	})
	if err != nil {
		return fmt.Errorf("updating job %s: %w", id, err)
	}
	if n == 0 {
		return jobs.ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteJob(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return jobs.ErrNotFound
	}
	n, err := p.queries.DeleteJob(ctx, uid)
	if err != nil {
		return fmt.Errorf("deleting job %s: %w", id, err)
	}
	if n == 0 {
		return jobs.ErrNotFound
	}
	return nil
}

// FromRow converts a jobs table row
func FromRow(r db.Job) jobs.Job {
	return jobs.Job{
		ID:              r.ID.String(),
		Date:            r.JobDate,
		CustomerName:    r.CustomerName,
		Mobile:          r.Mobile,
		DeviceModel:     r.DeviceModel,
		WorkDescription: r.WorkDone,
		Price:           r.Price,
		PartsCost:       r.PartsCost,
		Profit:          r.Profit,
	}
}

// InsertParams builds insert parameters for job. A missing id gets a new
// UUID; an id that is not a UUID is rejected.
func InsertParams(job jobs.Job, batchID sql.NullInt64) (db.InsertJobParams, error) {
	uid := uuid.New()
	if job.ID != "" {
		parsed, err := uuid.Parse(job.ID)
		if err != nil {
			return db.InsertJobParams{}, fmt.Errorf("job id %q is not a UUID: %w", job.ID, err)
		}
		uid = parsed
	}
	return db.InsertJobParams{
		ID:            uid,
		JobDate:       job.Date,
		CustomerName:  job.CustomerName,
		Mobile:        job.Mobile,
		DeviceModel:   job.DeviceModel,
		WorkDone:      job.WorkDescription,
		Price:         job.Price,
		PartsCost:     job.PartsCost,
		Profit:        job.Profit,
		ImportBatchID: batchID,
	}, nil
}
