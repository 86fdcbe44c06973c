package domain

import (
	"context"
	"time"
)

type Job struct {
	ID          int64     `json:"id"`
	Employer    int64     `json:"employer"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Type        *string   `json:"type,omitempty"`
	Experience  *string   `json:"experience,omitempty"`
	SalaryMin   float64   `json:"salary_min"`
	SalaryMax   float64   `json:"salary_max"`
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	Skills      []string  `json:"skills,omitempty"`
	PostedAt    time.Time `json:"posted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JobWithCount extends Job with the number of applications referencing it,
// used by the public listing.
type JobWithCount struct {
	Job
	ApplicationCount int64 `json:"application_count"`
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	FetchWithCount(ctx context.Context, limit, offset int) ([]JobWithCount, int64, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id int64) error
}

type JobUsecase interface {
	CreateJob(ctx context.Context, actor Actor, job *Job) error
	GetJobDetails(ctx context.Context, id int64) (*Job, error)
	ListJobs(ctx context.Context, page, pageSize int) ([]JobWithCount, int64, error)
	UpdateJob(ctx context.Context, actor Actor, job *Job) error
	DeleteJob(ctx context.Context, actor Actor, id int64) error
}
