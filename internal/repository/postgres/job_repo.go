package postgres

import (
	"context"
	"errors"

	"github.com/rajayush01/JobBoard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (employer_id, title, company, location, type, experience, salary_min, salary_max, currency, description, skills, posted_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		job.Employer, job.Title, job.Company, job.Location, job.Type, job.Experience,
		job.SalaryMin, job.SalaryMax, job.Currency, job.Description, job.Skills,
		job.PostedAt, job.UpdatedAt,
	).Scan(&job.ID)
	return err
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	query := `SELECT id, employer_id, title, company, location, type, experience, salary_min, salary_max, currency, description, skills, posted_at, updated_at FROM jobs WHERE id = $1`
	var job domain.Job
	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.Employer, &job.Title, &job.Company, &job.Location, &job.Type, &job.Experience,
		&job.SalaryMin, &job.SalaryMax, &job.Currency, &job.Description, &job.Skills,
		&job.PostedAt, &job.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// FetchWithCount retrieves jobs newest first, each with the number of
// applications referencing it.
func (r *jobRepo) FetchWithCount(ctx context.Context, limit, offset int) ([]domain.JobWithCount, int64, error) {
	query := `
		SELECT
			j.id, j.employer_id, j.title, j.company, j.location, j.type, j.experience,
			j.salary_min, j.salary_max, j.currency, j.description, j.skills,
			j.posted_at, j.updated_at,
			COUNT(a.id) AS application_count
		FROM jobs j
		LEFT JOIN applications a ON a.job_id = j.id
		GROUP BY j.id
		ORDER BY j.posted_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []domain.JobWithCount
	for rows.Next() {
		var job domain.JobWithCount
		if err := rows.Scan(
			&job.ID, &job.Employer, &job.Title, &job.Company, &job.Location, &job.Type, &job.Experience,
			&job.SalaryMin, &job.SalaryMax, &job.Currency, &job.Description, &job.Skills,
			&job.PostedAt, &job.UpdatedAt,
			&job.ApplicationCount,
		); err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `UPDATE jobs SET title = $2, company = $3, location = $4, type = $5, experience = $6, salary_min = $7, salary_max = $8, currency = $9, description = $10, skills = $11, updated_at = $12 WHERE id = $1`
	result, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Company, job.Location, job.Type, job.Experience,
		job.SalaryMin, job.SalaryMax, job.Currency, job.Description, job.Skills,
		job.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
