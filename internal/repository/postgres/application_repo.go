package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/rajayush01/JobBoard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create inserts a new application. The unique constraint on
// (job_id, applicant_id) is the authoritative duplicate guard: a violation
// surfaces as domain.ErrDuplicateApplication even when two submissions race
// past the Exists pre-check.
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (job_id, applicant_id, full_name, email, phone, experience, education, resume_ref, cover_letter, status, applied_at, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	now := time.Now()
	app.AppliedAt = now
	app.LastUpdated = now
	if app.Status == "" {
		app.Status = domain.ApplicationStatusPending
	}

	err := r.db.QueryRow(ctx, query,
		app.JobID,
		app.ApplicantID,
		app.FullName,
		app.Email,
		app.Phone,
		app.Experience,
		app.Education,
		app.ResumeRef,
		app.CoverLetter,
		app.Status,
		app.AppliedAt,
		app.LastUpdated,
	).Scan(&app.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrDuplicateApplication
	}
	return err
}

// GetByID retrieves an application by ID with joined job and applicant data
func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	query := `
		SELECT
			a.id, a.job_id, a.applicant_id, a.full_name, a.email, a.phone,
			a.experience, a.education, a.resume_ref, a.cover_letter, a.status,
			a.applied_at, a.last_updated,
			j.title AS job_title,
			j.company AS job_company,
			u.name AS applicant_name,
			u.email AS applicant_email
		FROM applications a
		LEFT JOIN jobs j ON a.job_id = j.id
		LEFT JOIN users u ON a.applicant_id = u.id
		WHERE a.id = $1`

	var app domain.Application
	err := r.db.QueryRow(ctx, query, id).Scan(
		&app.ID, &app.JobID, &app.ApplicantID, &app.FullName, &app.Email, &app.Phone,
		&app.Experience, &app.Education, &app.ResumeRef, &app.CoverLetter, &app.Status,
		&app.AppliedAt, &app.LastUpdated,
		&app.JobTitle, &app.JobCompany, &app.ApplicantName, &app.ApplicantEmail,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// FetchByApplicant retrieves a page of the applicant's applications with job
// titles, newest first, optionally filtered by status. The returned total is
// the filtered count across all pages.
func (r *applicationRepo) FetchByApplicant(ctx context.Context, applicantID int64, status string, limit, offset int) ([]domain.Application, int64, error) {
	query := `
		SELECT
			a.id, a.job_id, a.applicant_id, a.full_name, a.email, a.phone,
			a.experience, a.education, a.resume_ref, a.cover_letter, a.status,
			a.applied_at, a.last_updated,
			j.title AS job_title,
			j.company AS job_company
		FROM applications a
		LEFT JOIN jobs j ON a.job_id = j.id
		WHERE a.applicant_id = $1 AND ($2 = '' OR a.status = $2)
		ORDER BY a.applied_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, query, applicantID, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var applications []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(
			&app.ID, &app.JobID, &app.ApplicantID, &app.FullName, &app.Email, &app.Phone,
			&app.Experience, &app.Education, &app.ResumeRef, &app.CoverLetter, &app.Status,
			&app.AppliedAt, &app.LastUpdated,
			&app.JobTitle, &app.JobCompany,
		); err != nil {
			return nil, 0, err
		}
		applications = append(applications, app)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM applications WHERE applicant_id = $1 AND ($2 = '' OR status = $2)`
	if err := r.db.QueryRow(ctx, countQuery, applicantID, status).Scan(&total); err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}

// FetchByJob retrieves a page of a job's applications with applicant data,
// newest first, optionally filtered by status.
func (r *applicationRepo) FetchByJob(ctx context.Context, jobID int64, status string, limit, offset int) ([]domain.Application, int64, error) {
	query := `
		SELECT
			a.id, a.job_id, a.applicant_id, a.full_name, a.email, a.phone,
			a.experience, a.education, a.resume_ref, a.cover_letter, a.status,
			a.applied_at, a.last_updated,
			u.name AS applicant_name,
			u.email AS applicant_email
		FROM applications a
		LEFT JOIN users u ON a.applicant_id = u.id
		WHERE a.job_id = $1 AND ($2 = '' OR a.status = $2)
		ORDER BY a.applied_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, query, jobID, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var applications []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(
			&app.ID, &app.JobID, &app.ApplicantID, &app.FullName, &app.Email, &app.Phone,
			&app.Experience, &app.Education, &app.ResumeRef, &app.CoverLetter, &app.Status,
			&app.AppliedAt, &app.LastUpdated,
			&app.ApplicantName, &app.ApplicantEmail,
		); err != nil {
			return nil, 0, err
		}
		applications = append(applications, app)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM applications WHERE job_id = $1 AND ($2 = '' OR status = $2)`
	if err := r.db.QueryRow(ctx, countQuery, jobID, status).Scan(&total); err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}

// Exists checks if an application already exists for the job/applicant pair.
// This is an optimization for a friendlier early error only; Create remains
// the correctness guarantee.
func (r *applicationRepo) Exists(ctx context.Context, jobID, applicantID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND applicant_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, jobID, applicantID).Scan(&exists)
	return exists, err
}

// UpdateStatus updates the status of an application and returns the
// refreshed last_updated timestamp.
func (r *applicationRepo) UpdateStatus(ctx context.Context, id int64, status string) (time.Time, error) {
	query := `UPDATE applications SET status = $2, last_updated = $3 WHERE id = $1 RETURNING last_updated`
	var lastUpdated time.Time
	err := r.db.QueryRow(ctx, query, id, status, time.Now()).Scan(&lastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, domain.ErrNotFound
	}
	if err != nil {
		return time.Time{}, err
	}
	return lastUpdated, nil
}

func (r *applicationRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
