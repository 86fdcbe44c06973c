package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rajayush01/JobBoard/internal/domain"
	"github.com/rajayush01/JobBoard/pkg/apperror"
)

type jobUsecase struct {
	jobRepo domain.JobRepository
}

func NewJobUsecase(jobRepo domain.JobRepository) domain.JobUsecase {
	return &jobUsecase{jobRepo: jobRepo}
}

func (u *jobUsecase) CreateJob(ctx context.Context, actor domain.Actor, job *domain.Job) error {
	if actor.Role != domain.RoleEmployer {
		return apperror.Forbidden("Access denied: Employers only")
	}

	// Business Validation
	if job.Title == "" {
		return apperror.BadRequest("Title is required")
	}
	if job.SalaryMin > job.SalaryMax {
		return apperror.BadRequest("SalaryMin cannot be greater than SalaryMax")
	}

	job.Employer = actor.ID
	if job.Currency == "" {
		job.Currency = "USD"
	}
	job.PostedAt = time.Now()
	job.UpdatedAt = time.Now()

	return u.jobRepo.Create(ctx, job)
}

func (u *jobUsecase) GetJobDetails(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}
	return job, nil
}

// ListJobs returns jobs newest first, each carrying its application count.
func (u *jobUsecase) ListJobs(ctx context.Context, page, pageSize int) ([]domain.JobWithCount, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	return u.jobRepo.FetchWithCount(ctx, pageSize, offset)
}

// UpdateJob requires the employer role. Ownership of the individual job is
// not checked.
func (u *jobUsecase) UpdateJob(ctx context.Context, actor domain.Actor, job *domain.Job) error {
	if actor.Role != domain.RoleEmployer {
		return apperror.Forbidden("Access denied: Employers only")
	}

	if job.Title == "" {
		return apperror.BadRequest("Title is required")
	}
	if job.SalaryMin > job.SalaryMax {
		return apperror.BadRequest("SalaryMin cannot be greater than SalaryMax")
	}

	job.UpdatedAt = time.Now()

	err := u.jobRepo.Update(ctx, job)
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound("Job not found")
	}
	return err
}

// DeleteJob requires the employer role. Ownership of the individual job is
// not checked.
func (u *jobUsecase) DeleteJob(ctx context.Context, actor domain.Actor, id int64) error {
	if actor.Role != domain.RoleEmployer {
		return apperror.Forbidden("Access denied: Employers only")
	}

	err := u.jobRepo.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound("Job not found")
	}
	return err
}
