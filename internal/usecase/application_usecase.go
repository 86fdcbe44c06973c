package usecase

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"time"

	"github.com/rajayush01/JobBoard/internal/domain"
	"github.com/rajayush01/JobBoard/pkg/apperror"
	"github.com/rajayush01/JobBoard/pkg/logger"
	"github.com/rajayush01/JobBoard/pkg/security"
	"github.com/rajayush01/JobBoard/pkg/storage"

	"github.com/go-playground/validator/v10"
)

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	jobRepo         domain.JobRepository
	resumes         storage.ResumeStore
	validate        *validator.Validate
	now             func() time.Time
}

// NewApplicationUsecase creates the application lifecycle engine.
func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	resumes storage.ResumeStore,
	validate *validator.Validate,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: appRepo,
		jobRepo:         jobRepo,
		resumes:         resumes,
		validate:        validate,
		now:             time.Now,
	}
}

// Apply submits an application for a job on behalf of a jobseeker.
// The resume file is persisted only after every validation passes, and is
// deleted again if the record insert fails, so a rejected or failed
// submission never leaves a stray file behind.
func (uc *applicationUsecase) Apply(ctx context.Context, actor domain.Actor, jobID int64, in domain.ApplyInput) (*domain.Application, error) {
	if actor.Role != domain.RoleJobseeker {
		return nil, apperror.Forbidden("Only jobseekers can apply to jobs")
	}

	// 1. Field validation
	if err := uc.validate.Struct(in); err != nil {
		return nil, apperror.BadRequest("Full name, email, and experience are required")
	}
	if !domain.ValidExperienceRange(in.Experience) {
		return nil, apperror.BadRequest("Invalid experience range")
	}
	if !domain.ValidEducationLevel(in.Education) {
		return nil, apperror.BadRequest("Invalid education level")
	}
	if len(in.CoverLetter) > domain.MaxCoverLetterLen {
		return nil, apperror.BadRequest("Cover letter must be at most 2000 characters")
	}

	// 2. Resume file is required and must pass type/size policy before
	// anything is written anywhere.
	if len(in.Resume.Data) == 0 {
		return nil, apperror.BadRequest("Resume file is required")
	}
	if res := security.ValidateResumeFile(in.Resume.Filename, in.Resume.Data); !res.Valid {
		return nil, apperror.BadRequest(res.Error)
	}

	// 3. Referenced job must exist
	if _, err := uc.jobRepo.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}

	// 4. Duplicate pre-check. Friendlier error only; the unique constraint
	// in Create is what actually decides races.
	exists, err := uc.applicationRepo.Exists(ctx, jobID, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.BadRequest("You have already applied for this job")
	}

	// 5. Persist the resume, then the record
	ref, err := uc.resumes.Save(ctx, in.Resume.Filename, in.Resume.Data)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	app := &domain.Application{
		JobID:       jobID,
		ApplicantID: actor.ID,
		FullName:    strings.TrimSpace(in.FullName),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:       strings.TrimSpace(in.Phone),
		Experience:  in.Experience,
		Education:   in.Education,
		ResumeRef:   ref,
		CoverLetter: strings.TrimSpace(in.CoverLetter),
		Status:      domain.ApplicationStatusPending,
	}

	if err := uc.applicationRepo.Create(ctx, app); err != nil {
		// Roll back the stored file so nothing orphaned remains
		if delErr := uc.resumes.Delete(ctx, ref); delErr != nil {
			logger.Log.Error("Failed to roll back resume file", "ref", ref, "error", delErr)
		}
		if errors.Is(err, domain.ErrDuplicateApplication) {
			return nil, apperror.BadRequest("You have already applied for this job")
		}
		return nil, apperror.Internal(err)
	}

	return app, nil
}

// ListMine returns a page of the acting jobseeker's own applications.
func (uc *applicationUsecase) ListMine(ctx context.Context, actor domain.Actor, status string, page, limit int) (*domain.ApplicationPage, error) {
	if status != "" && !domain.ValidApplicationStatus(status) {
		return nil, apperror.BadRequest("Invalid status filter")
	}
	page, limit = normalizePage(page, limit)

	apps, total, err := uc.applicationRepo.FetchByApplicant(ctx, actor.ID, status, limit, (page-1)*limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return buildPage(apps, total, page, limit), nil
}

// ListForJob returns a page of applications for a job the acting employer owns.
func (uc *applicationUsecase) ListForJob(ctx context.Context, actor domain.Actor, jobID int64, status string, page, limit int) (*domain.ApplicationPage, error) {
	if status != "" && !domain.ValidApplicationStatus(status) {
		return nil, apperror.BadRequest("Invalid status filter")
	}

	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}
	if !domain.CanModifyApplication(actor, job.Employer) {
		return nil, apperror.Forbidden("Access denied")
	}

	page, limit = normalizePage(page, limit)
	apps, total, err := uc.applicationRepo.FetchByJob(ctx, jobID, status, limit, (page-1)*limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return buildPage(apps, total, page, limit), nil
}

// Get returns a single application to its applicant or the owning employer.
func (uc *applicationUsecase) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Application, error) {
	app, jobOwner, err := uc.loadWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanViewApplication(actor, app, jobOwner) {
		return nil, apperror.Forbidden("Access denied")
	}
	return app, nil
}

// OpenResume streams the stored resume file under the same access rule as Get.
func (uc *applicationUsecase) OpenResume(ctx context.Context, actor domain.Actor, id int64) (io.ReadCloser, string, error) {
	app, jobOwner, err := uc.loadWithOwner(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !domain.CanViewApplication(actor, app, jobOwner) {
		return nil, "", apperror.Forbidden("Access denied")
	}

	rc, err := uc.resumes.Open(ctx, app.ResumeRef)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	return rc, app.ResumeRef, nil
}

// UpdateStatus sets a new status on the application. Any enumerated status
// may follow any other; there is no transition graph.
func (uc *applicationUsecase) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, status string) (*domain.Application, error) {
	if !domain.ValidApplicationStatus(status) {
		return nil, apperror.BadRequest("Invalid status")
	}

	app, jobOwner, err := uc.loadWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanModifyApplication(actor, jobOwner) {
		return nil, apperror.Forbidden("Access denied")
	}

	lastUpdated, err := uc.applicationRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}

	app.Status = status
	app.LastUpdated = lastUpdated
	return app, nil
}

// Delete withdraws an application. Only the applicant may withdraw, and only
// within 24 hours of submission. Current status is deliberately not checked;
// the backend rule is purely time-based. The resume file removal is
// best-effort: a failed file delete is logged but never blocks removing the
// record.
func (uc *applicationUsecase) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	app, err := uc.applicationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Application not found")
		}
		return apperror.Internal(err)
	}

	if !domain.CanWithdrawApplication(actor, app) {
		return apperror.Forbidden("Access denied")
	}

	if uc.now().Sub(app.AppliedAt) > domain.DeletionWindow {
		return apperror.BadRequest("Applications can only be deleted within 24 hours of submission")
	}

	if err := uc.resumes.Delete(ctx, app.ResumeRef); err != nil {
		logger.Log.Error("Failed to delete resume file", "ref", app.ResumeRef, "error", err)
	}

	if err := uc.applicationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Application not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

// loadWithOwner fetches an application together with the employer id of its
// job, which every ownership predicate needs.
func (uc *applicationUsecase) loadWithOwner(ctx context.Context, id int64) (*domain.Application, int64, error) {
	app, err := uc.applicationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, apperror.NotFound("Application not found")
		}
		return nil, 0, apperror.Internal(err)
	}

	job, err := uc.jobRepo.GetByID(ctx, app.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Job vanished out from under the application; nobody but the
			// applicant can claim ownership then.
			return app, 0, nil
		}
		return nil, 0, apperror.Internal(err)
	}
	return app, job.Employer, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

func buildPage(apps []domain.Application, total int64, page, limit int) *domain.ApplicationPage {
	if apps == nil {
		apps = []domain.Application{}
	}
	return &domain.ApplicationPage{
		Applications:      apps,
		CurrentPage:       page,
		TotalPages:        int(math.Ceil(float64(total) / float64(limit))),
		TotalApplications: total,
	}
}
