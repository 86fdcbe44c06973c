package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/rajayush01/JobBoard/internal/domain"
	"github.com/rajayush01/JobBoard/internal/usecase"
	"github.com/rajayush01/JobBoard/pkg/logger"
	"github.com/rajayush01/JobBoard/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// Mock Repositories

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) FetchByApplicant(ctx context.Context, applicantID int64, status string, limit, offset int) ([]domain.Application, int64, error) {
	args := m.Called(ctx, applicantID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Application), args.Get(1).(int64), args.Error(2)
}

func (m *MockApplicationRepo) FetchByJob(ctx context.Context, jobID int64, status string, limit, offset int) ([]domain.Application, int64, error) {
	args := m.Called(ctx, jobID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Application), args.Get(1).(int64), args.Error(2)
}

func (m *MockApplicationRepo) Exists(ctx context.Context, jobID, applicantID int64) (bool, error) {
	args := m.Called(ctx, jobID, applicantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id int64, status string) (time.Time, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockApplicationRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepo) FetchWithCount(ctx context.Context, limit, offset int) ([]domain.JobWithCount, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.JobWithCount), args.Get(1).(int64), args.Error(2)
}

func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockResumeStore struct {
	mock.Mock
}

func (m *MockResumeStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	args := m.Called(ctx, filename, data)
	return args.String(0), args.Error(1)
}

func (m *MockResumeStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockResumeStore) Delete(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

// Test fixtures

var (
	jobseeker     = domain.Actor{ID: 10, Role: domain.RoleJobseeker}
	owner         = domain.Actor{ID: 20, Role: domain.RoleEmployer}
	otherEmployer = domain.Actor{ID: 21, Role: domain.RoleEmployer}
)

func newValidator() *validator.Validate {
	v := validator.New()
	validation.RegisterValidators(v)
	return v
}

func pdfResume() domain.ResumeUpload {
	return domain.ResumeUpload{
		Filename: "resume.pdf",
		Data:     []byte("%PDF-1.4 fake resume content"),
	}
}

func validApplyInput() domain.ApplyInput {
	return domain.ApplyInput{
		FullName:   "Jane Doe",
		Email:      "Jane@Example.com",
		Phone:      "+12025550123",
		Experience: "2-3",
		Resume:     pdfResume(),
	}
}

func TestApplyValidation(t *testing.T) {
	appRepo := new(MockApplicationRepo)
	jobRepo := new(MockJobRepo)
	resumes := new(MockResumeStore)
	uc := usecase.NewApplicationUsecase(appRepo, jobRepo, resumes, newValidator())
	ctx := context.Background()

	t.Run("Should reject employers", func(t *testing.T) {
		_, err := uc.Apply(ctx, owner, 1, validApplyInput())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Only jobseekers")
	})

	t.Run("Should reject missing required fields", func(t *testing.T) {
		in := validApplyInput()
		in.FullName = ""
		_, err := uc.Apply(ctx, jobseeker, 1, in)
		assert.Error(t, err)
	})

	t.Run("Should reject unknown experience range", func(t *testing.T) {
		in := validApplyInput()
		in.Experience = "20+"
		_, err := uc.Apply(ctx, jobseeker, 1, in)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "experience")
	})

	t.Run("Should reject over-long cover letter", func(t *testing.T) {
		in := validApplyInput()
		in.CoverLetter = string(bytes.Repeat([]byte("a"), domain.MaxCoverLetterLen+1))
		_, err := uc.Apply(ctx, jobseeker, 1, in)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "2000")
	})

	t.Run("Should require a resume file", func(t *testing.T) {
		in := validApplyInput()
		in.Resume = domain.ResumeUpload{}
		_, err := uc.Apply(ctx, jobseeker, 1, in)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Resume file is required")
	})

	t.Run("Should reject a spoofed file before any write", func(t *testing.T) {
		in := validApplyInput()
		in.Resume = domain.ResumeUpload{Filename: "evil.pdf", Data: []byte("MZ executable bytes")}
		_, err := uc.Apply(ctx, jobseeker, 1, in)
		assert.Error(t, err)
		resumes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestApplyJobMustExist(t *testing.T) {
	appRepo := new(MockApplicationRepo)
	jobRepo := new(MockJobRepo)
	resumes := new(MockResumeStore)
	uc := usecase.NewApplicationUsecase(appRepo, jobRepo, resumes, newValidator())
	ctx := context.Background()

	jobRepo.On("GetByID", ctx, int64(404)).Return(nil, domain.ErrNotFound)

	_, err := uc.Apply(ctx, jobseeker, 404, validApplyInput())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Job not found")
	resumes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyDuplicate(t *testing.T) {
	ctx := context.Background()
	job := &domain.Job{ID: 1, Employer: owner.ID, Title: "Go Engineer"}

	t.Run("Pre-check catches an existing application", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		jobRepo := new(MockJobRepo)
		resumes := new(MockResumeStore)
		uc := usecase.NewApplicationUsecase(appRepo, jobRepo, resumes, newValidator())

		jobRepo.On("GetByID", ctx, int64(1)).Return(job, nil)
		appRepo.On("Exists", ctx, int64(1), jobseeker.ID).Return(true, nil)

		_, err := uc.Apply(ctx, jobseeker, 1, validApplyInput())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already applied")
		resumes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unique constraint decides the race and rolls back the file", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		jobRepo := new(MockJobRepo)
		resumes := new(MockResumeStore)
		uc := usecase.NewApplicationUsecase(appRepo, jobRepo, resumes, newValidator())

		jobRepo.On("GetByID", ctx, int64(1)).Return(job, nil)
		appRepo.On("Exists", ctx, int64(1), jobseeker.ID).Return(false, nil)
		resumes.On("Save", ctx, "resume.pdf", mock.Anything).Return("resume-abc.pdf", nil)
		appRepo.On("Create", ctx, mock.AnythingOfType("*domain.Application")).Return(domain.ErrDuplicateApplication)
		resumes.On("Delete", ctx, "resume-abc.pdf").Return(nil)

		_, err := uc.Apply(ctx, jobseeker, 1, validApplyInput())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already applied")
		resumes.AssertCalled(t, "Delete", ctx, "resume-abc.pdf")
	})
}

func TestApplyRollbackOnInsertFailure(t *testing.T) {
	appRepo := new(MockApplicationRepo)
	jobRepo := new(MockJobRepo)
	resumes := new(MockResumeStore)
	uc := usecase.NewApplicationUsecase(appRepo, jobRepo, resumes, newValidator())
	ctx := context.Background()

	jobRepo.On("GetByID", ctx, int64(1)).Return(&domain.Job{ID: 1, Employer: owner.ID}, nil)
	appRepo.On("Exists", ctx, int64(1), jobseeker.ID).Return(false, nil)
	resumes.On("Save", ctx, "resume.pdf", mock.Anything).Return("resume-xyz.pdf", nil)
	appRepo.On("Create", ctx, mock.AnythingOfType("*domain.Application")).Return(errors.New("db down"))
	resumes.On("Delete", ctx, "resume-xyz.pdf").Return(errors.New("fs error"))

	_, err := uc.Apply(ctx, jobseeker, 1, validApplyInput())
	assert.Error(t, err)
	// Rollback is attempted even when the file delete itself fails
	resumes.AssertCalled(t, "Delete", ctx, "resume-xyz.pdf")
}

func TestApplySuccess(t *testing.T) {
	appRepo := new(MockApplicationRepo)
	jobRepo := new(MockJobRepo)
	resumes := new(MockResumeStore)
	uc := usecase.NewApplicationUsecase(appRepo, jobRepo, resumes, newValidator())
	ctx := context.Background()

	jobRepo.On("GetByID", ctx, int64(1)).Return(&domain.Job{ID: 1, Employer: owner.ID}, nil)
	appRepo.On("Exists", ctx, int64(1), jobseeker.ID).Return(false, nil)
	resumes.On("Save", ctx, "resume.pdf", mock.Anything).Return("resume-ok.pdf", nil)
	appRepo.On("Create", ctx, mock.AnythingOfType("*domain.Application")).Return(nil).Run(func(args mock.Arguments) {
		a := args.Get(1).(*domain.Application)
		assert.Equal(t, jobseeker.ID, a.ApplicantID)
		assert.Equal(t, "jane@example.com", a.Email)
		assert.Equal(t, domain.ApplicationStatusPending, a.Status)
		assert.Equal(t, "resume-ok.pdf", a.ResumeRef)
	})

	app, err := uc.Apply(ctx, jobseeker, 1, validApplyInput())
	assert.NoError(t, err)
	assert.NotNil(t, app)
	assert.Equal(t, "Jane Doe", app.FullName)
	resumes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestListStatusFilter(t *testing.T) {
	appRepo := new(MockApplicationRepo)
	jobRepo := new(MockJobRepo)
	uc := usecase.NewApplicationUsecase(appRepo, jobRepo, new(MockResumeStore), newValidator())
	ctx := context.Background()

	t.Run("Should reject an unknown status filter", func(t *testing.T) {
		_, err := uc.ListMine(ctx, jobseeker, "archived", 1, 10)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid status filter")
	})

	t.Run("Should normalize page and limit", func(t *testing.T) {
		appRepo.On("FetchByApplicant", ctx, jobseeker.ID, "", 10, 0).Return([]domain.Application{}, int64(0), nil)

		page, err := uc.ListMine(ctx, jobseeker, "", 0, -5)
		assert.NoError(t, err)
		assert.Equal(t, 1, page.CurrentPage)
		assert.Equal(t, 0, page.TotalPages)
		assert.NotNil(t, page.Applications)
	})

	t.Run("Should compute total pages from total count", func(t *testing.T) {
		appRepo.On("FetchByApplicant", ctx, jobseeker.ID, "pending", 10, 10).Return([]domain.Application{{ID: 1}}, int64(25), nil)

		page, err := uc.ListMine(ctx, jobseeker, "pending", 2, 10)
		assert.NoError(t, err)
		assert.Equal(t, 2, page.CurrentPage)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, int64(25), page.TotalApplications)
	})
}

func TestListForJobOwnership(t *testing.T) {
	ctx := context.Background()
	job := &domain.Job{ID: 1, Employer: owner.ID}

	t.Run("Should deny a non-owning employer", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		jobRepo := new(MockJobRepo)
		uc := usecase.NewApplicationUsecase(appRepo, jobRepo, new(MockResumeStore), newValidator())

		jobRepo.On("GetByID", ctx, int64(1)).Return(job, nil)

		_, err := uc.ListForJob(ctx, otherEmployer, 1, "", 1, 10)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Access denied")
		appRepo.AssertNotCalled(t, "FetchByJob", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should allow the owning employer", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		jobRepo := new(MockJobRepo)
		uc := usecase.NewApplicationUsecase(appRepo, jobRepo, new(MockResumeStore), newValidator())

		jobRepo.On("GetByID", ctx, int64(1)).Return(job, nil)
		appRepo.On("FetchByJob", ctx, int64(1), "", 10, 0).Return([]domain.Application{{ID: 7, JobID: 1}}, int64(1), nil)

		page, err := uc.ListForJob(ctx, owner, 1, "", 1, 10)
		assert.NoError(t, err)
		assert.Len(t, page.Applications, 1)
	})
}

func TestGetAccessControl(t *testing.T) {
	ctx := context.Background()
	app := &domain.Application{ID: 5, JobID: 1, ApplicantID: jobseeker.ID, ResumeRef: "resume-5.pdf"}
	job := &domain.Job{ID: 1, Employer: owner.ID}

	newUC := func() (*MockApplicationRepo, *MockJobRepo, *MockResumeStore, domain.ApplicationUsecase) {
		appRepo := new(MockApplicationRepo)
		jobRepo := new(MockJobRepo)
		resumes := new(MockResumeStore)
		return appRepo, jobRepo, resumes, usecase.NewApplicationUsecase(appRepo, jobRepo, resumes, newValidator())
	}

	t.Run("Applicant can view their own application", func(t *testing.T) {
		appRepo, jobRepo, _, uc := newUC()
		appRepo.On("GetByID", ctx, int64(5)).Return(app, nil)
		jobRepo.On("GetByID", ctx, int64(1)).Return(job, nil)

		got, err := uc.Get(ctx, jobseeker, 5)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), got.ID)
	})

	t.Run("Owning employer can view", func(t *testing.T) {
		appRepo, jobRepo, _, uc := newUC()
		appRepo.On("GetByID", ctx, int64(5)).Return(app, nil)
		jobRepo.On("GetByID", ctx, int64(1)).Return(job, nil)

		_, err := uc.Get(ctx, owner, 5)
		assert.NoError(t, err)
	})

	t.Run("Unrelated employer is denied", func(t *testing.T) {
		appRepo, jobRepo, _, uc := newUC()
		appRepo.On("GetByID", ctx, int64(5)).Return(app, nil)
		jobRepo.On("GetByID", ctx, int64(1)).Return(job, nil)

		_, err := uc.Get(ctx, otherEmployer, 5)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Access denied")
	})

	t.Run("Unrelated jobseeker is denied", func(t *testing.T) {
		appRepo, jobRepo, _, uc := newUC()
		appRepo.On("GetByID", ctx, int64(5)).Return(app, nil)
		jobRepo.On("GetByID", ctx, int64(1)).Return(job, nil)

		_, err := uc.Get(ctx, domain.Actor{ID: 99, Role: domain.RoleJobseeker}, 5)
		assert.Error(t, err)
	})

	t.Run("Only the applicant can view when the job is gone", func(t *testing.T) {
		appRepo, jobRepo, _, uc := newUC()
		appRepo.On("GetByID", ctx, int64(5)).Return(app, nil)
		jobRepo.On("GetByID", ctx, int64(1)).Return(nil, domain.ErrNotFound)

		_, err := uc.Get(ctx, jobseeker, 5)
		assert.NoError(t, err)

		_, err = uc.Get(ctx, owner, 5)
		assert.Error(t, err)
	})

	t.Run("OpenResume applies the same rule", func(t *testing.T) {
		appRepo, jobRepo, resumes, uc := newUC()
		appRepo.On("GetByID", ctx, int64(5)).Return(app, nil)
		jobRepo.On("GetByID", ctx, int64(1)).Return(job, nil)
		resumes.On("Open", ctx, "resume-5.pdf").Return(io.NopCloser(bytes.NewReader([]byte("%PDF"))), nil)

		rc, name, err := uc.OpenResume(ctx, owner, 5)
		assert.NoError(t, err)
		assert.Equal(t, "resume-5.pdf", name)
		rc.Close()

		_, _, err = uc.OpenResume(ctx, otherEmployer, 5)
		assert.Error(t, err)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	app := &domain.Application{ID: 5, JobID: 1, ApplicantID: jobseeker.ID, Status: domain.ApplicationStatusPending}
	job := &domain.Job{ID: 1, Employer: owner.ID}

	t.Run("Should reject an unknown status", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		uc := usecase.NewApplicationUsecase(appRepo, new(MockJobRepo), new(MockResumeStore), newValidator())

		_, err := uc.UpdateStatus(ctx, owner, 5, "hired")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid status")
		appRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should deny the applicant and non-owning employers", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		jobRepo := new(MockJobRepo)
		uc := usecase.NewApplicationUsecase(appRepo, jobRepo, new(MockResumeStore), newValidator())

		appRepo.On("GetByID", ctx, int64(5)).Return(app, nil)
		jobRepo.On("GetByID", ctx, int64(1)).Return(job, nil)

		_, err := uc.UpdateStatus(ctx, jobseeker, 5, domain.ApplicationStatusAccepted)
		assert.Error(t, err)

		_, err = uc.UpdateStatus(ctx, otherEmployer, 5, domain.ApplicationStatusAccepted)
		assert.Error(t, err)
		appRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Owning employer can set any enumerated status", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		jobRepo := new(MockJobRepo)
		uc := usecase.NewApplicationUsecase(appRepo, jobRepo, new(MockResumeStore), newValidator())

		updated := time.Now()
		appRepo.On("GetByID", ctx, int64(5)).Return(app, nil)
		jobRepo.On("GetByID", ctx, int64(1)).Return(job, nil)
		appRepo.On("UpdateStatus", ctx, int64(5), domain.ApplicationStatusRejected).Return(updated, nil)

		got, err := uc.UpdateStatus(ctx, owner, 5, domain.ApplicationStatusRejected)
		assert.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusRejected, got.Status)
		assert.Equal(t, updated, got.LastUpdated)
	})
}

func TestDeleteWindow(t *testing.T) {
	ctx := context.Background()

	appAgedBy := func(age time.Duration) *domain.Application {
		return &domain.Application{
			ID:          5,
			JobID:       1,
			ApplicantID: jobseeker.ID,
			ResumeRef:   "resume-5.pdf",
			Status:      domain.ApplicationStatusReviewed,
			AppliedAt:   time.Now().Add(-age),
		}
	}

	t.Run("Applicant can withdraw within 24 hours regardless of status", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		resumes := new(MockResumeStore)
		uc := usecase.NewApplicationUsecase(appRepo, new(MockJobRepo), resumes, newValidator())

		appRepo.On("GetByID", ctx, int64(5)).Return(appAgedBy(23*time.Hour), nil)
		resumes.On("Delete", ctx, "resume-5.pdf").Return(nil)
		appRepo.On("Delete", ctx, int64(5)).Return(nil)

		err := uc.Delete(ctx, jobseeker, 5)
		assert.NoError(t, err)
		resumes.AssertCalled(t, "Delete", ctx, "resume-5.pdf")
		appRepo.AssertCalled(t, "Delete", ctx, int64(5))
	})

	t.Run("Withdraw is refused after the window closes", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		resumes := new(MockResumeStore)
		uc := usecase.NewApplicationUsecase(appRepo, new(MockJobRepo), resumes, newValidator())

		appRepo.On("GetByID", ctx, int64(5)).Return(appAgedBy(25*time.Hour), nil)

		err := uc.Delete(ctx, jobseeker, 5)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "24 hours")
		appRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		resumes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Only the applicant may withdraw", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		uc := usecase.NewApplicationUsecase(appRepo, new(MockJobRepo), new(MockResumeStore), newValidator())

		appRepo.On("GetByID", ctx, int64(5)).Return(appAgedBy(time.Hour), nil)

		err := uc.Delete(ctx, owner, 5)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Access denied")
	})

	t.Run("A failed file delete does not block removing the record", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		resumes := new(MockResumeStore)
		uc := usecase.NewApplicationUsecase(appRepo, new(MockJobRepo), resumes, newValidator())

		appRepo.On("GetByID", ctx, int64(5)).Return(appAgedBy(time.Hour), nil)
		resumes.On("Delete", ctx, "resume-5.pdf").Return(errors.New("fs error"))
		appRepo.On("Delete", ctx, int64(5)).Return(nil)

		err := uc.Delete(ctx, jobseeker, 5)
		assert.NoError(t, err)
		appRepo.AssertCalled(t, "Delete", ctx, int64(5))
	})
}
