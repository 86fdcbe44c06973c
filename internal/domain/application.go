package domain

import (
	"context"
	"io"
	"time"
)

// Application status constants. The set is flat: any status may follow any
// other via UpdateStatus, there is no enforced progression.
const (
	ApplicationStatusPending     = "pending"
	ApplicationStatusReviewed    = "reviewed"
	ApplicationStatusInterviewed = "interviewed"
	ApplicationStatusAccepted    = "accepted"
	ApplicationStatusRejected    = "rejected"
)

// MaxCoverLetterLen is the upper bound for the free-text cover letter.
const MaxCoverLetterLen = 2000

// DeletionWindow is how long after submission an applicant may withdraw.
const DeletionWindow = 24 * time.Hour

var validStatuses = map[string]bool{
	ApplicationStatusPending:     true,
	ApplicationStatusReviewed:    true,
	ApplicationStatusInterviewed: true,
	ApplicationStatusAccepted:    true,
	ApplicationStatusRejected:    true,
}

var validExperience = map[string]bool{
	"0-1": true,
	"2-3": true,
	"4-5": true,
	"6-8": true,
	"9+":  true,
}

var validEducation = map[string]bool{
	"high-school": true,
	"associate":   true,
	"bachelor":    true,
	"master":      true,
	"phd":         true,
}

func ValidApplicationStatus(s string) bool { return validStatuses[s] }

func ValidExperienceRange(s string) bool { return validExperience[s] }

// ValidEducationLevel accepts the empty string: education is optional.
func ValidEducationLevel(s string) bool { return s == "" || validEducation[s] }

// Application represents a jobseeker's application to a job posting.
// JobID, ApplicantID, ResumeRef and AppliedAt are immutable after creation.
type Application struct {
	ID          int64     `json:"id"`
	JobID       int64     `json:"job_id"`
	ApplicantID int64     `json:"applicant_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Experience  string    `json:"experience"`
	Education   string    `json:"education,omitempty"`
	ResumeRef   string    `json:"resume_ref"`
	CoverLetter string    `json:"cover_letter,omitempty"`
	Status      string    `json:"status"`
	AppliedAt   time.Time `json:"applied_at"`
	LastUpdated time.Time `json:"last_updated"`

	// Joined data for list responses
	JobTitle       *string `json:"job_title,omitempty"`
	JobCompany     *string `json:"job_company,omitempty"`
	ApplicantName  *string `json:"applicant_name,omitempty"`
	ApplicantEmail *string `json:"applicant_email,omitempty"`
}

// ApplicationPage is the pagination envelope for application listings.
// Field names mirror what the frontend consumes.
type ApplicationPage struct {
	Applications      []Application `json:"applications"`
	CurrentPage       int           `json:"currentPage"`
	TotalPages        int           `json:"totalPages"`
	TotalApplications int64         `json:"totalApplications"`
}

// ResumeUpload carries the uploaded resume file through the apply operation.
type ResumeUpload struct {
	Filename string
	Data     []byte
}

// ApplyInput is the validated payload for submitting an application.
type ApplyInput struct {
	FullName    string `validate:"required"`
	Email       string `validate:"required,email"`
	Phone       string `validate:"omitempty,valid_phone"`
	Experience  string `validate:"required"`
	Education   string
	CoverLetter string
	Resume      ResumeUpload
}

// ApplicationRepository defines data access for applications. Create must
// surface a unique-constraint violation on (job_id, applicant_id) as
// ErrDuplicateApplication; the constraint, not a pre-check, is the
// authoritative duplicate guard.
type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	FetchByApplicant(ctx context.Context, applicantID int64, status string, limit, offset int) ([]Application, int64, error)
	FetchByJob(ctx context.Context, jobID int64, status string, limit, offset int) ([]Application, int64, error)
	Exists(ctx context.Context, jobID, applicantID int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status string) (time.Time, error)
	Delete(ctx context.Context, id int64) error
}

// ApplicationUsecase is the application lifecycle engine: every rule about
// who may create, view, transition or delete an application lives behind it.
type ApplicationUsecase interface {
	Apply(ctx context.Context, actor Actor, jobID int64, in ApplyInput) (*Application, error)
	ListMine(ctx context.Context, actor Actor, status string, page, limit int) (*ApplicationPage, error)
	ListForJob(ctx context.Context, actor Actor, jobID int64, status string, page, limit int) (*ApplicationPage, error)
	Get(ctx context.Context, actor Actor, id int64) (*Application, error)
	OpenResume(ctx context.Context, actor Actor, id int64) (io.ReadCloser, string, error)
	UpdateStatus(ctx context.Context, actor Actor, id int64, status string) (*Application, error)
	Delete(ctx context.Context, actor Actor, id int64) error
}
