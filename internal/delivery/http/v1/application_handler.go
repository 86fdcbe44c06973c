package v1

import (
	"io"
	"net/http"
	"strconv"

	"github.com/rajayush01/JobBoard/internal/delivery/http/middleware"
	"github.com/rajayush01/JobBoard/internal/delivery/http/response"
	"github.com/rajayush01/JobBoard/internal/domain"
	"github.com/rajayush01/JobBoard/pkg/apperror"
	"github.com/rajayush01/JobBoard/pkg/logger"
	"github.com/rajayush01/JobBoard/pkg/security"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewApplicationHandler registers application routes under /applications.
func NewApplicationHandler(r *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	applications := r.Group("/applications")
	{
		// Jobseeker routes
		applications.POST("/apply/:jobId", middleware.RequireRole(domain.RoleJobseeker), handler.Apply)
		applications.GET("/my-applications", middleware.RequireRole(domain.RoleJobseeker), handler.MyApplications)

		// Employer routes
		applications.GET("/job/:jobId", middleware.RequireRole(domain.RoleEmployer), handler.ListJobApplications)
		applications.PATCH("/:applicationId/status", middleware.RequireRole(domain.RoleEmployer), handler.UpdateStatus)

		// Either side, checked against the record
		applications.GET("/:applicationId", handler.GetByID)
		applications.GET("/:applicationId/resume", handler.DownloadResume)
		applications.DELETE("/:applicationId", middleware.RequireRole(domain.RoleJobseeker), handler.Delete)
	}
}

// Apply handles the multipart submission: form fields plus the resume file.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	jobID, err := strconv.ParseInt(c.Param("jobId"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid job ID"))
		return
	}

	in := domain.ApplyInput{
		FullName:    c.PostForm("fullName"),
		Email:       c.PostForm("email"),
		Phone:       c.PostForm("phone"),
		Experience:  c.PostForm("experience"),
		Education:   c.PostForm("education"),
		CoverLetter: c.PostForm("coverLetter"),
	}

	fileHeader, err := c.FormFile("resume")
	if err == nil {
		if fileHeader.Size > security.MaxResumeSize {
			c.Error(apperror.BadRequest("File too large. Maximum size is 5MB."))
			return
		}
		f, openErr := fileHeader.Open()
		if openErr != nil {
			c.Error(apperror.Internal(openErr))
			return
		}
		defer f.Close()

		data, readErr := io.ReadAll(io.LimitReader(f, security.MaxResumeSize+1))
		if readErr != nil {
			c.Error(apperror.Internal(readErr))
			return
		}
		if int64(len(data)) > security.MaxResumeSize {
			c.Error(apperror.BadRequest("File too large. Maximum size is 5MB."))
			return
		}
		in.Resume = domain.ResumeUpload{Filename: fileHeader.Filename, Data: data}
	}

	app, err := h.applicationUC.Apply(c.Request.Context(), middleware.Actor(c), jobID, in)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application submitted successfully!", app)
}

// MyApplications returns the acting jobseeker's applications page.
func (h *ApplicationHandler) MyApplications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := c.Query("status")

	result, err := h.applicationUC.ListMine(c.Request.Context(), middleware.Actor(c), status, page, limit)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", result)
}

// ListJobApplications returns one page of applications for a job the acting
// employer owns.
func (h *ApplicationHandler) ListJobApplications(c *gin.Context) {
	jobID, err := strconv.ParseInt(c.Param("jobId"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid job ID"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := c.Query("status")

	result, err := h.applicationUC.ListForJob(c.Request.Context(), middleware.Actor(c), jobID, status, page, limit)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", result)
}

// UpdateStatusRequest is the request payload for updating application status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus transitions an application's status (owning employer only).
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("applicationId"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid status"))
		return
	}

	app, err := h.applicationUC.UpdateStatus(c.Request.Context(), middleware.Actor(c), id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application status updated successfully", gin.H{
		"id":           app.ID,
		"status":       app.Status,
		"last_updated": app.LastUpdated,
	})
}

// GetByID returns a single application to its applicant or the owning employer.
func (h *ApplicationHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("applicationId"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	app, err := h.applicationUC.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application retrieved", app)
}

// DownloadResume streams the stored resume under the same access rule as GetByID.
func (h *ApplicationHandler) DownloadResume(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("applicationId"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	rc, name, err := h.applicationUC.OpenResume(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Header("Content-Type", "application/octet-stream")
	// Headers are already sent; a copy failure here can only be logged
	if _, err := io.Copy(c.Writer, rc); err != nil {
		logger.Log.Error("Failed to stream resume", "error", err)
	}
}

// Delete withdraws an application within the 24-hour window.
func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("applicationId"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	if err := h.applicationUC.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application deleted successfully", nil)
}
