package domain_test

import (
	"testing"

	"github.com/rajayush01/JobBoard/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCanViewApplication(t *testing.T) {
	app := &domain.Application{ID: 1, JobID: 2, ApplicantID: 10}

	applicant := domain.Actor{ID: 10, Role: domain.RoleJobseeker}
	owningEmployer := domain.Actor{ID: 20, Role: domain.RoleEmployer}
	otherEmployer := domain.Actor{ID: 21, Role: domain.RoleEmployer}
	otherSeeker := domain.Actor{ID: 11, Role: domain.RoleJobseeker}

	assert.True(t, domain.CanViewApplication(applicant, app, 20))
	assert.True(t, domain.CanViewApplication(owningEmployer, app, 20))
	assert.False(t, domain.CanViewApplication(otherEmployer, app, 20))
	assert.False(t, domain.CanViewApplication(otherSeeker, app, 20))

	// A jobseeker whose id happens to match the job owner gains nothing:
	// the employer branch checks the role too.
	impostor := domain.Actor{ID: 20, Role: domain.RoleJobseeker}
	assert.False(t, domain.CanViewApplication(impostor, app, 20))
}

func TestCanModifyApplication(t *testing.T) {
	assert.True(t, domain.CanModifyApplication(domain.Actor{ID: 20, Role: domain.RoleEmployer}, 20))
	assert.False(t, domain.CanModifyApplication(domain.Actor{ID: 21, Role: domain.RoleEmployer}, 20))
	assert.False(t, domain.CanModifyApplication(domain.Actor{ID: 20, Role: domain.RoleJobseeker}, 20))
}

func TestCanWithdrawApplication(t *testing.T) {
	app := &domain.Application{ID: 1, ApplicantID: 10}

	assert.True(t, domain.CanWithdrawApplication(domain.Actor{ID: 10, Role: domain.RoleJobseeker}, app))
	assert.False(t, domain.CanWithdrawApplication(domain.Actor{ID: 11, Role: domain.RoleJobseeker}, app))
	assert.False(t, domain.CanWithdrawApplication(domain.Actor{ID: 20, Role: domain.RoleEmployer}, app))
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, domain.ValidApplicationStatus("pending"))
	assert.True(t, domain.ValidApplicationStatus("rejected"))
	assert.False(t, domain.ValidApplicationStatus("hired"))
	assert.False(t, domain.ValidApplicationStatus(""))

	assert.True(t, domain.ValidExperienceRange("9+"))
	assert.False(t, domain.ValidExperienceRange("10-12"))

	// Education is optional
	assert.True(t, domain.ValidEducationLevel(""))
	assert.True(t, domain.ValidEducationLevel("phd"))
	assert.False(t, domain.ValidEducationLevel("bootcamp"))
}
