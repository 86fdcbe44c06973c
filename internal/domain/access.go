package domain

// CanViewApplication reports whether the actor may read an application or
// its resume: the applicant themselves, or the employer owning the job.
func CanViewApplication(actor Actor, app *Application, jobOwner int64) bool {
	if actor.ID == app.ApplicantID {
		return true
	}
	return actor.Role == RoleEmployer && actor.ID == jobOwner
}

// CanModifyApplication reports whether the actor may transition an
// application's status. Only the employer owning the job qualifies.
func CanModifyApplication(actor Actor, jobOwner int64) bool {
	return actor.Role == RoleEmployer && actor.ID == jobOwner
}

// CanWithdrawApplication reports whether the actor may delete an
// application. Only the applicant may withdraw; the time window is checked
// separately by the usecase.
func CanWithdrawApplication(actor Actor, app *Application) bool {
	return actor.ID == app.ApplicantID
}
