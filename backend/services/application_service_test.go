package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prashiskshan/backend/models"
	"prashiskshan/backend/testutil"
	"prashiskshan/backend/utils"
)

func applyInput(internship *models.Internship) ApplyInput {
	return ApplyInput{
		InternshipID: internship.ID.String(),
		CoverLetter:  "I would love to join.",
		Resume: models.Resume{
			URL:      "https://files.example.com/resume.pdf",
			Filename: "resume.pdf",
		},
	}
}

func TestApplyIncrementsCounter(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	poster := testutil.CreateUser(t, db, models.RoleIndustry, "Poster")
	student := testutil.CreateUser(t, db, models.RoleStudent, "Student")
	internship := testutil.CreateInternship(t, db, poster)

	app, err := svc.Apply(ctx, student, applyInput(internship))
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, app.Status)
	assert.Equal(t, student.ID, app.StudentID)
	require.NotNil(t, app.Internship)
	assert.Equal(t, "Backend Intern", app.Internship.Title)

	reloaded := testutil.Reload[models.Internship](t, db, internship.ID)
	assert.Equal(t, 1, reloaded.CurrentApplications)
}

func TestApplyRejectsSecondApplication(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	poster := testutil.CreateUser(t, db, models.RoleIndustry, "Poster")
	student := testutil.CreateUser(t, db, models.RoleStudent, "Student")
	internship := testutil.CreateInternship(t, db, poster)

	app, err := svc.Apply(ctx, student, applyInput(internship))
	require.NoError(t, err)

	_, err = svc.Withdraw(ctx, student, app.ID)
	require.NoError(t, err)

	// a withdrawn application still blocks a new one
	_, err = svc.Apply(ctx, student, applyInput(internship))
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindConflict))
	assert.Contains(t, err.Error(), "You have already applied for this internship")

	reloaded := testutil.Reload[models.Internship](t, db, internship.ID)
	assert.Equal(t, 0, reloaded.CurrentApplications)
}

func TestApplyGuards(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	poster := testutil.CreateUser(t, db, models.RoleIndustry, "Poster")
	student := testutil.CreateUser(t, db, models.RoleStudent, "Student")

	tests := []struct {
		name    string
		opts    []testutil.InternshipOption
		message string
	}{
		{"not active", []testutil.InternshipOption{testutil.WithStatus(models.InternshipPaused)}, "This internship is not accepting applications"},
		{"deadline passed", []testutil.InternshipOption{testutil.WithDeadline(time.Now().Add(-time.Hour))}, "Application deadline has passed"},
		{"full", []testutil.InternshipOption{testutil.WithCapacity(2, 2)}, "Maximum applications reached for this internship"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			internship := testutil.CreateInternship(t, db, poster, tc.opts...)
			_, err := svc.Apply(ctx, student, applyInput(internship))
			require.Error(t, err)
			assert.True(t, utils.IsKind(err, utils.KindConflict))
			assert.Contains(t, err.Error(), tc.message)

			var count int64
			db.Model(&models.Application{}).Where("internship_id = ?", internship.ID).Count(&count)
			assert.Zero(t, count)
		})
	}
}

func TestApplyUnknownInternship(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	student := testutil.CreateUser(t, db, models.RoleStudent, "Student")

	in := applyInput(&models.Internship{})
	in.InternshipID = "7a1c1a7e-9a53-4c61-8d6b-2d3c1b0b6f10"
	_, err := svc.Apply(context.Background(), student, in)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestApplyValidation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	student := testutil.CreateUser(t, db, models.RoleStudent, "Student")

	_, err := svc.Apply(context.Background(), student, ApplyInput{InternshipID: "nope"})
	require.Error(t, err)

	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.KindValidation, appErr.Kind)

	fields := map[string]bool{}
	for _, f := range appErr.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["internshipId"])
	assert.True(t, fields["coverLetter"])
	assert.True(t, fields["resume"])
}

func TestUpdateStatusByOwner(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	poster := testutil.CreateUser(t, db, models.RoleIndustry, "Poster")
	other := testutil.CreateUser(t, db, models.RoleIndustry, "Other")
	student := testutil.CreateUser(t, db, models.RoleStudent, "Student")
	internship := testutil.CreateInternship(t, db, poster)

	app, err := svc.Apply(ctx, student, applyInput(internship))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, other, app.ID, UpdateApplicationStatusInput{Status: "shortlisted"})
	assert.True(t, utils.IsKind(err, utils.KindForbidden))

	_, err = svc.UpdateStatus(ctx, poster, app.ID, UpdateApplicationStatusInput{Status: "hired"})
	require.True(t, utils.IsKind(err, utils.KindValidation))
	assert.Contains(t, err.(*utils.AppError).Fields[0].Message, "under_review")

	updated, err := svc.UpdateStatus(ctx, poster, app.ID, UpdateApplicationStatusInput{Status: "shortlisted", Feedback: "Good fit"})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationShortlisted, updated.Status)
	assert.Equal(t, "Good fit", updated.Feedback)
	require.NotNil(t, updated.ReviewedByID)
	assert.Equal(t, poster.ID, *updated.ReviewedByID)
	assert.NotNil(t, updated.ReviewedAt)

	// empty feedback keeps the stored one
	updated, err = svc.UpdateStatus(ctx, poster, app.ID, UpdateApplicationStatusInput{Status: "under_review"})
	require.NoError(t, err)
	assert.Equal(t, "Good fit", updated.Feedback)
}

func TestUpdateStatusWithdrawnIsConflict(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, models.RoleAdmin, "Admin")
	poster := testutil.CreateUser(t, db, models.RoleIndustry, "Poster")
	student := testutil.CreateUser(t, db, models.RoleStudent, "Student")
	internship := testutil.CreateInternship(t, db, poster)

	app, err := svc.Apply(ctx, student, applyInput(internship))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, admin, app.ID, UpdateApplicationStatusInput{Status: "withdrawn"})
	assert.True(t, utils.IsKind(err, utils.KindConflict))

	_, err = svc.Withdraw(ctx, student, app.ID)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, admin, app.ID, UpdateApplicationStatusInput{Status: "accepted"})
	assert.True(t, utils.IsKind(err, utils.KindConflict))
}

func TestWithdraw(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	poster := testutil.CreateUser(t, db, models.RoleIndustry, "Poster")
	student := testutil.CreateUser(t, db, models.RoleStudent, "Student")
	intruder := testutil.CreateUser(t, db, models.RoleStudent, "Intruder")
	internship := testutil.CreateInternship(t, db, poster)

	app, err := svc.Apply(ctx, student, applyInput(internship))
	require.NoError(t, err)

	_, err = svc.Withdraw(ctx, intruder, app.ID)
	assert.True(t, utils.IsKind(err, utils.KindForbidden))

	withdrawn, err := svc.Withdraw(ctx, student, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationWithdrawn, withdrawn.Status)
	assert.Equal(t, 0, testutil.Reload[models.Internship](t, db, internship.ID).CurrentApplications)

	_, err = svc.Withdraw(ctx, student, app.ID)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindConflict))
	assert.Contains(t, err.Error(), "Cannot withdraw this application")
	assert.Equal(t, 0, testutil.Reload[models.Internship](t, db, internship.ID).CurrentApplications)
}

func TestWithdrawAfterDecisionIsConflict(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	poster := testutil.CreateUser(t, db, models.RoleIndustry, "Poster")
	internship := testutil.CreateInternship(t, db, poster)

	for _, status := range []string{"accepted", "rejected"} {
		student := testutil.CreateUser(t, db, models.RoleStudent, "Student"+status)
		app, err := svc.Apply(ctx, student, applyInput(internship))
		require.NoError(t, err)
		_, err = svc.UpdateStatus(ctx, poster, app.ID, UpdateApplicationStatusInput{Status: status})
		require.NoError(t, err)

		before := testutil.Reload[models.Internship](t, db, internship.ID).CurrentApplications
		_, err = svc.Withdraw(ctx, student, app.ID)
		assert.True(t, utils.IsKind(err, utils.KindConflict), status)
		assert.Equal(t, before, testutil.Reload[models.Internship](t, db, internship.ID).CurrentApplications)
	}
}

func TestApplicationVisibility(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	poster := testutil.CreateUser(t, db, models.RoleIndustry, "Poster")
	other := testutil.CreateUser(t, db, models.RoleIndustry, "Other")
	student := testutil.CreateUser(t, db, models.RoleStudent, "Student")
	internship := testutil.CreateInternship(t, db, poster)

	app, err := svc.Apply(ctx, student, applyInput(internship))
	require.NoError(t, err)

	_, err = svc.Get(ctx, student, app.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, poster, app.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, other, app.ID)
	assert.True(t, utils.IsKind(err, utils.KindForbidden))

	list, err := svc.ListForInternship(ctx, poster, internship.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Student)
	assert.Equal(t, student.ID, list[0].Student.ID)
	assert.Equal(t, "Student", list[0].Student.Profile.FirstName)
	assert.Equal(t, "ENR-STUDENT", list[0].Student.Profile.EnrollmentNo)
	assert.Empty(t, list[0].Student.PasswordHash)

	got, err := svc.Get(ctx, poster, app.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Student)
	assert.Equal(t, "Student", got.Student.Profile.FirstName)

	_, err = svc.ListForInternship(ctx, other, internship.ID)
	assert.True(t, utils.IsKind(err, utils.KindForbidden))

	mine, err := svc.ListMine(ctx, student)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestInterviewAndNotes(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	poster := testutil.CreateUser(t, db, models.RoleIndustry, "Poster")
	student := testutil.CreateUser(t, db, models.RoleStudent, "Student")
	internship := testutil.CreateInternship(t, db, poster)

	app, err := svc.Apply(ctx, student, applyInput(internship))
	require.NoError(t, err)

	scheduled, err := svc.ScheduleInterview(ctx, poster, app.ID, ScheduleInterviewInput{
		InterviewDate: "2030-01-15T10:00:00Z",
		InterviewLink: "https://meet.example.com/abc",
	})
	require.NoError(t, err)
	assert.True(t, scheduled.InterviewScheduled)
	require.NotNil(t, scheduled.InterviewDate)
	assert.Equal(t, 2030, scheduled.InterviewDate.Year())

	_, err = svc.AddNote(ctx, student, app.ID, AddNoteInput{Text: "let me in"})
	assert.True(t, utils.IsKind(err, utils.KindForbidden))

	_, err = svc.AddNote(ctx, poster, app.ID, AddNoteInput{Text: "Strong Go skills"})
	require.NoError(t, err)
	noted, err := svc.AddNote(ctx, poster, app.ID, AddNoteInput{Text: "Call back Monday"})
	require.NoError(t, err)
	require.Len(t, noted.Notes, 2)
	assert.Equal(t, "Strong Go skills", noted.Notes[0].Text)
	assert.Equal(t, poster.ID, noted.Notes[1].AddedBy)
}

func TestConcurrentAppliesRespectCapacity(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	poster := testutil.CreateUser(t, db, models.RoleIndustry, "Poster")
	internship := testutil.CreateInternship(t, db, poster, testutil.WithCapacity(1, 0))
	students := make([]*models.User, 8)
	for i := range students {
		students[i] = testutil.CreateUser(t, db, models.RoleStudent, fmt.Sprintf("Racer%d", i))
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		full     int
	)
	for _, student := range students {
		wg.Add(1)
		go func(student *models.User) {
			defer wg.Done()
			_, err := svc.Apply(ctx, student, applyInput(internship))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case utils.IsKind(err, utils.KindConflict):
				full++
			}
		}(student)
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, len(students)-1, full)
	reloaded := testutil.Reload[models.Internship](t, db, internship.ID)
	assert.Equal(t, 1, reloaded.CurrentApplications)

	var stored int64
	require.NoError(t, db.Model(&models.Application{}).Where("internship_id = ?", internship.ID).Count(&stored).Error)
	assert.EqualValues(t, 1, stored)
}

func TestConcurrentWithdrawalsDecrementOnce(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	poster := testutil.CreateUser(t, db, models.RoleIndustry, "Poster")
	student := testutil.CreateUser(t, db, models.RoleStudent, "Student")
	classmate := testutil.CreateUser(t, db, models.RoleStudent, "Classmate")
	internship := testutil.CreateInternship(t, db, poster)

	app, err := svc.Apply(ctx, student, applyInput(internship))
	require.NoError(t, err)
	_, err = svc.Apply(ctx, classmate, applyInput(internship))
	require.NoError(t, err)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Withdraw(ctx, student, app.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, utils.IsKind(err, utils.KindConflict), err.Error())
	}
	assert.Equal(t, 1, succeeded)

	reloaded := testutil.Reload[models.Internship](t, db, internship.ID)
	assert.Equal(t, 1, reloaded.CurrentApplications)
	withdrawn := testutil.Reload[models.Application](t, db, app.ID)
	assert.Equal(t, models.ApplicationWithdrawn, withdrawn.Status)
}
