package services

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prashiskshan/backend/models"
	"prashiskshan/backend/testutil"
	"prashiskshan/backend/utils"
)

var credentialIDPattern = regexp.MustCompile(`^PRS-\d+-[A-Z0-9]{9}$`)

func credentialInput(student *models.User, internship *models.Internship) CreateCredentialInput {
	return CreateCredentialInput{
		StudentID:    student.ID.String(),
		InternshipID: internship.ID.String(),
		Company:      "Acme Labs",
		Title:        "Backend Intern",
		Duration:     12,
		StartDate:    "2025-01-06",
		EndDate:      "2025-03-31",
		Skills:       []string{"Go", "SQL"},
		Achievements: []string{"Shipped the billing API"},
		Performance:  &PerformanceInput{Feedback: "internal: borderline on testing"},
	}
}

type credentialFixture struct {
	svc        *CredentialService
	admin      *models.User
	faculty    *models.User
	industry   *models.User
	student    *models.User
	internship *models.Internship
}

func newCredentialFixture(t *testing.T) credentialFixture {
	db := testutil.NewDB(t)
	industry := testutil.CreateUser(t, db, models.RoleIndustry, "Industry")
	return credentialFixture{
		svc:        NewCredentialService(db),
		admin:      testutil.CreateUser(t, db, models.RoleAdmin, "Admin"),
		faculty:    testutil.CreateUser(t, db, models.RoleFaculty, "Faculty"),
		industry:   industry,
		student:    testutil.CreateUser(t, db, models.RoleStudent, "Student"),
		internship: testutil.CreateInternship(t, db, industry),
	}
}

func TestCredentialCreateAndVerify(t *testing.T) {
	f := newCredentialFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, credentialInput(f.student, f.internship))
	require.NoError(t, err)
	assert.Equal(t, models.CredentialPending, created.Status)
	assert.Regexp(t, credentialIDPattern, created.Certificate.CredentialID)
	assert.False(t, created.Certificate.IssuedAt.IsZero())

	rating := 5
	verified, err := f.svc.Verify(ctx, f.faculty, created.ID, VerifyCredentialInput{
		Performance: &PerformanceInput{Rating: &rating, Strengths: []string{"ownership"}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.CredentialVerified, verified.Status)
	require.NotNil(t, verified.VerifiedByID)
	assert.Equal(t, f.faculty.ID, *verified.VerifiedByID)
	require.NotNil(t, verified.VerifiedBy)
	assert.Equal(t, "Faculty", verified.VerifiedBy.Profile.FirstName)

	// performance is replaced, not merged
	require.NotNil(t, verified.Performance.Rating)
	assert.Equal(t, 5, *verified.Performance.Rating)
	assert.Empty(t, verified.Performance.Feedback)
	assert.Equal(t, []string{"ownership"}, []string(verified.Performance.Strengths))
}

func TestCredentialPublicLookup(t *testing.T) {
	f := newCredentialFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, credentialInput(f.student, f.internship))
	require.NoError(t, err)
	_, err = f.svc.Verify(ctx, f.faculty, created.ID, VerifyCredentialInput{})
	require.NoError(t, err)

	view, err := f.svc.Lookup(ctx, created.Certificate.CredentialID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Labs", view.Company)
	assert.Equal(t, 12, view.Duration)
	assert.Equal(t, []string{"Go", "SQL"}, view.Skills)
	assert.Equal(t, models.CredentialVerified, view.Status)
	require.NotNil(t, view.Student)
	assert.Equal(t, "Student", view.Student.FirstName)
	assert.Equal(t, "Tester", view.Student.LastName)
	require.NotNil(t, view.VerifiedBy)
	assert.Equal(t, "Faculty", view.VerifiedBy.FirstName)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	body := string(raw)
	assert.NotContains(t, body, "performance")
	assert.NotContains(t, body, "borderline")
	assert.NotContains(t, body, "blockchainHash")
	assert.NotContains(t, body, f.student.ID.String())
	assert.NotContains(t, body, f.student.Email)

	_, err = f.svc.Lookup(ctx, "PRS-0-UNKNOWN00")
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestCredentialIssueAndRevoke(t *testing.T) {
	f := newCredentialFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, credentialInput(f.student, f.internship))
	require.NoError(t, err)

	issued, err := f.svc.Issue(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CredentialIssued, issued.Status)

	_, err = f.svc.Issue(ctx, created.ID)
	assert.True(t, utils.IsKind(err, utils.KindConflict))

	revoked, err := f.svc.Revoke(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CredentialRevoked, revoked.Status)

	_, err = f.svc.Verify(ctx, f.faculty, created.ID, VerifyCredentialInput{})
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindConflict))

	_, err = f.svc.Revoke(ctx, created.ID)
	assert.True(t, utils.IsKind(err, utils.KindConflict))
}

func TestCredentialRetriesOnIDCollision(t *testing.T) {
	f := newCredentialFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, credentialInput(f.student, f.internship))
	require.NoError(t, err)

	calls := 0
	original := models.GenerateCredentialID
	models.GenerateCredentialID = func(now time.Time) (string, error) {
		calls++
		if calls == 1 {
			return first.Certificate.CredentialID, nil
		}
		return original(now)
	}
	t.Cleanup(func() { models.GenerateCredentialID = original })

	second, err := f.svc.Create(ctx, credentialInput(f.student, f.internship))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.NotEqual(t, first.Certificate.CredentialID, second.Certificate.CredentialID)

	models.GenerateCredentialID = func(time.Time) (string, error) {
		return first.Certificate.CredentialID, nil
	}
	_, err = f.svc.Create(ctx, credentialInput(f.student, f.internship))
	assert.True(t, utils.IsKind(err, utils.KindInternal))
}

func TestCredentialCreateChecks(t *testing.T) {
	f := newCredentialFixture(t)
	ctx := context.Background()

	in := credentialInput(f.faculty, f.internship)
	_, err := f.svc.Create(ctx, in)
	assert.True(t, utils.IsKind(err, utils.KindNotFound), "credential owner must be a student")

	in = credentialInput(f.student, f.internship)
	in.Duration = 0
	in.Skills = nil
	_, err = f.svc.Create(ctx, in)
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	in = credentialInput(f.student, f.internship)
	rating := 6
	in.Performance = &PerformanceInput{Rating: &rating}
	_, err = f.svc.Create(ctx, in)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}

func TestCredentialVisibility(t *testing.T) {
	f := newCredentialFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, credentialInput(f.student, f.internship))
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.student, created.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, f.industry, created.ID)
	assert.NoError(t, err)

	other := &models.User{Base: models.Base{ID: uuid.New()}, Role: models.RoleStudent}
	_, err = f.svc.Get(ctx, other, created.ID)
	assert.True(t, utils.IsKind(err, utils.KindForbidden))

	list, err := f.svc.ListForStudent(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCredentialStudentIsAttached(t *testing.T) {
	f := newCredentialFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, credentialInput(f.student, f.internship))
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, f.faculty, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Student)
	assert.Equal(t, f.student.ID, got.Student.ID)
	assert.Equal(t, "ENR-STUDENT", got.Student.Profile.EnrollmentNo)

	list, err := f.svc.ListForStudent(ctx, f.student.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Student)
	assert.Equal(t, "Student", list[0].Student.Profile.FirstName)
}
