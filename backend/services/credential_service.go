package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"prashiskshan/backend/models"
	"prashiskshan/backend/utils"
)

// credentialIDAttempts bounds how often an id collision is retried on insert.
const credentialIDAttempts = 3

type CertificateInput struct {
	URL        string `json:"url" validate:"omitempty,url"`
	ValidUntil string `json:"validUntil" validate:"omitempty,isodate"`
}

type PerformanceInput struct {
	Rating              *int     `json:"rating" validate:"omitempty,min=1,max=5"`
	Feedback            string   `json:"feedback"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areasForImprovement"`
}

type CreateCredentialInput struct {
	StudentID    string            `json:"studentId" validate:"required,uuid"`
	InternshipID string            `json:"internshipId" validate:"required,uuid"`
	Company      string            `json:"company" validate:"required"`
	Title        string            `json:"title" validate:"required"`
	Duration     int               `json:"duration" validate:"required,min=1"`
	StartDate    string            `json:"startDate" validate:"required,isodate"`
	EndDate      string            `json:"endDate" validate:"required,isodate"`
	Skills       []string          `json:"skills" validate:"required"`
	Achievements []string          `json:"achievements" validate:"required"`
	Performance  *PerformanceInput `json:"performance"`
	Certificate  *CertificateInput `json:"certificate"`
}

type VerifyCredentialInput struct {
	Performance *PerformanceInput `json:"performance"`
}

type CredentialService struct {
	db *gorm.DB
}

func NewCredentialService(db *gorm.DB) *CredentialService {
	return &CredentialService{db: db}
}

func (p *PerformanceInput) toModel() models.Performance {
	return models.Performance{
		Rating:              p.Rating,
		Feedback:            strings.TrimSpace(p.Feedback),
		Strengths:           datatypes.JSONSlice[string](nonNil(p.Strengths)),
		AreasForImprovement: datatypes.JSONSlice[string](nonNil(p.AreasForImprovement)),
	}
}

func (s *CredentialService) Create(ctx context.Context, in CreateCredentialInput) (*models.Credential, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	studentID, err := ParseID(in.StudentID, "studentId")
	if err != nil {
		return nil, err
	}
	internshipID, err := ParseID(in.InternshipID, "internshipId")
	if err != nil {
		return nil, err
	}
	start := utils.MustParseDate(in.StartDate)
	end := utils.MustParseDate(in.EndDate)
	if end.Before(start) {
		return nil, utils.NewValidationError(utils.FieldError{Field: "endDate", Message: "must not be before startDate"})
	}

	if err := s.mustExist(ctx, &models.User{}, "id = ? AND role = ?", "Student not found", studentID, models.RoleStudent); err != nil {
		return nil, err
	}
	if err := s.mustExist(ctx, &models.Internship{}, "id = ?", "Internship not found", internshipID); err != nil {
		return nil, err
	}

	credential := &models.Credential{
		StudentID:    studentID,
		InternshipID: internshipID,
		Company:      strings.TrimSpace(in.Company),
		Title:        strings.TrimSpace(in.Title),
		Duration:     in.Duration,
		StartDate:    start,
		EndDate:      end,
		Skills:       datatypes.JSONSlice[string](in.Skills),
		Achievements: datatypes.JSONSlice[string](in.Achievements),
		Performance: models.Performance{
			Strengths:           datatypes.JSONSlice[string]{},
			AreasForImprovement: datatypes.JSONSlice[string]{},
		},
		Status: models.CredentialPending,
	}
	if in.Performance != nil {
		credential.Performance = in.Performance.toModel()
	}
	if in.Certificate != nil {
		credential.Certificate.URL = in.Certificate.URL
		if in.Certificate.ValidUntil != "" {
			validUntil := utils.MustParseDate(in.Certificate.ValidUntil)
			credential.Certificate.ValidUntil = &validUntil
		}
	}

	if err := s.insert(ctx, credential); err != nil {
		return nil, err
	}
	return s.load(ctx, credential.ID)
}

// insert stores the credential, drawing a fresh credential id when the generated one collides.
func (s *CredentialService) insert(ctx context.Context, credential *models.Credential) error {
	var err error
	for attempt := 0; attempt < credentialIDAttempts; attempt++ {
		credential.ID = uuid.Nil
		credential.Certificate.CredentialID = ""
		err = s.db.WithContext(ctx).Create(credential).Error
		if err == nil {
			return nil
		}
		if !utils.IsUniqueViolation(err) {
			return utils.DBError(err, "Credential not found")
		}
	}
	return utils.InternalError("could not allocate a unique credential id", err)
}

func (s *CredentialService) mustExist(ctx context.Context, model interface{}, query string, notFound string, args ...interface{}) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return utils.DBError(err, notFound)
	}
	if count == 0 {
		return utils.NotFoundError(notFound)
	}
	return nil
}

func (s *CredentialService) load(ctx context.Context, id uuid.UUID) (*models.Credential, error) {
	var credential models.Credential
	err := s.db.WithContext(ctx).
		Preload("Student", studentSummary).
		Preload("Internship", internshipSummary).
		Preload("VerifiedBy", userName).
		First(&credential, "id = ?", id).Error
	if err != nil {
		return nil, utils.DBError(err, "Credential not found")
	}
	return &credential, nil
}

func (s *CredentialService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Credential, error) {
	credential, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if credential.StudentID != actor.ID && !actor.Role.In(models.RoleFaculty, models.RoleIndustry, models.RoleAdmin) {
		return nil, utils.ForbiddenError("Not authorized to view this credential")
	}
	return credential, nil
}

func (s *CredentialService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]models.Credential, error) {
	credentials := []models.Credential{}
	err := s.db.WithContext(ctx).
		Preload("Internship", internshipSummary).
		Preload("Student", studentSummary).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&credentials).Error
	if err != nil {
		return nil, utils.DBError(err, "Credential not found")
	}
	return credentials, nil
}

// transition applies updates when the stored status still equals the one that was checked.
func (s *CredentialService) transition(ctx context.Context, credential *models.Credential, next models.CredentialStatus, updates map[string]interface{}, conflict string) (*models.Credential, error) {
	if !credential.Status.CanTransitionTo(next) {
		return nil, utils.ConflictError(conflict)
	}
	updates["status"] = next
	res := s.db.WithContext(ctx).Model(&models.Credential{}).
		Where("id = ? AND status = ?", credential.ID, credential.Status).
		Updates(updates)
	if res.Error != nil {
		return nil, utils.DBError(res.Error, "Credential not found")
	}
	if res.RowsAffected == 0 {
		return nil, utils.ConflictError(conflict)
	}
	return s.load(ctx, credential.ID)
}

func (s *CredentialService) find(ctx context.Context, id uuid.UUID) (*models.Credential, error) {
	var credential models.Credential
	if err := s.db.WithContext(ctx).First(&credential, "id = ?", id).Error; err != nil {
		return nil, utils.DBError(err, "Credential not found")
	}
	return &credential, nil
}

func (s *CredentialService) Issue(ctx context.Context, id uuid.UUID) (*models.Credential, error) {
	credential, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if credential.Status != models.CredentialPending {
		return nil, utils.ConflictError("Only pending credentials can be issued")
	}
	return s.transition(ctx, credential, models.CredentialIssued, map[string]interface{}{
		"certificate_issued_at": now(),
	}, "Only pending credentials can be issued")
}

// Verify marks the credential verified. A supplied performance block replaces the stored one.
func (s *CredentialService) Verify(ctx context.Context, verifier *models.User, id uuid.UUID, in VerifyCredentialInput) (*models.Credential, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	credential, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"verified_by_id": verifier.ID,
		"verified_at":    now(),
	}
	if in.Performance != nil {
		performance := in.Performance.toModel()
		updates["performance_rating"] = performance.Rating
		updates["performance_feedback"] = performance.Feedback
		updates["performance_strengths"] = performance.Strengths
		updates["performance_areas_for_improvement"] = performance.AreasForImprovement
	}
	return s.transition(ctx, credential, models.CredentialVerified, updates, "Cannot verify a revoked credential")
}

func (s *CredentialService) Revoke(ctx context.Context, id uuid.UUID) (*models.Credential, error) {
	credential, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, credential, models.CredentialRevoked, map[string]interface{}{}, "Credential already revoked")
}

// Lookup finds a credential by its public credential id and returns the public projection.
func (s *CredentialService) Lookup(ctx context.Context, credentialID string) (*models.CredentialPublicView, error) {
	var credential models.Credential
	err := s.db.WithContext(ctx).
		Preload("Student", userName).
		Preload("Internship", internshipSummary).
		Preload("VerifiedBy", userName).
		Where("certificate_credential_id = ?", strings.TrimSpace(credentialID)).
		First(&credential).Error
	if err != nil {
		return nil, utils.DBError(err, "Credential not found")
	}
	view := credential.PublicView()
	return &view, nil
}
