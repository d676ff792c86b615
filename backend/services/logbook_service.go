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

type CreateLogbookInput struct {
	InternshipID   string                      `json:"internshipId" validate:"required,uuid"`
	Title          string                      `json:"title" validate:"required"`
	Week           int                         `json:"week" validate:"required,min=1"`
	Date           string                      `json:"date" validate:"required,isodate"`
	TasksCompleted []models.LogbookTask        `json:"tasksCompleted" validate:"required,min=1,dive"`
	SkillsLearned  []models.LogbookSkill       `json:"skillsLearned" validate:"dive"`
	Challenges     []models.LogbookChallenge   `json:"challenges" validate:"dive"`
	Achievements   []models.LogbookAchievement `json:"achievements" validate:"dive"`
	Reflection     string                      `json:"reflection" validate:"required"`
	Attachments    []models.Attachment         `json:"attachments" validate:"dive"`
}

// UpdateLogbookInput changes content only; nil fields are left untouched.
type UpdateLogbookInput struct {
	Title          *string                      `json:"title" validate:"omitempty,min=1"`
	Date           *string                      `json:"date" validate:"omitempty,isodate"`
	TasksCompleted *[]models.LogbookTask        `json:"tasksCompleted" validate:"omitempty,min=1,dive"`
	SkillsLearned  *[]models.LogbookSkill       `json:"skillsLearned" validate:"omitempty,dive"`
	Challenges     *[]models.LogbookChallenge   `json:"challenges" validate:"omitempty,dive"`
	Achievements   *[]models.LogbookAchievement `json:"achievements" validate:"omitempty,dive"`
	Reflection     *string                      `json:"reflection" validate:"omitempty,min=1"`
	Attachments    *[]models.Attachment         `json:"attachments" validate:"omitempty,dive"`
}

type ReviewLogbookInput struct {
	Status   string `json:"status" validate:"required"`
	Feedback string `json:"feedback"`
	Rating   *int   `json:"rating" validate:"omitempty,min=1,max=5"`
}

type LogbookService struct {
	db *gorm.DB
}

func NewLogbookService(db *gorm.DB) *LogbookService {
	return &LogbookService{db: db}
}

func withDefaultProficiency(skills []models.LogbookSkill) []models.LogbookSkill {
	out := make([]models.LogbookSkill, 0, len(skills))
	for _, skill := range skills {
		if skill.Proficiency == "" {
			skill.Proficiency = models.ProficiencyBeginner
		}
		out = append(out, skill)
	}
	return out
}

func orEmpty[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}

func (s *LogbookService) Create(ctx context.Context, student *models.User, in CreateLogbookInput) (*models.Logbook, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	internshipID, err := ParseID(in.InternshipID, "internshipId")
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Internship{}).Where("id = ?", internshipID).Count(&count).Error; err != nil {
		return nil, utils.DBError(err, "Internship not found")
	}
	if count == 0 {
		return nil, utils.NotFoundError("Internship not found")
	}

	logbook := &models.Logbook{
		StudentID:      student.ID,
		InternshipID:   internshipID,
		Title:          strings.TrimSpace(in.Title),
		Week:           in.Week,
		Date:           utils.MustParseDate(in.Date),
		TasksCompleted: datatypes.JSONSlice[models.LogbookTask](in.TasksCompleted),
		SkillsLearned:  datatypes.JSONSlice[models.LogbookSkill](withDefaultProficiency(in.SkillsLearned)),
		Challenges:     datatypes.JSONSlice[models.LogbookChallenge](orEmpty(in.Challenges)),
		Achievements:   datatypes.JSONSlice[models.LogbookAchievement](orEmpty(in.Achievements)),
		Reflection:     strings.TrimSpace(in.Reflection),
		Attachments:    datatypes.JSONSlice[models.Attachment](orEmpty(in.Attachments)),
		Status:         models.LogbookDraft,
	}
	if err := s.db.WithContext(ctx).Create(logbook).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return nil, utils.ConflictError("Logbook entry for this week already exists")
		}
		return nil, utils.DBError(err, "Logbook entry not found")
	}
	return logbook, nil
}

func (s *LogbookService) load(ctx context.Context, id uuid.UUID) (*models.Logbook, error) {
	var logbook models.Logbook
	err := s.db.WithContext(ctx).
		Preload("Student", studentSummary).
		Preload("Internship", internshipSummary).
		First(&logbook, "id = ?", id).Error
	if err != nil {
		return nil, utils.DBError(err, "Logbook entry not found")
	}
	return &logbook, nil
}

func (s *LogbookService) ListMine(ctx context.Context, student *models.User) ([]models.Logbook, error) {
	logbooks := []models.Logbook{}
	err := s.db.WithContext(ctx).
		Preload("Internship", internshipSummary).
		Where("student_id = ?", student.ID).
		Order("week ASC").
		Find(&logbooks).Error
	if err != nil {
		return nil, utils.DBError(err, "Logbook entry not found")
	}
	return logbooks, nil
}

func (s *LogbookService) ListForInternship(ctx context.Context, internshipID uuid.UUID) ([]models.Logbook, error) {
	logbooks := []models.Logbook{}
	err := s.db.WithContext(ctx).
		Preload("Student", studentSummary).
		Where("internship_id = ?", internshipID).
		Order("week ASC").
		Find(&logbooks).Error
	if err != nil {
		return nil, utils.DBError(err, "Logbook entry not found")
	}
	return logbooks, nil
}

func (s *LogbookService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Logbook, error) {
	logbook, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if logbook.StudentID != actor.ID && !actor.Role.In(models.RoleFaculty, models.RoleIndustry, models.RoleAdmin) {
		return nil, utils.ForbiddenError("Not authorized to view this logbook entry")
	}
	return logbook, nil
}

func (s *LogbookService) loadOwn(ctx context.Context, student *models.User, id uuid.UUID, action string) (*models.Logbook, error) {
	var logbook models.Logbook
	if err := s.db.WithContext(ctx).First(&logbook, "id = ?", id).Error; err != nil {
		return nil, utils.DBError(err, "Logbook entry not found")
	}
	if logbook.StudentID != student.ID {
		return nil, utils.ForbiddenError("Not authorized to " + action + " this logbook entry")
	}
	return &logbook, nil
}

// Update edits the content of an entry. A rejected entry goes back to draft so it can be
// submitted again.
func (s *LogbookService) Update(ctx context.Context, student *models.User, id uuid.UUID, in UpdateLogbookInput) (*models.Logbook, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	logbook, err := s.loadOwn(ctx, student, id, "update")
	if err != nil {
		return nil, err
	}
	if !logbook.Status.Editable() {
		return nil, utils.ConflictError("Cannot update approved logbook entry")
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Date != nil {
		updates["date"] = utils.MustParseDate(*in.Date)
	}
	if in.TasksCompleted != nil {
		updates["tasks_completed"] = datatypes.JSONSlice[models.LogbookTask](*in.TasksCompleted)
	}
	if in.SkillsLearned != nil {
		updates["skills_learned"] = datatypes.JSONSlice[models.LogbookSkill](withDefaultProficiency(*in.SkillsLearned))
	}
	if in.Challenges != nil {
		updates["challenges"] = datatypes.JSONSlice[models.LogbookChallenge](orEmpty(*in.Challenges))
	}
	if in.Achievements != nil {
		updates["achievements"] = datatypes.JSONSlice[models.LogbookAchievement](orEmpty(*in.Achievements))
	}
	if in.Reflection != nil {
		updates["reflection"] = strings.TrimSpace(*in.Reflection)
	}
	if in.Attachments != nil {
		updates["attachments"] = datatypes.JSONSlice[models.Attachment](orEmpty(*in.Attachments))
	}
	if logbook.Status == models.LogbookRejected {
		updates["status"] = models.LogbookDraft
	}

	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Logbook{}).
			Where("id = ? AND status <> ?", logbook.ID, models.LogbookApproved).
			Updates(updates)
		if res.Error != nil {
			return nil, utils.DBError(res.Error, "Logbook entry not found")
		}
		if res.RowsAffected == 0 {
			return nil, utils.ConflictError("Cannot update approved logbook entry")
		}
	}
	return s.load(ctx, logbook.ID)
}

func (s *LogbookService) Submit(ctx context.Context, student *models.User, id uuid.UUID) (*models.Logbook, error) {
	logbook, err := s.loadOwn(ctx, student, id, "submit")
	if err != nil {
		return nil, err
	}
	if logbook.Status != models.LogbookDraft {
		return nil, utils.ConflictError("Logbook entry already submitted")
	}

	res := s.db.WithContext(ctx).Model(&models.Logbook{}).
		Where("id = ? AND status = ?", logbook.ID, models.LogbookDraft).
		Updates(map[string]interface{}{
			"status":       models.LogbookSubmitted,
			"submitted_at": now(),
		})
	if res.Error != nil {
		return nil, utils.DBError(res.Error, "Logbook entry not found")
	}
	if res.RowsAffected == 0 {
		return nil, utils.ConflictError("Logbook entry already submitted")
	}
	return s.load(ctx, logbook.ID)
}

func (s *LogbookService) Review(ctx context.Context, reviewer *models.User, id uuid.UUID, in ReviewLogbookInput) (*models.Logbook, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	if !models.LogbookStatus(in.Status).IsReviewOutcome() {
		return nil, utils.NewValidationError(utils.FieldError{Field: "status", Message: "must be one of: approved, rejected"})
	}
	var logbook models.Logbook
	if err := s.db.WithContext(ctx).First(&logbook, "id = ?", id).Error; err != nil {
		return nil, utils.DBError(err, "Logbook entry not found")
	}
	if logbook.Status != models.LogbookSubmitted {
		return nil, utils.ConflictError("Only submitted logbook entries can be reviewed")
	}

	updates := map[string]interface{}{
		"status":         models.LogbookStatus(in.Status),
		"reviewed_at":    now(),
		"reviewed_by_id": reviewer.ID,
	}
	if in.Feedback != "" {
		updates["feedback"] = in.Feedback
	}
	if in.Rating != nil {
		updates["rating"] = *in.Rating
	}

	res := s.db.WithContext(ctx).Model(&models.Logbook{}).
		Where("id = ? AND status = ?", logbook.ID, models.LogbookSubmitted).
		Updates(updates)
	if res.Error != nil {
		return nil, utils.DBError(res.Error, "Logbook entry not found")
	}
	if res.RowsAffected == 0 {
		return nil, utils.ConflictError("Only submitted logbook entries can be reviewed")
	}
	return s.load(ctx, logbook.ID)
}
