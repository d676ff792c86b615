package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"prashiskshan/backend/models"
	"prashiskshan/backend/utils"
)

// InternshipQuery holds the directory filters. An empty status means active.
type InternshipQuery struct {
	Status   string `query:"status" validate:"omitempty,oneof=draft active paused closed completed"`
	Category string `query:"category"`
	Type     string `query:"type" validate:"omitempty,oneof=remote onsite hybrid"`
	Search   string `query:"search"`
	Page     int    `query:"page" validate:"min=1"`
	Limit    int    `query:"limit" validate:"min=1,max=50"`
}

const (
	defaultPage  = 1
	defaultLimit = 10
)

// DefaultInternshipQuery is the starting point for query parsing.
func DefaultInternshipQuery() InternshipQuery {
	return InternshipQuery{Page: defaultPage, Limit: defaultLimit}
}

type StipendInput struct {
	Amount   float64 `json:"amount" validate:"gte=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3"`
	Type     string  `json:"type" validate:"omitempty,oneof=paid unpaid stipend"`
}

type CreateInternshipInput struct {
	Title               string        `json:"title" validate:"required"`
	Description         string        `json:"description" validate:"required"`
	Company             string        `json:"company" validate:"required"`
	Location            string        `json:"location" validate:"required"`
	Type                string        `json:"type" validate:"required,oneof=remote onsite hybrid"`
	Duration            int           `json:"duration" validate:"required,min=1,max=52"`
	Stipend             *StipendInput `json:"stipend"`
	Skills              []string      `json:"skills"`
	Requirements        []string      `json:"requirements"`
	Responsibilities    []string      `json:"responsibilities"`
	Benefits            []string      `json:"benefits"`
	StartDate           string        `json:"startDate" validate:"required,isodate"`
	EndDate             string        `json:"endDate" validate:"required,isodate"`
	ApplicationDeadline string        `json:"applicationDeadline" validate:"required,isodate"`
	MaxApplications     int           `json:"maxApplications" validate:"omitempty,min=1"`
	Category            string        `json:"category" validate:"required"`
	Tags                []string      `json:"tags"`
	Status              string        `json:"status" validate:"omitempty,oneof=draft active"`
}

// UpdateInternshipInput is a partial update; nil fields are left untouched.
type UpdateInternshipInput struct {
	Title               *string       `json:"title" validate:"omitempty,min=1"`
	Description         *string       `json:"description" validate:"omitempty,min=1"`
	Company             *string       `json:"company" validate:"omitempty,min=1"`
	Location            *string       `json:"location" validate:"omitempty,min=1"`
	Type                *string       `json:"type" validate:"omitempty,oneof=remote onsite hybrid"`
	Duration            *int          `json:"duration" validate:"omitempty,min=1,max=52"`
	Stipend             *StipendInput `json:"stipend"`
	Skills              *[]string     `json:"skills"`
	Requirements        *[]string     `json:"requirements"`
	Responsibilities    *[]string     `json:"responsibilities"`
	Benefits            *[]string     `json:"benefits"`
	StartDate           *string       `json:"startDate" validate:"omitempty,isodate"`
	EndDate             *string       `json:"endDate" validate:"omitempty,isodate"`
	ApplicationDeadline *string       `json:"applicationDeadline" validate:"omitempty,isodate"`
	MaxApplications     *int          `json:"maxApplications" validate:"omitempty,min=1"`
	Category            *string       `json:"category" validate:"omitempty,min=1"`
	Tags                *[]string     `json:"tags"`
	Status              *string       `json:"status" validate:"omitempty,oneof=draft active paused closed completed"`
}

type InternshipService struct {
	db *gorm.DB
}

func NewInternshipService(db *gorm.DB) *InternshipService {
	return &InternshipService{db: db}
}

func posterSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "profile_first_name", "profile_last_name", "profile_company", "profile_designation")
}

func (q InternshipQuery) scope(db *gorm.DB) *gorm.DB {
	status := q.Status
	if status == "" {
		status = string(models.InternshipActive)
	}
	db = db.Where("status = ?", status)
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	if q.Type != "" {
		db = db.Where("type = ?", q.Type)
	}
	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		like := "%" + search + "%"
		db = db.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(company) LIKE ? OR LOWER(CAST(skills AS TEXT)) LIKE ?",
			like, like, like, like,
		)
	}
	return db
}

// List returns one page of postings matching q, newest first, and the total match count.
func (s *InternshipService) List(ctx context.Context, q InternshipQuery) ([]models.Internship, int64, error) {
	if err := utils.Validate(q); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Internship{}).Scopes(q.scope).Count(&total).Error; err != nil {
		return nil, 0, utils.DBError(err, "Internship not found")
	}

	internships := []models.Internship{}
	err := s.db.WithContext(ctx).Scopes(q.scope).
		Preload("PostedBy", posterSummary).
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&internships).Error
	if err != nil {
		return nil, 0, utils.DBError(err, "Internship not found")
	}
	return internships, total, nil
}

func (s *InternshipService) Get(ctx context.Context, id uuid.UUID) (*models.Internship, error) {
	var internship models.Internship
	err := s.db.WithContext(ctx).Preload("PostedBy", posterSummary).First(&internship, "id = ?", id).Error
	if err != nil {
		return nil, utils.DBError(err, "Internship not found")
	}
	return &internship, nil
}

func (s *InternshipService) ListPostedBy(ctx context.Context, userID uuid.UUID) ([]models.Internship, error) {
	internships := []models.Internship{}
	err := s.db.WithContext(ctx).Where("posted_by_id = ?", userID).Order("created_at DESC").Find(&internships).Error
	if err != nil {
		return nil, utils.DBError(err, "Internship not found")
	}
	return internships, nil
}

func (s *InternshipService) Categories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := s.db.WithContext(ctx).Model(&models.Internship{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, utils.DBError(err, "Internship not found")
	}
	return categories, nil
}

func checkSchedule(start, end, deadline time.Time) error {
	var fields []utils.FieldError
	if end.Before(start) {
		fields = append(fields, utils.FieldError{Field: "endDate", Message: "must not be before startDate"})
	}
	if deadline.After(end) {
		fields = append(fields, utils.FieldError{Field: "applicationDeadline", Message: "must not be after endDate"})
	}
	if len(fields) > 0 {
		return utils.NewValidationError(fields...)
	}
	return nil
}

func (s *InternshipService) Create(ctx context.Context, actor *models.User, in CreateInternshipInput) (*models.Internship, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	start := utils.MustParseDate(in.StartDate)
	end := utils.MustParseDate(in.EndDate)
	deadline := utils.MustParseDate(in.ApplicationDeadline)
	if err := checkSchedule(start, end, deadline); err != nil {
		return nil, err
	}

	internship := &models.Internship{
		Title:               strings.TrimSpace(in.Title),
		Description:         in.Description,
		Company:             strings.TrimSpace(in.Company),
		Location:            strings.TrimSpace(in.Location),
		Type:                models.InternshipType(in.Type),
		Duration:            in.Duration,
		Stipend:             stipendFrom(in.Stipend),
		Skills:              datatypes.JSONSlice[string](nonNil(in.Skills)),
		Requirements:        datatypes.JSONSlice[string](nonNil(in.Requirements)),
		Responsibilities:    datatypes.JSONSlice[string](nonNil(in.Responsibilities)),
		Benefits:            datatypes.JSONSlice[string](nonNil(in.Benefits)),
		StartDate:           start,
		EndDate:             end,
		ApplicationDeadline: deadline,
		MaxApplications:     in.MaxApplications,
		Status:              models.InternshipStatus(in.Status),
		PostedByID:          actor.ID,
		Category:            strings.TrimSpace(in.Category),
		Tags:                datatypes.JSONSlice[string](nonNil(in.Tags)),
	}
	if internship.MaxApplications == 0 {
		internship.MaxApplications = 100
	}
	if internship.Status == "" {
		internship.Status = models.InternshipDraft
	}

	if err := s.db.WithContext(ctx).Create(internship).Error; err != nil {
		return nil, utils.DBError(err, "Internship not found")
	}
	return internship, nil
}

func stipendFrom(in *StipendInput) models.Stipend {
	stipend := models.Stipend{Currency: "INR", Type: models.StipendUnpaid}
	if in == nil {
		return stipend
	}
	stipend.Amount = in.Amount
	if in.Currency != "" {
		stipend.Currency = strings.ToUpper(in.Currency)
	}
	if in.Type != "" {
		stipend.Type = models.StipendType(in.Type)
	}
	return stipend
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// loadOwned fetches an internship the actor posted, or any internship for admins.
func (s *InternshipService) loadOwned(ctx context.Context, actor *models.User, id uuid.UUID, action string) (*models.Internship, error) {
	var internship models.Internship
	if err := s.db.WithContext(ctx).First(&internship, "id = ?", id).Error; err != nil {
		return nil, utils.DBError(err, "Internship not found")
	}
	if !internship.OwnedBy(actor.ID) && !isAdmin(actor) {
		return nil, utils.ForbiddenError("Not authorized to " + action + " this internship")
	}
	return &internship, nil
}

func (s *InternshipService) Update(ctx context.Context, actor *models.User, id uuid.UUID, in UpdateInternshipInput) (*models.Internship, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	internship, err := s.loadOwned(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	setString := func(column string, value *string) {
		if value != nil {
			updates[column] = strings.TrimSpace(*value)
		}
	}
	setList := func(column string, value *[]string) {
		if value != nil {
			updates[column] = datatypes.JSONSlice[string](nonNil(*value))
		}
	}

	setString("title", in.Title)
	setString("description", in.Description)
	setString("company", in.Company)
	setString("location", in.Location)
	setString("type", in.Type)
	setString("category", in.Category)
	setList("skills", in.Skills)
	setList("requirements", in.Requirements)
	setList("responsibilities", in.Responsibilities)
	setList("benefits", in.Benefits)
	setList("tags", in.Tags)
	if in.Duration != nil {
		updates["duration"] = *in.Duration
	}
	if in.Stipend != nil {
		stipend := stipendFrom(in.Stipend)
		updates["stipend_amount"] = stipend.Amount
		updates["stipend_currency"] = stipend.Currency
		updates["stipend_type"] = stipend.Type
	}

	start, end, deadline := internship.StartDate, internship.EndDate, internship.ApplicationDeadline
	if in.StartDate != nil {
		start = utils.MustParseDate(*in.StartDate)
		updates["start_date"] = start
	}
	if in.EndDate != nil {
		end = utils.MustParseDate(*in.EndDate)
		updates["end_date"] = end
	}
	if in.ApplicationDeadline != nil {
		deadline = utils.MustParseDate(*in.ApplicationDeadline)
		updates["application_deadline"] = deadline
	}
	if err := checkSchedule(start, end, deadline); err != nil {
		return nil, err
	}

	if in.MaxApplications != nil {
		if *in.MaxApplications < internship.CurrentApplications {
			return nil, utils.NewValidationError(utils.FieldError{
				Field:   "maxApplications",
				Message: "must not be lower than the current number of applications",
			})
		}
		updates["max_applications"] = *in.MaxApplications
	}

	if in.Status != nil {
		next := models.InternshipStatus(*in.Status)
		if !internship.Status.CanTransitionTo(next) {
			return nil, utils.ConflictError("Cannot change internship status from " + string(internship.Status) + " to " + string(next))
		}
		updates["status"] = next
	}

	if len(updates) > 0 {
		// the status guard makes a concurrent transition lose instead of overwrite
		res := s.db.WithContext(ctx).Model(&models.Internship{}).
			Where("id = ? AND status = ?", internship.ID, internship.Status).
			Updates(updates)
		if res.Error != nil {
			return nil, utils.DBError(res.Error, "Internship not found")
		}
		if res.RowsAffected == 0 {
			return nil, utils.ConflictError("Internship was modified concurrently, please retry")
		}
	}
	return s.Get(ctx, internship.ID)
}

func (s *InternshipService) Verify(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Internship, error) {
	var internship models.Internship
	if err := s.db.WithContext(ctx).First(&internship, "id = ?", id).Error; err != nil {
		return nil, utils.DBError(err, "Internship not found")
	}
	verifiedAt := now()
	err := s.db.WithContext(ctx).Model(&internship).Updates(map[string]interface{}{
		"is_verified":    true,
		"verified_by_id": actor.ID,
		"verified_at":    verifiedAt,
	}).Error
	if err != nil {
		return nil, utils.DBError(err, "Internship not found")
	}
	return s.Get(ctx, internship.ID)
}

func (s *InternshipService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	internship, err := s.loadOwned(ctx, actor, id, "delete")
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Internship{}, "id = ?", internship.ID).Error; err != nil {
		return utils.DBError(err, "Internship not found")
	}
	return nil
}
