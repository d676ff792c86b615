package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"prashiskshan/backend/config"
	"prashiskshan/backend/models"
	"prashiskshan/backend/utils"
)

type RegisterInput struct {
	Email    string       `json:"email" validate:"required,email"`
	Password string       `json:"password" validate:"required,min=6"`
	Role     string       `json:"role" validate:"required,oneof=student faculty industry"`
	Profile  ProfileInput `json:"profile"`
}

type ProfileInput struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	College      string `json:"college"`
	Department   string `json:"department"`
	EnrollmentNo string `json:"studentId"`
	YearOfStudy  string `json:"yearOfStudy"`
	Phone        string `json:"phone"`
	Avatar       string `json:"avatar" validate:"omitempty,url"`
	Company      string `json:"company"`
	Designation  string `json:"designation"`
}

// UpdateProfileInput merges into the stored profile; empty fields keep their value.
type UpdateProfileInput struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	College      string `json:"college"`
	Department   string `json:"department"`
	EnrollmentNo string `json:"studentId"`
	YearOfStudy  string `json:"yearOfStudy"`
	Phone        string `json:"phone"`
	Avatar       string `json:"avatar" validate:"omitempty,url"`
	Company      string `json:"company"`
	Designation  string `json:"designation"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	email := in.Email

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, utils.DBError(err, "User not found")
	}
	if count > 0 {
		return nil, utils.ConflictError("User already exists with this email")
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, utils.InternalError("hash password", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         models.Role(in.Role),
		Profile: models.Profile{
			FirstName:    strings.TrimSpace(in.Profile.FirstName),
			LastName:     strings.TrimSpace(in.Profile.LastName),
			College:      in.Profile.College,
			Department:   in.Profile.Department,
			EnrollmentNo: in.Profile.EnrollmentNo,
			YearOfStudy:  in.Profile.YearOfStudy,
			Phone:        in.Profile.Phone,
			Avatar:       in.Profile.Avatar,
			Company:      in.Profile.Company,
			Designation:  in.Profile.Designation,
		},
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return nil, utils.ConflictError("User already exists with this email")
		}
		return nil, utils.DBError(err, "User not found")
	}

	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", in.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.UnauthenticatedError("Invalid credentials")
	}
	if err != nil {
		return nil, utils.DBError(err, "User not found")
	}
	if !utils.CheckPassword(user.PasswordHash, in.Password) {
		return nil, utils.UnauthenticatedError("Invalid credentials")
	}

	loginAt := now()
	if err := s.db.WithContext(ctx).Model(&user).UpdateColumn("last_login", loginAt).Error; err != nil {
		return nil, utils.DBError(err, "User not found")
	}
	user.LastLogin = &loginAt

	return s.issue(&user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := utils.GenerateJWTToken(user.ID, user.Email, string(user.Role), s.cfg)
	if err != nil {
		return nil, utils.InternalError("sign token", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to the stored user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := utils.ParseJWTToken(token, s.cfg)
	if err != nil {
		return nil, utils.UnauthenticatedError("Token is not valid")
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, utils.UnauthenticatedError("Token is not valid")
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		if utils.IsKind(err, utils.KindNotFound) {
			return nil, utils.UnauthenticatedError("Token is not valid")
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, utils.DBError(err, "User not found")
	}
	return &user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, in UpdateProfileInput) (*models.User, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	p := &user.Profile
	merge := func(dst *string, value string) {
		if v := strings.TrimSpace(value); v != "" {
			*dst = v
		}
	}
	merge(&p.FirstName, in.FirstName)
	merge(&p.LastName, in.LastName)
	merge(&p.College, in.College)
	merge(&p.Department, in.Department)
	merge(&p.EnrollmentNo, in.EnrollmentNo)
	merge(&p.YearOfStudy, in.YearOfStudy)
	merge(&p.Phone, in.Phone)
	merge(&p.Avatar, in.Avatar)
	merge(&p.Company, in.Company)
	merge(&p.Designation, in.Designation)

	err := s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"profile_first_name":    p.FirstName,
		"profile_last_name":     p.LastName,
		"profile_college":       p.College,
		"profile_department":    p.Department,
		"profile_enrollment_no": p.EnrollmentNo,
		"profile_year_of_study": p.YearOfStudy,
		"profile_phone":         p.Phone,
		"profile_avatar":        p.Avatar,
		"profile_company":       p.Company,
		"profile_designation":   p.Designation,
	}).Error
	if err != nil {
		return nil, utils.DBError(err, "User not found")
	}
	return s.GetUser(ctx, user.ID)
}

func (s *AuthService) ChangePassword(ctx context.Context, user *models.User, in ChangePasswordInput) error {
	if err := utils.Validate(in); err != nil {
		return err
	}
	if !utils.CheckPassword(user.PasswordHash, in.CurrentPassword) {
		return utils.NewValidationError(utils.FieldError{Field: "currentPassword", Message: "is incorrect"})
	}
	hash, err := utils.HashPassword(in.NewPassword, s.cfg.BcryptCost)
	if err != nil {
		return utils.InternalError("hash password", err)
	}
	if err := s.db.WithContext(ctx).Model(user).UpdateColumn("password_hash", hash).Error; err != nil {
		return utils.DBError(err, "User not found")
	}
	user.PasswordHash = hash
	return nil
}
