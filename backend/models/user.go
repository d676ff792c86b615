package models

import "time"

type Role string

const (
	RoleStudent  Role = "student"
	RoleFaculty  Role = "faculty"
	RoleIndustry Role = "industry"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleIndustry, RoleAdmin:
		return true
	default:
		return false
	}
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Profile holds the role-specific fields; students fill college/department/studentId,
// industry users company/designation.
type Profile struct {
	FirstName    string `gorm:"not null" json:"firstName"`
	LastName     string `gorm:"not null" json:"lastName"`
	College      string `json:"college,omitempty"`
	Department   string `json:"department,omitempty"`
	EnrollmentNo string `json:"studentId,omitempty"`
	YearOfStudy  string `json:"yearOfStudy,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Avatar       string `json:"avatar,omitempty"`
	Company      string `json:"company,omitempty"`
	Designation  string `json:"designation,omitempty"`
}

type User struct {
	Base
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         Role       `gorm:"type:varchar(20);not null;index" json:"role"`
	Profile      Profile    `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`
	IsVerified   bool       `gorm:"not null;default:false" json:"isVerified"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}
