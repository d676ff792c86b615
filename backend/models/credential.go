package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CredentialStatus string

const (
	CredentialPending  CredentialStatus = "pending"
	CredentialIssued   CredentialStatus = "issued"
	CredentialVerified CredentialStatus = "verified"
	CredentialRevoked  CredentialStatus = "revoked"
)

func (s CredentialStatus) Valid() bool {
	switch s {
	case CredentialPending, CredentialIssued, CredentialVerified, CredentialRevoked:
		return true
	default:
		return false
	}
}

// CanTransitionTo encodes pending to issued to verified. Pending may also be verified directly,
// verified may be verified again, and any live status may be revoked.
func (s CredentialStatus) CanTransitionTo(next CredentialStatus) bool {
	switch s {
	case CredentialPending:
		return next == CredentialIssued || next == CredentialVerified || next == CredentialRevoked
	case CredentialIssued:
		return next == CredentialVerified || next == CredentialRevoked
	case CredentialVerified:
		return next == CredentialVerified || next == CredentialRevoked
	case CredentialRevoked:
		return false
	default:
		return false
	}
}

type Performance struct {
	Rating              *int                        `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Feedback            string                      `json:"feedback,omitempty"`
	Strengths           datatypes.JSONSlice[string] `json:"strengths"`
	AreasForImprovement datatypes.JSONSlice[string] `json:"areasForImprovement"`
}

type Certificate struct {
	URL          string     `json:"url,omitempty"`
	IssuedAt     time.Time  `gorm:"not null" json:"issuedAt"`
	ValidUntil   *time.Time `json:"validUntil,omitempty"`
	CredentialID string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"credentialId"`
}

type Credential struct {
	Base
	StudentID    uuid.UUID                   `gorm:"type:uuid;not null;index" json:"studentId"`
	Student      *User                       `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	InternshipID uuid.UUID                   `gorm:"type:uuid;not null;index" json:"internshipId"`
	Internship   *Internship                 `gorm:"foreignKey:InternshipID" json:"internship,omitempty"`
	Company      string                      `gorm:"not null" json:"company"`
	Title        string                      `gorm:"not null" json:"title"`
	Duration     int                         `gorm:"not null" json:"duration"`
	StartDate    time.Time                   `gorm:"not null" json:"startDate"`
	EndDate      time.Time                   `gorm:"not null" json:"endDate"`
	Skills       datatypes.JSONSlice[string] `json:"skills"`
	Achievements datatypes.JSONSlice[string] `json:"achievements"`
	Performance  Performance                 `gorm:"embedded;embeddedPrefix:performance_" json:"performance"`
	Certificate  Certificate                 `gorm:"embedded;embeddedPrefix:certificate_" json:"certificate"`
	Status       CredentialStatus            `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	VerifiedByID *uuid.UUID                  `gorm:"type:uuid" json:"verifiedById,omitempty"`
	VerifiedBy   *User                       `gorm:"foreignKey:VerifiedByID" json:"verifiedBy,omitempty"`
	VerifiedAt   *time.Time                  `json:"verifiedAt,omitempty"`
	// Reserved for anchoring the credential externally; never set by the API.
	BlockchainHash *string `gorm:"type:varchar(128);uniqueIndex" json:"blockchainHash,omitempty"`
}

// BeforeCreate fills the id, the credential id and the issue date when absent.
func (c *Credential) BeforeCreate(tx *gorm.DB) error {
	if err := c.Base.BeforeCreate(tx); err != nil {
		return err
	}
	if c.Certificate.CredentialID == "" {
		id, err := GenerateCredentialID(time.Now())
		if err != nil {
			return err
		}
		c.Certificate.CredentialID = id
	}
	if c.Certificate.IssuedAt.IsZero() {
		c.Certificate.IssuedAt = time.Now().UTC()
	}
	return nil
}

// GenerateCredentialID is the generator used on insert; tests may swap it.
var GenerateCredentialID = NewCredentialID

const credentialAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const credentialSuffixLen = 9

// NewCredentialID returns PRS-<unix millis>-<9 uppercase base-36 chars>. Uniqueness is
// probabilistic; the unique index on the column is the final arbiter.
func NewCredentialID(now time.Time) (string, error) {
	suffix := make([]byte, credentialSuffixLen)
	max := big.NewInt(int64(len(credentialAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate credential id: %w", err)
		}
		suffix[i] = credentialAlphabet[n.Int64()]
	}
	return fmt.Sprintf("PRS-%d-%s", now.UnixMilli(), suffix), nil
}

// PersonName is the only user data exposed by the public lookup.
type PersonName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type InternshipRef struct {
	Title   string `json:"title"`
	Company string `json:"company"`
}

// CredentialPublicView is the whitelisted projection returned to anonymous verifiers.
type CredentialPublicView struct {
	CredentialID string           `json:"credentialId"`
	Student      *PersonName      `json:"student,omitempty"`
	Internship   *InternshipRef   `json:"internship,omitempty"`
	Company      string           `json:"company"`
	Title        string           `json:"title"`
	Duration     int              `json:"duration"`
	StartDate    time.Time        `json:"startDate"`
	EndDate      time.Time        `json:"endDate"`
	Skills       []string         `json:"skills"`
	Achievements []string         `json:"achievements"`
	Status       CredentialStatus `json:"status"`
	VerifiedBy   *PersonName      `json:"verifiedBy,omitempty"`
	VerifiedAt   *time.Time       `json:"verifiedAt,omitempty"`
	IssuedAt     time.Time        `json:"issuedAt"`
	ValidUntil   *time.Time       `json:"validUntil,omitempty"`
}

func personName(u *User) *PersonName {
	if u == nil {
		return nil
	}
	return &PersonName{FirstName: u.Profile.FirstName, LastName: u.Profile.LastName}
}

func (c *Credential) PublicView() CredentialPublicView {
	view := CredentialPublicView{
		CredentialID: c.Certificate.CredentialID,
		Student:      personName(c.Student),
		Company:      c.Company,
		Title:        c.Title,
		Duration:     c.Duration,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		Skills:       append([]string{}, c.Skills...),
		Achievements: append([]string{}, c.Achievements...),
		Status:       c.Status,
		VerifiedBy:   personName(c.VerifiedBy),
		VerifiedAt:   c.VerifiedAt,
		IssuedAt:     c.Certificate.IssuedAt,
		ValidUntil:   c.Certificate.ValidUntil,
	}
	if c.Internship != nil {
		view.Internship = &InternshipRef{Title: c.Internship.Title, Company: c.Internship.Company}
	}
	return view
}
