package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WorkMode string

const (
	WorkModeRemote WorkMode = "REMOTE"
	WorkModeHybrid WorkMode = "HYBRID"
	WorkModeOnsite WorkMode = "ONSITE"
)

type EngagementType string

const (
	EngagementTypeFullTime EngagementType = "FULL_TIME"
	EngagementTypePartTime EngagementType = "PART_TIME"
	EngagementTypeContract EngagementType = "CONTRACT"
)

// Internship is an internship listing owned by an alumnus. Applicants are
// unbounded; is_active gates new offers and applications.
type Internship struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	AlumnusID uint          `gorm:"not null;index" json:"alumnus_id"`
	Alumnus   AlumniProfile `gorm:"foreignKey:AlumnusID" json:"alumnus,omitempty"`

	Title          string         `gorm:"size:255;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	WorkMode       WorkMode       `gorm:"size:20" json:"work_mode"`
	EngagementType EngagementType `gorm:"size:20" json:"engagement_type"`
	Location       string         `gorm:"size:255" json:"location"`
	Industry       string         `gorm:"size:100" json:"industry"`
	SkillsRequired []string       `gorm:"serializer:json" json:"skills_required"`

	DurationWeeks int              `json:"duration_weeks"`
	StartDate     time.Time        `json:"start_date"`
	EndDate       time.Time        `json:"end_date"`
	IsPaid        bool             `gorm:"default:false" json:"is_paid"`
	Stipend       *decimal.Decimal `gorm:"type:decimal(10,2)" json:"stipend,omitempty"`

	AvailableSlots     int  `json:"available_slots"`
	IsActive           bool `gorm:"default:true" json:"is_active"`
	RequireResume      bool `gorm:"default:true" json:"require_resume"`
	RequireCoverLetter bool `gorm:"default:false" json:"require_cover_letter"`

	IsDeleted bool       `gorm:"default:false;index" json:"-"`
	DeletedAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Internship model
func (Internship) TableName() string {
	return "internships"
}

// InternshipOffer is a proposal from the internship owner to a student
type InternshipOffer struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	InternshipID uint           `gorm:"not null;uniqueIndex:idx_internship_offer_pair" json:"internship_id"`
	Internship   Internship     `gorm:"foreignKey:InternshipID" json:"internship,omitempty"`
	StudentID    uint           `gorm:"not null;uniqueIndex:idx_internship_offer_pair" json:"student_id"`
	Student      StudentProfile `gorm:"foreignKey:StudentID" json:"student,omitempty"`

	Status      ProposalStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	RespondedAt *time.Time     `json:"responded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for InternshipOffer model
func (InternshipOffer) TableName() string {
	return "internship_offers"
}

// InternshipApplication is a student's application to an internship,
// optionally carrying a resume reference and cover letter
type InternshipApplication struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	InternshipID uint           `gorm:"not null;uniqueIndex:idx_internship_application_pair" json:"internship_id"`
	Internship   Internship     `gorm:"foreignKey:InternshipID" json:"internship,omitempty"`
	StudentID    uint           `gorm:"not null;uniqueIndex:idx_internship_application_pair" json:"student_id"`
	Student      StudentProfile `gorm:"foreignKey:StudentID" json:"student,omitempty"`

	ResumeURL   *string `gorm:"size:500" json:"resume_url,omitempty"`
	CoverLetter *string `gorm:"type:text" json:"cover_letter,omitempty"`

	Status      ProposalStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	RespondedAt *time.Time     `json:"responded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for InternshipApplication model
func (InternshipApplication) TableName() string {
	return "internship_applications"
}

// InternshipEngagement mirrors MentorshipEngagement for internships
type InternshipEngagement struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	InternshipID uint           `gorm:"not null;uniqueIndex:idx_internship_engagement_pair" json:"internship_id"`
	Internship   Internship     `gorm:"foreignKey:InternshipID" json:"internship,omitempty"`
	StudentID    uint           `gorm:"not null;uniqueIndex:idx_internship_engagement_pair" json:"student_id"`
	Student      StudentProfile `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	AlumnusID    uint           `gorm:"not null;index" json:"alumnus_id"`

	Source   EngagementSource `gorm:"size:20;not null" json:"source"`
	SourceID uint             `gorm:"not null" json:"source_id"`

	Status EngagementStatus `gorm:"size:20;not null;default:ACTIVE;index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for InternshipEngagement model
func (InternshipEngagement) TableName() string {
	return "internship_engagements"
}

// CreateInternshipRequest represents a request to create an internship
type CreateInternshipRequest struct {
	Title          string           `json:"title" binding:"required"`
	Description    string           `json:"description"`
	WorkMode       WorkMode         `json:"work_mode" binding:"required"`
	EngagementType EngagementType   `json:"engagement_type" binding:"required"`
	Location       string           `json:"location"`
	Industry       string           `json:"industry"`
	SkillsRequired []string         `json:"skills_required"`
	DurationWeeks  int              `json:"duration_weeks" binding:"required,gt=0"`
	StartDate      time.Time        `json:"start_date" binding:"required"`
	EndDate        time.Time        `json:"end_date" binding:"required"`
	IsPaid         bool             `json:"is_paid"`
	Stipend        *decimal.Decimal `json:"stipend"`
	AvailableSlots int              `json:"available_slots"`
	RequireResume  *bool            `json:"require_resume"`
}

// UpdateInternshipRequest represents a partial update to an internship
type UpdateInternshipRequest struct {
	Title          *string          `json:"title"`
	Description    *string          `json:"description"`
	Location       *string          `json:"location"`
	Industry       *string          `json:"industry"`
	SkillsRequired []string         `json:"skills_required"`
	IsPaid         *bool            `json:"is_paid"`
	Stipend        *decimal.Decimal `json:"stipend"`
	AvailableSlots *int             `json:"available_slots"`
	RequireResume  *bool            `json:"require_resume"`
}

// ApplyInternshipRequest represents a student's application payload
type ApplyInternshipRequest struct {
	ResumeURL   *string `json:"resume_url"`
	CoverLetter *string `json:"cover_letter"`
}
