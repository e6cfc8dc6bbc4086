package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlumniProfile holds the alumnus-specific half of an account
type AlumniProfile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Description string `gorm:"type:text" json:"description,omitempty"`

	MatricNo   string `gorm:"size:15" json:"matric_no"`
	Department string `gorm:"size:50" json:"department"`
	Faculty    string `gorm:"size:50" json:"faculty"`
	GradYear   string `gorm:"size:5" json:"grad_year"`

	CurrentJobTitle string   `gorm:"size:100" json:"current_job_title"`
	CurrentCompany  string   `gorm:"size:100" json:"current_company"`
	Industry        string   `gorm:"size:100" json:"industry"`
	YearsOfExp      int      `json:"years_of_exp"`
	PreviousComps   []string `gorm:"serializer:json" json:"previous_comps,omitempty"`

	LinkedinURL  *string `gorm:"size:200" json:"linkedin_url,omitempty"`
	GithubURL    *string `gorm:"size:200" json:"github_url,omitempty"`
	WebsiteURL   *string `gorm:"size:200" json:"website_url,omitempty"`
	XURL         *string `gorm:"size:200" json:"x_url,omitempty"`
	InstagramURL *string `gorm:"size:200" json:"instagram_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for AlumniProfile model
func (AlumniProfile) TableName() string {
	return "alumni_profiles"
}

// StudentProfile holds the student-specific half of an account
type StudentProfile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Description string `gorm:"type:text" json:"description,omitempty"`

	MatricNo         string          `gorm:"size:15" json:"matric_no"`
	Department       string          `gorm:"size:50" json:"department"`
	Faculty          string          `gorm:"size:50" json:"faculty"`
	Level            int             `json:"level"`
	CGPA             decimal.Decimal `gorm:"type:decimal(3,2)" json:"cgpa"`
	Skills           []string        `gorm:"serializer:json" json:"skills"`
	ExpectedGradYear string          `gorm:"size:4" json:"expected_grad_year"`

	PreferredIndustry      string `gorm:"size:100" json:"preferred_industry"`
	PreferredCompanyType   string `gorm:"size:100" json:"preferred_company_type"`
	WillingnessToRelocate  bool   `json:"willingness_to_relocate"`
	WillingnessToBeMentored bool  `gorm:"default:true" json:"willingness_to_be_mentored"`

	LinkedinURL  *string `gorm:"size:200" json:"linkedin_url,omitempty"`
	GithubURL    *string `gorm:"size:200" json:"github_url,omitempty"`
	WebsiteURL   *string `gorm:"size:200" json:"website_url,omitempty"`
	XURL         *string `gorm:"size:200" json:"x_url,omitempty"`
	InstagramURL *string `gorm:"size:200" json:"instagram_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for StudentProfile model
func (StudentProfile) TableName() string {
	return "student_profiles"
}

// StudentResume is the stored resume reference for a student
type StudentResume struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"uniqueIndex;not null" json:"student_id"`
	ResumeURL string    `gorm:"size:500;not null" json:"resume_url"`
	CreatedAt time.Time `json:"uploaded_at"`
}

// TableName specifies the table name for StudentResume model
func (StudentResume) TableName() string {
	return "student_resumes"
}
