package models

import "github.com/shopspring/decimal"

// SignupStudentRequest represents a student signup payload
type SignupStudentRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	MiddleName string `json:"middle_name"`
	PhoneNum   string `json:"phone_num"`

	MatricNo         string          `json:"matric_no" binding:"required"`
	Department       string          `json:"department" binding:"required"`
	Faculty          string          `json:"faculty" binding:"required"`
	Level            int             `json:"level" binding:"required"`
	CGPA             decimal.Decimal `json:"cgpa"`
	Skills           []string        `json:"skills"`
	ExpectedGradYear string          `json:"expected_grad_year"`
}

// SignupAlumnusRequest represents an alumnus signup payload
type SignupAlumnusRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	MiddleName string `json:"middle_name"`
	PhoneNum   string `json:"phone_num"`

	MatricNo        string `json:"matric_no" binding:"required"`
	Department      string `json:"department" binding:"required"`
	Faculty         string `json:"faculty" binding:"required"`
	GradYear        string `json:"grad_year" binding:"required"`
	CurrentJobTitle string `json:"current_job_title"`
	CurrentCompany  string `json:"current_company"`
	Industry        string `json:"industry"`
	YearsOfExp      int    `json:"years_of_exp"`
}

// LoginRequest represents a login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyOTPRequest represents an email verification payload
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// ResendOTPRequest asks for a fresh verification code
type ResendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetRequest starts a password reset flow
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirmRequest completes a password reset with a verified code
type PasswordResetConfirmRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// AuthResponse is returned on successful login
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
