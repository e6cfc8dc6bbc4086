package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"futaverse/internal/auth"
	"futaverse/internal/models"
	"futaverse/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles signup, email verification, login and password reset
type AuthService struct {
	repo   *repository.Repository
	otp    *OTPService
	mailer Mailer
}

// NewAuthService creates a new auth service
func NewAuthService(repo *repository.Repository, otp *OTPService, mailer Mailer) *AuthService {
	return &AuthService{repo: repo, otp: otp, mailer: mailer}
}

// SignupStudent registers a student account. The account starts inactive and
// a verification code is emailed. If the email belongs to an unverified
// account the stale account is replaced.
func (s *AuthService) SignupStudent(ctx context.Context, req *models.SignupStudentRequest) (*models.User, error) {
	user := &models.User{
		Email:      req.Email,
		PhoneNum:   req.PhoneNum,
		Role:       models.UserRoleStudent,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
		IsActive:   false,
	}
	err := s.signup(ctx, user, req.Password, func(r *repository.Repository) error {
		profile := &models.StudentProfile{
			UserID:           user.ID,
			MatricNo:         req.MatricNo,
			Department:       req.Department,
			Faculty:          req.Faculty,
			Level:            req.Level,
			CGPA:             req.CGPA,
			Skills:           req.Skills,
			ExpectedGradYear: req.ExpectedGradYear,
		}
		return r.CreateStudentProfile(ctx, profile)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SignupAlumnus registers an alumnus account, following the same inactive
// account plus verification code flow as student signup
func (s *AuthService) SignupAlumnus(ctx context.Context, req *models.SignupAlumnusRequest) (*models.User, error) {
	user := &models.User{
		Email:      req.Email,
		PhoneNum:   req.PhoneNum,
		Role:       models.UserRoleAlumnus,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
		IsActive:   false,
	}
	err := s.signup(ctx, user, req.Password, func(r *repository.Repository) error {
		profile := &models.AlumniProfile{
			UserID:          user.ID,
			MatricNo:        req.MatricNo,
			Department:      req.Department,
			Faculty:         req.Faculty,
			GradYear:        req.GradYear,
			CurrentJobTitle: req.CurrentJobTitle,
			CurrentCompany:  req.CurrentCompany,
			Industry:        req.Industry,
			YearsOfExp:      req.YearsOfExp,
		}
		return r.CreateAlumniProfile(ctx, profile)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) signup(ctx context.Context, user *models.User, password string, createProfile func(*repository.Repository) error) error {
	existing, err := s.repo.GetUserByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil && existing.IsActive {
		return NewError(CodeDuplicate, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)

	err = s.repo.Transaction(ctx, func(r *repository.Repository) error {
		if existing != nil {
			if err := r.DeleteInactiveUserByEmail(ctx, user.Email); err != nil {
				return fmt.Errorf("failed to replace unverified account: %w", err)
			}
		}
		if err := r.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return createProfile(r)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return NewError(CodeDuplicate, "email already registered")
		}
		return err
	}

	return s.issueCode(ctx, user, "Verify your email")
}

func (s *AuthService) issueCode(ctx context.Context, user *models.User, subject string) error {
	otc, err := s.otp.Generate(ctx, user.ID)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Hello %s,\n\nYour verification code is %s. It expires at %s.",
		user.FirstName, otc.Code, otc.Expiry.Format("15:04 MST"))
	if err := s.mailer.Send(subject, body, user.Email, false); err != nil {
		return WrapError(CodeInternal, "failed to send verification email", err)
	}
	return nil
}

// VerifyEmail consumes the signup verification code and activates the account
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewError(CodeNotFound, "account not found")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := s.otp.VerifyIn(ctx, tx, user.ID, code); err != nil {
			return err
		}
		if err := tx.ActivateUser(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to activate account: %w", err)
		}
		return nil
	})
}

// ResendCode issues a fresh verification code for an unverified account
func (s *AuthService) ResendCode(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewError(CodeNotFound, "account not found")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user.IsActive {
		return NewError(CodeValidation, "account is already verified")
	}
	return s.issueCode(ctx, user, "Verify your email")
}

// Login authenticates an active account and returns a signed token
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeInvalidCredentials, "invalid email or password")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, NewError(CodeInvalidCredentials, "invalid email or password")
	}
	if !user.IsActive {
		return nil, NewError(CodeAccountInactive, "account is not verified")
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// RequestPasswordReset emails a reset code. To avoid leaking which emails are
// registered, an unknown email is not reported as an error.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("password reset requested for unknown email %s", email)
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	return s.issueCode(ctx, user, "Reset your password")
}

// ConfirmPasswordReset consumes the reset code and replaces the password
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewError(CodeNotFound, "account not found")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := s.otp.VerifyIn(ctx, tx, user.ID, code); err != nil {
			return err
		}
		return tx.UpdateUserPassword(ctx, user.ID, string(hash))
	})
}
