package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"futaverse/internal/models"
	"futaverse/internal/repository"
	"futaverse/internal/utils"

	"gorm.io/gorm"
)

const otpLength = 6

// OTPService issues and verifies one-time codes. Each user holds at most one
// live code; issuing a new one overwrites the previous one.
type OTPService struct {
	repo *repository.Repository
	ttl  time.Duration
}

// NewOTPService creates a new OTP service
func NewOTPService(repo *repository.Repository, ttl time.Duration) *OTPService {
	return &OTPService{repo: repo, ttl: ttl}
}

// Generate issues a fresh code for the user, replacing any existing one
func (s *OTPService) Generate(ctx context.Context, userID uint) (*models.OneTimeCode, error) {
	code, err := utils.GenerateOTP(otpLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	otc := &models.OneTimeCode{
		UserID:   userID,
		Code:     code,
		Expiry:   time.Now().Add(s.ttl),
		Verified: false,
	}
	if err := s.repo.UpsertOneTimeCode(ctx, otc); err != nil {
		return nil, fmt.Errorf("failed to store code: %w", err)
	}
	return otc, nil
}

// Verify checks the submitted code against the user's live code and consumes
// it on success. A consumed code reports as already used regardless of expiry,
// and an expired code reports as expired regardless of whether the digits match.
func (s *OTPService) Verify(ctx context.Context, userID uint, code string) error {
	return s.VerifyIn(ctx, s.repo, userID, code)
}

// VerifyIn is Verify against a specific repository, so callers can consume the
// code inside their own transaction.
func (s *OTPService) VerifyIn(ctx context.Context, repo *repository.Repository, userID uint, code string) error {
	otc, err := repo.GetOneTimeCodeByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewError(CodeOTPMismatch, "no verification code found")
		}
		return fmt.Errorf("failed to load code: %w", err)
	}

	if otc.Verified {
		return NewError(CodeOTPUsed, "verification code already used")
	}
	if otc.Expired(time.Now()) {
		return NewError(CodeOTPExpired, "verification code expired")
	}
	if otc.Code != code {
		return NewError(CodeOTPMismatch, "verification code does not match")
	}

	if err := repo.MarkOneTimeCodeVerified(ctx, otc.ID); err != nil {
		return fmt.Errorf("failed to consume code: %w", err)
	}
	return nil
}
