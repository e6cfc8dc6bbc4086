package services

import (
	"context"
	"testing"
	"time"

	"futaverse/internal/models"
)

func TestOTPGenerateAndVerify(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewOTPService(repo, 10*time.Minute)
	ctx := context.Background()

	userID, _ := seedStudent(t, db, "otp@test.edu")

	otc, err := svc.Generate(ctx, userID)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(otc.Code) != 6 {
		t.Errorf("expected 6-digit code, got %q", otc.Code)
	}

	if err := svc.Verify(ctx, userID, otc.Code); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	var stored models.OneTimeCode
	if err := db.Where("user_id = ?", userID).First(&stored).Error; err != nil {
		t.Fatalf("failed to load code: %v", err)
	}
	if !stored.Verified {
		t.Error("expected code to be marked verified")
	}
}

func TestOTPVerifyAlreadyUsed(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewOTPService(repo, 10*time.Minute)
	ctx := context.Background()

	userID, _ := seedStudent(t, db, "used@test.edu")

	otc, err := svc.Generate(ctx, userID)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := svc.Verify(ctx, userID, otc.Code); err != nil {
		t.Fatalf("first Verify failed: %v", err)
	}

	// Second use reports consumed even with the right digits
	assertCode(t, svc.Verify(ctx, userID, otc.Code), CodeOTPUsed)
}

func TestOTPVerifyExpired(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewOTPService(repo, -time.Minute)
	ctx := context.Background()

	userID, _ := seedStudent(t, db, "expired@test.edu")

	otc, err := svc.Generate(ctx, userID)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Expiry outranks a matching code
	assertCode(t, svc.Verify(ctx, userID, otc.Code), CodeOTPExpired)
	// and a mismatching one
	assertCode(t, svc.Verify(ctx, userID, "000000"), CodeOTPExpired)
}

func TestOTPVerifyMismatch(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewOTPService(repo, 10*time.Minute)
	ctx := context.Background()

	userID, _ := seedStudent(t, db, "mismatch@test.edu")

	otc, err := svc.Generate(ctx, userID)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	wrong := "000000"
	if wrong == otc.Code {
		wrong = "000001"
	}
	assertCode(t, svc.Verify(ctx, userID, wrong), CodeOTPMismatch)

	// A mismatch does not consume the code
	if err := svc.Verify(ctx, userID, otc.Code); err != nil {
		t.Fatalf("Verify after mismatch failed: %v", err)
	}
}

func TestOTPRegenerateReplacesCode(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewOTPService(repo, 10*time.Minute)
	ctx := context.Background()

	userID, _ := seedStudent(t, db, "regen@test.edu")

	first, err := svc.Generate(ctx, userID)
	if err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}
	if err := svc.Verify(ctx, userID, first.Code); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	// Reissue after consumption: verified flag resets, one row per user
	second, err := svc.Generate(ctx, userID)
	if err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}

	var count int64
	db.Model(&models.OneTimeCode{}).Where("user_id = ?", userID).Count(&count)
	if count != 1 {
		t.Fatalf("expected one code row per user, got %d", count)
	}

	if err := svc.Verify(ctx, userID, second.Code); err != nil {
		t.Fatalf("Verify of reissued code failed: %v", err)
	}
}

func TestOTPVerifyNoCode(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewOTPService(repo, 10*time.Minute)

	userID, _ := seedStudent(t, db, "nocode@test.edu")
	assertCode(t, svc.Verify(context.Background(), userID, "123456"), CodeOTPMismatch)
}
