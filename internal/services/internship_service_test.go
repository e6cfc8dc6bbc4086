package services

import (
	"context"
	"testing"
	"time"

	"futaverse/internal/models"
	"futaverse/internal/repository"
)

func internshipRequest(title string) *models.CreateInternshipRequest {
	return &models.CreateInternshipRequest{
		Title:          title,
		WorkMode:       models.WorkModeRemote,
		EngagementType: models.EngagementTypeFullTime,
		DurationWeeks:  12,
		StartDate:      time.Now().AddDate(0, 1, 0),
		EndDate:        time.Now().AddDate(0, 4, 0),
	}
}

func TestInternshipResumeRequirement(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewInternshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "intern-host@test.edu")
	_, studentID := seedStudent(t, db, "intern-app@test.edu")

	i, err := svc.CreateInternship(ctx, alumnusID, internshipRequest("Backend intern"))
	if err != nil {
		t.Fatalf("CreateInternship failed: %v", err)
	}
	if !i.RequireResume {
		t.Fatal("expected resume requirement to default on")
	}

	// No resume in the request and none on file
	_, err = svc.CreateApplication(ctx, studentID, i.ID, &models.ApplyInternshipRequest{})
	assertCode(t, err, CodeResumeRequired)

	// A stored resume satisfies the requirement
	if err := repo.UpsertStudentResume(ctx, &models.StudentResume{StudentID: studentID, ResumeURL: "https://cv.test/grace.pdf"}); err != nil {
		t.Fatalf("failed to store resume: %v", err)
	}
	app, err := svc.CreateApplication(ctx, studentID, i.ID, &models.ApplyInternshipRequest{})
	if err != nil {
		t.Fatalf("CreateApplication with stored resume failed: %v", err)
	}
	if app.ResumeURL == nil || *app.ResumeURL != "https://cv.test/grace.pdf" {
		t.Error("expected application to carry the stored resume")
	}
}

func TestInternshipInlineResume(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewInternshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "inline-host@test.edu")
	_, studentID := seedStudent(t, db, "inline-app@test.edu")

	i, _ := svc.CreateInternship(ctx, alumnusID, internshipRequest("Data intern"))

	url := "https://cv.test/inline.pdf"
	app, err := svc.CreateApplication(ctx, studentID, i.ID, &models.ApplyInternshipRequest{ResumeURL: &url})
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}
	if app.ResumeURL == nil || *app.ResumeURL != url {
		t.Error("expected the inline resume on the application")
	}
}

func TestInternshipAcceptanceIsUnbounded(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewInternshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "many-host@test.edu")
	i, _ := svc.CreateInternship(ctx, alumnusID, internshipRequest("Open intern"))

	// No slot counter gates internship acceptance
	for n := 0; n < 3; n++ {
		_, studentID := seedStudent(t, db, string(rune('a'+n))+"-many@test.edu")
		offer, err := svc.CreateOffer(ctx, alumnusID, i.ID, studentID)
		if err != nil {
			t.Fatalf("CreateOffer %d failed: %v", n, err)
		}
		if _, err := svc.AcceptOffer(ctx, studentID, offer.ID); err != nil {
			t.Fatalf("AcceptOffer %d failed: %v", n, err)
		}
	}

	engagements, err := svc.ListEngagements(ctx, alumnusID)
	if err != nil {
		t.Fatalf("ListEngagements failed: %v", err)
	}
	if len(engagements) != 3 {
		t.Errorf("expected 3 engagements, got %d", len(engagements))
	}
}

func TestInternshipAlreadyEngaged(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewInternshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "pair-host@test.edu")
	_, studentID := seedStudent(t, db, "pair-student@test.edu")

	i, _ := svc.CreateInternship(ctx, alumnusID, internshipRequest("Pair intern"))

	offer, _ := svc.CreateOffer(ctx, alumnusID, i.ID, studentID)
	url := "https://cv.test/pair.pdf"
	app, _ := svc.CreateApplication(ctx, studentID, i.ID, &models.ApplyInternshipRequest{ResumeURL: &url})

	if _, err := svc.AcceptOffer(ctx, studentID, offer.ID); err != nil {
		t.Fatalf("AcceptOffer failed: %v", err)
	}

	_, err := svc.AcceptApplication(ctx, alumnusID, app.ID)
	assertCode(t, err, CodeAlreadyEngaged)

	// The blocked accept left the application pending
	stored, _ := repo.GetInternshipApplicationByID(ctx, app.ID)
	if stored.Status != models.ProposalStatusPending {
		t.Errorf("expected pending application after rollback, got %s", stored.Status)
	}
}

func TestInternshipToggleActive(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewInternshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "toggle-host@test.edu")
	_, studentID := seedStudent(t, db, "toggle-student@test.edu")

	i, _ := svc.CreateInternship(ctx, alumnusID, internshipRequest("Toggle intern"))

	toggled, err := svc.ToggleActive(ctx, alumnusID, i.ID)
	if err != nil {
		t.Fatalf("ToggleActive failed: %v", err)
	}
	if toggled.IsActive {
		t.Error("expected listing to be inactive after toggle")
	}

	url := "https://cv.test/late.pdf"
	_, err = svc.CreateApplication(ctx, studentID, i.ID, &models.ApplyInternshipRequest{ResumeURL: &url})
	assertCode(t, err, CodeOpportunityClosed)

	// Toggle back and the listing takes proposals again
	if _, err := svc.ToggleActive(ctx, alumnusID, i.ID); err != nil {
		t.Fatalf("second ToggleActive failed: %v", err)
	}
	if _, err := svc.CreateApplication(ctx, studentID, i.ID, &models.ApplyInternshipRequest{ResumeURL: &url}); err != nil {
		t.Fatalf("CreateApplication after re-enable failed: %v", err)
	}
}

func TestInternshipSoftDelete(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewInternshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "del-host@test.edu")
	_, otherID := seedAlumnus(t, db, "del-other@test.edu")

	i, _ := svc.CreateInternship(ctx, alumnusID, internshipRequest("Doomed intern"))

	err := svc.DeleteInternship(ctx, otherID, i.ID)
	assertCode(t, err, CodeForbidden)

	if err := svc.DeleteInternship(ctx, alumnusID, i.ID); err != nil {
		t.Fatalf("DeleteInternship failed: %v", err)
	}
	_, err = svc.GetInternship(ctx, i.ID)
	assertCode(t, err, CodeNotFound)
}

func TestInternshipAcceptRacingEngagementHitsConstraint(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewInternshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "irace-host@test.edu")
	_, studentID := seedStudent(t, db, "irace-student@test.edu")

	i, _ := svc.CreateInternship(ctx, alumnusID, internshipRequest("Platform intern"))
	offer, _ := svc.CreateOffer(ctx, alumnusID, i.ID, studentID)

	// A rival acceptance landing after the existence pre-check leaves the
	// unique constraint as the only guard against the duplicate
	_, err := svc.acceptInternship(ctx, i, studentID, models.EngagementSourceOffer, offer.ID,
		func(r *repository.Repository) (bool, error) {
			rival := &models.InternshipEngagement{
				InternshipID: i.ID,
				StudentID:    studentID,
				AlumnusID:    alumnusID,
				Source:       models.EngagementSourceApplication,
				SourceID:     offer.ID,
				Status:       models.EngagementStatusActive,
			}
			if err := r.CreateInternshipEngagement(ctx, rival); err != nil {
				return false, err
			}
			return r.ResolveInternshipOffer(ctx, offer.ID, models.ProposalStatusAccepted)
		})
	assertCode(t, err, CodeAlreadyEngaged)

	// Rollback left the offer pending and no engagement behind
	stored, _ := repo.GetInternshipOfferByID(ctx, offer.ID)
	if stored.Status != models.ProposalStatusPending {
		t.Errorf("expected offer rolled back to pending, got %s", stored.Status)
	}
	engaged, _ := repo.InternshipEngagementExists(ctx, i.ID, studentID)
	if engaged {
		t.Error("expected no engagement after rollback")
	}
}
