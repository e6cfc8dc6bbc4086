package services

import (
	"context"
	"testing"

	"futaverse/internal/models"
	"futaverse/internal/repository"
)

func TestCreateMentorshipInitializesSlots(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewMentorshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "mentor@test.edu")

	m, err := svc.CreateMentorship(ctx, alumnusID, &models.CreateMentorshipRequest{
		Title:    "Backend mentorship",
		Capacity: 3,
	})
	if err != nil {
		t.Fatalf("CreateMentorship failed: %v", err)
	}
	if m.RemainingSlots != 3 {
		t.Errorf("expected remaining slots to equal capacity, got %d", m.RemainingSlots)
	}
	if !m.IsActive {
		t.Error("expected new listing to be active")
	}
}

func TestOfferLifecycle(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewMentorshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "owner@test.edu")
	_, studentID := seedStudent(t, db, "mentee@test.edu")

	m, err := svc.CreateMentorship(ctx, alumnusID, &models.CreateMentorshipRequest{Title: "Go mentorship", Capacity: 2})
	if err != nil {
		t.Fatalf("CreateMentorship failed: %v", err)
	}

	offer, err := svc.CreateOffer(ctx, alumnusID, m.ID, studentID)
	if err != nil {
		t.Fatalf("CreateOffer failed: %v", err)
	}
	if offer.Status != models.ProposalStatusPending {
		t.Errorf("expected pending offer, got %s", offer.Status)
	}

	// Duplicate offer for the same pair is rejected outright
	_, err = svc.CreateOffer(ctx, alumnusID, m.ID, studentID)
	assertCode(t, err, CodeDuplicate)

	engagement, err := svc.AcceptOffer(ctx, studentID, offer.ID)
	if err != nil {
		t.Fatalf("AcceptOffer failed: %v", err)
	}
	if engagement.Source != models.EngagementSourceOffer || engagement.SourceID != offer.ID {
		t.Errorf("expected engagement sourced from offer %d, got %s/%d", offer.ID, engagement.Source, engagement.SourceID)
	}
	if engagement.Status != models.EngagementStatusActive {
		t.Errorf("expected active engagement, got %s", engagement.Status)
	}

	// Slot was claimed
	reloaded, err := svc.GetMentorship(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMentorship failed: %v", err)
	}
	if reloaded.RemainingSlots != 1 {
		t.Errorf("expected 1 remaining slot, got %d", reloaded.RemainingSlots)
	}

	// Offer is terminal with a response timestamp
	stored, err := repo.GetMentorshipOfferByID(ctx, offer.ID)
	if err != nil {
		t.Fatalf("failed to reload offer: %v", err)
	}
	if stored.Status != models.ProposalStatusAccepted {
		t.Errorf("expected accepted offer, got %s", stored.Status)
	}
	if stored.RespondedAt == nil {
		t.Error("expected responded_at to be set")
	}

	// Accepting again hits the terminal guard
	_, err = svc.AcceptOffer(ctx, studentID, offer.ID)
	assertCode(t, err, CodeAlreadyResolved)
}

func TestAcceptOfferWrongStudent(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewMentorshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "owner2@test.edu")
	_, studentID := seedStudent(t, db, "invited@test.edu")
	_, otherID := seedStudent(t, db, "other@test.edu")

	m, _ := svc.CreateMentorship(ctx, alumnusID, &models.CreateMentorshipRequest{Title: "x", Capacity: 1})
	offer, err := svc.CreateOffer(ctx, alumnusID, m.ID, studentID)
	if err != nil {
		t.Fatalf("CreateOffer failed: %v", err)
	}

	_, err = svc.AcceptOffer(ctx, otherID, offer.ID)
	assertCode(t, err, CodeForbidden)
}

func TestCreateOfferOwnershipAndActivity(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewMentorshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, ownerID := seedAlumnus(t, db, "realowner@test.edu")
	_, intruderID := seedAlumnus(t, db, "intruder@test.edu")
	_, studentID := seedStudent(t, db, "target@test.edu")

	m, _ := svc.CreateMentorship(ctx, ownerID, &models.CreateMentorshipRequest{Title: "x", Capacity: 1})

	_, err := svc.CreateOffer(ctx, intruderID, m.ID, studentID)
	assertCode(t, err, CodeForbidden)

	// Deactivated listings take no new proposals
	inactive := false
	if _, err := svc.UpdateMentorship(ctx, ownerID, m.ID, &models.UpdateMentorshipRequest{IsActive: &inactive}); err != nil {
		t.Fatalf("UpdateMentorship failed: %v", err)
	}
	_, err = svc.CreateOffer(ctx, ownerID, m.ID, studentID)
	assertCode(t, err, CodeOpportunityClosed)

	_, err = svc.CreateApplication(ctx, studentID, m.ID)
	assertCode(t, err, CodeOpportunityClosed)
}

func TestApplicationLifecycle(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewMentorshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "host@test.edu")
	_, studentID := seedStudent(t, db, "applicant@test.edu")

	m, _ := svc.CreateMentorship(ctx, alumnusID, &models.CreateMentorshipRequest{Title: "x", Capacity: 1})

	app, err := svc.CreateApplication(ctx, studentID, m.ID)
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	// Duplicate application for the same pair is rejected
	_, err = svc.CreateApplication(ctx, studentID, m.ID)
	assertCode(t, err, CodeDuplicate)

	// Only the listing owner resolves applications
	_, otherID := seedAlumnus(t, db, "bystander@test.edu")
	_, err = svc.AcceptApplication(ctx, otherID, app.ID)
	assertCode(t, err, CodeForbidden)

	engagement, err := svc.AcceptApplication(ctx, alumnusID, app.ID)
	if err != nil {
		t.Fatalf("AcceptApplication failed: %v", err)
	}
	if engagement.Source != models.EngagementSourceApplication {
		t.Errorf("expected application-sourced engagement, got %s", engagement.Source)
	}
}

func TestCapacityExhaustion(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewMentorshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "full@test.edu")
	_, firstID := seedStudent(t, db, "first@test.edu")
	_, secondID := seedStudent(t, db, "second@test.edu")

	m, _ := svc.CreateMentorship(ctx, alumnusID, &models.CreateMentorshipRequest{Title: "x", Capacity: 1})

	firstOffer, _ := svc.CreateOffer(ctx, alumnusID, m.ID, firstID)
	secondOffer, _ := svc.CreateOffer(ctx, alumnusID, m.ID, secondID)

	if _, err := svc.AcceptOffer(ctx, firstID, firstOffer.ID); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}

	_, err := svc.AcceptOffer(ctx, secondID, secondOffer.ID)
	assertCode(t, err, CodeNoSlotsRemaining)

	// The failed accept rolled back: the offer is still pending and no
	// engagement exists for the second student
	stored, _ := repo.GetMentorshipOfferByID(ctx, secondOffer.ID)
	if stored.Status != models.ProposalStatusPending {
		t.Errorf("expected rolled-back offer to stay pending, got %s", stored.Status)
	}
	engaged, _ := repo.MentorshipEngagementExists(ctx, m.ID, secondID)
	if engaged {
		t.Error("expected no engagement for the student whose accept failed")
	}
}

func TestAlreadyEngagedAcrossProposalKinds(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewMentorshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "dual@test.edu")
	_, studentID := seedStudent(t, db, "keen@test.edu")

	m, _ := svc.CreateMentorship(ctx, alumnusID, &models.CreateMentorshipRequest{Title: "x", Capacity: 5})

	offer, _ := svc.CreateOffer(ctx, alumnusID, m.ID, studentID)
	app, _ := svc.CreateApplication(ctx, studentID, m.ID)

	if _, err := svc.AcceptOffer(ctx, studentID, offer.ID); err != nil {
		t.Fatalf("AcceptOffer failed: %v", err)
	}

	// The parallel application cannot create a second engagement
	_, err := svc.AcceptApplication(ctx, alumnusID, app.ID)
	assertCode(t, err, CodeAlreadyEngaged)

	reloaded, _ := svc.GetMentorship(ctx, m.ID)
	if reloaded.RemainingSlots != 4 {
		t.Errorf("expected a single slot claim, got %d remaining of 5", reloaded.RemainingSlots)
	}
}

func TestRejectAndWithdraw(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewMentorshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "rw@test.edu")
	_, studentID := seedStudent(t, db, "rw-student@test.edu")

	m, _ := svc.CreateMentorship(ctx, alumnusID, &models.CreateMentorshipRequest{Title: "x", Capacity: 2})

	offer, _ := svc.CreateOffer(ctx, alumnusID, m.ID, studentID)
	if err := svc.RejectOffer(ctx, studentID, offer.ID); err != nil {
		t.Fatalf("RejectOffer failed: %v", err)
	}

	// Rejection is terminal
	_, err := svc.AcceptOffer(ctx, studentID, offer.ID)
	assertCode(t, err, CodeAlreadyResolved)

	// A resolved pair permanently blocks a fresh offer
	_, err = svc.CreateOffer(ctx, alumnusID, m.ID, studentID)
	assertCode(t, err, CodeDuplicate)

	// No slot was consumed by rejection
	reloaded, _ := svc.GetMentorship(ctx, m.ID)
	if reloaded.RemainingSlots != 2 {
		t.Errorf("expected untouched slots, got %d", reloaded.RemainingSlots)
	}

	// Withdrawal is the proposer's move: the student cannot withdraw an
	// offer, and the alumnus cannot withdraw a student's application
	app, _ := svc.CreateApplication(ctx, studentID, m.ID)
	if err := svc.WithdrawApplication(ctx, studentID, app.ID); err != nil {
		t.Fatalf("WithdrawApplication failed: %v", err)
	}
	err = svc.WithdrawApplication(ctx, studentID, app.ID)
	assertCode(t, err, CodeAlreadyResolved)
}

func TestViewerScoping(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewMentorshipService(repo, &fakeMailer{})
	ctx := context.Background()

	aliceUserID, aliceID := seedAlumnus(t, db, "alice@test.edu")
	_, bobID := seedAlumnus(t, db, "bob@test.edu")
	carolUserID, carolID := seedStudent(t, db, "carol@test.edu")
	_, daveID := seedStudent(t, db, "dave@test.edu")

	aliceListing, _ := svc.CreateMentorship(ctx, aliceID, &models.CreateMentorshipRequest{Title: "alice", Capacity: 2})
	bobListing, _ := svc.CreateMentorship(ctx, bobID, &models.CreateMentorshipRequest{Title: "bob", Capacity: 2})

	svc.CreateOffer(ctx, aliceID, aliceListing.ID, carolID)
	svc.CreateOffer(ctx, bobID, bobListing.ID, carolID)
	svc.CreateOffer(ctx, bobID, bobListing.ID, daveID)

	aliceViewer, err := ViewerForUser(ctx, repo, aliceUserID, models.UserRoleAlumnus)
	if err != nil {
		t.Fatalf("ViewerForUser(alumnus) failed: %v", err)
	}
	offers, err := svc.ListOffers(ctx, aliceViewer)
	if err != nil {
		t.Fatalf("ListOffers failed: %v", err)
	}
	if len(offers) != 1 {
		t.Errorf("expected alice to see 1 offer, got %d", len(offers))
	}

	carolViewer, err := ViewerForUser(ctx, repo, carolUserID, models.UserRoleStudent)
	if err != nil {
		t.Fatalf("ViewerForUser(student) failed: %v", err)
	}
	offers, err = svc.ListOffers(ctx, carolViewer)
	if err != nil {
		t.Fatalf("ListOffers failed: %v", err)
	}
	if len(offers) != 2 {
		t.Errorf("expected carol to see 2 offers, got %d", len(offers))
	}
}

func TestSoftDeleteHidesListing(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewMentorshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "gone@test.edu")
	m, _ := svc.CreateMentorship(ctx, alumnusID, &models.CreateMentorshipRequest{Title: "x", Capacity: 1})

	if err := svc.DeleteMentorship(ctx, alumnusID, m.ID); err != nil {
		t.Fatalf("DeleteMentorship failed: %v", err)
	}

	_, err := svc.GetMentorship(ctx, m.ID)
	assertCode(t, err, CodeNotFound)

	// The row survives as a tombstone
	var stored models.Mentorship
	if err := db.Unscoped().First(&stored, m.ID).Error; err != nil {
		t.Fatalf("expected tombstone row: %v", err)
	}
	if !stored.IsDeleted || stored.DeletedAt == nil {
		t.Error("expected is_deleted and deleted_at to be set")
	}
}

func TestEngagementStatusTransitions(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewMentorshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "status@test.edu")
	_, studentID := seedStudent(t, db, "status-student@test.edu")

	m, _ := svc.CreateMentorship(ctx, alumnusID, &models.CreateMentorshipRequest{Title: "x", Capacity: 1})
	offer, _ := svc.CreateOffer(ctx, alumnusID, m.ID, studentID)
	engagement, err := svc.AcceptOffer(ctx, studentID, offer.ID)
	if err != nil {
		t.Fatalf("AcceptOffer failed: %v", err)
	}

	if err := svc.CompleteEngagement(ctx, alumnusID, engagement.ID); err != nil {
		t.Fatalf("CompleteEngagement failed: %v", err)
	}
	stored, _ := repo.GetMentorshipEngagementByID(ctx, engagement.ID)
	if stored.Status != models.EngagementStatusCompleted {
		t.Errorf("expected completed, got %s", stored.Status)
	}

	// Another alumnus cannot touch it
	_, otherID := seedAlumnus(t, db, "status-other@test.edu")
	err = svc.TerminateEngagement(ctx, otherID, engagement.ID)
	assertCode(t, err, CodeForbidden)
}

func TestToggleActiveBlocksProposals(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewMentorshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "toggle@test.edu")
	_, studentID := seedStudent(t, db, "toggle-student@test.edu")

	m, _ := svc.CreateMentorship(ctx, alumnusID, &models.CreateMentorshipRequest{Title: "x", Capacity: 1})

	toggled, err := svc.ToggleActive(ctx, alumnusID, m.ID)
	if err != nil {
		t.Fatalf("ToggleActive failed: %v", err)
	}
	if toggled.IsActive {
		t.Error("expected listing to be inactive after toggle")
	}

	_, err = svc.CreateApplication(ctx, studentID, m.ID)
	assertCode(t, err, CodeOpportunityClosed)

	// Another alumnus cannot toggle it
	_, otherID := seedAlumnus(t, db, "toggle-other@test.edu")
	_, err = svc.ToggleActive(ctx, otherID, m.ID)
	assertCode(t, err, CodeForbidden)

	// Toggling back reopens the listing
	reopened, err := svc.ToggleActive(ctx, alumnusID, m.ID)
	if err != nil {
		t.Fatalf("ToggleActive failed: %v", err)
	}
	if !reopened.IsActive {
		t.Error("expected listing to be active again")
	}
	if _, err := svc.CreateApplication(ctx, studentID, m.ID); err != nil {
		t.Fatalf("CreateApplication after reopen failed: %v", err)
	}
}

func TestEngagementSourceResolution(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewMentorshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "source@test.edu")
	_, studentID := seedStudent(t, db, "source-student@test.edu")

	m, _ := svc.CreateMentorship(ctx, alumnusID, &models.CreateMentorshipRequest{Title: "x", Capacity: 2})
	app, err := svc.CreateApplication(ctx, studentID, m.ID)
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}
	engagement, err := svc.AcceptApplication(ctx, alumnusID, app.ID)
	if err != nil {
		t.Fatalf("AcceptApplication failed: %v", err)
	}

	loaded, err := svc.GetEngagement(ctx, alumnusID, engagement.ID)
	if err != nil {
		t.Fatalf("GetEngagement failed: %v", err)
	}
	source, err := svc.EngagementSource(ctx, loaded)
	if err != nil {
		t.Fatalf("EngagementSource failed: %v", err)
	}
	resolved, ok := source.(*models.MentorshipApplication)
	if !ok {
		t.Fatalf("expected application source, got %T", source)
	}
	if resolved.ID != app.ID {
		t.Errorf("expected source application %d, got %d", app.ID, resolved.ID)
	}

	// Another alumnus cannot read it
	_, otherID := seedAlumnus(t, db, "source-other@test.edu")
	_, err = svc.GetEngagement(ctx, otherID, engagement.ID)
	assertCode(t, err, CodeForbidden)
}

func TestAcceptRacingEngagementHitsConstraint(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewMentorshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "race@test.edu")
	_, studentID := seedStudent(t, db, "race-student@test.edu")

	m, _ := svc.CreateMentorship(ctx, alumnusID, &models.CreateMentorshipRequest{Title: "x", Capacity: 2})
	offer, _ := svc.CreateOffer(ctx, alumnusID, m.ID, studentID)

	// Simulate a rival acceptance landing after the existence pre-check: the
	// rival row goes in during proposal resolution, so only the unique
	// constraint can catch the duplicate.
	_, err := svc.acceptMentorship(ctx, m, studentID, models.EngagementSourceOffer, offer.ID,
		func(r *repository.Repository) (bool, error) {
			rival := &models.MentorshipEngagement{
				MentorshipID: m.ID,
				StudentID:    studentID,
				AlumnusID:    alumnusID,
				Source:       models.EngagementSourceApplication,
				SourceID:     offer.ID,
				Status:       models.EngagementStatusActive,
			}
			if err := r.CreateMentorshipEngagement(ctx, rival); err != nil {
				return false, err
			}
			return r.ResolveMentorshipOffer(ctx, offer.ID, models.ProposalStatusAccepted)
		})
	assertCode(t, err, CodeAlreadyEngaged)

	// The whole transaction rolled back: offer still pending, no engagement,
	// no slot claimed
	stored, _ := repo.GetMentorshipOfferByID(ctx, offer.ID)
	if stored.Status != models.ProposalStatusPending {
		t.Errorf("expected offer rolled back to pending, got %s", stored.Status)
	}
	engaged, _ := repo.MentorshipEngagementExists(ctx, m.ID, studentID)
	if engaged {
		t.Error("expected no engagement after rollback")
	}
	reloaded, _ := svc.GetMentorship(ctx, m.ID)
	if reloaded.RemainingSlots != 2 {
		t.Errorf("expected slots untouched, got %d", reloaded.RemainingSlots)
	}
}

func TestUpdateMentorshipShiftsSlotsInPlace(t *testing.T) {
	repo, db := setupRepo(t)
	svc := NewMentorshipService(repo, &fakeMailer{})
	ctx := context.Background()

	_, alumnusID := seedAlumnus(t, db, "shift@test.edu")
	_, studentID := seedStudent(t, db, "shift-student@test.edu")

	m, _ := svc.CreateMentorship(ctx, alumnusID, &models.CreateMentorshipRequest{Title: "x", Capacity: 3})
	offer, _ := svc.CreateOffer(ctx, alumnusID, m.ID, studentID)
	if _, err := svc.AcceptOffer(ctx, studentID, offer.ID); err != nil {
		t.Fatalf("AcceptOffer failed: %v", err)
	}

	// A title-only update must not touch the claimed slot
	title := "renamed"
	updated, err := svc.UpdateMentorship(ctx, alumnusID, m.ID, &models.UpdateMentorshipRequest{Title: &title})
	if err != nil {
		t.Fatalf("UpdateMentorship failed: %v", err)
	}
	if updated.RemainingSlots != 2 {
		t.Errorf("expected 2 remaining slots after rename, got %d", updated.RemainingSlots)
	}

	// A capacity change shifts remaining slots by the delta
	capacityUp := 5
	updated, err = svc.UpdateMentorship(ctx, alumnusID, m.ID, &models.UpdateMentorshipRequest{Capacity: &capacityUp})
	if err != nil {
		t.Fatalf("UpdateMentorship failed: %v", err)
	}
	if updated.Capacity != 5 || updated.RemainingSlots != 4 {
		t.Errorf("expected capacity 5 with 4 remaining, got %d/%d", updated.Capacity, updated.RemainingSlots)
	}

	// Shrinking below the claimed count clamps at zero
	_, otherID := seedStudent(t, db, "shift-other@test.edu")
	second, _ := svc.CreateOffer(ctx, alumnusID, m.ID, otherID)
	if _, err := svc.AcceptOffer(ctx, otherID, second.ID); err != nil {
		t.Fatalf("AcceptOffer failed: %v", err)
	}
	capacityDown := 1
	updated, err = svc.UpdateMentorship(ctx, alumnusID, m.ID, &models.UpdateMentorshipRequest{Capacity: &capacityDown})
	if err != nil {
		t.Fatalf("UpdateMentorship failed: %v", err)
	}
	if updated.RemainingSlots != 0 {
		t.Errorf("expected remaining slots clamped at 0, got %d", updated.RemainingSlots)
	}
}
