package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"futaverse/internal/models"
	"futaverse/internal/repository"

	"gorm.io/gorm"
)

// MentorshipService manages mentorship listings and the offer, application
// and engagement lifecycle around them
type MentorshipService struct {
	repo   *repository.Repository
	mailer Mailer
}

// NewMentorshipService creates a new mentorship service
func NewMentorshipService(repo *repository.Repository, mailer Mailer) *MentorshipService {
	return &MentorshipService{repo: repo, mailer: mailer}
}

// CreateMentorship creates a listing owned by the alumnus. RemainingSlots
// starts equal to Capacity.
func (s *MentorshipService) CreateMentorship(ctx context.Context, alumnusID uint, req *models.CreateMentorshipRequest) (*models.Mentorship, error) {
	m := &models.Mentorship{
		AlumnusID:      alumnusID,
		Title:          req.Title,
		Description:    req.Description,
		FocusArea:      req.FocusArea,
		Capacity:       req.Capacity,
		RemainingSlots: req.Capacity,
		IsActive:       true,
	}
	if err := s.repo.CreateMentorship(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create mentorship: %w", err)
	}
	return m, nil
}

// GetMentorship retrieves a listing
func (s *MentorshipService) GetMentorship(ctx context.Context, id uint) (*models.Mentorship, error) {
	m, err := s.repo.GetMentorshipByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "mentorship not found")
		}
		return nil, fmt.Errorf("failed to load mentorship: %w", err)
	}
	return m, nil
}

// ListMentorships retrieves all listings owned by an alumnus
func (s *MentorshipService) ListMentorships(ctx context.Context, alumnusID uint) ([]*models.Mentorship, error) {
	return s.repo.ListMentorshipsByAlumnus(ctx, alumnusID)
}

// UpdateMentorship applies a partial update to a listing owned by the
// alumnus. A capacity change shifts remaining slots by the same delta,
// clamped at zero so active engagements are never disturbed.
func (s *MentorshipService) UpdateMentorship(ctx context.Context, alumnusID, id uint, req *models.UpdateMentorshipRequest) (*models.Mentorship, error) {
	m, err := s.GetMentorship(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.AlumnusID != alumnusID {
		return nil, NewError(CodeForbidden, "mentorship belongs to another alumnus")
	}

	// Only the requested columns are written. remaining_slots in particular
	// is shifted inside the UPDATE itself, so a slot claimed by a concurrent
	// acceptance between our read and our write is never resurrected.
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.FocusArea != nil {
		updates["focus_area"] = *req.FocusArea
	}
	if req.Capacity != nil {
		delta := *req.Capacity - m.Capacity
		updates["capacity"] = *req.Capacity
		updates["remaining_slots"] = gorm.Expr(
			"CASE WHEN remaining_slots + ? < 0 THEN 0 ELSE remaining_slots + ? END", delta, delta)
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return m, nil
	}

	if err := s.repo.UpdateMentorshipFields(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("failed to update mentorship: %w", err)
	}
	return s.GetMentorship(ctx, id)
}

// ToggleActive flips whether the listing accepts new proposals
func (s *MentorshipService) ToggleActive(ctx context.Context, alumnusID, id uint) (*models.Mentorship, error) {
	m, err := s.GetMentorship(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.AlumnusID != alumnusID {
		return nil, NewError(CodeForbidden, "mentorship belongs to another alumnus")
	}
	if err := s.repo.SetMentorshipActive(ctx, id, !m.IsActive); err != nil {
		return nil, fmt.Errorf("failed to toggle mentorship: %w", err)
	}
	m.IsActive = !m.IsActive
	return m, nil
}

// DeleteMentorship soft-deletes a listing owned by the alumnus. Existing
// engagements are unaffected.
func (s *MentorshipService) DeleteMentorship(ctx context.Context, alumnusID, id uint) error {
	m, err := s.GetMentorship(ctx, id)
	if err != nil {
		return err
	}
	if m.AlumnusID != alumnusID {
		return NewError(CodeForbidden, "mentorship belongs to another alumnus")
	}
	return s.repo.SoftDeleteMentorship(ctx, id)
}

// CreateOffer lets the listing owner offer a slot to a student. A pair that
// already has an offer in any status is rejected; a rejected or withdrawn
// offer permanently blocks a new one for the same pair.
func (s *MentorshipService) CreateOffer(ctx context.Context, alumnusID, mentorshipID, studentID uint) (*models.MentorshipOffer, error) {
	m, err := s.GetMentorship(ctx, mentorshipID)
	if err != nil {
		return nil, err
	}
	if m.AlumnusID != alumnusID {
		return nil, NewError(CodeForbidden, "mentorship belongs to another alumnus")
	}
	if !m.IsActive {
		return nil, NewError(CodeOpportunityClosed, "mentorship is not accepting proposals")
	}
	if _, err := s.repo.GetStudentProfileByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "student not found")
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	offer := &models.MentorshipOffer{
		MentorshipID: mentorshipID,
		StudentID:    studentID,
		Status:       models.ProposalStatusPending,
	}
	if err := s.repo.CreateMentorshipOffer(ctx, offer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewError(CodeDuplicate, "an offer already exists for this student")
		}
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}
	return offer, nil
}

// CreateApplication lets a student apply to a listing. Same pair-uniqueness
// rule as offers.
func (s *MentorshipService) CreateApplication(ctx context.Context, studentID, mentorshipID uint) (*models.MentorshipApplication, error) {
	m, err := s.GetMentorship(ctx, mentorshipID)
	if err != nil {
		return nil, err
	}
	if !m.IsActive {
		return nil, NewError(CodeOpportunityClosed, "mentorship is not accepting proposals")
	}

	app := &models.MentorshipApplication{
		MentorshipID: mentorshipID,
		StudentID:    studentID,
		Status:       models.ProposalStatusPending,
	}
	if err := s.repo.CreateMentorshipApplication(ctx, app); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewError(CodeDuplicate, "you have already applied to this mentorship")
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return app, nil
}

// ListOffers retrieves offers visible to the viewer
func (s *MentorshipService) ListOffers(ctx context.Context, viewer Viewer) ([]*models.MentorshipOffer, error) {
	return s.repo.ListMentorshipOffers(ctx, viewer.ScopeMentorshipProposals("mentorship_offers"))
}

// ListApplications retrieves applications visible to the viewer
func (s *MentorshipService) ListApplications(ctx context.Context, viewer Viewer) ([]*models.MentorshipApplication, error) {
	return s.repo.ListMentorshipApplications(ctx, viewer.ScopeMentorshipProposals("mentorship_applications"))
}

// AcceptOffer is the student accepting an offer made to them. Resolution,
// engagement creation and slot claim happen in one transaction: any failure
// rolls back all three.
func (s *MentorshipService) AcceptOffer(ctx context.Context, studentID, offerID uint) (*models.MentorshipEngagement, error) {
	offer, err := s.getOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.StudentID != studentID {
		return nil, NewError(CodeForbidden, "offer is addressed to another student")
	}
	return s.acceptMentorship(ctx, &offer.Mentorship, offer.StudentID,
		models.EngagementSourceOffer, offer.ID, func(r *repository.Repository) (bool, error) {
			return r.ResolveMentorshipOffer(ctx, offer.ID, models.ProposalStatusAccepted)
		})
}

// RejectOffer is the student declining an offer made to them
func (s *MentorshipService) RejectOffer(ctx context.Context, studentID, offerID uint) error {
	offer, err := s.getOffer(ctx, offerID)
	if err != nil {
		return err
	}
	if offer.StudentID != studentID {
		return NewError(CodeForbidden, "offer is addressed to another student")
	}
	return s.resolve(func() (bool, error) {
		return s.repo.ResolveMentorshipOffer(ctx, offer.ID, models.ProposalStatusRejected)
	})
}

// WithdrawOffer is the proposing alumnus retracting a pending offer
func (s *MentorshipService) WithdrawOffer(ctx context.Context, alumnusID, offerID uint) error {
	offer, err := s.getOffer(ctx, offerID)
	if err != nil {
		return err
	}
	if offer.Mentorship.AlumnusID != alumnusID {
		return NewError(CodeForbidden, "offer belongs to another alumnus")
	}
	return s.resolve(func() (bool, error) {
		return s.repo.ResolveMentorshipOffer(ctx, offer.ID, models.ProposalStatusWithdrawn)
	})
}

// AcceptApplication is the listing owner accepting a student's application
func (s *MentorshipService) AcceptApplication(ctx context.Context, alumnusID, applicationID uint) (*models.MentorshipEngagement, error) {
	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Mentorship.AlumnusID != alumnusID {
		return nil, NewError(CodeForbidden, "application belongs to another alumnus")
	}
	return s.acceptMentorship(ctx, &app.Mentorship, app.StudentID,
		models.EngagementSourceApplication, app.ID, func(r *repository.Repository) (bool, error) {
			return r.ResolveMentorshipApplication(ctx, app.ID, models.ProposalStatusAccepted)
		})
}

// RejectApplication is the listing owner declining a student's application
func (s *MentorshipService) RejectApplication(ctx context.Context, alumnusID, applicationID uint) error {
	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.Mentorship.AlumnusID != alumnusID {
		return NewError(CodeForbidden, "application belongs to another alumnus")
	}
	return s.resolve(func() (bool, error) {
		return s.repo.ResolveMentorshipApplication(ctx, app.ID, models.ProposalStatusRejected)
	})
}

// WithdrawApplication is the applying student retracting a pending application
func (s *MentorshipService) WithdrawApplication(ctx context.Context, studentID, applicationID uint) error {
	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.StudentID != studentID {
		return NewError(CodeForbidden, "application belongs to another student")
	}
	return s.resolve(func() (bool, error) {
		return s.repo.ResolveMentorshipApplication(ctx, app.ID, models.ProposalStatusWithdrawn)
	})
}

// ListEngagements retrieves engagements owned by an alumnus
func (s *MentorshipService) ListEngagements(ctx context.Context, alumnusID uint) ([]*models.MentorshipEngagement, error) {
	return s.repo.ListMentorshipEngagementsByAlumnus(ctx, alumnusID)
}

// EngagementSource resolves the offer or application an engagement originated
// from, for either participant.
func (s *MentorshipService) EngagementSource(ctx context.Context, e *models.MentorshipEngagement) (interface{}, error) {
	switch e.Source {
	case models.EngagementSourceOffer:
		return s.getOffer(ctx, e.SourceID)
	case models.EngagementSourceApplication:
		return s.getApplication(ctx, e.SourceID)
	}
	return nil, fmt.Errorf("unknown engagement source %q", e.Source)
}

// GetEngagement loads an engagement visible to the caller
func (s *MentorshipService) GetEngagement(ctx context.Context, alumnusID, id uint) (*models.MentorshipEngagement, error) {
	e, err := s.repo.GetMentorshipEngagementByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "engagement not found")
		}
		return nil, fmt.Errorf("failed to load engagement: %w", err)
	}
	if e.AlumnusID != alumnusID {
		return nil, NewError(CodeForbidden, "engagement belongs to another alumnus")
	}
	return e, nil
}

// CompleteEngagement marks an engagement completed by its owning alumnus
func (s *MentorshipService) CompleteEngagement(ctx context.Context, alumnusID, id uint) error {
	return s.setEngagementStatus(ctx, alumnusID, id, models.EngagementStatusCompleted)
}

// TerminateEngagement marks an engagement terminated by its owning alumnus
func (s *MentorshipService) TerminateEngagement(ctx context.Context, alumnusID, id uint) error {
	return s.setEngagementStatus(ctx, alumnusID, id, models.EngagementStatusTerminated)
}

func (s *MentorshipService) setEngagementStatus(ctx context.Context, alumnusID, id uint, status models.EngagementStatus) error {
	e, err := s.repo.GetMentorshipEngagementByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewError(CodeNotFound, "engagement not found")
		}
		return fmt.Errorf("failed to load engagement: %w", err)
	}
	if e.AlumnusID != alumnusID {
		return NewError(CodeForbidden, "engagement belongs to another alumnus")
	}
	return s.repo.SetMentorshipEngagementStatus(ctx, id, status)
}

func (s *MentorshipService) getOffer(ctx context.Context, id uint) (*models.MentorshipOffer, error) {
	offer, err := s.repo.GetMentorshipOfferByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "offer not found")
		}
		return nil, fmt.Errorf("failed to load offer: %w", err)
	}
	return offer, nil
}

func (s *MentorshipService) getApplication(ctx context.Context, id uint) (*models.MentorshipApplication, error) {
	app, err := s.repo.GetMentorshipApplicationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "application not found")
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	return app, nil
}

// resolve runs a conditional pending-to-terminal transition and maps a missed
// update to the already-resolved conflict
func (s *MentorshipService) resolve(fn func() (bool, error)) error {
	moved, err := fn()
	if err != nil {
		return fmt.Errorf("failed to resolve proposal: %w", err)
	}
	if !moved {
		return NewError(CodeAlreadyResolved, "proposal has already been resolved")
	}
	return nil
}

// acceptMentorship runs the shared acceptance flow for offers and
// applications. The status transition, the engagement insert and the slot
// claim are each conditional, so two racing accepts for the same slot or the
// same student cannot both succeed.
func (s *MentorshipService) acceptMentorship(ctx context.Context, m *models.Mentorship, studentID uint,
	source models.EngagementSource, sourceID uint, resolveFn func(*repository.Repository) (bool, error)) (*models.MentorshipEngagement, error) {

	if !m.IsActive || m.IsDeleted {
		return nil, NewError(CodeOpportunityClosed, "mentorship is no longer active")
	}

	engaged, err := s.repo.MentorshipEngagementExists(ctx, m.ID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check engagement: %w", err)
	}
	if engaged {
		return nil, NewError(CodeAlreadyEngaged, "student is already engaged in this mentorship")
	}

	engagement := &models.MentorshipEngagement{
		MentorshipID: m.ID,
		StudentID:    studentID,
		AlumnusID:    m.AlumnusID,
		Source:       source,
		SourceID:     sourceID,
		Status:       models.EngagementStatusActive,
	}

	err = s.repo.Transaction(ctx, func(r *repository.Repository) error {
		moved, err := resolveFn(r)
		if err != nil {
			return fmt.Errorf("failed to resolve proposal: %w", err)
		}
		if !moved {
			return NewError(CodeAlreadyResolved, "proposal has already been resolved")
		}

		if err := r.CreateMentorshipEngagement(ctx, engagement); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return NewError(CodeAlreadyEngaged, "student is already engaged in this mentorship")
			}
			return fmt.Errorf("failed to create engagement: %w", err)
		}

		claimed, err := r.DecrementMentorshipSlots(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("failed to claim slot: %w", err)
		}
		if !claimed {
			return NewError(CodeNoSlotsRemaining, "mentorship has no remaining slots")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyAcceptance(ctx, m, studentID)
	return engagement, nil
}

// notifyAcceptance emails both parties. Notification failures are logged,
// never surfaced: the engagement already exists.
func (s *MentorshipService) notifyAcceptance(ctx context.Context, m *models.Mentorship, studentID uint) {
	student, err := s.repo.GetStudentProfileByID(ctx, studentID)
	if err != nil {
		log.Printf("acceptance notification skipped for mentorship %d: %v", m.ID, err)
		return
	}
	user, err := s.repo.GetUserByID(ctx, student.UserID)
	if err != nil {
		log.Printf("acceptance notification skipped for mentorship %d: %v", m.ID, err)
		return
	}
	body := fmt.Sprintf("Hello %s,\n\nYour mentorship engagement for %q is now active.", user.FirstName, m.Title)
	if err := s.mailer.Send("Mentorship engagement confirmed", body, user.Email, false); err != nil {
		log.Printf("failed to send acceptance email for mentorship %d: %v", m.ID, err)
	}
}
