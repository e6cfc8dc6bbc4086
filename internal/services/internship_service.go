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

// InternshipService manages internship listings and their proposal
// lifecycle. Internships carry no slot counter: acceptance capacity is
// unbounded and only the engagement pair uniqueness applies.
type InternshipService struct {
	repo   *repository.Repository
	mailer Mailer
}

// NewInternshipService creates a new internship service
func NewInternshipService(repo *repository.Repository, mailer Mailer) *InternshipService {
	return &InternshipService{repo: repo, mailer: mailer}
}

// CreateInternship creates a listing owned by the alumnus
func (s *InternshipService) CreateInternship(ctx context.Context, alumnusID uint, req *models.CreateInternshipRequest) (*models.Internship, error) {
	requireResume := true
	if req.RequireResume != nil {
		requireResume = *req.RequireResume
	}
	i := &models.Internship{
		AlumnusID:      alumnusID,
		Title:          req.Title,
		Description:    req.Description,
		WorkMode:       req.WorkMode,
		EngagementType: req.EngagementType,
		Location:       req.Location,
		Industry:       req.Industry,
		SkillsRequired: req.SkillsRequired,
		DurationWeeks:  req.DurationWeeks,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		IsPaid:         req.IsPaid,
		Stipend:        req.Stipend,
		AvailableSlots: req.AvailableSlots,
		IsActive:       true,
		RequireResume:  requireResume,
	}
	if err := s.repo.CreateInternship(ctx, i); err != nil {
		return nil, fmt.Errorf("failed to create internship: %w", err)
	}
	return i, nil
}

// GetInternship retrieves a listing
func (s *InternshipService) GetInternship(ctx context.Context, id uint) (*models.Internship, error) {
	i, err := s.repo.GetInternshipByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "internship not found")
		}
		return nil, fmt.Errorf("failed to load internship: %w", err)
	}
	return i, nil
}

// ListInternships retrieves all listings owned by an alumnus
func (s *InternshipService) ListInternships(ctx context.Context, alumnusID uint) ([]*models.Internship, error) {
	return s.repo.ListInternshipsByAlumnus(ctx, alumnusID)
}

// UpdateInternship applies a partial update to a listing owned by the alumnus
func (s *InternshipService) UpdateInternship(ctx context.Context, alumnusID, id uint, req *models.UpdateInternshipRequest) (*models.Internship, error) {
	i, err := s.GetInternship(ctx, id)
	if err != nil {
		return nil, err
	}
	if i.AlumnusID != alumnusID {
		return nil, NewError(CodeForbidden, "internship belongs to another alumnus")
	}

	if req.Title != nil {
		i.Title = *req.Title
	}
	if req.Description != nil {
		i.Description = *req.Description
	}
	if req.Location != nil {
		i.Location = *req.Location
	}
	if req.Industry != nil {
		i.Industry = *req.Industry
	}
	if req.SkillsRequired != nil {
		i.SkillsRequired = req.SkillsRequired
	}
	if req.IsPaid != nil {
		i.IsPaid = *req.IsPaid
	}
	if req.Stipend != nil {
		i.Stipend = req.Stipend
	}
	if req.AvailableSlots != nil {
		i.AvailableSlots = *req.AvailableSlots
	}
	if req.RequireResume != nil {
		i.RequireResume = *req.RequireResume
	}

	if err := s.repo.UpdateInternship(ctx, i); err != nil {
		return nil, fmt.Errorf("failed to update internship: %w", err)
	}
	return i, nil
}

// ToggleActive flips whether the listing accepts new proposals
func (s *InternshipService) ToggleActive(ctx context.Context, alumnusID, id uint) (*models.Internship, error) {
	i, err := s.GetInternship(ctx, id)
	if err != nil {
		return nil, err
	}
	if i.AlumnusID != alumnusID {
		return nil, NewError(CodeForbidden, "internship belongs to another alumnus")
	}
	if err := s.repo.SetInternshipActive(ctx, id, !i.IsActive); err != nil {
		return nil, fmt.Errorf("failed to toggle internship: %w", err)
	}
	i.IsActive = !i.IsActive
	return i, nil
}

// DeleteInternship soft-deletes a listing owned by the alumnus
func (s *InternshipService) DeleteInternship(ctx context.Context, alumnusID, id uint) error {
	i, err := s.GetInternship(ctx, id)
	if err != nil {
		return err
	}
	if i.AlumnusID != alumnusID {
		return NewError(CodeForbidden, "internship belongs to another alumnus")
	}
	return s.repo.SoftDeleteInternship(ctx, id)
}

// CreateOffer lets the listing owner offer a position to a student
func (s *InternshipService) CreateOffer(ctx context.Context, alumnusID, internshipID, studentID uint) (*models.InternshipOffer, error) {
	i, err := s.GetInternship(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if i.AlumnusID != alumnusID {
		return nil, NewError(CodeForbidden, "internship belongs to another alumnus")
	}
	if !i.IsActive {
		return nil, NewError(CodeOpportunityClosed, "internship is not accepting proposals")
	}
	if _, err := s.repo.GetStudentProfileByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "student not found")
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	offer := &models.InternshipOffer{
		InternshipID: internshipID,
		StudentID:    studentID,
		Status:       models.ProposalStatusPending,
	}
	if err := s.repo.CreateInternshipOffer(ctx, offer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewError(CodeDuplicate, "an offer already exists for this student")
		}
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}
	return offer, nil
}

// CreateApplication lets a student apply to a listing. When the listing
// requires a resume the application must carry one, falling back to the
// student's stored resume if present.
func (s *InternshipService) CreateApplication(ctx context.Context, studentID, internshipID uint, req *models.ApplyInternshipRequest) (*models.InternshipApplication, error) {
	i, err := s.GetInternship(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if !i.IsActive {
		return nil, NewError(CodeOpportunityClosed, "internship is not accepting proposals")
	}

	resumeURL := req.ResumeURL
	if i.RequireResume && resumeURL == nil {
		stored, err := s.repo.GetStudentResume(ctx, studentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewError(CodeResumeRequired, "this internship requires a resume")
			}
			return nil, fmt.Errorf("failed to load resume: %w", err)
		}
		resumeURL = &stored.ResumeURL
	}

	app := &models.InternshipApplication{
		InternshipID: internshipID,
		StudentID:    studentID,
		ResumeURL:    resumeURL,
		CoverLetter:  req.CoverLetter,
		Status:       models.ProposalStatusPending,
	}
	if err := s.repo.CreateInternshipApplication(ctx, app); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewError(CodeDuplicate, "you have already applied to this internship")
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return app, nil
}

// ListOffers retrieves offers visible to the viewer
func (s *InternshipService) ListOffers(ctx context.Context, viewer Viewer) ([]*models.InternshipOffer, error) {
	return s.repo.ListInternshipOffers(ctx, viewer.ScopeInternshipProposals("internship_offers"))
}

// ListApplications retrieves applications visible to the viewer
func (s *InternshipService) ListApplications(ctx context.Context, viewer Viewer) ([]*models.InternshipApplication, error) {
	return s.repo.ListInternshipApplications(ctx, viewer.ScopeInternshipProposals("internship_applications"))
}

// AcceptOffer is the student accepting an offer made to them
func (s *InternshipService) AcceptOffer(ctx context.Context, studentID, offerID uint) (*models.InternshipEngagement, error) {
	offer, err := s.getOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.StudentID != studentID {
		return nil, NewError(CodeForbidden, "offer is addressed to another student")
	}
	return s.acceptInternship(ctx, &offer.Internship, offer.StudentID,
		models.EngagementSourceOffer, offer.ID, func(r *repository.Repository) (bool, error) {
			return r.ResolveInternshipOffer(ctx, offer.ID, models.ProposalStatusAccepted)
		})
}

// RejectOffer is the student declining an offer made to them
func (s *InternshipService) RejectOffer(ctx context.Context, studentID, offerID uint) error {
	offer, err := s.getOffer(ctx, offerID)
	if err != nil {
		return err
	}
	if offer.StudentID != studentID {
		return NewError(CodeForbidden, "offer is addressed to another student")
	}
	return s.resolve(func() (bool, error) {
		return s.repo.ResolveInternshipOffer(ctx, offer.ID, models.ProposalStatusRejected)
	})
}

// WithdrawOffer is the proposing alumnus retracting a pending offer
func (s *InternshipService) WithdrawOffer(ctx context.Context, alumnusID, offerID uint) error {
	offer, err := s.getOffer(ctx, offerID)
	if err != nil {
		return err
	}
	if offer.Internship.AlumnusID != alumnusID {
		return NewError(CodeForbidden, "offer belongs to another alumnus")
	}
	return s.resolve(func() (bool, error) {
		return s.repo.ResolveInternshipOffer(ctx, offer.ID, models.ProposalStatusWithdrawn)
	})
}

// AcceptApplication is the listing owner accepting a student's application
func (s *InternshipService) AcceptApplication(ctx context.Context, alumnusID, applicationID uint) (*models.InternshipEngagement, error) {
	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Internship.AlumnusID != alumnusID {
		return nil, NewError(CodeForbidden, "application belongs to another alumnus")
	}
	return s.acceptInternship(ctx, &app.Internship, app.StudentID,
		models.EngagementSourceApplication, app.ID, func(r *repository.Repository) (bool, error) {
			return r.ResolveInternshipApplication(ctx, app.ID, models.ProposalStatusAccepted)
		})
}

// RejectApplication is the listing owner declining a student's application
func (s *InternshipService) RejectApplication(ctx context.Context, alumnusID, applicationID uint) error {
	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.Internship.AlumnusID != alumnusID {
		return NewError(CodeForbidden, "application belongs to another alumnus")
	}
	return s.resolve(func() (bool, error) {
		return s.repo.ResolveInternshipApplication(ctx, app.ID, models.ProposalStatusRejected)
	})
}

// WithdrawApplication is the applying student retracting a pending application
func (s *InternshipService) WithdrawApplication(ctx context.Context, studentID, applicationID uint) error {
	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.StudentID != studentID {
		return NewError(CodeForbidden, "application belongs to another student")
	}
	return s.resolve(func() (bool, error) {
		return s.repo.ResolveInternshipApplication(ctx, app.ID, models.ProposalStatusWithdrawn)
	})
}

// ListEngagements retrieves engagements owned by an alumnus
func (s *InternshipService) ListEngagements(ctx context.Context, alumnusID uint) ([]*models.InternshipEngagement, error) {
	return s.repo.ListInternshipEngagementsByAlumnus(ctx, alumnusID)
}

// EngagementSource resolves the offer or application an engagement originated
// from, for either participant.
func (s *InternshipService) EngagementSource(ctx context.Context, e *models.InternshipEngagement) (interface{}, error) {
	switch e.Source {
	case models.EngagementSourceOffer:
		return s.getOffer(ctx, e.SourceID)
	case models.EngagementSourceApplication:
		return s.getApplication(ctx, e.SourceID)
	}
	return nil, fmt.Errorf("unknown engagement source %q", e.Source)
}

// GetEngagement loads an engagement visible to the caller
func (s *InternshipService) GetEngagement(ctx context.Context, alumnusID, id uint) (*models.InternshipEngagement, error) {
	e, err := s.repo.GetInternshipEngagementByID(ctx, id)
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
func (s *InternshipService) CompleteEngagement(ctx context.Context, alumnusID, id uint) error {
	return s.setEngagementStatus(ctx, alumnusID, id, models.EngagementStatusCompleted)
}

// TerminateEngagement marks an engagement terminated by its owning alumnus
func (s *InternshipService) TerminateEngagement(ctx context.Context, alumnusID, id uint) error {
	return s.setEngagementStatus(ctx, alumnusID, id, models.EngagementStatusTerminated)
}

func (s *InternshipService) setEngagementStatus(ctx context.Context, alumnusID, id uint, status models.EngagementStatus) error {
	e, err := s.repo.GetInternshipEngagementByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewError(CodeNotFound, "engagement not found")
		}
		return fmt.Errorf("failed to load engagement: %w", err)
	}
	if e.AlumnusID != alumnusID {
		return NewError(CodeForbidden, "engagement belongs to another alumnus")
	}
	return s.repo.SetInternshipEngagementStatus(ctx, id, status)
}

func (s *InternshipService) getOffer(ctx context.Context, id uint) (*models.InternshipOffer, error) {
	offer, err := s.repo.GetInternshipOfferByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "offer not found")
		}
		return nil, fmt.Errorf("failed to load offer: %w", err)
	}
	return offer, nil
}

func (s *InternshipService) getApplication(ctx context.Context, id uint) (*models.InternshipApplication, error) {
	app, err := s.repo.GetInternshipApplicationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "application not found")
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	return app, nil
}

func (s *InternshipService) resolve(fn func() (bool, error)) error {
	moved, err := fn()
	if err != nil {
		return fmt.Errorf("failed to resolve proposal: %w", err)
	}
	if !moved {
		return NewError(CodeAlreadyResolved, "proposal has already been resolved")
	}
	return nil
}

// acceptInternship runs the shared acceptance flow. No slot claim here:
// internship capacity is advisory.
func (s *InternshipService) acceptInternship(ctx context.Context, i *models.Internship, studentID uint,
	source models.EngagementSource, sourceID uint, resolveFn func(*repository.Repository) (bool, error)) (*models.InternshipEngagement, error) {

	if !i.IsActive || i.IsDeleted {
		return nil, NewError(CodeOpportunityClosed, "internship is no longer active")
	}

	engaged, err := s.repo.InternshipEngagementExists(ctx, i.ID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check engagement: %w", err)
	}
	if engaged {
		return nil, NewError(CodeAlreadyEngaged, "student is already engaged in this internship")
	}

	engagement := &models.InternshipEngagement{
		InternshipID: i.ID,
		StudentID:    studentID,
		AlumnusID:    i.AlumnusID,
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

		if err := r.CreateInternshipEngagement(ctx, engagement); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return NewError(CodeAlreadyEngaged, "student is already engaged in this internship")
			}
			return fmt.Errorf("failed to create engagement: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyAcceptance(ctx, i, studentID)
	return engagement, nil
}

func (s *InternshipService) notifyAcceptance(ctx context.Context, i *models.Internship, studentID uint) {
	student, err := s.repo.GetStudentProfileByID(ctx, studentID)
	if err != nil {
		log.Printf("acceptance notification skipped for internship %d: %v", i.ID, err)
		return
	}
	user, err := s.repo.GetUserByID(ctx, student.UserID)
	if err != nil {
		log.Printf("acceptance notification skipped for internship %d: %v", i.ID, err)
		return
	}
	body := fmt.Sprintf("Hello %s,\n\nYour internship engagement for %q is now active.", user.FirstName, i.Title)
	if err := s.mailer.Send("Internship engagement confirmed", body, user.Email, false); err != nil {
		log.Printf("failed to send acceptance email for internship %d: %v", i.ID, err)
	}
}
