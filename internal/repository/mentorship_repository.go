package repository

import (
	"context"
	"time"

	"futaverse/internal/models"

	"gorm.io/gorm"
)

// CreateMentorship creates a new mentorship listing
func (r *Repository) CreateMentorship(ctx context.Context, m *models.Mentorship) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// GetMentorshipByID retrieves a mentorship by ID, excluding soft-deleted rows
func (r *Repository) GetMentorshipByID(ctx context.Context, id uint) (*models.Mentorship, error) {
	var m models.Mentorship
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMentorshipsByAlumnus retrieves all listings owned by an alumnus
func (r *Repository) ListMentorshipsByAlumnus(ctx context.Context, alumnusID uint) ([]*models.Mentorship, error) {
	var mentorships []*models.Mentorship
	err := r.db.WithContext(ctx).
		Where("alumnus_id = ? AND is_deleted = ?", alumnusID, false).
		Order("created_at DESC").
		Find(&mentorships).Error
	if err != nil {
		return nil, err
	}
	return mentorships, nil
}

// UpdateMentorshipFields applies a column-restricted update. Callers pass only
// the columns they mean to change; remaining_slots shifts arrive as SQL
// expressions so they compose with concurrent slot claims.
func (r *Repository) UpdateMentorshipFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Mentorship{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// SetMentorshipActive flips whether the listing accepts new proposals
func (r *Repository) SetMentorshipActive(ctx context.Context, id uint, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Mentorship{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

// SoftDeleteMentorship tombstones a mentorship. Rows are never hard-deleted
// while offers, applications or engagements reference them.
func (r *Repository) SoftDeleteMentorship(ctx context.Context, id uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.Mentorship{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
			"is_active":  false,
		}).Error
}

// DecrementMentorshipSlots atomically claims one slot. The conditional
// WHERE keeps two concurrent acceptances from overdrawing: the losing
// update affects zero rows and the caller's transaction rolls back.
func (r *Repository) DecrementMentorshipSlots(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Mentorship{}).
		Where("id = ? AND remaining_slots > 0", id).
		UpdateColumn("remaining_slots", gorm.Expr("remaining_slots - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CreateMentorshipOffer creates a new offer
func (r *Repository) CreateMentorshipOffer(ctx context.Context, offer *models.MentorshipOffer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

// GetMentorshipOfferByID retrieves an offer with its mentorship preloaded
func (r *Repository) GetMentorshipOfferByID(ctx context.Context, id uint) (*models.MentorshipOffer, error) {
	var offer models.MentorshipOffer
	err := r.db.WithContext(ctx).
		Preload("Mentorship").
		Where("id = ?", id).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListMentorshipOffers retrieves offers under the given scope
func (r *Repository) ListMentorshipOffers(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*models.MentorshipOffer, error) {
	var offers []*models.MentorshipOffer
	err := scope(r.db.WithContext(ctx).Model(&models.MentorshipOffer{})).
		Preload("Mentorship").
		Order("mentorship_offers.created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

// ResolveMentorshipOffer moves a pending offer to a terminal status and
// stamps responded_at. Returns false if the offer was no longer pending.
func (r *Repository) ResolveMentorshipOffer(ctx context.Context, id uint, status models.ProposalStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.MentorshipOffer{}).
		Where("id = ? AND status = ?", id, models.ProposalStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CreateMentorshipApplication creates a new application
func (r *Repository) CreateMentorshipApplication(ctx context.Context, app *models.MentorshipApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetMentorshipApplicationByID retrieves an application with its mentorship preloaded
func (r *Repository) GetMentorshipApplicationByID(ctx context.Context, id uint) (*models.MentorshipApplication, error) {
	var app models.MentorshipApplication
	err := r.db.WithContext(ctx).
		Preload("Mentorship").
		Where("id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListMentorshipApplications retrieves applications under the given scope
func (r *Repository) ListMentorshipApplications(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*models.MentorshipApplication, error) {
	var apps []*models.MentorshipApplication
	err := scope(r.db.WithContext(ctx).Model(&models.MentorshipApplication{})).
		Preload("Mentorship").
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// ResolveMentorshipApplication moves a pending application to a terminal status
func (r *Repository) ResolveMentorshipApplication(ctx context.Context, id uint, status models.ProposalStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.MentorshipApplication{}).
		Where("id = ? AND status = ?", id, models.ProposalStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CreateMentorshipEngagement inserts the engagement row. The composite
// unique index on (mentorship_id, student_id) is the authority; a
// duplicate insert fails with gorm.ErrDuplicatedKey.
func (r *Repository) CreateMentorshipEngagement(ctx context.Context, e *models.MentorshipEngagement) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// MentorshipEngagementExists reports whether an engagement already exists
// for the (mentorship, student) pair
func (r *Repository) MentorshipEngagementExists(ctx context.Context, mentorshipID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MentorshipEngagement{}).
		Where("mentorship_id = ? AND student_id = ?", mentorshipID, studentID).
		Count(&count).Error
	return count > 0, err
}

// GetMentorshipEngagementByID retrieves an engagement by ID
func (r *Repository) GetMentorshipEngagementByID(ctx context.Context, id uint) (*models.MentorshipEngagement, error) {
	var e models.MentorshipEngagement
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListMentorshipEngagementsByAlumnus retrieves engagements owned by an alumnus
func (r *Repository) ListMentorshipEngagementsByAlumnus(ctx context.Context, alumnusID uint) ([]*models.MentorshipEngagement, error) {
	var engagements []*models.MentorshipEngagement
	err := r.db.WithContext(ctx).
		Where("alumnus_id = ?", alumnusID).
		Order("created_at DESC").
		Find(&engagements).Error
	if err != nil {
		return nil, err
	}
	return engagements, nil
}

// SetMentorshipEngagementStatus updates an engagement's status
func (r *Repository) SetMentorshipEngagementStatus(ctx context.Context, id uint, status models.EngagementStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.MentorshipEngagement{}).
		Where("id = ?", id).
		Update("status", status).Error
}
