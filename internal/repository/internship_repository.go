package repository

import (
	"context"
	"time"

	"futaverse/internal/models"

	"gorm.io/gorm"
)

// CreateInternship creates a new internship listing
func (r *Repository) CreateInternship(ctx context.Context, i *models.Internship) error {
	return r.db.WithContext(ctx).Create(i).Error
}

// GetInternshipByID retrieves an internship by ID, excluding soft-deleted rows
func (r *Repository) GetInternshipByID(ctx context.Context, id uint) (*models.Internship, error) {
	var i models.Internship
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&i).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// ListInternshipsByAlumnus retrieves all listings owned by an alumnus
func (r *Repository) ListInternshipsByAlumnus(ctx context.Context, alumnusID uint) ([]*models.Internship, error) {
	var internships []*models.Internship
	err := r.db.WithContext(ctx).
		Where("alumnus_id = ? AND is_deleted = ?", alumnusID, false).
		Order("created_at DESC").
		Find(&internships).Error
	if err != nil {
		return nil, err
	}
	return internships, nil
}

// UpdateInternship updates an internship
func (r *Repository) UpdateInternship(ctx context.Context, i *models.Internship) error {
	return r.db.WithContext(ctx).Save(i).Error
}

// SetInternshipActive flips the gate for new offers and applications
func (r *Repository) SetInternshipActive(ctx context.Context, id uint, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Internship{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

// SoftDeleteInternship tombstones an internship
func (r *Repository) SoftDeleteInternship(ctx context.Context, id uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.Internship{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
			"is_active":  false,
		}).Error
}

// CreateInternshipOffer creates a new offer
func (r *Repository) CreateInternshipOffer(ctx context.Context, offer *models.InternshipOffer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

// GetInternshipOfferByID retrieves an offer with its internship preloaded
func (r *Repository) GetInternshipOfferByID(ctx context.Context, id uint) (*models.InternshipOffer, error) {
	var offer models.InternshipOffer
	err := r.db.WithContext(ctx).
		Preload("Internship").
		Where("id = ?", id).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListInternshipOffers retrieves offers under the given scope
func (r *Repository) ListInternshipOffers(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*models.InternshipOffer, error) {
	var offers []*models.InternshipOffer
	err := scope(r.db.WithContext(ctx).Model(&models.InternshipOffer{})).
		Preload("Internship").
		Order("created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

// ResolveInternshipOffer moves a pending offer to a terminal status
func (r *Repository) ResolveInternshipOffer(ctx context.Context, id uint, status models.ProposalStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InternshipOffer{}).
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

// CreateInternshipApplication creates a new application
func (r *Repository) CreateInternshipApplication(ctx context.Context, app *models.InternshipApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetInternshipApplicationByID retrieves an application with its internship preloaded
func (r *Repository) GetInternshipApplicationByID(ctx context.Context, id uint) (*models.InternshipApplication, error) {
	var app models.InternshipApplication
	err := r.db.WithContext(ctx).
		Preload("Internship").
		Where("id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListInternshipApplications retrieves applications under the given scope
func (r *Repository) ListInternshipApplications(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*models.InternshipApplication, error) {
	var apps []*models.InternshipApplication
	err := scope(r.db.WithContext(ctx).Model(&models.InternshipApplication{})).
		Preload("Internship").
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// ResolveInternshipApplication moves a pending application to a terminal status
func (r *Repository) ResolveInternshipApplication(ctx context.Context, id uint, status models.ProposalStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InternshipApplication{}).
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

// CreateInternshipEngagement inserts the engagement row, guarded by the
// composite unique index on (internship_id, student_id)
func (r *Repository) CreateInternshipEngagement(ctx context.Context, e *models.InternshipEngagement) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// InternshipEngagementExists reports whether an engagement already exists
// for the (internship, student) pair
func (r *Repository) InternshipEngagementExists(ctx context.Context, internshipID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InternshipEngagement{}).
		Where("internship_id = ? AND student_id = ?", internshipID, studentID).
		Count(&count).Error
	return count > 0, err
}

// GetInternshipEngagementByID retrieves an engagement by ID
func (r *Repository) GetInternshipEngagementByID(ctx context.Context, id uint) (*models.InternshipEngagement, error) {
	var e models.InternshipEngagement
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListInternshipEngagementsByAlumnus retrieves engagements owned by an alumnus
func (r *Repository) ListInternshipEngagementsByAlumnus(ctx context.Context, alumnusID uint) ([]*models.InternshipEngagement, error) {
	var engagements []*models.InternshipEngagement
	err := r.db.WithContext(ctx).
		Where("alumnus_id = ?", alumnusID).
		Order("created_at DESC").
		Find(&engagements).Error
	if err != nil {
		return nil, err
	}
	return engagements, nil
}

// SetInternshipEngagementStatus updates an engagement's status
func (r *Repository) SetInternshipEngagementStatus(ctx context.Context, id uint, status models.EngagementStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.InternshipEngagement{}).
		Where("id = ?", id).
		Update("status", status).Error
}
