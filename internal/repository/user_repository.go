package repository

import (
	"context"

	"futaverse/internal/models"

	"gorm.io/gorm/clause"
)

// CreateUser creates a new user account
func (r *Repository) CreateUser(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser updates a user
func (r *Repository) UpdateUser(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// ActivateUser flips the account active flag after email verification
func (r *Repository) ActivateUser(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", true).Error
}

// UpdateUserPassword replaces a user's password hash
func (r *Repository) UpdateUserPassword(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password", hash).Error
}

// DeleteInactiveUserByEmail removes an unverified account so the email can be
// reused on a fresh signup. Active accounts are never touched.
func (r *Repository) DeleteInactiveUserByEmail(ctx context.Context, email string) error {
	var u models.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND is_active = ?", email, false).
		First(&u).Error
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("user_id = ?", u.ID).Delete(&models.OneTimeCode{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("user_id = ?", u.ID).Delete(&models.AlumniProfile{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("user_id = ?", u.ID).Delete(&models.StudentProfile{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&u).Error
}

// UpsertOneTimeCode replaces the user's live code, resetting the verified
// flag so a reissued code must be verified again
func (r *Repository) UpsertOneTimeCode(ctx context.Context, code *models.OneTimeCode) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "expiry", "verified", "updated_at"}),
		}).
		Create(code).Error
}

// GetOneTimeCodeByUserID retrieves the user's current code
func (r *Repository) GetOneTimeCodeByUserID(ctx context.Context, userID uint) (*models.OneTimeCode, error) {
	var c models.OneTimeCode
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// MarkOneTimeCodeVerified consumes the code
func (r *Repository) MarkOneTimeCodeVerified(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.OneTimeCode{}).
		Where("id = ?", id).
		Update("verified", true).Error
}

// CreateAlumniProfile creates the alumnus half of an account
func (r *Repository) CreateAlumniProfile(ctx context.Context, p *models.AlumniProfile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// GetAlumniProfileByUserID retrieves an alumni profile by owning user
func (r *Repository) GetAlumniProfileByUserID(ctx context.Context, userID uint) (*models.AlumniProfile, error) {
	var p models.AlumniProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateAlumniProfile updates an alumni profile
func (r *Repository) UpdateAlumniProfile(ctx context.Context, p *models.AlumniProfile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// CreateStudentProfile creates the student half of an account
func (r *Repository) CreateStudentProfile(ctx context.Context, p *models.StudentProfile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// GetStudentProfileByUserID retrieves a student profile by owning user
func (r *Repository) GetStudentProfileByUserID(ctx context.Context, userID uint) (*models.StudentProfile, error) {
	var p models.StudentProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetStudentProfileByID retrieves a student profile by its primary key
func (r *Repository) GetStudentProfileByID(ctx context.Context, id uint) (*models.StudentProfile, error) {
	var p models.StudentProfile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateStudentProfile updates a student profile
func (r *Repository) UpdateStudentProfile(ctx context.Context, p *models.StudentProfile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// UpsertStudentResume replaces the student's stored resume reference
func (r *Repository) UpsertStudentResume(ctx context.Context, resume *models.StudentResume) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"resume_url"}),
		}).
		Create(resume).Error
}

// GetStudentResume retrieves the stored resume for a student profile
func (r *Repository) GetStudentResume(ctx context.Context, studentID uint) (*models.StudentResume, error) {
	var resume models.StudentResume
	err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&resume).Error
	if err != nil {
		return nil, err
	}
	return &resume, nil
}
