package services

import (
	"context"
	"errors"
	"fmt"

	"futaverse/internal/models"
	"futaverse/internal/repository"

	"gorm.io/gorm"
)

// ProfileService exposes the role-specific profile halves of an account
type ProfileService struct {
	repo *repository.Repository
}

// NewProfileService creates a new profile service
func NewProfileService(repo *repository.Repository) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetAlumniProfile retrieves the alumni profile for a user
func (s *ProfileService) GetAlumniProfile(ctx context.Context, userID uint) (*models.AlumniProfile, error) {
	p, err := s.repo.GetAlumniProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "alumni profile not found")
		}
		return nil, fmt.Errorf("failed to load alumni profile: %w", err)
	}
	return p, nil
}

// UpdateAlumniProfile replaces the mutable fields of an alumni profile
func (s *ProfileService) UpdateAlumniProfile(ctx context.Context, userID uint, update *models.AlumniProfile) (*models.AlumniProfile, error) {
	p, err := s.GetAlumniProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	p.Description = update.Description
	p.CurrentJobTitle = update.CurrentJobTitle
	p.CurrentCompany = update.CurrentCompany
	p.Industry = update.Industry
	p.YearsOfExp = update.YearsOfExp
	p.PreviousComps = update.PreviousComps
	p.LinkedinURL = update.LinkedinURL
	p.GithubURL = update.GithubURL
	p.WebsiteURL = update.WebsiteURL
	p.XURL = update.XURL
	p.InstagramURL = update.InstagramURL

	if err := s.repo.UpdateAlumniProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update alumni profile: %w", err)
	}
	return p, nil
}

// GetStudentProfile retrieves the student profile for a user
func (s *ProfileService) GetStudentProfile(ctx context.Context, userID uint) (*models.StudentProfile, error) {
	p, err := s.repo.GetStudentProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "student profile not found")
		}
		return nil, fmt.Errorf("failed to load student profile: %w", err)
	}
	return p, nil
}

// UpdateStudentProfile replaces the mutable fields of a student profile
func (s *ProfileService) UpdateStudentProfile(ctx context.Context, userID uint, update *models.StudentProfile) (*models.StudentProfile, error) {
	p, err := s.GetStudentProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	p.Description = update.Description
	p.Level = update.Level
	p.CGPA = update.CGPA
	p.Skills = update.Skills
	p.ExpectedGradYear = update.ExpectedGradYear
	p.PreferredIndustry = update.PreferredIndustry
	p.PreferredCompanyType = update.PreferredCompanyType
	p.WillingnessToRelocate = update.WillingnessToRelocate
	p.WillingnessToBeMentored = update.WillingnessToBeMentored
	p.LinkedinURL = update.LinkedinURL
	p.GithubURL = update.GithubURL
	p.WebsiteURL = update.WebsiteURL
	p.XURL = update.XURL
	p.InstagramURL = update.InstagramURL

	if err := s.repo.UpdateStudentProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update student profile: %w", err)
	}
	return p, nil
}

// SaveResume stores the student's resume reference, replacing any previous one
func (s *ProfileService) SaveResume(ctx context.Context, userID uint, resumeURL string) (*models.StudentResume, error) {
	p, err := s.GetStudentProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	resume := &models.StudentResume{
		StudentID: p.ID,
		ResumeURL: resumeURL,
	}
	if err := s.repo.UpsertStudentResume(ctx, resume); err != nil {
		return nil, fmt.Errorf("failed to save resume: %w", err)
	}
	return resume, nil
}
