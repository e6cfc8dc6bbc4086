package services

import (
	"context"
	"errors"
	"fmt"

	"futaverse/internal/models"
	"futaverse/internal/repository"

	"gorm.io/gorm"
)

// Viewer scopes proposal queries to what the authenticated user may see.
// An alumnus sees proposals on listings they own; a student sees proposals
// they are party to. Query visibility comes from the viewer's capability,
// never from branching on role strings at call sites.
type Viewer interface {
	ScopeMentorshipProposals(table string) func(*gorm.DB) *gorm.DB
	ScopeInternshipProposals(table string) func(*gorm.DB) *gorm.DB
}

// AlumnusViewer sees proposals on listings owned by the alumnus profile
type AlumnusViewer struct {
	ProfileID uint
}

func (v AlumnusViewer) ScopeMentorshipProposals(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins(fmt.Sprintf("JOIN mentorships ON mentorships.id = %s.mentorship_id", table)).
			Where("mentorships.alumnus_id = ?", v.ProfileID)
	}
}

func (v AlumnusViewer) ScopeInternshipProposals(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins(fmt.Sprintf("JOIN internships ON internships.id = %s.internship_id", table)).
			Where("internships.alumnus_id = ?", v.ProfileID)
	}
}

// StudentViewer sees proposals addressed to or submitted by the student profile
type StudentViewer struct {
	ProfileID uint
}

func (v StudentViewer) ScopeMentorshipProposals(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".student_id = ?", v.ProfileID)
	}
}

func (v StudentViewer) ScopeInternshipProposals(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".student_id = ?", v.ProfileID)
	}
}

// ViewerForUser resolves the authenticated user into a viewer capability
func ViewerForUser(ctx context.Context, repo *repository.Repository, userID uint, role models.UserRole) (Viewer, error) {
	switch role {
	case models.UserRoleAlumnus, models.UserRoleMentor:
		profile, err := repo.GetAlumniProfileByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewError(CodeNotFound, "alumni profile not found")
			}
			return nil, fmt.Errorf("failed to load alumni profile: %w", err)
		}
		return AlumnusViewer{ProfileID: profile.ID}, nil
	case models.UserRoleStudent, models.UserRoleMentee:
		profile, err := repo.GetStudentProfileByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewError(CodeNotFound, "student profile not found")
			}
			return nil, fmt.Errorf("failed to load student profile: %w", err)
		}
		return StudentViewer{ProfileID: profile.ID}, nil
	default:
		return nil, NewError(CodeForbidden, "role cannot view proposals")
	}
}
