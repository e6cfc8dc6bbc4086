package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"futaverse/internal/models"
	"futaverse/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestDB opens a fresh in-memory database per test. cache=shared keeps
// the database alive across the pool's connections; the unique name keeps
// tests isolated from each other.
func setupTestDB(t *testing.T) *gorm.DB {
	name := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.OneTimeCode{},
		&models.AlumniProfile{},
		&models.StudentProfile{},
		&models.StudentResume{},
		&models.Mentorship{},
		&models.MentorshipOffer{},
		&models.MentorshipApplication{},
		&models.MentorshipEngagement{},
		&models.Internship{},
		&models.InternshipOffer{},
		&models.InternshipApplication{},
		&models.InternshipEngagement{},
		&models.Event{},
		&models.VirtualMeeting{},
		&models.Ticket{},
		&models.TicketPurchase{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func setupRepo(t *testing.T) (*repository.Repository, *gorm.DB) {
	db := setupTestDB(t)
	return repository.NewRepository(db), db
}

type testEnv struct {
	repo *repository.Repository
	db   *gorm.DB
}

// fakeMailer records sent mail and can be told to fail
type fakeMailer struct {
	sent []fakeMail
	err  error
}

type fakeMail struct {
	Subject   string
	Body      string
	Recipient string
}

func (m *fakeMailer) Send(subject, body, recipient string, isHTML bool) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, fakeMail{Subject: subject, Body: body, Recipient: recipient})
	return nil
}

// fakePayments hands out a canned checkout URL and verification result
type fakePayments struct {
	initialized []string
	verified    []string
	checkoutURL string
	paid        bool
	amount      int64
	err         error
}

func (p *fakePayments) Initialize(ctx context.Context, amount int64, email, reference string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.initialized = append(p.initialized, reference)
	if p.checkoutURL == "" {
		return "https://checkout.test/" + reference, nil
	}
	return p.checkoutURL, nil
}

func (p *fakePayments) Verify(ctx context.Context, reference string) (bool, int64, error) {
	if p.err != nil {
		return false, 0, p.err
	}
	p.verified = append(p.verified, reference)
	return p.paid, p.amount, nil
}

// fakeCalendar records calendar calls
type fakeCalendar struct {
	created   int
	attendees map[string][]string
	err       error
}

func (c *fakeCalendar) CreateEvent(ctx context.Context, title, description string, start time.Time, durationMins int, attendeeEmails []string) (string, string, error) {
	if c.err != nil {
		return "", "", c.err
	}
	c.created++
	id := fmt.Sprintf("cal-%d", c.created)
	return id, "https://meet.test/" + id, nil
}

// AddAttendees replaces the stored list, matching the calendar API's PATCH
// semantics: each call overwrites the event's attendee set.
func (c *fakeCalendar) AddAttendees(ctx context.Context, externalEventID string, emails []string) error {
	if c.err != nil {
		return c.err
	}
	if c.attendees == nil {
		c.attendees = make(map[string][]string)
	}
	c.attendees[externalEventID] = append([]string(nil), emails...)
	return nil
}

// seedAccount creates an active user plus its role profile and returns the
// profile ID
func seedAlumnus(t *testing.T, db *gorm.DB, email string) (uint, uint) {
	user := models.User{
		Email:     email,
		Password:  "hashed",
		Role:      models.UserRoleAlumnus,
		FirstName: "Ada",
		LastName:  "Lovelace",
		IsActive:  true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed alumnus user: %v", err)
	}
	profile := models.AlumniProfile{UserID: user.ID, MatricNo: "AL001", Department: "CS", Faculty: "SCI", GradYear: "2015"}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("failed to seed alumni profile: %v", err)
	}
	return user.ID, profile.ID
}

func seedStudent(t *testing.T, db *gorm.DB, email string) (uint, uint) {
	user := models.User{
		Email:     email,
		Password:  "hashed",
		Role:      models.UserRoleStudent,
		FirstName: "Grace",
		LastName:  "Hopper",
		IsActive:  true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed student user: %v", err)
	}
	profile := models.StudentProfile{UserID: user.ID, MatricNo: "ST001", Department: "CS", Faculty: "SCI", Level: 300}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("failed to seed student profile: %v", err)
	}
	return user.ID, profile.ID
}

// assertCode fails the test unless err is a service error with the given code
func assertCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *Error with code %s, got %T: %v", code, err, err)
	}
	if svcErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, svcErr.Code, err)
	}
}
