package services

import (
	"context"
	"time"
)

// Mailer sends transactional email. Satisfied by mailer.SMTPMailer.
type Mailer interface {
	Send(subject, body, recipient string, isHTML bool) error
}

// PaymentClient initializes and verifies checkout transactions. Satisfied by
// payments.PaystackClient. Amounts are in the currency's minor unit.
type PaymentClient interface {
	Initialize(ctx context.Context, amount int64, email, reference string) (string, error)
	Verify(ctx context.Context, reference string) (bool, int64, error)
}

// CalendarClient manages external calendar entries for virtual events.
// Satisfied by calendar.GoogleCalendarClient.
type CalendarClient interface {
	CreateEvent(ctx context.Context, title, description string, start time.Time, durationMins int, attendeeEmails []string) (string, string, error)
	AddAttendees(ctx context.Context, externalEventID string, emails []string) error
}
