package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"futaverse/internal/models"
	"futaverse/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EventService manages events, tickets and registrations. Free registration
// completes immediately; paid registration creates a pending purchase and
// hands back a checkout URL, with inventory claimed only once payment is
// confirmed.
type EventService struct {
	repo     *repository.Repository
	mailer   Mailer
	payments PaymentClient
	calendar CalendarClient
}

// NewEventService creates a new event service
func NewEventService(repo *repository.Repository, mailer Mailer, payments PaymentClient, calendar CalendarClient) *EventService {
	return &EventService{repo: repo, mailer: mailer, payments: payments, calendar: calendar}
}

// CreateEvent creates an event with its tickets. An event defined without
// tickets gets a single free general-admission ticket. For virtual and hybrid
// events a calendar entry is created best-effort; calendar failure never
// fails event creation.
func (s *EventService) CreateEvent(ctx context.Context, creatorID uint, req *models.CreateEventRequest) (*models.Event, error) {
	durationMins := req.DurationMins
	if durationMins <= 0 {
		durationMins = 60
	}
	event := &models.Event{
		CreatorID:    creatorID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Mode:         req.Mode,
		Venue:        req.Venue,
		Date:         req.Date,
		DurationMins: durationMins,
		MaxCapacity:  req.MaxCapacity,
		IsPublished:  true,
	}

	err := s.repo.Transaction(ctx, func(r *repository.Repository) error {
		if err := r.CreateEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		if len(req.Tickets) == 0 {
			return r.CreateTicket(ctx, defaultTicket(event))
		}
		for _, tr := range req.Tickets {
			if err := r.CreateTicket(ctx, buildTicket(event, &tr)); err != nil {
				return fmt.Errorf("failed to create ticket %q: %w", tr.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if event.Mode == models.EventModeVirtual || event.Mode == models.EventModeHybrid {
		s.createVirtualMeeting(ctx, event, req.Platform)
	}
	return event, nil
}

func defaultTicket(event *models.Event) *models.Ticket {
	quantity := 1000
	if event.MaxCapacity != nil {
		quantity = *event.MaxCapacity
	}
	return &models.Ticket{
		EventID:    event.ID,
		Name:       "General Admission",
		Type:       models.TicketTypeDefault,
		Price:      decimal.Zero,
		Quantity:   quantity,
		SalesStart: time.Now(),
		IsActive:   true,
	}
}

func buildTicket(event *models.Event, tr *models.CreateTicketRequest) *models.Ticket {
	ticketType := models.TicketTypePaid
	if tr.Price.IsZero() {
		ticketType = models.TicketTypeDefault
	}
	salesStart := time.Now()
	if tr.SalesStart != nil {
		salesStart = *tr.SalesStart
	}
	return &models.Ticket{
		EventID:      event.ID,
		Name:         tr.Name,
		Description:  tr.Description,
		Type:         ticketType,
		Price:        tr.Price,
		DiscountPerc: tr.DiscountPerc,
		Quantity:     tr.Quantity,
		SalesStart:   salesStart,
		SalesEnd:     tr.SalesEnd,
		IsActive:     true,
	}
}

func (s *EventService) createVirtualMeeting(ctx context.Context, event *models.Event, platform string) {
	externalID, joinURL, err := s.calendar.CreateEvent(ctx, event.Title, event.Description, event.Date, event.DurationMins, nil)
	if err != nil {
		log.Printf("calendar entry skipped for event %d: %v", event.ID, err)
		return
	}
	if platform == "" {
		platform = "Google Meet"
	}
	vm := &models.VirtualMeeting{
		EventID:                 event.ID,
		Platform:                platform,
		JoinURL:                 joinURL,
		ExternalCalendarEventID: externalID,
	}
	if err := s.repo.CreateVirtualMeeting(ctx, vm); err != nil {
		log.Printf("failed to store virtual meeting for event %d: %v", event.ID, err)
	}
}

// GetEvent retrieves an event with its tickets
func (s *EventService) GetEvent(ctx context.Context, id uint) (*models.Event, []*models.Ticket, error) {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, NewError(CodeNotFound, "event not found")
		}
		return nil, nil, fmt.Errorf("failed to load event: %w", err)
	}
	tickets, err := s.repo.ListTicketsByEvent(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load tickets: %w", err)
	}
	return event, tickets, nil
}

// ListEvents retrieves published upcoming events
func (s *EventService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return s.repo.ListEvents(ctx)
}

// ListMyEvents retrieves every event the user created, cancelled ones included
func (s *EventService) ListMyEvents(ctx context.Context, creatorID uint) ([]*models.Event, error) {
	return s.repo.ListEventsByCreator(ctx, creatorID)
}

// CancelEvent marks an event cancelled by its creator. Registration for any of
// its tickets stops immediately; existing purchases are untouched.
func (s *EventService) CancelEvent(ctx context.Context, creatorID, id uint) (*models.Event, error) {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "event not found")
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event.CreatorID != creatorID {
		return nil, NewError(CodeForbidden, "event belongs to another user")
	}
	if event.IsCancelled {
		return event, nil
	}
	event.IsCancelled = true
	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to cancel event: %w", err)
	}
	return event, nil
}

// Register claims a ticket for the user. Free tickets complete immediately.
// Paid tickets return a checkout URL; inventory is claimed on confirmation,
// not here, so an abandoned checkout never strands a unit.
func (s *EventService) Register(ctx context.Context, userID, ticketID uint) (*models.RegistrationResult, error) {
	ticket, err := s.repo.GetTicketByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "ticket not found")
		}
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}

	now := time.Now()
	switch {
	case !ticket.IsActive || ticket.Event.IsCancelled:
		return nil, NewError(CodeTicketInactive, "ticket is not available")
	case now.Before(ticket.SalesStart):
		return nil, NewError(CodeSalesNotStarted, "ticket sales have not started")
	case ticket.SalesEnd != nil && now.After(*ticket.SalesEnd):
		return nil, NewError(CodeSalesEnded, "ticket sales have ended")
	case ticket.QuantitySold >= ticket.Quantity:
		return nil, NewError(CodeSoldOut, "ticket is sold out")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	purchase := &models.TicketPurchase{
		UserID:    userID,
		TicketID:  ticket.ID,
		TicketUID: uuid.New(),
	}

	if ticket.Free() {
		err = s.repo.Transaction(ctx, func(r *repository.Repository) error {
			claimed, err := r.IncrementTicketSold(ctx, ticket.ID)
			if err != nil {
				return fmt.Errorf("failed to claim ticket: %w", err)
			}
			if !claimed {
				return NewError(CodeSoldOut, "ticket is sold out")
			}
			purchase.IsPaid = true
			return r.CreateTicketPurchase(ctx, purchase)
		})
		if err != nil {
			return nil, err
		}
		s.completeRegistration(ctx, user, ticket, purchase)
		return &models.RegistrationResult{Purchase: purchase}, nil
	}

	if err := s.repo.CreateTicketPurchase(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	// Paystack amounts are in the minor unit; TicketUID doubles as the
	// idempotency reference for verification.
	amount := ticket.SalesPrice().Mul(decimal.NewFromInt(100)).IntPart()
	checkoutURL, err := s.payments.Initialize(ctx, amount, user.Email, purchase.TicketUID.String())
	if err != nil {
		return nil, WrapError(CodePaymentFailed, "failed to initialize payment", err)
	}
	return &models.RegistrationResult{Purchase: purchase, CheckoutURL: checkoutURL}, nil
}

// ConfirmPayment verifies a checkout by its reference and completes the
// pending purchase. Confirming an already-paid purchase is a no-op.
func (s *EventService) ConfirmPayment(ctx context.Context, reference string) (*models.TicketPurchase, error) {
	uid, err := uuid.Parse(reference)
	if err != nil {
		return nil, NewError(CodeValidation, "malformed payment reference")
	}
	purchase, err := s.repo.GetTicketPurchaseByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "purchase not found")
		}
		return nil, fmt.Errorf("failed to load purchase: %w", err)
	}
	if purchase.IsPaid {
		return purchase, nil
	}

	paid, amount, err := s.payments.Verify(ctx, reference)
	if err != nil {
		return nil, WrapError(CodePaymentFailed, "failed to verify payment", err)
	}
	if !paid {
		return nil, NewError(CodePaymentFailed, "payment was not completed")
	}
	expected := purchase.Ticket.SalesPrice().Mul(decimal.NewFromInt(100)).IntPart()
	if amount < expected {
		return nil, NewError(CodePaymentFailed, "settled amount is less than the ticket price")
	}

	err = s.repo.Transaction(ctx, func(r *repository.Repository) error {
		marked, err := r.MarkPurchasePaid(ctx, purchase.ID, reference)
		if err != nil {
			return fmt.Errorf("failed to mark purchase paid: %w", err)
		}
		if !marked {
			// A concurrent confirmation won; nothing left to do.
			return nil
		}
		claimed, err := r.IncrementTicketSold(ctx, purchase.TicketID)
		if err != nil {
			return fmt.Errorf("failed to claim ticket: %w", err)
		}
		if !claimed {
			return NewError(CodeSoldOut, "ticket sold out before payment completed")
		}
		purchase.IsPaid = true
		purchase.PaymentReference = &reference
		return nil
	})
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, purchase.UserID)
	if err == nil {
		s.completeRegistration(ctx, user, &purchase.Ticket, purchase)
	}
	return purchase, nil
}

// CheckIn marks an attendee's paid purchase as used at the door
func (s *EventService) CheckIn(ctx context.Context, reference string) (*models.TicketPurchase, error) {
	uid, err := uuid.Parse(reference)
	if err != nil {
		return nil, NewError(CodeValidation, "malformed ticket reference")
	}
	purchase, err := s.repo.GetTicketPurchaseByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "purchase not found")
		}
		return nil, fmt.Errorf("failed to load purchase: %w", err)
	}
	if !purchase.IsPaid {
		return nil, NewError(CodeValidation, "purchase has not been paid for")
	}
	if purchase.CheckedIn {
		return nil, NewError(CodeDuplicate, "ticket has already been checked in")
	}
	if err := s.repo.CheckInPurchase(ctx, purchase.ID); err != nil {
		return nil, fmt.Errorf("failed to check in: %w", err)
	}
	purchase.CheckedIn = true
	return purchase, nil
}

// ListMyTickets retrieves the user's purchases
func (s *EventService) ListMyTickets(ctx context.Context, userID uint) ([]*models.TicketPurchase, error) {
	return s.repo.ListTicketPurchasesByUser(ctx, userID)
}

// completeRegistration runs the post-registration side effects: calendar
// invitation for virtual events and the confirmation email. Both are
// best-effort; the registration itself is already committed.
func (s *EventService) completeRegistration(ctx context.Context, user *models.User, ticket *models.Ticket, purchase *models.TicketPurchase) {
	vm, err := s.repo.GetVirtualMeetingByEventID(ctx, ticket.EventID)
	if err == nil && vm.ExternalCalendarEventID != "" {
		// The calendar PATCH replaces the attendee list wholesale, so every
		// sync must carry the full set of paid attendees, not just the new
		// registrant.
		emails, err := s.repo.ListEventAttendeeEmails(ctx, ticket.EventID)
		if err != nil {
			log.Printf("failed to list attendees for event %d: %v", ticket.EventID, err)
			emails = []string{user.Email}
		}
		if err := s.calendar.AddAttendees(ctx, vm.ExternalCalendarEventID, emails); err != nil {
			log.Printf("failed to sync attendees to calendar for event %d: %v", ticket.EventID, err)
		}
	}

	body := fmt.Sprintf("Hello %s,\n\nYour registration is confirmed. Your ticket reference is %s.",
		user.FirstName, purchase.TicketUID)
	if err := s.mailer.Send("Registration confirmed", body, user.Email, false); err != nil {
		log.Printf("failed to send confirmation email for purchase %d: %v", purchase.ID, err)
	}
}
