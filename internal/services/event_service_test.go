package services

import (
	"context"
	"testing"
	"time"

	"futaverse/internal/models"

	"github.com/shopspring/decimal"
)

func eventRequest(mode models.EventMode, tickets ...models.CreateTicketRequest) *models.CreateEventRequest {
	return &models.CreateEventRequest{
		Title:        "Alumni career talk",
		Mode:         mode,
		Date:         time.Now().AddDate(0, 0, 7),
		DurationMins: 90,
		Tickets:      tickets,
	}
}

func newEventService(t *testing.T) (*EventService, *fakeMailer, *fakePayments, *fakeCalendar, testEnv) {
	t.Helper()
	repo, db := setupRepo(t)
	mailer := &fakeMailer{}
	pay := &fakePayments{paid: true}
	cal := &fakeCalendar{}
	svc := NewEventService(repo, mailer, pay, cal)
	return svc, mailer, pay, cal, testEnv{repo: repo, db: db}
}

func TestCreateEventDefaultsFreeTicket(t *testing.T) {
	svc, _, _, cal, env := newEventService(t)
	ctx := context.Background()

	userID, _ := seedAlumnus(t, env.db, "organizer@test.edu")

	event, err := svc.CreateEvent(ctx, userID, eventRequest(models.EventModePhysical))
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	tickets, err := env.repo.ListTicketsByEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("ListTicketsByEvent failed: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("expected one default ticket, got %d", len(tickets))
	}
	if !tickets[0].Free() {
		t.Error("expected the default ticket to be free")
	}
	if cal.created != 0 {
		t.Error("expected no calendar entry for a physical event")
	}
}

func TestCreateVirtualEventGetsMeeting(t *testing.T) {
	svc, _, _, cal, env := newEventService(t)
	ctx := context.Background()

	userID, _ := seedAlumnus(t, env.db, "virtual@test.edu")

	event, err := svc.CreateEvent(ctx, userID, eventRequest(models.EventModeVirtual))
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if cal.created != 1 {
		t.Fatalf("expected one calendar entry, got %d", cal.created)
	}

	vm, err := env.repo.GetVirtualMeetingByEventID(ctx, event.ID)
	if err != nil {
		t.Fatalf("expected a virtual meeting record: %v", err)
	}
	if vm.JoinURL == "" || vm.ExternalCalendarEventID == "" {
		t.Error("expected join URL and external calendar ID on the meeting")
	}
}

func TestCalendarFailureDoesNotFailEventCreation(t *testing.T) {
	svc, _, _, cal, env := newEventService(t)
	cal.err = context.DeadlineExceeded
	ctx := context.Background()

	userID, _ := seedAlumnus(t, env.db, "flaky@test.edu")

	event, err := svc.CreateEvent(ctx, userID, eventRequest(models.EventModeVirtual))
	if err != nil {
		t.Fatalf("CreateEvent should survive calendar failure: %v", err)
	}
	if _, err := env.repo.GetVirtualMeetingByEventID(ctx, event.ID); err == nil {
		t.Error("expected no meeting record when the calendar call failed")
	}
}

func TestFreeRegistrationCompletesImmediately(t *testing.T) {
	svc, mailer, pay, _, env := newEventService(t)
	ctx := context.Background()

	organizerID, _ := seedAlumnus(t, env.db, "free-org@test.edu")
	attendeeID, _ := seedStudent(t, env.db, "free-att@test.edu")

	event, _ := svc.CreateEvent(ctx, organizerID, eventRequest(models.EventModePhysical))
	tickets, _ := env.repo.ListTicketsByEvent(ctx, event.ID)

	result, err := svc.Register(ctx, attendeeID, tickets[0].ID)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !result.Purchase.IsPaid {
		t.Error("expected a free purchase to be complete")
	}
	if result.CheckoutURL != "" {
		t.Error("expected no checkout URL on a free registration")
	}
	if len(pay.initialized) != 0 {
		t.Error("expected no payment initialization for a free ticket")
	}
	if len(mailer.sent) != 1 {
		t.Errorf("expected one confirmation email, got %d", len(mailer.sent))
	}

	reloaded, _ := env.repo.GetTicketByID(ctx, tickets[0].ID)
	if reloaded.QuantitySold != 1 {
		t.Errorf("expected quantity_sold 1, got %d", reloaded.QuantitySold)
	}
}

func TestPaidRegistrationDefersInventory(t *testing.T) {
	svc, _, pay, _, env := newEventService(t)
	ctx := context.Background()

	organizerID, _ := seedAlumnus(t, env.db, "paid-org@test.edu")
	attendeeID, _ := seedStudent(t, env.db, "paid-att@test.edu")

	event, _ := svc.CreateEvent(ctx, organizerID, eventRequest(models.EventModePhysical, models.CreateTicketRequest{
		Name:     "VIP",
		Price:    decimal.NewFromInt(5000),
		Quantity: 10,
	}))
	tickets, _ := env.repo.ListTicketsByEvent(ctx, event.ID)

	result, err := svc.Register(ctx, attendeeID, tickets[0].ID)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if result.Purchase.IsPaid {
		t.Error("expected the purchase to be pending until confirmation")
	}
	if result.CheckoutURL == "" {
		t.Error("expected a checkout URL")
	}
	if len(pay.initialized) != 1 || pay.initialized[0] != result.Purchase.TicketUID.String() {
		t.Error("expected payment initialized with the ticket UID as reference")
	}

	// Inventory untouched until the payment lands
	reloaded, _ := env.repo.GetTicketByID(ctx, tickets[0].ID)
	if reloaded.QuantitySold != 0 {
		t.Errorf("expected quantity_sold 0 before confirmation, got %d", reloaded.QuantitySold)
	}
}

func TestConfirmPaymentCompletesPurchase(t *testing.T) {
	svc, mailer, pay, _, env := newEventService(t)
	pay.amount = 500000 // 5000.00 in the minor unit
	ctx := context.Background()

	organizerID, _ := seedAlumnus(t, env.db, "conf-org@test.edu")
	attendeeID, _ := seedStudent(t, env.db, "conf-att@test.edu")

	event, _ := svc.CreateEvent(ctx, organizerID, eventRequest(models.EventModePhysical, models.CreateTicketRequest{
		Name:     "VIP",
		Price:    decimal.NewFromInt(5000),
		Quantity: 10,
	}))
	tickets, _ := env.repo.ListTicketsByEvent(ctx, event.ID)

	result, _ := svc.Register(ctx, attendeeID, tickets[0].ID)
	reference := result.Purchase.TicketUID.String()

	purchase, err := svc.ConfirmPayment(ctx, reference)
	if err != nil {
		t.Fatalf("ConfirmPayment failed: %v", err)
	}
	if !purchase.IsPaid {
		t.Error("expected purchase marked paid")
	}

	reloaded, _ := env.repo.GetTicketByID(ctx, tickets[0].ID)
	if reloaded.QuantitySold != 1 {
		t.Errorf("expected quantity_sold 1 after confirmation, got %d", reloaded.QuantitySold)
	}
	if len(mailer.sent) != 1 {
		t.Errorf("expected one confirmation email, got %d", len(mailer.sent))
	}

	// Confirming again is a no-op, not a second inventory claim
	if _, err := svc.ConfirmPayment(ctx, reference); err != nil {
		t.Fatalf("repeat ConfirmPayment failed: %v", err)
	}
	reloaded, _ = env.repo.GetTicketByID(ctx, tickets[0].ID)
	if reloaded.QuantitySold != 1 {
		t.Errorf("expected quantity_sold to stay 1, got %d", reloaded.QuantitySold)
	}
}

func TestConfirmPaymentRejectsUnpaid(t *testing.T) {
	svc, _, pay, _, env := newEventService(t)
	pay.paid = false
	ctx := context.Background()

	organizerID, _ := seedAlumnus(t, env.db, "unpaid-org@test.edu")
	attendeeID, _ := seedStudent(t, env.db, "unpaid-att@test.edu")

	event, _ := svc.CreateEvent(ctx, organizerID, eventRequest(models.EventModePhysical, models.CreateTicketRequest{
		Name:     "VIP",
		Price:    decimal.NewFromInt(2000),
		Quantity: 5,
	}))
	tickets, _ := env.repo.ListTicketsByEvent(ctx, event.ID)
	result, _ := svc.Register(ctx, attendeeID, tickets[0].ID)

	_, err := svc.ConfirmPayment(ctx, result.Purchase.TicketUID.String())
	assertCode(t, err, CodePaymentFailed)
}

func TestRegistrationWindowAndInventory(t *testing.T) {
	svc, _, _, _, env := newEventService(t)
	ctx := context.Background()

	organizerID, _ := seedAlumnus(t, env.db, "window-org@test.edu")
	attendeeID, _ := seedStudent(t, env.db, "window-att@test.edu")

	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)
	longPast := time.Now().Add(-48 * time.Hour)

	event, _ := svc.CreateEvent(ctx, organizerID, eventRequest(models.EventModePhysical,
		models.CreateTicketRequest{Name: "Early", Quantity: 1, SalesStart: &future},
		models.CreateTicketRequest{Name: "Closed", Quantity: 1, SalesStart: &longPast, SalesEnd: &past},
		models.CreateTicketRequest{Name: "Tiny", Quantity: 1},
	))
	tickets, _ := env.repo.ListTicketsByEvent(ctx, event.ID)

	byName := map[string]*models.Ticket{}
	for _, tk := range tickets {
		byName[tk.Name] = tk
	}

	_, err := svc.Register(ctx, attendeeID, byName["Early"].ID)
	assertCode(t, err, CodeSalesNotStarted)

	_, err = svc.Register(ctx, attendeeID, byName["Closed"].ID)
	assertCode(t, err, CodeSalesEnded)

	if _, err := svc.Register(ctx, attendeeID, byName["Tiny"].ID); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	otherID, _ := seedStudent(t, env.db, "window-late@test.edu")
	_, err = svc.Register(ctx, otherID, byName["Tiny"].ID)
	assertCode(t, err, CodeSoldOut)
}

func TestCheckIn(t *testing.T) {
	svc, _, _, _, env := newEventService(t)
	ctx := context.Background()

	organizerID, _ := seedAlumnus(t, env.db, "door-org@test.edu")
	attendeeID, _ := seedStudent(t, env.db, "door-att@test.edu")

	event, _ := svc.CreateEvent(ctx, organizerID, eventRequest(models.EventModePhysical))
	tickets, _ := env.repo.ListTicketsByEvent(ctx, event.ID)
	result, _ := svc.Register(ctx, attendeeID, tickets[0].ID)

	reference := result.Purchase.TicketUID.String()
	purchase, err := svc.CheckIn(ctx, reference)
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if !purchase.CheckedIn {
		t.Error("expected purchase marked checked in")
	}

	_, err = svc.CheckIn(ctx, reference)
	assertCode(t, err, CodeDuplicate)
}

func TestVirtualRegistrationAddsAttendee(t *testing.T) {
	svc, _, _, cal, env := newEventService(t)
	ctx := context.Background()

	organizerID, _ := seedAlumnus(t, env.db, "meet-org@test.edu")
	attendeeID, _ := seedStudent(t, env.db, "meet-att@test.edu")

	event, _ := svc.CreateEvent(ctx, organizerID, eventRequest(models.EventModeVirtual))
	tickets, _ := env.repo.ListTicketsByEvent(ctx, event.ID)

	if _, err := svc.Register(ctx, attendeeID, tickets[0].ID); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	vm, _ := env.repo.GetVirtualMeetingByEventID(ctx, event.ID)
	added := cal.attendees[vm.ExternalCalendarEventID]
	if len(added) != 1 || added[0] != "meet-att@test.edu" {
		t.Errorf("expected attendee on the calendar entry, got %v", added)
	}
}

func TestConfirmPaymentRejectsUnderpayment(t *testing.T) {
	svc, _, pay, _, env := newEventService(t)
	pay.amount = 100 // far below the 2000.00 ticket
	ctx := context.Background()

	organizerID, _ := seedAlumnus(t, env.db, "short-org@test.edu")
	attendeeID, _ := seedStudent(t, env.db, "short-att@test.edu")

	event, _ := svc.CreateEvent(ctx, organizerID, eventRequest(models.EventModePhysical, models.CreateTicketRequest{
		Name:     "VIP",
		Price:    decimal.NewFromInt(2000),
		Quantity: 5,
	}))
	tickets, _ := env.repo.ListTicketsByEvent(ctx, event.ID)
	result, _ := svc.Register(ctx, attendeeID, tickets[0].ID)

	_, err := svc.ConfirmPayment(ctx, result.Purchase.TicketUID.String())
	assertCode(t, err, CodePaymentFailed)

	// The purchase stays pending and no inventory was claimed
	reloaded, _ := env.repo.GetTicketPurchaseByUID(ctx, result.Purchase.TicketUID)
	if reloaded.IsPaid {
		t.Error("expected underpaid purchase to stay pending")
	}
	ticket, _ := env.repo.GetTicketByID(ctx, tickets[0].ID)
	if ticket.QuantitySold != 0 {
		t.Errorf("expected quantity_sold 0, got %d", ticket.QuantitySold)
	}
}

func TestCalendarSyncCarriesAllAttendees(t *testing.T) {
	svc, _, _, cal, env := newEventService(t)
	ctx := context.Background()

	organizerID, _ := seedAlumnus(t, env.db, "sync-org@test.edu")
	firstID, _ := seedStudent(t, env.db, "sync-first@test.edu")
	secondID, _ := seedStudent(t, env.db, "sync-second@test.edu")

	event, _ := svc.CreateEvent(ctx, organizerID, eventRequest(models.EventModeVirtual))
	tickets, _ := env.repo.ListTicketsByEvent(ctx, event.ID)

	if _, err := svc.Register(ctx, firstID, tickets[0].ID); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, err := svc.Register(ctx, secondID, tickets[0].ID); err != nil {
		t.Fatalf("second Register failed: %v", err)
	}

	// The calendar update replaces the attendee list, so the second sync has
	// to carry the first registrant too
	vm, _ := env.repo.GetVirtualMeetingByEventID(ctx, event.ID)
	synced := cal.attendees[vm.ExternalCalendarEventID]
	if len(synced) != 2 {
		t.Fatalf("expected both attendees on the last sync, got %v", synced)
	}
	seen := map[string]bool{}
	for _, email := range synced {
		seen[email] = true
	}
	if !seen["sync-first@test.edu"] || !seen["sync-second@test.edu"] {
		t.Errorf("expected both registrants in the synced list, got %v", synced)
	}
}

func TestCancelEventStopsRegistration(t *testing.T) {
	svc, _, _, _, env := newEventService(t)
	ctx := context.Background()

	organizerID, _ := seedAlumnus(t, env.db, "cancel-org@test.edu")
	attendeeID, _ := seedStudent(t, env.db, "cancel-att@test.edu")

	event, _ := svc.CreateEvent(ctx, organizerID, eventRequest(models.EventModePhysical))
	tickets, _ := env.repo.ListTicketsByEvent(ctx, event.ID)

	// Another user cannot cancel it
	otherID, _ := seedAlumnus(t, env.db, "cancel-other@test.edu")
	_, err := svc.CancelEvent(ctx, otherID, event.ID)
	assertCode(t, err, CodeForbidden)

	cancelled, err := svc.CancelEvent(ctx, organizerID, event.ID)
	if err != nil {
		t.Fatalf("CancelEvent failed: %v", err)
	}
	if !cancelled.IsCancelled {
		t.Error("expected event marked cancelled")
	}

	_, err = svc.Register(ctx, attendeeID, tickets[0].ID)
	assertCode(t, err, CodeTicketInactive)

	// Cancelling again is a no-op
	if _, err := svc.CancelEvent(ctx, organizerID, event.ID); err != nil {
		t.Fatalf("repeat CancelEvent failed: %v", err)
	}

	// A cancelled event drops off the public list but stays in the creator's
	listed, _ := svc.ListEvents(ctx)
	for _, e := range listed {
		if e.ID == event.ID {
			t.Error("expected cancelled event hidden from the public list")
		}
	}
	mine, err := svc.ListMyEvents(ctx, organizerID)
	if err != nil {
		t.Fatalf("ListMyEvents failed: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != event.ID {
		t.Errorf("expected the cancelled event in the creator's list, got %d events", len(mine))
	}
}
