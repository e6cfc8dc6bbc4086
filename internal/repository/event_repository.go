package repository

import (
	"context"
	"time"

	"futaverse/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateEvent creates a new event
func (r *Repository) CreateEvent(ctx context.Context, e *models.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// GetEventByID retrieves an event by ID
func (r *Repository) GetEventByID(ctx context.Context, id uint) (*models.Event, error) {
	var e models.Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEvents retrieves published, non-cancelled events, newest first
func (r *Repository) ListEvents(ctx context.Context) ([]*models.Event, error) {
	var events []*models.Event
	err := r.db.WithContext(ctx).
		Where("is_published = ? AND is_cancelled = ?", true, false).
		Order("date ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ListEventsByCreator retrieves all events a user created
func (r *Repository) ListEventsByCreator(ctx context.Context, creatorID uint) ([]*models.Event, error) {
	var events []*models.Event
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// UpdateEvent updates an event
func (r *Repository) UpdateEvent(ctx context.Context, e *models.Event) error {
	return r.db.WithContext(ctx).Save(e).Error
}

// CreateVirtualMeeting creates the virtual component of an event
func (r *Repository) CreateVirtualMeeting(ctx context.Context, vm *models.VirtualMeeting) error {
	return r.db.WithContext(ctx).Create(vm).Error
}

// GetVirtualMeetingByEventID retrieves the virtual meeting for an event, if any
func (r *Repository) GetVirtualMeetingByEventID(ctx context.Context, eventID uint) (*models.VirtualMeeting, error) {
	var vm models.VirtualMeeting
	err := r.db.WithContext(ctx).Where("event_id = ?", eventID).First(&vm).Error
	if err != nil {
		return nil, err
	}
	return &vm, nil
}

// CreateTicket creates a ticket definition for an event
func (r *Repository) CreateTicket(ctx context.Context, t *models.Ticket) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// GetTicketByID retrieves a ticket with its event preloaded
func (r *Repository) GetTicketByID(ctx context.Context, id uint) (*models.Ticket, error) {
	var t models.Ticket
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTicketsByEvent retrieves all ticket definitions for an event
func (r *Repository) ListTicketsByEvent(ctx context.Context, eventID uint) ([]*models.Ticket, error) {
	var tickets []*models.Ticket
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// IncrementTicketSold claims one unit of inventory. Returns false when the
// ticket is sold out; the guard runs inside the UPDATE so concurrent claims
// cannot oversell.
func (r *Repository) IncrementTicketSold(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ? AND quantity_sold < quantity", id).
		UpdateColumn("quantity_sold", gorm.Expr("quantity_sold + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CreateTicketPurchase creates a purchase record
func (r *Repository) CreateTicketPurchase(ctx context.Context, p *models.TicketPurchase) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// GetTicketPurchaseByUID retrieves a purchase by its ticket UID, which doubles
// as the payment idempotency reference
func (r *Repository) GetTicketPurchaseByUID(ctx context.Context, uid uuid.UUID) (*models.TicketPurchase, error) {
	var p models.TicketPurchase
	err := r.db.WithContext(ctx).
		Preload("Ticket").
		Where("ticket_uid = ?", uid).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListTicketPurchasesByUser retrieves a user's purchases, newest first
func (r *Repository) ListTicketPurchasesByUser(ctx context.Context, userID uint) ([]*models.TicketPurchase, error) {
	var purchases []*models.TicketPurchase
	err := r.db.WithContext(ctx).
		Preload("Ticket").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

// MarkPurchasePaid flips an unpaid purchase to paid. Returns false when the
// purchase was already paid, making payment confirmation idempotent.
func (r *Repository) MarkPurchasePaid(ctx context.Context, id uint, paymentReference string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.TicketPurchase{}).
		Where("id = ? AND is_paid = ?", id, false).
		Updates(map[string]interface{}{
			"is_paid":           true,
			"payment_reference": paymentReference,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CheckInPurchase marks an attendee as checked in
func (r *Repository) CheckInPurchase(ctx context.Context, id uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.TicketPurchase{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"checked_in":    true,
			"checked_in_at": now,
		}).Error
}

// ListEventAttendeeEmails returns the emails of users holding paid purchases
// for any ticket of the event
func (r *Repository) ListEventAttendeeEmails(ctx context.Context, eventID uint) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).
		Model(&models.TicketPurchase{}).
		Joins("JOIN tickets ON tickets.id = ticket_purchases.ticket_id").
		Joins("JOIN users ON users.id = ticket_purchases.user_id").
		Where("tickets.event_id = ? AND ticket_purchases.is_paid = ?", eventID, true).
		Pluck("users.email", &emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}
