package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventMode string

const (
	EventModeVirtual  EventMode = "VIRTUAL"
	EventModePhysical EventMode = "PHYSICAL"
	EventModeHybrid   EventMode = "HYBRID"
)

type EventCategory string

const (
	EventCategoryWorkshop   EventCategory = "WORKSHOP"
	EventCategoryTalk       EventCategory = "TALK"
	EventCategoryCareer     EventCategory = "CAREER"
	EventCategoryNetworking EventCategory = "NETWORKING"
	EventCategorySymposium  EventCategory = "SYMPOSIUM"
	EventCategoryTraining   EventCategory = "TRAINING"
	EventCategoryOther      EventCategory = "OTHER"
)

type TicketType string

const (
	TicketTypeDefault TicketType = "DEFAULT"
	TicketTypePaid    TicketType = "PAID"
)

// Event is a platform event created by any user
type Event struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatorID uint `gorm:"not null;index" json:"creator_id"`
	Creator   User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`

	Title       string        `gorm:"size:320;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Category    EventCategory `gorm:"size:50" json:"category"`
	Mode        EventMode     `gorm:"size:20;not null" json:"mode"`

	Venue        *string   `gorm:"size:255" json:"venue,omitempty"`
	Date         time.Time `gorm:"not null" json:"date"`
	DurationMins int       `gorm:"default:60" json:"duration_mins"`
	MaxCapacity  *int      `json:"max_capacity,omitempty"`

	IsCancelled bool `gorm:"default:false" json:"is_cancelled"`
	IsPublished bool `gorm:"default:false" json:"is_published"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Event model
func (Event) TableName() string {
	return "events"
}

// VirtualMeeting holds the virtual component of an event, linked to an
// external calendar entry
type VirtualMeeting struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	EventID uint  `gorm:"uniqueIndex;not null" json:"event_id"`
	Event   Event `gorm:"foreignKey:EventID" json:"-"`

	Platform                string  `gorm:"size:50" json:"platform"`
	JoinURL                 string  `gorm:"size:500" json:"join_url"`
	ExternalCalendarEventID string  `gorm:"size:255" json:"external_calendar_event_id"`
	RoomName                *string `gorm:"size:255" json:"room_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for VirtualMeeting model
func (VirtualMeeting) TableName() string {
	return "virtual_meetings"
}

// Ticket defines price, quantity and sales window for an event
type Ticket struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	EventID uint  `gorm:"not null;index" json:"event_id"`
	Event   Event `gorm:"foreignKey:EventID" json:"event,omitempty"`

	Name        string     `gorm:"size:255;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Type        TicketType `gorm:"size:20;not null;default:PAID" json:"type"`

	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	DiscountPerc decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"discount_perc"`

	Quantity     int `gorm:"not null" json:"quantity"`
	QuantitySold int `gorm:"default:0" json:"quantity_sold"`

	SalesStart time.Time  `json:"sales_start"`
	SalesEnd   *time.Time `json:"sales_end,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Ticket model
func (Ticket) TableName() string {
	return "tickets"
}

// SalesPrice returns the price after discount
func (t *Ticket) SalesPrice() decimal.Decimal {
	if t.DiscountPerc.IsPositive() {
		discount := t.DiscountPerc.Div(decimal.NewFromInt(100)).Mul(t.Price)
		return t.Price.Sub(discount)
	}
	return t.Price
}

// Free reports whether registration requires no payment
func (t *Ticket) Free() bool {
	return t.Type == TicketTypeDefault || t.SalesPrice().IsZero()
}

// TicketPurchase is the immutable record of one person claiming one ticket
// unit. TicketUID doubles as the payment idempotency reference.
type TicketPurchase struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"-"`
	TicketID uint   `gorm:"not null;index" json:"ticket_id"`
	Ticket   Ticket `gorm:"foreignKey:TicketID" json:"ticket,omitempty"`

	TicketUID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"ticket_uid"`
	PaymentReference *string   `gorm:"size:255" json:"payment_reference,omitempty"`
	IsPaid           bool      `gorm:"default:false" json:"is_paid"`

	CheckedIn   bool       `gorm:"default:false" json:"checked_in"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for TicketPurchase model
func (TicketPurchase) TableName() string {
	return "ticket_purchases"
}

// CreateEventRequest represents a request to create an event with tickets
type CreateEventRequest struct {
	Title        string                `json:"title" binding:"required"`
	Description  string                `json:"description"`
	Category     EventCategory         `json:"category"`
	Mode         EventMode             `json:"mode" binding:"required"`
	Venue        *string               `json:"venue"`
	Date         time.Time             `json:"date" binding:"required"`
	DurationMins int                   `json:"duration_mins"`
	MaxCapacity  *int                  `json:"max_capacity"`
	Platform     string                `json:"platform"`
	Tickets      []CreateTicketRequest `json:"tickets"`
}

// CreateTicketRequest represents one ticket definition on event creation
type CreateTicketRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	DiscountPerc decimal.Decimal `json:"discount_perc"`
	Quantity     int             `json:"quantity" binding:"required,gt=0"`
	SalesStart   *time.Time      `json:"sales_start"`
	SalesEnd     *time.Time      `json:"sales_end"`
}

// RegistrationResult is returned from ticket registration: either a completed
// free purchase or a pending paid purchase with a checkout URL
type RegistrationResult struct {
	Purchase    *TicketPurchase `json:"purchase"`
	CheckoutURL string          `json:"checkout_url,omitempty"`
}
