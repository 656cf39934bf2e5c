package entity

import (
	"errors"
	"strings"
	"time"
)

type TicketType string

const (
	TicketPurchase TicketType = "purchase"
	TicketUnlock   TicketType = "unlock"
	TicketSupport  TicketType = "support"
)

type TicketStatus string

const (
	TicketOpen   TicketStatus = "open"
	TicketClosed TicketStatus = "closed"
)

var (
	ErrTicketClosed  = errors.New("ticket already closed")
	ErrEmptyResponse = errors.New("response text is empty")
)

// Ticket is created by the bot; the admin surface can only close it with a
// response or delete it. A closed ticket never reopens.
type Ticket struct {
	ID            string       `json:"id" bson:"id"`
	UserID        string       `json:"user_id" bson:"user_id"`
	TelegramID    int64        `json:"telegram_id" bson:"telegram_id"`
	Type          TicketType   `json:"type" bson:"type"`
	Message       string       `json:"message" bson:"message"`
	Status        TicketStatus `json:"status" bson:"status"`
	AdminResponse string       `json:"admin_response,omitempty" bson:"admin_response,omitempty"`
	CreatedAt     time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" bson:"updated_at"`
}

func (t *Ticket) IsOpen() bool {
	return t.Status == TicketOpen
}

// Respond records the operator answer and closes the ticket.
func (t *Ticket) Respond(text string, now time.Time) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyResponse
	}
	if !t.IsOpen() {
		return ErrTicketClosed
	}
	t.AdminResponse = text
	t.Status = TicketClosed
	t.UpdatedAt = now
	return nil
}
