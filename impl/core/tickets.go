package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"licensedesk/entity"
	"licensedesk/lib/sl"
)

const ticketReplyHeader = "Response to your ticket:"

// RespondTicket closes an open ticket with the operator's text and pushes it to the
// user's chat. A failed delivery is logged; the ticket stays closed.
func (c *Core) RespondTicket(ctx context.Context, id, text string) (*entity.Ticket, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("response: %w", ErrInvalidInput)
	}
	if err := c.ready(); err != nil {
		return nil, err
	}
	ticket, err := c.db.GetTicket(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if ticket == nil {
		return nil, fmt.Errorf("ticket %s: %w", id, ErrNotFound)
	}

	if err = ticket.Respond(text, c.now()); err != nil {
		if errors.Is(err, entity.ErrTicketClosed) {
			return nil, fmt.Errorf("%v: %w", err, ErrConflict)
		}
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	if err = c.db.SaveTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("save ticket: %w", err)
	}

	log := c.log.With(slog.String("ticket_id", id), slog.Int64("telegram_id", ticket.TelegramID))
	log.Info("ticket answered")

	if c.msg != nil {
		if err = c.msg.SendMessage(ticket.TelegramID, ticketReplyHeader+"\n\n"+text); err != nil {
			log.Error("ticket response delivery", sl.Err(err))
		}
	}
	return ticket, nil
}

func (c *Core) DeleteTicket(ctx context.Context, id string) error {
	if err := c.ready(); err != nil {
		return err
	}
	ok, err := c.db.DeleteTicket(ctx, id)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	if !ok {
		return fmt.Errorf("ticket %s: %w", id, ErrNotFound)
	}
	c.log.With(slog.String("ticket_id", id)).Info("ticket deleted")
	return nil
}
