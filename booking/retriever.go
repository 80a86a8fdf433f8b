package booking

import (
	"context"
	"errors"
	"fmt"

	"cinebook-cli/model"
	"cinebook-cli/service"
)

// ErrNotFound means the server has no record for the requested id, or the
// record belongs to someone else. The two cases are indistinguishable on
// the wire and are presented the same way.
var ErrNotFound = errors.New("not found")

// TicketSource is the read side of the booking API.
type TicketSource interface {
	GetTicketsByBooking(ctx context.Context, bookingID int64) ([]model.Ticket, error)
	GetBookingsByUser(ctx context.Context, userID int64) ([]model.Booking, error)
}

// Retriever resolves issued tickets and booking history.
type Retriever struct {
	client TicketSource
}

func NewRetriever(client TicketSource) *Retriever {
	return &Retriever{client: client}
}

// TicketsByBooking fetches the tickets issued for a booking. Unknown and
// foreign booking ids both map to ErrNotFound.
func (r *Retriever) TicketsByBooking(ctx context.Context, bookingID int64) ([]model.Ticket, error) {
	if bookingID <= 0 {
		return nil, fmt.Errorf("ticket lookup: %w", ErrNotFound)
	}
	tickets, err := r.client.GetTicketsByBooking(ctx, bookingID)
	if err != nil {
		if service.IsNotFound(err) {
			return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
		}
		return nil, err
	}
	return tickets, nil
}

// BookingsByUser lists the user's booking history. An empty history is a
// valid result, not an error.
func (r *Retriever) BookingsByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	bookings, err := r.client.GetBookingsByUser(ctx, userID)
	if err != nil {
		if service.IsNotFound(err) {
			return []model.Booking{}, nil
		}
		return nil, err
	}
	return bookings, nil
}
