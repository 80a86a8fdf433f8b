package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"cinebook-cli/model"
	"cinebook-cli/service"
)

type fakeTicketSource struct {
	tickets  []model.Ticket
	bookings []model.Booking
	err      error
}

func (f *fakeTicketSource) GetTicketsByBooking(context.Context, int64) ([]model.Ticket, error) {
	return f.tickets, f.err
}

func (f *fakeTicketSource) GetBookingsByUser(context.Context, int64) ([]model.Booking, error) {
	return f.bookings, f.err
}

func TestTicketsByBooking(t *testing.T) {
	issued := time.Date(2026, 8, 28, 19, 30, 0, 0, time.UTC)
	src := &fakeTicketSource{tickets: []model.Ticket{
		{ID: 1, BookingID: 42, SeatID: 3, Fare: decimal.NewFromInt(75000), IssuedAt: issued},
		{ID: 2, BookingID: 42, SeatID: 4, Fare: decimal.NewFromInt(75000), IssuedAt: issued},
	}}
	r := NewRetriever(src)

	tickets, err := r.TicketsByBooking(context.Background(), 42)
	if err != nil {
		t.Fatalf("expected tickets, got %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(tickets))
	}
	for _, tk := range tickets {
		if tk.BookingID != 42 {
			t.Fatalf("expected every ticket on booking 42, got %d", tk.BookingID)
		}
	}
}

func TestTicketsByBookingNotFound(t *testing.T) {
	src := &fakeTicketSource{err: &service.APIError{StatusCode: 404, Endpoint: "/user/ticket/99"}}
	r := NewRetriever(src)

	if _, err := r.TicketsByBooking(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTicketsByBookingForeignBooking(t *testing.T) {
	// The server answers 403 for another user's booking; presented the same
	// as an unknown id.
	src := &fakeTicketSource{err: &service.APIError{StatusCode: 403, Endpoint: "/user/ticket/7"}}
	r := NewRetriever(src)

	if _, err := r.TicketsByBooking(context.Background(), 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign booking, got %v", err)
	}
}

func TestTicketsByBookingInvalidID(t *testing.T) {
	src := &fakeTicketSource{}
	r := NewRetriever(src)

	if _, err := r.TicketsByBooking(context.Background(), 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for id 0, got %v", err)
	}
}

func TestBookingsByUserEmptyHistory(t *testing.T) {
	src := &fakeTicketSource{bookings: []model.Booking{}}
	r := NewRetriever(src)

	bookings, err := r.BookingsByUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected empty history to be valid, got %v", err)
	}
	if len(bookings) != 0 {
		t.Fatalf("expected no bookings, got %d", len(bookings))
	}
}

func TestBookingsByUserNotFoundIsEmpty(t *testing.T) {
	src := &fakeTicketSource{err: &service.APIError{StatusCode: 404, Endpoint: "/user/bookings/7"}}
	r := NewRetriever(src)

	bookings, err := r.BookingsByUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected 404 history to read as empty, got %v", err)
	}
	if len(bookings) != 0 {
		t.Fatalf("expected no bookings, got %d", len(bookings))
	}
}
