package booking

import (
	"context"
	"errors"
	"testing"

	"cinebook-cli/model"
	"cinebook-cli/seatgrid"
	"cinebook-cli/service"
	"cinebook-cli/session"
)

type fakeSubmitter struct {
	calls     int
	gotSched  int64
	gotSeats  []int64
	gotKeys   []string
	bookingID int64
	err       error
}

func (f *fakeSubmitter) SubmitBooking(_ context.Context, scheduleID int64, seatIDs []int64, key string) (int64, error) {
	f.calls++
	f.gotSched = scheduleID
	f.gotSeats = append([]int64(nil), seatIDs...)
	f.gotKeys = append(f.gotKeys, key)
	if f.err != nil {
		return 0, f.err
	}
	return f.bookingID, nil
}

func loadedGrid(t *testing.T, seats []model.Seat, pick ...int64) *seatgrid.Grid {
	t.Helper()
	g := seatgrid.New()
	if err := g.Apply(1, seats, nil); err != nil {
		t.Fatalf("expected seat layout to apply, got %v", err)
	}
	for _, id := range pick {
		g.Toggle(id)
	}
	return g
}

func TestSubmitSuccess(t *testing.T) {
	seats := []model.Seat{
		{ID: 3, ScreenID: 1, SeatNumber: 3},
		{ID: 4, ScreenID: 1, SeatNumber: 4},
	}
	grid := loadedGrid(t, seats, 3, 4)
	sess := &session.Session{UserID: 7, Token: "tok"}
	var persisted *session.Session
	sub := &fakeSubmitter{bookingID: 42}

	c := NewCoordinator(sub, grid, sess, func(s session.Session) error {
		persisted = &s
		return nil
	})

	id, err := c.Submit(context.Background(), 11)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if id != 42 {
		t.Fatalf("expected booking id 42, got %d", id)
	}
	if sub.calls != 1 {
		t.Fatalf("expected 1 submit call, got %d", sub.calls)
	}
	if sub.gotSched != 11 {
		t.Fatalf("expected schedule 11, got %d", sub.gotSched)
	}
	if len(sub.gotSeats) != 2 || sub.gotSeats[0] != 3 || sub.gotSeats[1] != 4 {
		t.Fatalf("expected seats [3 4], got %v", sub.gotSeats)
	}
	if len(sub.gotKeys) != 1 || sub.gotKeys[0] == "" {
		t.Fatalf("expected a non-empty idempotency key, got %v", sub.gotKeys)
	}
	if sess.BookingID != 42 {
		t.Fatalf("expected session booking handle 42, got %d", sess.BookingID)
	}
	if persisted == nil || persisted.BookingID != 42 {
		t.Fatalf("expected session persisted with booking 42, got %+v", persisted)
	}
	if len(grid.Selected()) != 0 {
		t.Fatalf("expected selection cleared after success, got %v", grid.Selected())
	}
}

func TestSubmitEmptySelectionNoNetwork(t *testing.T) {
	grid := loadedGrid(t, []model.Seat{{ID: 1, ScreenID: 1, SeatNumber: 1}})
	sub := &fakeSubmitter{bookingID: 1}
	c := NewCoordinator(sub, grid, &session.Session{}, nil)

	if _, err := c.Submit(context.Background(), 11); !errors.Is(err, ErrNoSeatsSelected) {
		t.Fatalf("expected ErrNoSeatsSelected, got %v", err)
	}
	if sub.calls != 0 {
		t.Fatalf("expected no network calls, got %d", sub.calls)
	}
}

func TestSubmitNoSchedule(t *testing.T) {
	grid := loadedGrid(t, []model.Seat{{ID: 1, ScreenID: 1, SeatNumber: 1}}, 1)
	sub := &fakeSubmitter{}
	c := NewCoordinator(sub, grid, &session.Session{}, nil)

	if _, err := c.Submit(context.Background(), 0); !errors.Is(err, ErrNoSchedule) {
		t.Fatalf("expected ErrNoSchedule, got %v", err)
	}
	if sub.calls != 0 {
		t.Fatalf("expected no network calls, got %d", sub.calls)
	}
}

func TestSubmitFailureKeepsState(t *testing.T) {
	seats := []model.Seat{
		{ID: 3, ScreenID: 1, SeatNumber: 3},
		{ID: 4, ScreenID: 1, SeatNumber: 4},
	}
	grid := loadedGrid(t, seats, 3, 4)
	sess := &session.Session{UserID: 7}
	apiErr := &service.APIError{StatusCode: 409, Endpoint: "/user/book", Message: "seat already booked"}
	sub := &fakeSubmitter{err: apiErr}
	c := NewCoordinator(sub, grid, sess, nil)

	_, err := c.Submit(context.Background(), 11)
	if err == nil {
		t.Fatalf("expected failure")
	}
	var bErr *Error
	if !errors.As(err, &bErr) {
		t.Fatalf("expected *booking.Error, got %T", err)
	}
	if bErr.Reason != "seat already booked" {
		t.Fatalf("expected server reason passed through, got %q", bErr.Reason)
	}
	if sess.BookingID != 0 {
		t.Fatalf("expected booking handle untouched on failure, got %d", sess.BookingID)
	}
	if got := grid.Selected(); len(got) != 2 {
		t.Fatalf("expected selection preserved on failure, got %v", got)
	}
}

func TestSubmitFreshKeyPerAttempt(t *testing.T) {
	seats := []model.Seat{{ID: 3, ScreenID: 1, SeatNumber: 3}}
	grid := loadedGrid(t, seats, 3)
	sub := &fakeSubmitter{err: errors.New("network down")}
	c := NewCoordinator(sub, grid, &session.Session{}, nil)

	if _, err := c.Submit(context.Background(), 11); err == nil {
		t.Fatalf("expected first attempt to fail")
	}
	if _, err := c.Submit(context.Background(), 11); err == nil {
		t.Fatalf("expected second attempt to fail")
	}
	if len(sub.gotKeys) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(sub.gotKeys))
	}
	if sub.gotKeys[0] == sub.gotKeys[1] {
		t.Fatalf("expected a fresh idempotency key per attempt, both were %q", sub.gotKeys[0])
	}
}
