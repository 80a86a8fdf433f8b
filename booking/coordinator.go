// Package booking submits seat selections as atomic bookings and resolves
// bookings and tickets for the payment view.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"cinebook-cli/seatgrid"
	"cinebook-cli/service"
	"cinebook-cli/session"
)

var (
	ErrNoSeatsSelected = errors.New("no seats selected")
	ErrNoSchedule      = errors.New("no schedule resolved")

	// ErrSeatsChanged means the selection no longer matches the last seat
	// load. The caller must re-load seats and let the user reselect rather
	// than submit against a stale grid.
	ErrSeatsChanged = errors.New("selected seats are no longer available in the loaded layout")
)

// Error is a rejected or failed booking attempt. Reason carries the
// server-provided explanation when one was present.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("booking failed: %s", e.Reason)
	}
	return fmt.Sprintf("booking failed: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Submitter is the one transport call the coordinator needs.
type Submitter interface {
	SubmitBooking(ctx context.Context, scheduleID int64, seatIDs []int64, idempotencyKey string) (int64, error)
}

// Coordinator turns a confirmed seat selection into one atomic booking
// request and owns the current-booking handle on success.
type Coordinator struct {
	client  Submitter
	grid    *seatgrid.Grid
	session *session.Session

	// persist saves the session after the booking handle changes; nil
	// disables persistence (tests).
	persist func(session.Session) error

	// newKey mints the per-attempt idempotency token.
	newKey func() string
}

func NewCoordinator(client Submitter, grid *seatgrid.Grid, sess *session.Session, persist func(session.Session) error) *Coordinator {
	return &Coordinator{
		client:  client,
		grid:    grid,
		session: sess,
		persist: persist,
		newKey:  uuid.NewString,
	}
}

// Submit books the grid's current selection for scheduleID as a single
// atomic unit. Preconditions are checked before any network I/O. On success
// the booking id is stored in the session handle and the selection is
// cleared; on failure selection and handle are left untouched so the caller
// can re-present the grid. A retry must re-validate against a fresh seat
// load, since the seats may have been taken meanwhile.
func (c *Coordinator) Submit(ctx context.Context, scheduleID int64) (int64, error) {
	if scheduleID <= 0 {
		return 0, ErrNoSchedule
	}
	seatIDs := c.grid.Selected()
	if len(seatIDs) == 0 {
		return 0, ErrNoSeatsSelected
	}
	if !c.grid.Unbooked(seatIDs) {
		return 0, ErrSeatsChanged
	}

	// Fresh token per attempt; the server contract may dedupe on it. With
	// a server that ignores it, retrying a submit that actually landed can
	// double-book, which is why failures never retry silently.
	key := c.newKey()

	bookingID, err := c.client.SubmitBooking(ctx, scheduleID, seatIDs, key)
	if err != nil {
		return 0, &Error{Reason: service.Reason(err), Err: err}
	}

	c.session.SetBooking(bookingID)
	if c.persist != nil {
		if err := c.persist(*c.session); err != nil {
			slog.Warn("persist booking handle", "booking_id", bookingID, "err", err)
		}
	}
	c.grid.Clear()

	slog.Info("booking submitted", "booking_id", bookingID, "schedule_id", scheduleID, "seats", len(seatIDs))
	return bookingID, nil
}
