// Package seatgrid holds the seat layout of one screen and the user's
// current selection for one schedule visit.
package seatgrid

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cinebook-cli/model"
)

// RowWidth is the fixed display row width. Rows are purely a presentation
// grouping over the flat seat list; seat ownership is not row-based.
const RowWidth = 14

// LoadError is a failed seat layout fetch.
type LoadError struct {
	ScreenID int64
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load seats for screen %d: %v", e.ScreenID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Grid is the seat model for one screen. Not safe for concurrent use; it
// lives on the single event loop like the rest of the client state.
type Grid struct {
	screenID int64
	seats    []model.Seat
	loaded   bool

	order    []int64
	selected map[int64]bool
}

func New() *Grid {
	return &Grid{selected: map[int64]bool{}}
}

// Apply installs the outcome of a seat layout fetch. A successful load
// replaces any prior seats and empties the selection; a failure leaves the
// grid unloaded with an empty selection and returns a LoadError.
func (g *Grid) Apply(screenID int64, seats []model.Seat, err error) error {
	g.Clear()
	if err != nil {
		g.screenID = screenID
		g.seats = nil
		g.loaded = false
		return &LoadError{ScreenID: screenID, Err: err}
	}
	g.screenID = screenID
	g.seats = seats
	g.loaded = true
	return nil
}

// Toggle flips the seat's membership in the selection. Toggling a booked or
// unknown seat is a no-op, not an error. Selection order is insertion order.
func (g *Grid) Toggle(seatID int64) bool {
	seat, ok := g.seatByID(seatID)
	if !ok || seat.IsBooked {
		return false
	}
	if g.selected[seatID] {
		delete(g.selected, seatID)
		for i, id := range g.order {
			if id == seatID {
				g.order = append(g.order[:i], g.order[i+1:]...)
				break
			}
		}
		return true
	}
	g.selected[seatID] = true
	g.order = append(g.order, seatID)
	return true
}

// Clear empties the selection. Used on navigation away and after a
// successful booking.
func (g *Grid) Clear() {
	g.order = nil
	g.selected = map[int64]bool{}
}

// Selected returns the chosen seat ids in insertion order.
func (g *Grid) Selected() []int64 {
	out := make([]int64, len(g.order))
	copy(out, g.order)
	return out
}

func (g *Grid) IsSelected(seatID int64) bool { return g.selected[seatID] }

func (g *Grid) SelectedCount() int { return len(g.order) }

// Total is the pure price computation: selected-count × fare.
func (g *Grid) Total(fare decimal.Decimal) decimal.Decimal {
	return fare.Mul(decimal.NewFromInt(int64(len(g.order))))
}

// Unbooked reports whether every given seat is present and unbooked in the
// last successful load. The booking stage validates against this before
// submitting; the server remains the authority on booking conflicts.
func (g *Grid) Unbooked(seatIDs []int64) bool {
	if !g.loaded {
		return false
	}
	for _, id := range seatIDs {
		seat, ok := g.seatByID(id)
		if !ok || seat.IsBooked {
			return false
		}
	}
	return true
}

func (g *Grid) Seats() []model.Seat { return g.seats }

func (g *Grid) Loaded() bool { return g.loaded }

func (g *Grid) ScreenID() int64 { return g.screenID }

// Rows chunks the flat seat list into fixed-width display rows.
func (g *Grid) Rows() [][]model.Seat {
	return chunkRows(g.seats, RowWidth)
}

func chunkRows(seats []model.Seat, width int) [][]model.Seat {
	if width <= 0 || len(seats) == 0 {
		return nil
	}
	rows := make([][]model.Seat, 0, (len(seats)+width-1)/width)
	for start := 0; start < len(seats); start += width {
		end := start + width
		if end > len(seats) {
			end = len(seats)
		}
		rows = append(rows, seats[start:end])
	}
	return rows
}

func (g *Grid) seatByID(seatID int64) (model.Seat, bool) {
	for _, seat := range g.seats {
		if seat.ID == seatID {
			return seat, true
		}
	}
	return model.Seat{}, false
}
