package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking is one atomic purchase covering one or more seats for a schedule.
// It is immutable once created; the client never mutates a booking locally.
type Booking struct {
	ID          int64     `json:"booking_id"`
	UserID      int64     `json:"user_id"`
	ScheduleID  int64     `json:"schedule_id"`
	MovieID     int64     `json:"movie_id"`
	ScreenID    int64     `json:"screen_id"`
	BookingDate time.Time `json:"booking_date"`
	NumSeats    int       `json:"num_seats"`
	Seats       []int64   `json:"seats"`
}

// Ticket is one issued entitlement for a single seat within a booking.
type Ticket struct {
	ID        int64           `json:"ticketID"`
	BookingID int64           `json:"bookingID"`
	SeatID    int64           `json:"seatID"`
	Fare      decimal.Decimal `json:"fare"`
	IssuedAt  time.Time       `json:"issuedAt"`
	QRCode    string          `json:"qrCode,omitempty"`
}
