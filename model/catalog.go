package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Movie struct {
	ID       int64  `json:"movie_id"`
	Title    string `json:"title"`
	Genre    string `json:"genre"`
	Duration int    `json:"duration"`
	Picture  string `json:"picture"`
}

type Theater struct {
	ID       int64  `json:"theater_id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type Room struct {
	ID         int64 `json:"room_id"`
	TheaterID  int64 `json:"theater_id"`
	RoomNumber int   `json:"room_number"`
}

type Screen struct {
	ID           int64   `json:"screen_id"`
	RoomID       int64   `json:"room_id"`
	ScreenNumber int     `json:"screen_number"`
	Opacity      float64 `json:"opacity"`
}

// Schedule is one showing of a movie on a screen. The backend serializes
// schedule fields in camelCase, unlike the snake_case catalog entities.
type Schedule struct {
	ID             int64           `json:"scheduleID"`
	MovieID        int64           `json:"movieID"`
	ScreenID       int64           `json:"screenID"`
	ShowTime       time.Time       `json:"showTime"`
	Fare           decimal.Decimal `json:"fare"`
	AvailableSeats int             `json:"availableSeats"`
}

type Seat struct {
	ID         int64 `json:"seat_id"`
	ScreenID   int64 `json:"screen_id"`
	SeatNumber int   `json:"seat_number"`
	IsBooked   bool  `json:"is_booked"`
}
