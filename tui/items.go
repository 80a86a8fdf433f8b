package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"cinebook-cli/model"
)

type theaterItem struct {
	theater model.Theater
}

func (t theaterItem) Title() string       { return t.theater.Name }
func (t theaterItem) Description() string { return t.theater.Location }

func (t theaterItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{t.theater.Name, t.theater.Location}, " "))
}

type roomItem struct {
	room model.Room
}

func (r roomItem) Title() string       { return fmt.Sprintf("Room %d", r.room.RoomNumber) }
func (r roomItem) Description() string { return "" }
func (r roomItem) FilterValue() string { return fmt.Sprintf("room %d", r.room.RoomNumber) }

type screenItem struct {
	screen model.Screen
}

func (s screenItem) Title() string       { return fmt.Sprintf("Screen %d", s.screen.ScreenNumber) }
func (s screenItem) Description() string { return "" }
func (s screenItem) FilterValue() string { return fmt.Sprintf("screen %d", s.screen.ScreenNumber) }

type scheduleItem struct {
	schedule model.Schedule
}

func (s scheduleItem) Title() string {
	return s.schedule.ShowTime.Format("Mon 02/01 • 15:04")
}

func (s scheduleItem) Description() string {
	return fmt.Sprintf("Fare %s • %d seats left", s.schedule.Fare.StringFixed(2), s.schedule.AvailableSeats)
}

func (s scheduleItem) FilterValue() string {
	return strings.ToLower(s.schedule.ShowTime.Format("Mon 02/01 15:04"))
}

type movieItem struct {
	movie model.Movie
}

func (m movieItem) Title() string { return m.movie.Title }

func (m movieItem) Description() string {
	parts := []string{}
	if m.movie.Genre != "" {
		parts = append(parts, m.movie.Genre)
	}
	if m.movie.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%d min", m.movie.Duration))
	}
	return strings.Join(parts, " • ")
}

func (m movieItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{m.movie.Title, m.movie.Genre}, " "))
}

type bookingItem struct {
	booking model.Booking
}

func (b bookingItem) Title() string {
	return fmt.Sprintf("Booking #%d", b.booking.ID)
}

func (b bookingItem) Description() string {
	parts := []string{}
	if !b.booking.BookingDate.IsZero() {
		parts = append(parts, b.booking.BookingDate.Format("2006-01-02 15:04"))
	}
	if b.booking.NumSeats > 0 {
		parts = append(parts, fmt.Sprintf("%d seats", b.booking.NumSeats))
	} else if len(b.booking.Seats) > 0 {
		parts = append(parts, fmt.Sprintf("%d seats", len(b.booking.Seats)))
	}
	return strings.Join(parts, " • ")
}

func (b bookingItem) FilterValue() string {
	return fmt.Sprintf("booking %d", b.booking.ID)
}

func buildTheaterItems(theaters []model.Theater) []list.Item {
	sorted := append([]model.Theater{}, theaters...)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	items := make([]list.Item, 0, len(sorted))
	for _, theater := range sorted {
		items = append(items, theaterItem{theater: theater})
	}
	return items
}

func buildRoomItems(rooms []model.Room) []list.Item {
	sorted := append([]model.Room{}, rooms...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RoomNumber < sorted[j].RoomNumber
	})
	items := make([]list.Item, 0, len(sorted))
	for _, room := range sorted {
		items = append(items, roomItem{room: room})
	}
	return items
}

func buildScreenItems(screens []model.Screen) []list.Item {
	sorted := append([]model.Screen{}, screens...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ScreenNumber < sorted[j].ScreenNumber
	})
	items := make([]list.Item, 0, len(sorted))
	for _, screen := range sorted {
		items = append(items, screenItem{screen: screen})
	}
	return items
}

func buildScheduleItems(schedules []model.Schedule) []list.Item {
	sorted := append([]model.Schedule{}, schedules...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ShowTime.Before(sorted[j].ShowTime)
	})
	items := make([]list.Item, 0, len(sorted))
	for _, schedule := range sorted {
		items = append(items, scheduleItem{schedule: schedule})
	}
	return items
}

func buildMovieItems(movies []model.Movie) []list.Item {
	sorted := append([]model.Movie{}, movies...)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Title) < strings.ToLower(sorted[j].Title)
	})
	items := make([]list.Item, 0, len(sorted))
	for _, movie := range sorted {
		items = append(items, movieItem{movie: movie})
	}
	return items
}

func buildBookingItems(bookings []model.Booking) []list.Item {
	sorted := append([]model.Booking{}, bookings...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].BookingDate.After(sorted[j].BookingDate)
	})
	items := make([]list.Item, 0, len(sorted))
	for _, b := range sorted {
		items = append(items, bookingItem{booking: b})
	}
	return items
}
