package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"cinebook-cli/booking"
	"cinebook-cli/config"
	"cinebook-cli/store"
)

var ticketsCmd = &cobra.Command{
	Use:   "tickets [booking-id]",
	Short: "Show the tickets issued for a booking",
	Long:  `Show the tickets issued for a booking. Without an argument, uses the booking from your last seat purchase.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		sess, err := store.LoadSession()
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		if !sess.Active() {
			return errors.New("not signed in; run `cinebook login` first")
		}

		bookingID := sess.BookingID
		if len(args) == 1 {
			bookingID, err = strconv.ParseInt(args[0], 10, 64)
			if err != nil || bookingID <= 0 {
				return fmt.Errorf("invalid booking id %q", args[0])
			}
		}
		if bookingID == 0 {
			return errors.New("no booking to show; pass a booking id or book seats first")
		}

		retr := booking.NewRetriever(newClient(cfg, &sess))
		tickets, err := retr.TicketsByBooking(context.Background(), bookingID)
		if err != nil {
			if errors.Is(err, booking.ErrNotFound) {
				return fmt.Errorf("booking %d not found", bookingID)
			}
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Ticket", "Seat", "Fare", "Issued"})
		total := decimal.Zero
		for _, ticket := range tickets {
			total = total.Add(ticket.Fare)
			issued := ""
			if !ticket.IssuedAt.IsZero() {
				issued = ticket.IssuedAt.Format("2006-01-02 15:04")
			}
			t.AppendRow(table.Row{ticket.ID, ticket.SeatID, ticket.Fare.StringFixed(2), issued})
		}
		t.AppendFooter(table.Row{"", "Total", total.StringFixed(2), ""})
		t.Render()
		return nil
	},
}

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "List your booking history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		sess, err := store.LoadSession()
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		if !sess.Active() {
			return errors.New("not signed in; run `cinebook login` first")
		}

		retr := booking.NewRetriever(newClient(cfg, &sess))
		bookings, err := retr.BookingsByUser(context.Background(), sess.UserID)
		if err != nil {
			return err
		}
		if len(bookings) == 0 {
			fmt.Println("No bookings yet.")
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Booking", "Date", "Seats", "Schedule"})
		for _, b := range bookings {
			date := ""
			if !b.BookingDate.IsZero() {
				date = b.BookingDate.Format("2006-01-02 15:04")
			}
			seats := b.NumSeats
			if seats == 0 {
				seats = len(b.Seats)
			}
			t.AppendRow(table.Row{b.ID, date, seats, b.ScheduleID})
		}
		t.Render()
		return nil
	},
}
