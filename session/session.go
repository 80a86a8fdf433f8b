// Package session holds the signed-in user context. It replaces ambient
// global lookups: the one Session value is created at startup, passed to
// the components that need it, and transitions login → active → logout.
package session

import (
	"cinebook-cli/model"
)

// Session is the per-login client context. BookingID is the "current
// booking" handle written by the booking stage and read by the payment
// view; it survives restarts via the store.
type Session struct {
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Token     string `json:"token"`
	BookingID int64  `json:"booking_id,omitempty"`
}

// Active reports whether a user is logged in.
func (s *Session) Active() bool {
	return s != nil && s.Token != ""
}

// Login installs the identity from a successful login response.
func (s *Session) Login(result model.LoginResult) {
	s.UserID = result.UserID
	s.Name = result.Name
	s.Role = result.Role
	s.Token = result.Token
	s.BookingID = 0
}

// Logout clears everything, including the booking handle.
func (s *Session) Logout() {
	*s = Session{}
}

// SetBooking records the current booking handle. Only the booking stage
// writes it.
func (s *Session) SetBooking(bookingID int64) {
	s.BookingID = bookingID
}

// ClearBooking drops the handle once the payment view is done with it.
func (s *Session) ClearBooking() {
	s.BookingID = 0
}

// TokenSource adapts the session for the HTTP client's bearer header.
func (s *Session) TokenSource() func() string {
	return func() string {
		if s == nil {
			return ""
		}
		return s.Token
	}
}
