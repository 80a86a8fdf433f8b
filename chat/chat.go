// Package chat maintains one live support conversation over a websocket.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"cinebook-cli/model"
)

// State is the connection lifecycle. Transitions only move forward except
// Connected→Disconnected on a transport failure; Closed is terminal.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrNotConnected = errors.New("chat is not connected")
	ErrClosed       = errors.New("chat session is closed")
)

// SupportUserID is the fixed peer a regular user talks to. Admins talk to
// whichever user they picked instead.
const SupportUserID int64 = 1

// RoomID derives the shared room name for a user pair. Both sides compute
// it independently, so the lower id always comes first.
func RoomID(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("chat_%d_%d", a, b)
}

// Event is one reader-goroutine delivery: a live message or a transport
// failure. Exactly one field is set.
type Event struct {
	Msg model.ChatMessage
	Err error
}

// Session is one conversation: seeded history plus live traffic. All state
// mutation happens on the caller's event loop; only the internal read loop
// runs concurrently, and it communicates solely through Events().
type Session struct {
	userID int64
	admin  bool

	state    State
	room     string
	conn     *websocket.Conn
	messages []model.ChatMessage

	// pending holds nonces of optimistic sends awaiting their echo.
	pending map[string]bool

	events chan Event

	// newNonce is swappable for tests.
	newNonce func() string
}

func New(userID int64, admin bool) *Session {
	return &Session{
		userID:   userID,
		admin:    admin,
		pending:  map[string]bool{},
		newNonce: uuid.NewString,
	}
}

func (s *Session) State() State { return s.state }

func (s *Session) Room() string { return s.room }

// Messages returns the conversation in arrival order, history first.
func (s *Session) Messages() []model.ChatMessage { return s.messages }

// Events is the channel the read loop delivers on. It is closed when the
// read loop exits.
func (s *Session) Events() <-chan Event { return s.events }

// Seed installs fetched history as the initial transcript. Call before
// Connect so live messages append after it.
func (s *Session) Seed(history []model.ChatMessage) {
	s.messages = make([]model.ChatMessage, len(history))
	copy(s.messages, history)
	for i := range s.messages {
		s.messages[i].Self = s.messages[i].UserID == s.userID
	}
}

// Connect dials the chat endpoint and starts the read loop. peerID is the
// other side of the conversation; regular users pass the support id.
func (s *Session) Connect(ctx context.Context, wsBaseURL string, peerID int64) error {
	switch s.state {
	case StateClosed:
		return ErrClosed
	case StateConnected, StateConnecting:
		return fmt.Errorf("chat already %s", s.state)
	}

	s.room = RoomID(s.userID, peerID)
	s.state = StateConnecting

	u, err := url.Parse(wsBaseURL)
	if err != nil {
		s.state = StateDisconnected
		return fmt.Errorf("parse ws url: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	q := url.Values{}
	q.Set("room", s.room)
	q.Set("admin", strconv.FormatBool(s.admin))
	q.Set("userID", strconv.FormatInt(s.userID, 10))
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		s.state = StateDisconnected
		return fmt.Errorf("dial chat: %w", err)
	}

	s.conn = conn
	s.state = StateConnected
	s.events = make(chan Event, 16)
	go s.readLoop(conn)

	slog.Info("chat connected", "room", s.room, "admin", s.admin)
	return nil
}

func (s *Session) readLoop(conn *websocket.Conn) {
	defer close(s.events)
	for {
		var msg model.ChatMessage
		if err := conn.ReadJSON(&msg); err != nil {
			s.events <- Event{Err: err}
			return
		}
		s.events <- Event{Msg: msg}
	}
}

// Send writes a message to the room and appends it locally right away.
// Blank input is a no-op. The outgoing nonce lets HandleEvent recognise the
// server's echo of this message and drop it instead of showing it twice.
func (s *Session) Send(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if s.state != StateConnected {
		return ErrNotConnected
	}

	msg := model.ChatMessage{
		UserID:      s.userID,
		MessageText: text,
		Room:        s.room,
		IsAdmin:     s.admin,
		Nonce:       s.newNonce(),
		Self:        true,
	}
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send chat message: %w", err)
	}
	s.pending[msg.Nonce] = true
	s.messages = append(s.messages, msg)
	return nil
}

// HandleEvent folds one read-loop delivery into the session. An echo of an
// optimistic send (matched by nonce) is dropped; any other message appends.
// A transport error moves the session to Disconnected and is returned for
// display.
func (s *Session) HandleEvent(ev Event) error {
	if ev.Err != nil {
		if s.state == StateConnected {
			s.state = StateDisconnected
			s.conn = nil
		}
		if s.state == StateClosed || websocket.IsCloseError(ev.Err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil
		}
		return fmt.Errorf("chat connection lost: %w", ev.Err)
	}

	msg := ev.Msg
	if msg.Nonce != "" && s.pending[msg.Nonce] {
		delete(s.pending, msg.Nonce)
		return nil
	}
	msg.Self = msg.UserID == s.userID
	s.messages = append(s.messages, msg)
	return nil
}

// Close tears the connection down. Safe to call in any state and more than
// once.
func (s *Session) Close() error {
	if s.state == StateClosed {
		return nil
	}
	conn := s.conn
	s.conn = nil
	s.state = StateClosed
	if conn == nil {
		return nil
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return conn.Close()
}
