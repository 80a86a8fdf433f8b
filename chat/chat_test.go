package chat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"cinebook-cli/model"
)

func TestRoomIDOrderIndependent(t *testing.T) {
	if got := RoomID(5, 2); got != "chat_2_5" {
		t.Fatalf("expected chat_2_5, got %q", got)
	}
	if got := RoomID(2, 5); got != "chat_2_5" {
		t.Fatalf("expected chat_2_5, got %q", got)
	}
	if RoomID(5, 2) != RoomID(2, 5) {
		t.Fatalf("expected both sides to derive the same room")
	}
}

func TestSendBlankIsNoOp(t *testing.T) {
	s := New(2, false)
	s.state = StateConnected
	if err := s.Send("   "); err != nil {
		t.Fatalf("expected blank send to be a no-op, got %v", err)
	}
	if len(s.Messages()) != 0 {
		t.Fatalf("expected no local append for blank send, got %d", len(s.Messages()))
	}
}

func TestSendNotConnected(t *testing.T) {
	s := New(2, false)
	if err := s.Send("hello"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestSeedMarksOwnMessages(t *testing.T) {
	s := New(2, false)
	s.Seed([]model.ChatMessage{
		{UserID: 1, MessageText: "how can I help?"},
		{UserID: 2, MessageText: "my booking failed"},
	})
	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 seeded messages, got %d", len(msgs))
	}
	if msgs[0].Self {
		t.Fatalf("expected support message not marked self")
	}
	if !msgs[1].Self {
		t.Fatalf("expected own message marked self")
	}
}

func TestHandleEventDropsOwnEcho(t *testing.T) {
	s := New(2, false)
	s.state = StateConnected
	s.pending["abc"] = true
	s.messages = append(s.messages, model.ChatMessage{
		UserID: 2, MessageText: "hi", Nonce: "abc", Self: true,
	})

	if err := s.HandleEvent(Event{Msg: model.ChatMessage{
		UserID: 2, MessageText: "hi", Nonce: "abc", Room: "chat_1_2",
	}}); err != nil {
		t.Fatalf("expected echo handled cleanly, got %v", err)
	}
	if len(s.Messages()) != 1 {
		t.Fatalf("expected echo deduplicated, transcript has %d messages", len(s.Messages()))
	}
	if s.pending["abc"] {
		t.Fatalf("expected pending nonce cleared after echo")
	}
}

func TestHandleEventAppendsPeerMessage(t *testing.T) {
	s := New(2, false)
	s.state = StateConnected

	if err := s.HandleEvent(Event{Msg: model.ChatMessage{
		UserID: 1, MessageText: "how can I help?", Room: "chat_1_2",
	}}); err != nil {
		t.Fatalf("expected peer message handled, got %v", err)
	}
	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Self {
		t.Fatalf("expected peer message not marked self")
	}
}

func TestHandleEventTransportError(t *testing.T) {
	s := New(2, false)
	s.state = StateConnected

	err := s.HandleEvent(Event{Err: errors.New("read tcp: connection reset")})
	if err == nil {
		t.Fatalf("expected transport error surfaced")
	}
	if s.State() != StateDisconnected {
		t.Fatalf("expected state disconnected, got %s", s.State())
	}
}

func TestHandleEventNormalCloseIsSilent(t *testing.T) {
	s := New(2, false)
	s.state = StateConnected

	err := s.HandleEvent(Event{Err: &websocket.CloseError{Code: websocket.CloseNormalClosure}})
	if err != nil {
		t.Fatalf("expected normal close to be silent, got %v", err)
	}
}

// chatEchoServer upgrades the request and echoes every message back,
// the way the real hub broadcasts to the whole room including the sender.
func chatEchoServer(t *testing.T, gotQuery chan<- string) *httptest.Server {
	t.Helper()
	up := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotQuery != nil {
			gotQuery <- r.URL.RawQuery
		}
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			var msg model.ChatMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}))
}

func TestConnectSendAndEchoRoundTrip(t *testing.T) {
	gotQuery := make(chan string, 1)
	srv := chatEchoServer(t, gotQuery)
	defer srv.Close()

	s := New(2, false)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	if err := s.Connect(context.Background(), wsURL, 1); err != nil {
		t.Fatalf("expected connect to succeed, got %v", err)
	}
	defer s.Close()

	query := <-gotQuery
	if !strings.Contains(query, "room=chat_1_2") {
		t.Fatalf("expected room in query, got %q", query)
	}
	if !strings.Contains(query, "userID=2") {
		t.Fatalf("expected userID in query, got %q", query)
	}
	if !strings.Contains(query, "admin=false") {
		t.Fatalf("expected admin flag in query, got %q", query)
	}

	if err := s.Send("my booking failed"); err != nil {
		t.Fatalf("expected send to succeed, got %v", err)
	}
	if len(s.Messages()) != 1 {
		t.Fatalf("expected optimistic local append, got %d messages", len(s.Messages()))
	}

	select {
	case ev := <-s.Events():
		if err := s.HandleEvent(ev); err != nil {
			t.Fatalf("expected echo handled cleanly, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for echo")
	}
	if len(s.Messages()) != 1 {
		t.Fatalf("expected echo deduplicated, transcript has %d messages", len(s.Messages()))
	}
}

func TestConnectTwiceRejected(t *testing.T) {
	srv := chatEchoServer(t, nil)
	defer srv.Close()

	s := New(2, false)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	if err := s.Connect(context.Background(), wsURL, 1); err != nil {
		t.Fatalf("expected first connect to succeed, got %v", err)
	}
	defer s.Close()

	if err := s.Connect(context.Background(), wsURL, 1); err == nil {
		t.Fatalf("expected second connect to be rejected")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s := New(2, false)
	if err := s.Close(); err != nil {
		t.Fatalf("expected close on fresh session to succeed, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("expected repeated close to succeed, got %v", err)
	}
	if s.State() != StateClosed {
		t.Fatalf("expected closed state, got %s", s.State())
	}
	if err := s.Connect(context.Background(), "ws://example", 1); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
}
