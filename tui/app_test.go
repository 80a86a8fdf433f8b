package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"cinebook-cli/chat"
	"cinebook-cli/config"
	"cinebook-cli/model"
	"cinebook-cli/session"
)

type testItem struct {
	value string
}

func (t testItem) Title() string       { return t.value }
func (t testItem) Description() string { return "" }
func (t testItem) FilterValue() string { return strings.ToLower(t.value) }

func newTestModel() appModel {
	cfg := &config.Config{APIBaseURL: "http://localhost:8080", WSBaseURL: "ws://localhost:8080"}
	sess := &session.Session{UserID: 2, Name: "Test", Token: "tok"}
	return New(cfg, sess).(appModel)
}

func newFilterModel(items []list.Item) *appModel {
	model := newTestModel()
	model.state = stateSelectTheater
	model.theaterList = newList("Select Theater")
	model.theaterList.SetItems(items)
	return &model
}

func TestHandleFilterInput_AppendsRunes(t *testing.T) {
	m := newFilterModel([]list.Item{
		testItem{value: "Grand Plaza"},
		testItem{value: "Metro Cinema"},
	})

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")}) {
		t.Fatal("expected filter input to be handled")
	}
	if got := m.theaterList.FilterValue(); got != "g" {
		t.Fatalf("expected filter value to be %q, got %q", "g", got)
	}

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}) {
		t.Fatal("expected filter input to be handled")
	}
	if got := m.theaterList.FilterValue(); got != "gr" {
		t.Fatalf("expected filter value to be %q, got %q", "gr", got)
	}
}

func TestHandleFilterInput_Backspace(t *testing.T) {
	m := newFilterModel([]list.Item{
		testItem{value: "Grand Plaza"},
	})

	_ = m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	_ = m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyBackspace}) {
		t.Fatal("expected backspace to be handled")
	}
	if got := m.theaterList.FilterValue(); got != "g" {
		t.Fatalf("expected filter value to be %q, got %q", "g", got)
	}
}

func TestStaleLevelResultDiscarded(t *testing.T) {
	m := newTestModel()
	fetchA := m.nav.LoadTheaters()
	m.nav.ApplyTheaters(fetchA, []model.Theater{{ID: 1, Name: "Grand Plaza"}}, nil)
	roomsFetch, err := m.nav.SelectTheater(1)
	if err != nil {
		t.Fatalf("expected theater selection, got %v", err)
	}

	// User changes theater before the room result lands.
	m.nav.ApplyTheaters(m.nav.LoadTheaters(), []model.Theater{{ID: 1, Name: "Grand Plaza"}}, nil)
	if _, err := m.nav.SelectTheater(1); err != nil {
		t.Fatalf("expected re-selection, got %v", err)
	}

	updated, _ := m.Update(roomsMsg{fetch: roomsFetch, rooms: []model.Room{{ID: 9, TheaterID: 1, RoomNumber: 9}}})
	got := updated.(appModel)
	if got.state == stateSelectRoom {
		t.Fatal("expected stale room result to be discarded")
	}
	if len(got.nav.Rooms()) != 0 {
		t.Fatalf("expected no rooms applied from stale fetch, got %d", len(got.nav.Rooms()))
	}
}

func TestFreshLevelResultApplied(t *testing.T) {
	m := newTestModel()
	m.nav.ApplyTheaters(m.nav.LoadTheaters(), []model.Theater{{ID: 1, Name: "Grand Plaza"}}, nil)
	roomsFetch, err := m.nav.SelectTheater(1)
	if err != nil {
		t.Fatalf("expected theater selection, got %v", err)
	}
	m.state = stateLoadingRooms

	updated, _ := m.Update(roomsMsg{fetch: roomsFetch, rooms: []model.Room{{ID: 9, TheaterID: 1, RoomNumber: 2}}})
	got := updated.(appModel)
	if got.state != stateSelectRoom {
		t.Fatalf("expected room selection state, got %d", got.state)
	}
	if len(got.nav.Rooms()) != 1 {
		t.Fatalf("expected 1 room applied, got %d", len(got.nav.Rooms()))
	}
}

func TestStaleSeatResultDiscarded(t *testing.T) {
	m := newTestModel()
	m.state = stateLoadingSeats
	m.seatSeq = 2

	seats := []model.Seat{{ID: 1, ScreenID: 1, SeatNumber: 1}}
	updated, _ := m.Update(seatsMsg{seq: 1, screenID: 1, seats: seats, err: nil})
	got := updated.(appModel)
	if got.state != stateLoadingSeats {
		t.Fatalf("expected stale seat result discarded, state is %d", got.state)
	}
	if got.grid.Loaded() {
		t.Fatal("expected grid untouched by stale seat result")
	}
}

func TestSeatCursorMovement(t *testing.T) {
	m := newTestModel()
	seats := make([]model.Seat, 30)
	for i := range seats {
		seats[i] = model.Seat{ID: int64(i + 1), ScreenID: 1, SeatNumber: i + 1}
	}
	if err := m.grid.Apply(1, seats, nil); err != nil {
		t.Fatalf("expected layout applied, got %v", err)
	}
	m.state = stateSelectSeats

	updated, _, handled := m.handleSeatKey(tea.KeyMsg{Type: tea.KeyRight})
	if !handled {
		t.Fatal("expected right arrow handled")
	}
	got := updated.(appModel)
	if got.seatCursor != 1 {
		t.Fatalf("expected cursor at 1, got %d", got.seatCursor)
	}

	updated, _, _ = got.handleSeatKey(tea.KeyMsg{Type: tea.KeyDown})
	got = updated.(appModel)
	if got.seatCursor != 15 {
		t.Fatalf("expected cursor one row down at 15, got %d", got.seatCursor)
	}

	updated, _, _ = got.handleSeatKey(tea.KeyMsg{Type: tea.KeyUp})
	got = updated.(appModel)
	if got.seatCursor != 1 {
		t.Fatalf("expected cursor back at 1, got %d", got.seatCursor)
	}
}

func TestSeatToggleViaSpace(t *testing.T) {
	m := newTestModel()
	seats := []model.Seat{
		{ID: 1, ScreenID: 1, SeatNumber: 1},
		{ID: 2, ScreenID: 1, SeatNumber: 2, IsBooked: true},
	}
	if err := m.grid.Apply(1, seats, nil); err != nil {
		t.Fatalf("expected layout applied, got %v", err)
	}
	m.state = stateSelectSeats

	updated, _, _ := m.handleSeatKey(tea.KeyMsg{Type: tea.KeySpace})
	got := updated.(appModel)
	if !got.grid.IsSelected(1) {
		t.Fatal("expected seat 1 selected by space")
	}

	// Move onto the booked seat and try to toggle it.
	updated, _, _ = got.handleSeatKey(tea.KeyMsg{Type: tea.KeyRight})
	got = updated.(appModel)
	updated, _, _ = got.handleSeatKey(tea.KeyMsg{Type: tea.KeySpace})
	got = updated.(appModel)
	if got.grid.IsSelected(2) {
		t.Fatal("expected booked seat to stay unselected")
	}
}

func TestMovieEnterLoadsDetail(t *testing.T) {
	m := newTestModel()
	m.state = stateBrowseMovies
	m.movieList.SetItems(buildMovieItems([]model.Movie{{ID: 3, Title: "Dune", Genre: "sci-fi", Duration: 155}}))
	m.movieList.Select(0)

	updated, cmd, handled := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if !handled {
		t.Fatal("expected enter on a movie to be handled")
	}
	got := updated.(appModel)
	if got.state != stateLoadingMovieDetail {
		t.Fatalf("expected movie detail loading state, got %d", got.state)
	}
	if cmd == nil {
		t.Fatal("expected a detail fetch command")
	}

	detail, _ := got.Update(movieDetailMsg{movie: model.Movie{ID: 3, Title: "Dune", Genre: "sci-fi", Duration: 155}})
	got = detail.(appModel)
	if got.state != stateMovieDetail {
		t.Fatalf("expected movie detail state, got %d", got.state)
	}
	if got.movie.Title != "Dune" {
		t.Fatalf("unexpected movie: %+v", got.movie)
	}
}

func TestMovieDetailEnterStartsCascade(t *testing.T) {
	m := newTestModel()
	m.state = stateMovieDetail
	m.movie = model.Movie{ID: 3, Title: "Dune"}

	updated, cmd, handled := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if !handled {
		t.Fatal("expected enter on the detail view to be handled")
	}
	got := updated.(appModel)
	if got.state != stateLoadingTheaters {
		t.Fatalf("expected theater loading state, got %d", got.state)
	}
	if cmd == nil {
		t.Fatal("expected a theater fetch command")
	}

	m.state = stateMovieDetail
	back, _ := m.goBack()
	got = back.(appModel)
	if got.state != stateBrowseMovies {
		t.Fatalf("expected esc to return to the movie list, got %d", got.state)
	}
}

func TestStaleChatEventDropped(t *testing.T) {
	m := newTestModel()
	stale := chat.New(2, false)
	m.chat = chat.New(2, false)
	m.state = stateChat

	updated, cmd := m.Update(chatEventMsg{from: stale, event: chat.Event{Err: errors.New("read fail")}, ok: true})
	got := updated.(appModel)
	if got.state != stateChat {
		t.Fatalf("expected stale chat event ignored, state is %d", got.state)
	}
	if cmd != nil {
		t.Fatal("expected no command for a stale chat event")
	}

	fresh, _ := got.Update(chatEventMsg{from: got.chat, event: chat.Event{Msg: model.ChatMessage{UserID: 9, MessageText: "hi"}}, ok: true})
	got = fresh.(appModel)
	if msgs := got.chat.Messages(); len(msgs) != 1 || msgs[0].Body() != "hi" {
		t.Fatalf("expected fresh event applied, got %+v", msgs)
	}
}

func TestErrorStateRecordsReturnState(t *testing.T) {
	m := newTestModel()
	m.state = stateLoadingRooms

	updated, _ := m.Update(errMsg{err: errors.New("boom"), returnState: stateSelectTheater, returnStateSet: true})
	got := updated.(appModel)
	if got.state != stateError {
		t.Fatalf("expected error state, got %d", got.state)
	}

	back, _ := got.goBack()
	got = back.(appModel)
	if got.state != stateSelectTheater {
		t.Fatalf("expected esc to return to theater selection, got %d", got.state)
	}
}
