package tui

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cinebook-cli/booking"
	"cinebook-cli/chat"
	"cinebook-cli/config"
	"cinebook-cli/model"
	"cinebook-cli/navigator"
	"cinebook-cli/seatgrid"
	"cinebook-cli/service"
	"cinebook-cli/session"
	"cinebook-cli/store"
)

type appState int

const (
	stateLogin appState = iota
	stateLoggingIn
	stateLoadingTheaters
	stateSelectTheater
	stateLoadingRooms
	stateSelectRoom
	stateLoadingScreens
	stateSelectScreen
	stateLoadingSchedules
	stateSelectSchedule
	stateLoadingSeats
	stateSelectSeats
	stateSubmitting
	stateLoadingTickets
	stateShowTickets
	stateLoadingBookings
	stateShowBookings
	stateLoadingMovies
	stateBrowseMovies
	stateLoadingMovieDetail
	stateMovieDetail
	stateChatConnecting
	stateChat
	stateError
)

type appModel struct {
	cfg    *config.Config
	client *service.Client
	sess   *session.Session

	nav   *navigator.Navigator
	grid  *seatgrid.Grid
	coord *booking.Coordinator
	retr  *booking.Retriever
	chat  *chat.Session

	// chatOnly marks the chat-subcommand entry; leaving chat quits instead
	// of returning to the cascade.
	chatOnly bool

	state     appState
	lastState appState
	err       error

	width  int
	height int

	theaterList  list.Model
	roomList     list.Model
	screenList   list.Model
	scheduleList list.Model
	movieList    list.Model
	bookingList  list.Model

	// seatSeq tags seat layout fetches so a late arrival for a previous
	// screen cannot clobber the current grid.
	seatSeq    int
	seatCursor int

	schedule model.Schedule
	movie    model.Movie
	tickets  []model.Ticket

	// ticketsReturn is where esc from the ticket view goes; the payment
	// step is reachable both after a fresh booking and from history.
	ticketsReturn appState

	loginEmail    textinput.Model
	loginPassword textinput.Model
	loginFocus    int

	chatInput textinput.Model

	spinner spinner.Model
}

type errMsg struct {
	err            error
	returnState    appState
	returnStateSet bool
}

type loginMsg struct {
	result model.LoginResult
	err    error
}

type theatersMsg struct {
	fetch    navigator.Fetch
	theaters []model.Theater
	err      error
}

type roomsMsg struct {
	fetch navigator.Fetch
	rooms []model.Room
	err   error
}

type screensMsg struct {
	fetch   navigator.Fetch
	screens []model.Screen
	err     error
}

type schedulesMsg struct {
	fetch     navigator.Fetch
	schedules []model.Schedule
	err       error
}

type seatsMsg struct {
	seq      int
	screenID int64
	seats    []model.Seat
	err      error
}

type bookingDoneMsg struct {
	bookingID int64
	err       error
}

type ticketsMsg struct {
	bookingID int64
	tickets   []model.Ticket
	err       error
}

type bookingsMsg struct {
	bookings []model.Booking
	err      error
}

type moviesMsg struct {
	movies []model.Movie
	err    error
}

type movieDetailMsg struct {
	movie model.Movie
	err   error
}

type chatReadyMsg struct {
	err error
}

type chatEventMsg struct {
	// from is the session the event was read off; events from a session
	// that has since been replaced are dropped.
	from  *chat.Session
	event chat.Event
	ok    bool
}

func New(cfg *config.Config, sess *session.Session) tea.Model {
	client := service.NewClient(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.APIBaseURL, sess.TokenSource())
	grid := seatgrid.New()

	m := appModel{
		cfg:    cfg,
		client: client,
		sess:   sess,
		nav:    navigator.New(),
		grid:   grid,
		coord:  booking.NewCoordinator(client, grid, sess, store.SaveSession),
		retr:   booking.NewRetriever(client),
		state:  stateLogin,
	}
	if sess.Active() {
		m.state = stateLoadingTheaters
	}

	m.theaterList = newList("Select Theater")
	m.roomList = newList("Select Room")
	m.screenList = newList("Select Screen")
	m.scheduleList = newList("Select Schedule")
	m.movieList = newList("Now Showing")
	m.bookingList = newList("My Bookings")

	m.loginEmail = textinput.New()
	m.loginEmail.Placeholder = "email"
	m.loginEmail.CharLimit = 128
	m.loginEmail.Focus()
	m.loginPassword = textinput.New()
	m.loginPassword.Placeholder = "password"
	m.loginPassword.EchoMode = textinput.EchoPassword
	m.loginPassword.CharLimit = 128

	m.chatInput = textinput.New()
	m.chatInput.Placeholder = "type a message"
	m.chatInput.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

// NewChat builds a model that opens straight into the support chat.
func NewChat(cfg *config.Config, sess *session.Session) tea.Model {
	m := New(cfg, sess).(appModel)
	admin := strings.EqualFold(sess.Role, "admin")
	m.chat = chat.New(sess.UserID, admin)
	m.chatOnly = true
	m.state = stateChatConnecting
	return m
}

func (m appModel) Init() tea.Cmd {
	switch m.state {
	case stateChatConnecting:
		return tea.Batch(m.connectChatCmd(chat.SupportUserID), m.spinner.Tick)
	case stateLoadingTheaters:
		return tea.Batch(m.fetchTheatersCmd(m.nav.LoadTheaters()), m.spinner.Tick)
	default:
		return textinput.Blink
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		if m.state == stateLogin {
			return m.updateLogin(msg)
		}
		if m.state == stateChat {
			return m.updateChat(msg)
		}
		if m.handleFilterInput(msg) {
			return m, nil
		}
		var handled bool
		m, cmd, handled := m.handleKey(msg)
		if handled {
			return m, cmd
		}
		// fallthrough to component update

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoadingState() {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		if msg.returnStateSet {
			m.lastState = msg.returnState
		} else {
			m.lastState = recoverStateFrom(m.state)
		}
		m.state = stateError
		return m, nil

	case loginMsg:
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateLogin)
		}
		m.sess.Login(msg.result)
		_ = store.SaveSession(*m.sess)
		m.state = stateLoadingTheaters
		return m, tea.Batch(m.fetchTheatersCmd(m.nav.LoadTheaters()), m.spinner.Tick)

	case theatersMsg:
		if !m.nav.ApplyTheaters(msg.fetch, msg.theaters, msg.err) {
			return m, nil
		}
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateSelectTheater)
		}
		m.theaterList.SetItems(buildTheaterItems(msg.theaters))
		m.theaterList.Select(0)
		m.state = stateSelectTheater
		return m, nil

	case roomsMsg:
		if !m.nav.ApplyRooms(msg.fetch, msg.rooms, msg.err) {
			return m, nil
		}
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateSelectTheater)
		}
		m.roomList.SetItems(buildRoomItems(msg.rooms))
		m.roomList.Select(0)
		m.state = stateSelectRoom
		return m, nil

	case screensMsg:
		if !m.nav.ApplyScreens(msg.fetch, msg.screens, msg.err) {
			return m, nil
		}
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateSelectRoom)
		}
		m.screenList.SetItems(buildScreenItems(msg.screens))
		m.screenList.Select(0)
		m.state = stateSelectScreen
		return m, nil

	case schedulesMsg:
		if !m.nav.ApplySchedules(msg.fetch, msg.schedules, msg.err) {
			return m, nil
		}
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateSelectScreen)
		}
		m.scheduleList.SetItems(buildScheduleItems(msg.schedules))
		m.scheduleList.Select(0)
		m.state = stateSelectSchedule
		return m, nil

	case seatsMsg:
		if msg.seq != m.seatSeq {
			return m, nil
		}
		if err := m.grid.Apply(msg.screenID, msg.seats, msg.err); err != nil {
			return m, errWithOptionsCmd(err, stateSelectSchedule)
		}
		m.seatCursor = 0
		m.state = stateSelectSeats
		return m, nil

	case bookingDoneMsg:
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateSelectSeats)
		}
		m.ticketsReturn = stateSelectSchedule
		m.state = stateLoadingTickets
		return m, tea.Batch(m.fetchTicketsCmd(msg.bookingID), m.spinner.Tick)

	case ticketsMsg:
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, m.ticketsReturn)
		}
		m.tickets = msg.tickets
		m.state = stateShowTickets
		return m, nil

	case bookingsMsg:
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateSelectTheater)
		}
		m.bookingList.SetItems(buildBookingItems(msg.bookings))
		m.bookingList.Select(0)
		m.state = stateShowBookings
		return m, nil

	case moviesMsg:
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateSelectTheater)
		}
		m.movieList.SetItems(buildMovieItems(msg.movies))
		m.movieList.Select(0)
		m.state = stateBrowseMovies
		return m, nil

	case movieDetailMsg:
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateBrowseMovies)
		}
		m.movie = msg.movie
		m.state = stateMovieDetail
		return m, nil

	case chatReadyMsg:
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateSelectTheater)
		}
		m.state = stateChat
		m.chatInput.Focus()
		return m, tea.Batch(textinput.Blink, m.waitChatEventCmd())

	case chatEventMsg:
		if m.chat == nil || msg.from != m.chat {
			return m, nil
		}
		if !msg.ok {
			// Read loop exited; the closing HandleEvent already ran.
			return m, nil
		}
		if err := m.chat.HandleEvent(msg.event); err != nil {
			return m, tea.Batch(m.waitChatEventCmd(), errWithOptionsCmd(err, stateSelectTheater))
		}
		return m, m.waitChatEventCmd()
	}

	var cmd tea.Cmd
	switch m.state {
	case stateSelectTheater:
		m.theaterList, cmd = m.theaterList.Update(msg)
	case stateSelectRoom:
		m.roomList, cmd = m.roomList.Update(msg)
	case stateSelectScreen:
		m.screenList, cmd = m.screenList.Update(msg)
	case stateSelectSchedule:
		m.scheduleList, cmd = m.scheduleList.Update(msg)
	case stateBrowseMovies:
		m.movieList, cmd = m.movieList.Update(msg)
	case stateShowBookings:
		m.bookingList, cmd = m.bookingList.Update(msg)
	}
	return m, cmd
}

func (m appModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.loginFocus = 1 - m.loginFocus
		if m.loginFocus == 0 {
			m.loginPassword.Blur()
			return m, m.loginEmail.Focus()
		}
		m.loginEmail.Blur()
		return m, m.loginPassword.Focus()
	case "enter":
		email := strings.TrimSpace(m.loginEmail.Value())
		password := m.loginPassword.Value()
		if email == "" || password == "" {
			return m, nil
		}
		m.state = stateLoggingIn
		return m, tea.Batch(m.loginCmd(email, password), m.spinner.Tick)
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.loginEmail, cmd = m.loginEmail.Update(msg)
	} else {
		m.loginPassword, cmd = m.loginPassword.Update(msg)
	}
	return m, cmd
}

func (m appModel) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		_ = m.chat.Close()
		return m, tea.Quit
	case "esc":
		_ = m.chat.Close()
		if m.chatOnly {
			return m, tea.Quit
		}
		m.chat = nil
		m.chatInput.Reset()
		m.state = stateSelectTheater
		return m, nil
	case "enter":
		if err := m.chat.Send(m.chatInput.Value()); err != nil {
			if errors.Is(err, chat.ErrNotConnected) {
				return m, errWithOptionsCmd(err, stateSelectTheater)
			}
			return m, errCmd(err)
		}
		m.chatInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit, true
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		model, cmd := m.goBack()
		return model, cmd, true
	case "ctrl+b":
		if m.isSelectionState() {
			m.state = stateLoadingBookings
			return m, tea.Batch(m.fetchBookingsCmd(), m.spinner.Tick), true
		}
	case "ctrl+f":
		if m.isSelectionState() {
			m.state = stateLoadingMovies
			return m, tea.Batch(m.fetchMoviesCmd(), m.spinner.Tick), true
		}
	case "ctrl+h":
		if m.isSelectionState() {
			return m.openChat()
		}
	}

	if m.state == stateSelectSeats {
		return m.handleSeatKey(msg)
	}
	if m.state == stateShowTickets && msg.String() == "n" {
		m.sess.ClearBooking()
		_ = store.SaveSession(*m.sess)
		model, cmd := m.goBack()
		return model, cmd, true
	}

	if msg.Type == tea.KeyEnter {
		switch m.state {
		case stateSelectTheater:
			item, ok := m.theaterList.SelectedItem().(theaterItem)
			if !ok {
				return m, nil, true
			}
			f, err := m.nav.SelectTheater(item.theater.ID)
			if err != nil {
				return m, errCmd(err), true
			}
			m.state = stateLoadingRooms
			return m, tea.Batch(m.fetchRoomsCmd(f), m.spinner.Tick), true
		case stateSelectRoom:
			item, ok := m.roomList.SelectedItem().(roomItem)
			if !ok {
				return m, nil, true
			}
			f, err := m.nav.SelectRoom(item.room.ID)
			if err != nil {
				return m, errCmd(err), true
			}
			m.state = stateLoadingScreens
			return m, tea.Batch(m.fetchScreensCmd(f), m.spinner.Tick), true
		case stateSelectScreen:
			item, ok := m.screenList.SelectedItem().(screenItem)
			if !ok {
				return m, nil, true
			}
			f, err := m.nav.SelectScreen(item.screen.ID)
			if err != nil {
				return m, errCmd(err), true
			}
			m.state = stateLoadingSchedules
			return m, tea.Batch(m.fetchSchedulesCmd(f), m.spinner.Tick), true
		case stateSelectSchedule:
			item, ok := m.scheduleList.SelectedItem().(scheduleItem)
			if !ok {
				return m, nil, true
			}
			if err := m.nav.SelectSchedule(item.schedule.ID); err != nil {
				return m, errCmd(err), true
			}
			m.schedule = item.schedule
			screenID, _, ok2 := m.nav.Handoff()
			if !ok2 {
				return m, errCmd(errors.New("schedule selection incomplete")), true
			}
			m.seatSeq++
			m.state = stateLoadingSeats
			return m, tea.Batch(m.fetchSeatsCmd(m.seatSeq, screenID), m.spinner.Tick), true
		case stateBrowseMovies:
			item, ok := m.movieList.SelectedItem().(movieItem)
			if !ok {
				return m, nil, true
			}
			m.state = stateLoadingMovieDetail
			return m, tea.Batch(m.fetchMovieDetailCmd(item.movie.ID), m.spinner.Tick), true
		case stateMovieDetail:
			// Picking a show for this movie starts at the theater level.
			m.state = stateLoadingTheaters
			return m, tea.Batch(m.fetchTheatersCmd(m.nav.LoadTheaters()), m.spinner.Tick), true
		case stateShowBookings:
			item, ok := m.bookingList.SelectedItem().(bookingItem)
			if !ok {
				return m, nil, true
			}
			m.ticketsReturn = stateShowBookings
			m.state = stateLoadingTickets
			return m, tea.Batch(m.fetchTicketsCmd(item.booking.ID), m.spinner.Tick), true
		}
	}
	return m, nil, false
}

func (m appModel) handleSeatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	seats := m.grid.Seats()
	if len(seats) == 0 {
		return m, nil, true
	}
	switch msg.String() {
	case "left", "h":
		if m.seatCursor > 0 {
			m.seatCursor--
		}
		return m, nil, true
	case "right", "l":
		if m.seatCursor < len(seats)-1 {
			m.seatCursor++
		}
		return m, nil, true
	case "up", "k":
		if m.seatCursor-seatgrid.RowWidth >= 0 {
			m.seatCursor -= seatgrid.RowWidth
		}
		return m, nil, true
	case "down", "j":
		if m.seatCursor+seatgrid.RowWidth < len(seats) {
			m.seatCursor += seatgrid.RowWidth
		}
		return m, nil, true
	case " ":
		m.grid.Toggle(seats[m.seatCursor].ID)
		return m, nil, true
	case "enter":
		if m.grid.SelectedCount() == 0 {
			return m, errWithOptionsCmd(booking.ErrNoSeatsSelected, stateSelectSeats), true
		}
		m.state = stateSubmitting
		return m, tea.Batch(m.submitBookingCmd(), m.spinner.Tick), true
	}
	return m, nil, true
}

func (m appModel) openChat() (tea.Model, tea.Cmd, bool) {
	peerID := chat.SupportUserID
	admin := strings.EqualFold(m.sess.Role, "admin")
	m.chat = chat.New(m.sess.UserID, admin)
	m.state = stateChatConnecting
	return m, tea.Batch(m.connectChatCmd(peerID), m.spinner.Tick), true
}

func (m appModel) goBack() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateSelectRoom:
		m.state = stateSelectTheater
	case stateSelectScreen:
		m.state = stateSelectRoom
	case stateSelectSchedule:
		m.state = stateSelectScreen
	case stateSelectSeats:
		m.grid.Clear()
		m.state = stateSelectSchedule
	case stateShowTickets:
		if m.ticketsReturn == stateSelectSchedule {
			// Coming back from a fresh booking: the layout changed, reload.
			screenID, _, ok := m.nav.Handoff()
			if ok {
				m.seatSeq++
				m.state = stateLoadingSeats
				return m, tea.Batch(m.fetchSeatsCmd(m.seatSeq, screenID), m.spinner.Tick)
			}
		}
		m.state = m.ticketsReturn
	case stateShowBookings, stateBrowseMovies:
		m.state = stateSelectTheater
	case stateMovieDetail:
		m.state = stateBrowseMovies
	case stateError:
		if m.chatOnly {
			return m, tea.Quit
		}
		m.state = m.lastState
	default:
		return m, nil
	}
	return m, nil
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateSelectTheater:
		return &m.theaterList
	case stateSelectRoom:
		return &m.roomList
	case stateSelectScreen:
		return &m.screenList
	case stateSelectSchedule:
		return &m.scheduleList
	case stateBrowseMovies:
		return &m.movieList
	case stateShowBookings:
		return &m.bookingList
	default:
		return nil
	}
}

func (m appModel) isLoadingState() bool {
	switch m.state {
	case stateLoggingIn, stateLoadingTheaters, stateLoadingRooms, stateLoadingScreens,
		stateLoadingSchedules, stateLoadingSeats, stateSubmitting,
		stateLoadingTickets, stateLoadingBookings, stateLoadingMovies,
		stateLoadingMovieDetail, stateChatConnecting:
		return true
	}
	return false
}

func (m appModel) isSelectionState() bool {
	switch m.state {
	case stateSelectTheater, stateSelectRoom, stateSelectScreen, stateSelectSchedule:
		return true
	}
	return false
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.theaterList.SetSize(m.width, h)
	m.roomList.SetSize(m.width, h)
	m.screenList.SetSize(m.width, h)
	m.scheduleList.SetSize(m.width, h)
	m.movieList.SetSize(m.width, h)
	m.bookingList.SetSize(m.width, h)
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}

func errWithOptionsCmd(err error, returnState appState) tea.Cmd {
	return func() tea.Msg {
		return errMsg{
			err:            err,
			returnState:    returnState,
			returnStateSet: true,
		}
	}
}

func recoverStateFrom(state appState) appState {
	switch state {
	case stateLoggingIn:
		return stateLogin
	case stateLoadingTheaters:
		return stateSelectTheater
	case stateLoadingRooms:
		return stateSelectTheater
	case stateLoadingScreens:
		return stateSelectRoom
	case stateLoadingSchedules:
		return stateSelectScreen
	case stateLoadingSeats:
		return stateSelectSchedule
	case stateSubmitting:
		return stateSelectSeats
	case stateLoadingMovieDetail:
		return stateBrowseMovies
	case stateLoadingTickets, stateLoadingBookings, stateLoadingMovies, stateChatConnecting:
		return stateSelectTheater
	case stateError:
		return stateSelectTheater
	default:
		return state
	}
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}

func (m appModel) loginCmd(email string, password string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		result, err := m.client.Login(ctx, email, password)
		return loginMsg{result: result, err: err}
	}
}

func (m appModel) fetchTheatersCmd(f navigator.Fetch) tea.Cmd {
	return func() tea.Msg {
		if cached, fresh, err := store.LoadTheaterCache(); err == nil && fresh && len(cached) > 0 {
			return theatersMsg{fetch: f, theaters: cached}
		}
		ctx := context.Background()
		theaters, err := m.client.GetTheaters(ctx)
		if err == nil && len(theaters) > 0 {
			_ = store.SaveTheaterCache(theaters)
		}
		return theatersMsg{fetch: f, theaters: theaters, err: err}
	}
}

func (m appModel) fetchRoomsCmd(f navigator.Fetch) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		rooms, err := m.client.GetRoomsByTheater(ctx, f.ParentID)
		return roomsMsg{fetch: f, rooms: rooms, err: err}
	}
}

func (m appModel) fetchScreensCmd(f navigator.Fetch) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		screens, err := m.client.GetScreensByRoom(ctx, f.ParentID)
		return screensMsg{fetch: f, screens: screens, err: err}
	}
}

func (m appModel) fetchSchedulesCmd(f navigator.Fetch) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		schedules, err := m.client.GetSchedulesByScreen(ctx, f.ParentID)
		return schedulesMsg{fetch: f, schedules: schedules, err: err}
	}
}

func (m appModel) fetchSeatsCmd(seq int, screenID int64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		seats, err := m.client.GetSeatsByScreen(ctx, screenID)
		return seatsMsg{seq: seq, screenID: screenID, seats: seats, err: err}
	}
}

func (m appModel) submitBookingCmd() tea.Cmd {
	coord := m.coord
	scheduleID := m.schedule.ID
	return func() tea.Msg {
		ctx := context.Background()
		bookingID, err := coord.Submit(ctx, scheduleID)
		return bookingDoneMsg{bookingID: bookingID, err: err}
	}
}

func (m appModel) fetchTicketsCmd(bookingID int64) tea.Cmd {
	retr := m.retr
	return func() tea.Msg {
		ctx := context.Background()
		tickets, err := retr.TicketsByBooking(ctx, bookingID)
		return ticketsMsg{bookingID: bookingID, tickets: tickets, err: err}
	}
}

func (m appModel) fetchBookingsCmd() tea.Cmd {
	retr := m.retr
	userID := m.sess.UserID
	return func() tea.Msg {
		ctx := context.Background()
		bookings, err := retr.BookingsByUser(ctx, userID)
		return bookingsMsg{bookings: bookings, err: err}
	}
}

func (m appModel) fetchMoviesCmd() tea.Cmd {
	return func() tea.Msg {
		if cached, fresh, err := store.LoadMovieCache(); err == nil && fresh && len(cached) > 0 {
			return moviesMsg{movies: cached}
		}
		ctx := context.Background()
		movies, err := m.client.GetMovies(ctx)
		if err == nil && len(movies) > 0 {
			_ = store.SaveMovieCache(movies)
		}
		return moviesMsg{movies: movies, err: err}
	}
}

func (m appModel) fetchMovieDetailCmd(movieID int64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		movie, err := m.client.GetMovie(ctx, movieID)
		return movieDetailMsg{movie: movie, err: err}
	}
}

func (m appModel) connectChatCmd(peerID int64) tea.Cmd {
	cs := m.chat
	client := m.client
	wsBase := m.cfg.WSBaseURL
	userID := m.sess.UserID
	return func() tea.Msg {
		ctx := context.Background()
		history, err := client.GetChatHistory(ctx, chat.RoomID(userID, peerID))
		if err != nil && !service.IsNotFound(err) {
			return chatReadyMsg{err: err}
		}
		cs.Seed(history)
		if err := cs.Connect(ctx, wsBase, peerID); err != nil {
			return chatReadyMsg{err: err}
		}
		return chatReadyMsg{}
	}
}

func (m appModel) waitChatEventCmd() tea.Cmd {
	cs := m.chat
	events := cs.Events()
	return func() tea.Msg {
		ev, ok := <-events
		return chatEventMsg{from: cs, event: ev, ok: ok}
	}
}
