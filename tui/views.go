package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"cinebook-cli/chat"
	"cinebook-cli/model"
)

var (
	seatAvailableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	seatSelectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	seatBookedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	seatCursorStyle    = lipgloss.NewStyle().Reverse(true)
	screenBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("63")).Align(lipgloss.Center)
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	selfMsgStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	peerMsgStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	adminMsgStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateLogin:
		return header + "\n\n" + m.loginView()
	case stateLoggingIn, stateLoadingTheaters, stateLoadingRooms, stateLoadingScreens,
		stateLoadingSchedules, stateLoadingSeats, stateSubmitting,
		stateLoadingTickets, stateLoadingBookings, stateLoadingMovies,
		stateLoadingMovieDetail, stateChatConnecting:
		return header + "\n\n" + m.loadingView()
	case stateSelectTheater:
		return header + "\n\n" + m.theaterList.View()
	case stateSelectRoom:
		return header + "\n\n" + m.roomList.View()
	case stateSelectScreen:
		return header + "\n\n" + m.screenList.View()
	case stateSelectSchedule:
		return header + "\n\n" + m.scheduleList.View()
	case stateSelectSeats:
		return header + "\n\n" + m.renderSeatGrid()
	case stateShowTickets:
		return header + "\n\n" + m.renderTickets()
	case stateShowBookings:
		return header + "\n\n" + m.bookingList.View()
	case stateBrowseMovies:
		return header + "\n\n" + m.movieList.View()
	case stateMovieDetail:
		return header + "\n\n" + m.renderMovieDetail()
	case stateChat:
		return header + "\n\n" + m.renderChat()
	case stateError:
		return header + "\n\n" + errorStyle.Render(m.err.Error()) + "\n\n" + hint("Press esc to go back or ctrl+c to quit.")
	default:
		return header
	}
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("CineBook")
	sub := []string{}
	if m.sess.Active() && m.sess.Name != "" {
		sub = append(sub, fmt.Sprintf("User: %s", m.sess.Name))
	}
	if name := m.selectedTheaterName(); name != "" {
		sub = append(sub, fmt.Sprintf("Theater: %s", name))
	}
	if number := m.selectedRoomNumber(); number > 0 {
		sub = append(sub, fmt.Sprintf("Room %d", number))
	}
	if number := m.selectedScreenNumber(); number > 0 {
		sub = append(sub, fmt.Sprintf("Screen %d", number))
	}
	if m.state == stateSelectSeats || m.state == stateSubmitting || m.state == stateShowTickets {
		if !m.schedule.ShowTime.IsZero() {
			sub = append(sub, fmt.Sprintf("Show: %s", m.schedule.ShowTime.Format("02/01 15:04")))
		}
	}
	if m.state == stateChat && m.chat != nil {
		sub = append(sub, fmt.Sprintf("Chat: %s", m.chat.Room()))
	}
	meta := strings.Join(sub, " • ")
	if meta != "" {
		meta = "\n" + lipgloss.NewStyle().Faint(true).Render(meta)
	}

	hints := "ctrl+c quit • esc back • type to filter"
	switch m.state {
	case stateLogin:
		hints = "tab switch field • enter sign in • ctrl+c quit"
	case stateSelectTheater:
		hints = "ctrl+c quit • type to filter • enter select • ctrl+f movies • ctrl+b my bookings • ctrl+h support chat"
	case stateSelectSeats:
		hints = "arrows move • space toggle seat • enter book • esc back"
	case stateShowTickets:
		hints = "n book more seats • esc back • ctrl+c quit"
	case stateBrowseMovies:
		hints = "enter movie details • esc back • ctrl+c quit"
	case stateMovieDetail:
		hints = "enter pick a theater • esc back • ctrl+c quit"
	case stateShowBookings:
		hints = "enter view tickets • esc back • ctrl+c quit"
	case stateChat:
		hints = "enter send • esc leave chat • ctrl+c quit"
	}

	filterLine := ""
	if listPtr := m.activeList(); listPtr != nil {
		if filter := listPtr.FilterValue(); filter != "" {
			filterLine = "\n" + hint(fmt.Sprintf("Filter: %s", filter))
		}
	}
	return title + meta + filterLine + "\n" + hint(hints)
}

func (m appModel) loginView() string {
	label := lipgloss.NewStyle().Bold(true)
	return strings.Join([]string{
		label.Render("Sign in"),
		"",
		m.loginEmail.View(),
		m.loginPassword.View(),
	}, "\n")
}

func (m appModel) loadingView() string {
	title := "Loading"
	switch m.state {
	case stateLoggingIn:
		title = "Signing in"
	case stateLoadingTheaters:
		title = "Loading theaters"
	case stateLoadingRooms:
		title = "Loading rooms"
	case stateLoadingScreens:
		title = "Loading screens"
	case stateLoadingSchedules:
		title = "Loading schedules"
	case stateLoadingSeats:
		title = "Loading seats"
	case stateSubmitting:
		title = "Booking seats"
	case stateLoadingTickets:
		title = "Loading tickets"
	case stateLoadingBookings:
		title = "Loading bookings"
	case stateLoadingMovies:
		title = "Loading movies"
	case stateLoadingMovieDetail:
		title = "Loading movie"
	case stateChatConnecting:
		title = "Connecting to support"
	}
	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Fetching data..."))
}

func (m appModel) renderSeatGrid() string {
	rows := m.grid.Rows()
	if len(rows) == 0 {
		return "No seats on this screen."
	}

	width := 0
	var lines []string
	index := 0
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, seat := range row {
			cells = append(cells, m.renderSeatCell(seat, index == m.seatCursor))
			index++
		}
		line := strings.Join(cells, " ")
		if w := lipgloss.Width(line); w > width {
			width = w
		}
		lines = append(lines, line)
	}

	screen := screenBarStyle.Width(width).Render("SCREEN")
	legend := hint("· available  ◉ selected  ■ booked")

	count := m.grid.SelectedCount()
	total := m.grid.Total(m.schedule.Fare)
	summary := fmt.Sprintf("Selected: %d • Fare %s • Total %s",
		count, m.schedule.Fare.StringFixed(2), total.StringFixed(2))

	return strings.Join([]string{
		screen,
		"",
		strings.Join(lines, "\n"),
		"",
		legend,
		summary,
	}, "\n")
}

func (m appModel) renderSeatCell(seat model.Seat, underCursor bool) string {
	var cell string
	switch {
	case seat.IsBooked:
		cell = seatBookedStyle.Render("■")
	case m.grid.IsSelected(seat.ID):
		cell = seatSelectedStyle.Render("◉")
	default:
		cell = seatAvailableStyle.Render("·")
	}
	if underCursor {
		return seatCursorStyle.Render(fmt.Sprintf("[%s]", cell))
	}
	return fmt.Sprintf(" %s ", cell)
}

func (m appModel) renderTickets() string {
	if len(m.tickets) == 0 {
		return "No tickets issued for this booking."
	}

	header := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("Booking #%d • %d tickets", m.tickets[0].BookingID, len(m.tickets)))

	var lines []string
	total := decimal.Zero
	for _, ticket := range m.tickets {
		total = total.Add(ticket.Fare)
		line := fmt.Sprintf("  Ticket #%-6d seat %-4d fare %s", ticket.ID, ticket.SeatID, ticket.Fare.StringFixed(2))
		if !ticket.IssuedAt.IsZero() {
			line += "  " + hint(ticket.IssuedAt.Format("2006-01-02 15:04"))
		}
		lines = append(lines, line)
	}

	totalLine := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Total %s", total.StringFixed(2)))
	return strings.Join([]string{header, "", strings.Join(lines, "\n"), "", totalLine}, "\n")
}

func (m appModel) renderMovieDetail() string {
	title := lipgloss.NewStyle().Bold(true).Render(m.movie.Title)
	lines := []string{title, ""}
	if m.movie.Genre != "" {
		lines = append(lines, fmt.Sprintf("Genre:    %s", m.movie.Genre))
	}
	if m.movie.Duration > 0 {
		lines = append(lines, fmt.Sprintf("Duration: %d min", m.movie.Duration))
	}
	if m.movie.Picture != "" {
		lines = append(lines, hint(m.movie.Picture))
	}
	lines = append(lines, "", hint("Press enter to pick a theater for this movie."))
	return strings.Join(lines, "\n")
}

func (m appModel) renderChat() string {
	if m.chat == nil {
		return "Chat not connected."
	}

	msgs := m.chat.Messages()
	visible := msgs
	maxLines := m.height - 10
	if maxLines > 4 && len(visible) > maxLines {
		visible = visible[len(visible)-maxLines:]
	}

	var lines []string
	for _, msg := range visible {
		lines = append(lines, renderChatLine(msg))
	}
	if len(lines) == 0 {
		lines = append(lines, hint("No messages yet. Say hello."))
	}

	status := ""
	if m.chat.State() != chat.StateConnected {
		status = "\n" + errorStyle.Render(fmt.Sprintf("(%s)", m.chat.State()))
	}

	return strings.Join(lines, "\n") + status + "\n\n" + m.chatInput.View()
}

func renderChatLine(msg model.ChatMessage) string {
	switch {
	case msg.Self:
		return selfMsgStyle.Render("you: ") + msg.Body()
	case msg.IsAdmin:
		return adminMsgStyle.Render("support: ") + msg.Body()
	default:
		return peerMsgStyle.Render(fmt.Sprintf("user %d: ", msg.UserID)) + msg.Body()
	}
}

func (m appModel) selectedTheaterName() string {
	id := m.nav.SelectedTheater()
	if id == 0 {
		return ""
	}
	for _, theater := range m.nav.Theaters() {
		if theater.ID == id {
			return theater.Name
		}
	}
	return ""
}

func (m appModel) selectedRoomNumber() int {
	id := m.nav.SelectedRoom()
	if id == 0 {
		return 0
	}
	for _, room := range m.nav.Rooms() {
		if room.ID == id {
			return room.RoomNumber
		}
	}
	return 0
}

func (m appModel) selectedScreenNumber() int {
	id := m.nav.SelectedScreen()
	if id == 0 {
		return 0
	}
	for _, screen := range m.nav.Screens() {
		if screen.ID == id {
			return screen.ScreenNumber
		}
	}
	return 0
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}
