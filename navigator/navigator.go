// Package navigator drives the theater → room → screen → schedule
// drill-down. It owns only selection pointers and the loaded list for each
// level; fetching is left to the caller, which executes the Fetch the
// navigator hands out and feeds the outcome back through the Apply methods.
package navigator

import (
	"errors"
	"fmt"

	"cinebook-cli/model"
)

// Level is one stage of the drill-down hierarchy.
type Level int

const (
	LevelTheaters Level = iota
	LevelRooms
	LevelScreens
	LevelSchedules
)

func (l Level) String() string {
	switch l {
	case LevelTheaters:
		return "theaters"
	case LevelRooms:
		return "rooms"
	case LevelScreens:
		return "screens"
	case LevelSchedules:
		return "schedules"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

var (
	ErrTheaterNotSelected = errors.New("no theater selected")
	ErrRoomNotSelected    = errors.New("no room selected")
	ErrScreenNotSelected  = errors.New("no screen selected")
	ErrUnknownID          = errors.New("id not in the loaded list for this level")
)

// LoadError is a level-scoped fetch failure. It never propagates upward:
// the ancestor selection that triggered the load stays selected.
type LoadError struct {
	Level Level
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Level, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Fetch describes one list load the caller must perform. Generation is the
// selection generation at issue time; Apply discards results whose
// generation has been superseded.
type Fetch struct {
	Level      Level
	ParentID   int64
	Generation uint64
}

// Navigator is the cascade state machine. One instance per drill-down view;
// it is not safe for concurrent use, matching the single event loop that
// drives it.
type Navigator struct {
	generation uint64

	theaters  []model.Theater
	rooms     []model.Room
	screens   []model.Screen
	schedules []model.Schedule

	selectedTheater  int64
	selectedRoom     int64
	selectedScreen   int64
	selectedSchedule int64

	loading [4]bool
	errs    [4]error
}

func New() *Navigator {
	return &Navigator{}
}

// LoadTheaters starts (or restarts) the whole cascade. Every selection and
// every loaded list is dropped.
func (n *Navigator) LoadTheaters() Fetch {
	n.generation++
	n.theaters = nil
	n.selectedTheater = 0
	n.clearFrom(LevelRooms)
	n.loading[LevelTheaters] = true
	n.errs[LevelTheaters] = nil
	return Fetch{Level: LevelTheaters, Generation: n.generation}
}

// SelectTheater selects a theater and issues the room load for it. All
// strictly-downstream selections and lists are invalidated, including any
// in-flight fetch they may have had.
func (n *Navigator) SelectTheater(theaterID int64) (Fetch, error) {
	if !containsTheater(n.theaters, theaterID) {
		return Fetch{}, ErrUnknownID
	}
	n.generation++
	n.selectedTheater = theaterID
	n.clearFrom(LevelRooms)
	n.loading[LevelRooms] = true
	return Fetch{Level: LevelRooms, ParentID: theaterID, Generation: n.generation}, nil
}

// SelectRoom selects a room under the current theater and issues the screen
// load for it.
func (n *Navigator) SelectRoom(roomID int64) (Fetch, error) {
	if n.selectedTheater == 0 {
		return Fetch{}, ErrTheaterNotSelected
	}
	if !containsRoom(n.rooms, roomID) {
		return Fetch{}, ErrUnknownID
	}
	n.generation++
	n.selectedRoom = roomID
	n.clearFrom(LevelScreens)
	n.loading[LevelScreens] = true
	return Fetch{Level: LevelScreens, ParentID: roomID, Generation: n.generation}, nil
}

// SelectScreen selects a screen under the current room and issues the
// schedule load for it.
func (n *Navigator) SelectScreen(screenID int64) (Fetch, error) {
	if n.selectedRoom == 0 {
		return Fetch{}, ErrRoomNotSelected
	}
	if !containsScreen(n.screens, screenID) {
		return Fetch{}, ErrUnknownID
	}
	n.generation++
	n.selectedScreen = screenID
	n.clearFrom(LevelSchedules)
	n.loading[LevelSchedules] = true
	return Fetch{Level: LevelSchedules, ParentID: screenID, Generation: n.generation}, nil
}

// SelectSchedule is the terminal selection. It issues no fetch; on success
// Handoff yields the (screenID, scheduleID) pair for the seat stage.
func (n *Navigator) SelectSchedule(scheduleID int64) error {
	if n.selectedScreen == 0 {
		return ErrScreenNotSelected
	}
	if !containsSchedule(n.schedules, scheduleID) {
		return ErrUnknownID
	}
	n.generation++
	n.selectedSchedule = scheduleID
	return nil
}

// Handoff returns the resolved (screenID, scheduleID) pair once the
// terminal selection has been made.
func (n *Navigator) Handoff() (screenID int64, scheduleID int64, ok bool) {
	if n.selectedScreen == 0 || n.selectedSchedule == 0 {
		return 0, 0, false
	}
	return n.selectedScreen, n.selectedSchedule, true
}

// ApplyTheaters delivers the outcome of a theater fetch. It reports whether
// the result was applied; stale generations are discarded untouched.
func (n *Navigator) ApplyTheaters(f Fetch, theaters []model.Theater, err error) bool {
	if f.Generation != n.generation {
		return false
	}
	n.loading[LevelTheaters] = false
	if err != nil {
		n.errs[LevelTheaters] = &LoadError{Level: LevelTheaters, Err: err}
		return true
	}
	n.errs[LevelTheaters] = nil
	n.theaters = theaters
	return true
}

// ApplyRooms delivers the outcome of a room fetch.
func (n *Navigator) ApplyRooms(f Fetch, rooms []model.Room, err error) bool {
	if f.Generation != n.generation {
		return false
	}
	n.loading[LevelRooms] = false
	if err != nil {
		n.errs[LevelRooms] = &LoadError{Level: LevelRooms, Err: err}
		return true
	}
	n.errs[LevelRooms] = nil
	n.rooms = rooms
	return true
}

// ApplyScreens delivers the outcome of a screen fetch.
func (n *Navigator) ApplyScreens(f Fetch, screens []model.Screen, err error) bool {
	if f.Generation != n.generation {
		return false
	}
	n.loading[LevelScreens] = false
	if err != nil {
		n.errs[LevelScreens] = &LoadError{Level: LevelScreens, Err: err}
		return true
	}
	n.errs[LevelScreens] = nil
	n.screens = screens
	return true
}

// ApplySchedules delivers the outcome of a schedule fetch.
func (n *Navigator) ApplySchedules(f Fetch, schedules []model.Schedule, err error) bool {
	if f.Generation != n.generation {
		return false
	}
	n.loading[LevelSchedules] = false
	if err != nil {
		n.errs[LevelSchedules] = &LoadError{Level: LevelSchedules, Err: err}
		return true
	}
	n.errs[LevelSchedules] = nil
	n.schedules = schedules
	return true
}

func (n *Navigator) Theaters() []model.Theater   { return n.theaters }
func (n *Navigator) Rooms() []model.Room         { return n.rooms }
func (n *Navigator) Screens() []model.Screen     { return n.screens }
func (n *Navigator) Schedules() []model.Schedule { return n.schedules }

func (n *Navigator) SelectedTheater() int64  { return n.selectedTheater }
func (n *Navigator) SelectedRoom() int64     { return n.selectedRoom }
func (n *Navigator) SelectedScreen() int64   { return n.selectedScreen }
func (n *Navigator) SelectedSchedule() int64 { return n.selectedSchedule }

func (n *Navigator) Loading(level Level) bool { return n.loading[level] }
func (n *Navigator) Err(level Level) error    { return n.errs[level] }

// ScheduleByID returns the loaded schedule with the given id, used to read
// the fare for the seat stage.
func (n *Navigator) ScheduleByID(scheduleID int64) (model.Schedule, bool) {
	for _, schedule := range n.schedules {
		if schedule.ID == scheduleID {
			return schedule, true
		}
	}
	return model.Schedule{}, false
}

// clearFrom drops the selection, list, loading flag, and error of the given
// level and everything below it.
func (n *Navigator) clearFrom(level Level) {
	switch level {
	case LevelRooms:
		n.rooms = nil
		n.selectedRoom = 0
		fallthrough
	case LevelScreens:
		n.screens = nil
		n.selectedScreen = 0
		fallthrough
	case LevelSchedules:
		n.schedules = nil
		n.selectedSchedule = 0
	}
	for l := level; l <= LevelSchedules; l++ {
		n.loading[l] = false
		n.errs[l] = nil
	}
}

func containsTheater(theaters []model.Theater, id int64) bool {
	for _, theater := range theaters {
		if theater.ID == id {
			return true
		}
	}
	return false
}

func containsRoom(rooms []model.Room, id int64) bool {
	for _, room := range rooms {
		if room.ID == id {
			return true
		}
	}
	return false
}

func containsScreen(screens []model.Screen, id int64) bool {
	for _, screen := range screens {
		if screen.ID == id {
			return true
		}
	}
	return false
}

func containsSchedule(schedules []model.Schedule, id int64) bool {
	for _, schedule := range schedules {
		if schedule.ID == id {
			return true
		}
	}
	return false
}
