package session

import (
	"fmt"
	"strconv"
	"sync"

	"izmetro/internal/app/user"
)

// Screen is one of the mutually exclusive client screens.
type Screen int

const (
	ScreenSetup Screen = iota
	ScreenWaitingRoom
	ScreenJoinedRoom
)

func (s Screen) String() string {
	switch s {
	case ScreenSetup:
		return "setup"
	case ScreenWaitingRoom:
		return "waiting-room"
	case ScreenJoinedRoom:
		return "joined-room"
	default:
		return "screen(" + strconv.Itoa(int(s)) + ")"
	}
}

// Defaults applied before the rider picks anything.
const (
	DefaultCity         = "spb"
	DefaultGender       = user.GenderMale
	DefaultTimerMinutes = 5
)

// Group is the station group joined by the rider, with the members known at join time.
type Group struct {
	Station string
	Members []user.User
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	Screen       Screen
	UserID       string
	Name         string
	City         string
	Gender       string
	Station      string
	Wagon        string
	Color        string
	Status       string
	Position     string
	Mood         string
	TimerMinutes int
	Group        *Group
}

// Joined reports whether the rider is currently in a group.
func (s Snapshot) Joined() bool {
	return s.Group != nil
}

// State is the client-owned session. User id and group live only in memory;
// station, position, mood and timer duration are mirrored into the KV store.
type State struct {
	mu sync.RWMutex
	kv KV

	screen       Screen
	userID       string
	name         string
	city         string
	gender       string
	station      string
	wagon        string
	color        string
	status       string
	position     string
	mood         string
	timerMinutes int
	group        *Group
}

// New creates a session with default selections backed by kv.
func New(kv KV) *State {
	return &State{
		kv:           kv,
		screen:       ScreenSetup,
		city:         DefaultCity,
		gender:       DefaultGender,
		timerMinutes: DefaultTimerMinutes,
	}
}

// Restore reads the persisted selections once. It never touches the network.
func (s *State) Restore() Snapshot {
	s.mu.Lock()
	if v, ok := s.kv.Get(KeyStation); ok {
		s.station = v
	}
	if v, ok := s.kv.Get(KeyPosition); ok {
		s.position = v
	}
	if v, ok := s.kv.Get(KeyMood); ok {
		s.mood = v
	}
	if v, ok := s.kv.Get(KeyTimer); ok {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			s.timerMinutes = minutes
		}
	}
	s.mu.Unlock()

	return s.Snapshot()
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Screen:       s.screen,
		UserID:       s.userID,
		Name:         s.name,
		City:         s.city,
		Gender:       s.gender,
		Station:      s.station,
		Wagon:        s.wagon,
		Color:        s.color,
		Status:       s.status,
		Position:     s.position,
		Mood:         s.mood,
		TimerMinutes: s.timerMinutes,
	}
	if s.group != nil {
		g := Group{Station: s.group.Station, Members: append([]user.User(nil), s.group.Members...)}
		snap.Group = &g
	}
	return snap
}

func (s *State) Screen() Screen {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.screen
}

func (s *State) SetScreen(screen Screen) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen = screen
}

func (s *State) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// SetIdentity records the id and display name returned at registration.
func (s *State) SetIdentity(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = id
	s.name = name
}

func (s *State) SetCity(city string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.city = city
}

func (s *State) SetGender(gender string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gender = gender
}

func (s *State) SetWagon(wagon string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wagon = wagon
}

func (s *State) SetColor(color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.color = color
}

func (s *State) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// SelectStation makes name the only selected station and persists it.
func (s *State) SelectStation(name string) error {
	return s.setPersisted(&s.station, KeyStation, name)
}

// SelectPosition makes tag the only selected position and persists it. An empty tag clears it.
func (s *State) SelectPosition(tag string) error {
	return s.setPersisted(&s.position, KeyPosition, tag)
}

// SelectMood makes tag the only selected mood and persists it. An empty tag clears it.
func (s *State) SelectMood(tag string) error {
	return s.setPersisted(&s.mood, KeyMood, tag)
}

// SetTimerMinutes records the chosen countdown duration and persists it.
func (s *State) SetTimerMinutes(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("timer duration must be positive, got %d", minutes)
	}

	s.mu.Lock()
	s.timerMinutes = minutes
	s.mu.Unlock()

	return s.kv.Set(KeyTimer, strconv.Itoa(minutes))
}

func (s *State) setPersisted(field *string, key, value string) error {
	s.mu.Lock()
	*field = value
	s.mu.Unlock()

	if value == "" {
		return s.kv.Delete(key)
	}
	return s.kv.Set(key, value)
}

// JoinGroup records a successful station join.
func (s *State) JoinGroup(station string, members []user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.group = &Group{Station: station, Members: members}
}

// LeaveGroup forgets the current group. Position and mood are kept.
func (s *State) LeaveGroup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.group = nil
}

// Reset drops the session-only identity and group, as a fresh page load would.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
	s.name = ""
	s.group = nil
	s.screen = ScreenSetup
}
