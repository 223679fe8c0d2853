package view

// Tag is one selectable chip of a tag board.
type Tag struct {
	Label    string
	Selected bool
}

// TimerOption is one selectable countdown duration.
type TimerOption struct {
	Minutes  int
	Selected bool
}

// TagBoard shows the position and mood chips plus the countdown durations.
type TagBoard struct {
	Positions []Tag
	Moods     []Tag
	Timers    []TimerOption
}

// RenderTags marks the chosen position, mood and duration. Each group has at most one
// selected entry.
func RenderTags(positions, moods []string, timers []int, position, mood string, minutes int) TagBoard {
	board := TagBoard{
		Positions: make([]Tag, 0, len(positions)),
		Moods:     make([]Tag, 0, len(moods)),
		Timers:    make([]TimerOption, 0, len(timers)),
	}
	for _, p := range positions {
		board.Positions = append(board.Positions, Tag{Label: p, Selected: p == position})
	}
	for _, m := range moods {
		board.Moods = append(board.Moods, Tag{Label: m, Selected: m == mood})
	}
	for _, t := range timers {
		board.Timers = append(board.Timers, TimerOption{Minutes: t, Selected: t == minutes})
	}
	return board
}
