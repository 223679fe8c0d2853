/*
Package terminal is the text front end of the client.

Display prints every region the controller renders as a block of text, and Shell turns typed
commands into controller flows. Colours are used only when the output is a terminal.
*/
package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"izmetro/internal/client/session"
	"izmetro/internal/client/view"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
	ansiGreen = "\x1b[32m"
	ansiAmber = "\x1b[33m"
	ansiRed   = "\x1b[31m"
)

// Display writes rendered regions to out. It is safe for concurrent use.
type Display struct {
	mu    sync.Mutex
	out   io.Writer
	color bool

	// last keeps the most recent station map so commands can address tiles by number.
	last view.StationMap
}

// NewDisplay creates a display. color enables ANSI styling.
func NewDisplay(out io.Writer, color bool) *Display {
	return &Display{out: out, color: color}
}

func (d *Display) paint(style, s string) string {
	if !d.color || style == "" {
		return s
	}
	return style + s + ansiReset
}

func (d *Display) write(lines []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, strings.Join(lines, "\n"))
}

// ShowScreen announces a screen change.
func (d *Display) ShowScreen(screen session.Screen) {
	var title string
	switch screen {
	case session.ScreenSetup:
		title = "== From Metro: choose city and gender, then type 'enter' =="
	case session.ScreenWaitingRoom:
		title = "== Waiting room: pick a station, a colour, then 'join' =="
	case session.ScreenJoinedRoom:
		title = "== Your station group: 'leave' to go back =="
	default:
		title = "== " + screen.String() + " =="
	}
	d.write([]string{"", d.paint(ansiBold, title)})
}

// ShowStations prints the station map, one numbered tile per line.
func (d *Display) ShowStations(m view.StationMap) {
	d.mu.Lock()
	d.last = m
	d.mu.Unlock()

	lines := []string{d.paint(ansiBold, "Stations ("+m.City+")")}
	if m.Retry != nil {
		d.write(append(lines, d.retryLine(m.Retry)))
		return
	}

	for i, t := range m.Tiles {
		marker := "  "
		if t.Selected {
			marker = "> "
		}
		name := t.Name
		switch t.Class {
		case view.ClassConnected:
			name = d.paint(ansiGreen, name)
		case view.ClassWaiting:
			name = d.paint(ansiAmber, name)
		default:
			name = d.paint(ansiDim, name)
		}
		lines = append(lines, fmt.Sprintf("%s%2d. %s [line %s] waiting %d, connected %d",
			marker, i+1, name, t.Line, t.Waiting, t.Connected))
	}
	lines = append(lines, fmt.Sprintf("Total: waiting %d, connected %d, users %d",
		m.Totals.TotalWaiting, m.Totals.TotalConnected, m.Totals.TotalUsers))
	d.write(lines)
}

// ShowRequests prints the riders grouped by station.
func (d *Display) ShowRequests(l view.RequestList) {
	lines := []string{d.paint(ansiBold, "Riders")}
	if l.Retry != nil {
		d.write(append(lines, d.retryLine(l.Retry)))
		return
	}
	if len(l.Groups) == 0 {
		d.write(append(lines, "  nobody yet"))
		return
	}

	for _, g := range l.Groups {
		station := g.Station
		if station == "" {
			station = "no station yet"
		}
		lines = append(lines, fmt.Sprintf("  %s [%d]", station, g.Count))
		for _, c := range g.Cards {
			parts := []string{c.DisplayName()}
			if c.Color != "" {
				parts = append(parts, "in "+c.Color)
			}
			if c.Wagon != "" {
				parts = append(parts, "wagon "+c.Wagon)
			}
			if c.Status != "" {
				parts = append(parts, c.Status)
			}
			lines = append(lines, "    - "+strings.Join(parts, ", "))
		}
	}
	d.write(lines)
}

// ShowGroup prints the members of the joined station.
func (d *Display) ShowGroup(g view.GroupList) {
	lines := []string{d.paint(ansiBold, "Group at "+g.Station)}
	if g.Retry != nil {
		d.write(append(lines, d.retryLine(g.Retry)))
		return
	}
	if len(g.Members) == 0 {
		d.write(append(lines, "  no one connected yet"))
		return
	}

	for _, m := range g.Members {
		line := fmt.Sprintf("  [%s] %s", m.Initial, m.DisplayName())
		if m.Details != "" {
			line += " · " + m.Details
		}
		if m.Status != "" {
			line += " · " + m.Status
		}
		lines = append(lines, line)
	}
	d.write(lines)
}

// ShowTags prints the position, mood and timer boards with numbered entries.
func (d *Display) ShowTags(b view.TagBoard) {
	lines := []string{d.paint(ansiBold, "Tags")}

	positions := make([]string, 0, len(b.Positions))
	for i, t := range b.Positions {
		positions = append(positions, d.chip(i+1, t.Label, t.Selected))
	}
	moods := make([]string, 0, len(b.Moods))
	for i, t := range b.Moods {
		moods = append(moods, d.chip(i+1, t.Label, t.Selected))
	}
	timers := make([]string, 0, len(b.Timers))
	for _, t := range b.Timers {
		timers = append(timers, d.chip(0, strconv.Itoa(t.Minutes)+" min", t.Selected))
	}

	lines = append(lines,
		"  position: "+strings.Join(positions, "  "),
		"  mood:     "+strings.Join(moods, "  "),
		"  timer:    "+strings.Join(timers, "  "),
	)
	d.write(lines)
}

func (d *Display) chip(n int, label string, selected bool) string {
	s := label
	if n > 0 {
		s = strconv.Itoa(n) + ") " + label
	}
	if selected {
		return d.paint(ansiGreen, "["+s+"]")
	}
	return s
}

// ShowTimer prints the countdown label.
func (d *Display) ShowTimer(label string) {
	d.write([]string{"Timer: " + label})
}

// Notify prints a message for the rider.
func (d *Display) Notify(message string) {
	d.write([]string{d.paint(ansiAmber, "! "+message)})
}

func (d *Display) retryLine(r *view.Retry) string {
	return d.paint(ansiRed, fmt.Sprintf("  %s (type 'retry %s': %s)", r.Message, r.Region, r.Label))
}

// Tile returns the name of the n-th tile (1-based) of the last station map.
func (d *Display) Tile(n int) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n < 1 || n > len(d.last.Tiles) {
		return "", false
	}
	return d.last.Tiles[n-1].Name, true
}

// Print writes free-form lines such as help text.
func (d *Display) Print(lines ...string) {
	d.write(lines)
}
