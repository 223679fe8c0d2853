package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"izmetro/internal/app/user"
	"izmetro/internal/client/view"
	"izmetro/internal/pkg/logx"
)

// ErrQuit is returned by Exec when the rider asks to leave the program.
var ErrQuit = errors.New("quit")

// Actions are the controller flows reachable from the command line.
type Actions interface {
	SelectCity(city string) error
	SelectGender(gender string) error
	EnterWaitingRoom(ctx context.Context) error
	SelectStation(name string) error
	SetWagon(wagon string)
	SetColor(color string)
	SetStatus(status string)
	JoinStation(ctx context.Context) error
	LeaveGroup(ctx context.Context) error
	BackToSetup()
	SelectPosition(ctx context.Context, tag string) error
	SelectMood(ctx context.Context, tag string) error
	SetTimer(minutes int) error
	StartTimer(ctx context.Context) error
	StopTimer(ctx context.Context)
	Refresh(ctx context.Context)
	Retry(ctx context.Context, region view.Region)
}

var helpText = []string{
	"Commands:",
	"  city <spb|msk>          choose the city",
	"  gender <male|female>    choose the gender for your random name",
	"  enter                   register and open the waiting room",
	"  station <n|name>        pick a station on the map",
	"  wagon <n>               your wagon (empty for any)",
	"  color <name>            the colour of your clothes; 'colors' lists them",
	"  status <text>           a short note for others",
	"  join                    join the selected station",
	"  position <n|->          pick or clear a position tag",
	"  mood <n|->              pick or clear a mood tag",
	"  timer <minutes>         pick the countdown duration",
	"  start | stoptimer       start or stop the countdown",
	"  leave                   leave the station group",
	"  back                    return to city and gender selection",
	"  retry <region>          reload stations, requests or group",
	"  refresh                 reload the current screen",
	"  help | quit",
}

// Shell reads one command per line and runs the matching flow.
type Shell struct {
	actions Actions
	display *Display
	logger  zerolog.Logger
}

// NewShell binds the command line to actions and display.
func NewShell(actions Actions, display *Display) *Shell {
	return &Shell{actions: actions, display: display, logger: logx.Component("shell")}
}

// Run processes lines from in until EOF, quit or ctx cancellation.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			if err := s.Exec(ctx, line); errors.Is(err, ErrQuit) {
				return nil
			}
		}
	}
}

// Exec runs a single command line. Flow errors are already shown by the controller, so
// Exec only returns ErrQuit or a usage error.
func (s *Shell) Exec(ctx context.Context, line string) error {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	s.logger.Debug().Str("command", cmd).Msg("Command received.")

	switch strings.ToLower(cmd) {
	case "":
		return nil
	case "help", "?":
		s.display.Print(helpText...)
	case "quit", "exit":
		return ErrQuit
	case "city":
		_ = s.actions.SelectCity(arg)
	case "gender":
		_ = s.actions.SelectGender(strings.ToLower(arg))
	case "enter":
		_ = s.actions.EnterWaitingRoom(ctx)
	case "station":
		name := arg
		if n, err := strconv.Atoi(arg); err == nil {
			tile, ok := s.display.Tile(n)
			if !ok {
				return s.usage("no station number %d on the map", n)
			}
			name = tile
		}
		_ = s.actions.SelectStation(name)
	case "wagon":
		s.actions.SetWagon(arg)
	case "color", "colour":
		s.actions.SetColor(arg)
	case "colors", "colours":
		labels := make([]string, 0, len(user.Palette))
		for _, c := range user.Palette {
			labels = append(labels, c.Label)
		}
		s.display.Print("Colours: " + strings.Join(labels, ", "))
	case "status":
		s.actions.SetStatus(arg)
	case "join":
		_ = s.actions.JoinStation(ctx)
	case "position":
		tag, err := pickTag(user.Positions, arg)
		if err != nil {
			return s.usage("%v", err)
		}
		_ = s.actions.SelectPosition(ctx, tag)
	case "mood":
		tag, err := pickTag(user.Moods, arg)
		if err != nil {
			return s.usage("%v", err)
		}
		_ = s.actions.SelectMood(ctx, tag)
	case "timer":
		minutes, err := strconv.Atoi(arg)
		if err != nil {
			return s.usage("timer takes a number of minutes")
		}
		_ = s.actions.SetTimer(minutes)
	case "start":
		_ = s.actions.StartTimer(ctx)
	case "stoptimer", "stop":
		s.actions.StopTimer(ctx)
	case "leave":
		_ = s.actions.LeaveGroup(ctx)
	case "back":
		s.actions.BackToSetup()
	case "retry":
		region := view.Region(strings.ToLower(arg))
		switch region {
		case view.RegionStations, view.RegionRequests, view.RegionGroup:
			s.actions.Retry(ctx, region)
		default:
			return s.usage("retry takes stations, requests or group")
		}
	case "refresh":
		s.actions.Refresh(ctx)
	default:
		return s.usage("unknown command %q, type 'help'", cmd)
	}
	return nil
}

func (s *Shell) usage(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	s.display.Notify(err.Error())
	return err
}

// pickTag resolves a 1-based index, an exact label or "-" (clear) against tags.
func pickTag(tags []string, arg string) (string, error) {
	if arg == "-" || arg == "" {
		return "", nil
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(tags) {
			return "", fmt.Errorf("pick a number between 1 and %d", len(tags))
		}
		return tags[n-1], nil
	}
	for _, t := range tags {
		if strings.EqualFold(t, arg) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tag %q", arg)
}
