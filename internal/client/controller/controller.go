/*
Package controller is the client's application controller.

It owns the session state and drives the screen state machine Setup → WaitingRoom →
JoinedRoom, the poller that keeps the views fresh, and the lazily created countdown and tag
module. Views are pushed to a Display; remote state comes from a Store.
*/
package controller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"izmetro/internal/app/station"
	"izmetro/internal/app/user"
	"izmetro/internal/client/api"
	"izmetro/internal/client/countdown"
	"izmetro/internal/client/poller"
	"izmetro/internal/client/session"
	"izmetro/internal/client/view"
	"izmetro/internal/pkg/logx"
)

// Store is the remote user store as seen by the client. *api.Client implements it.
type Store interface {
	CreateUser(ctx context.Context, reg api.Registration) (user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
	UpdateUser(ctx context.Context, id string, patch user.Patch) (user.User, error)
	Ping(ctx context.Context, id string) error
	WaitingRoom(ctx context.Context, city string) (station.WaitingRoom, error)
	JoinStation(ctx context.Context, id, stationName string) ([]user.User, error)
}

// Display receives every rendered region. Implementations must not call back into the
// controller from these methods.
type Display interface {
	ShowScreen(screen session.Screen)
	ShowStations(m view.StationMap)
	ShowRequests(l view.RequestList)
	ShowGroup(g view.GroupList)
	ShowTags(b view.TagBoard)
	ShowTimer(label string)
	// Notify shows a message without blocking the caller.
	Notify(message string)
}

// Options configure a Controller. Zero values pick sensible defaults.
type Options struct {
	Clock        clockwork.Clock
	PollInterval time.Duration
	// MountDelay separates the switch to the joined room from its first refresh.
	// Zero refreshes immediately.
	MountDelay time.Duration
}

// Controller coordinates the session, the store and the display.
type Controller struct {
	store   Store
	display Display
	state   *session.State
	catalog *station.Catalog

	clock        clockwork.Clock
	poller       *poller.Poller
	pollInterval time.Duration
	mountDelay   time.Duration

	seq *sequencer

	// roomMu guards lastRoom, the most recent aggregation, kept so a station click
	// can re-render the map without a round trip.
	roomMu   sync.Mutex
	lastRoom station.WaitingRoom

	extrasOnce sync.Once
	timer      atomic.Pointer[countdown.Countdown]

	logger zerolog.Logger
}

// New wires a controller. The state should already be restored by the caller or via Restore.
func New(store Store, display Display, state *session.State, catalog *station.Catalog, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = poller.DefaultInterval
	}

	c := &Controller{
		store:        store,
		display:      display,
		state:        state,
		catalog:      catalog,
		clock:        opts.Clock,
		pollInterval: opts.PollInterval,
		mountDelay:   opts.MountDelay,
		seq:          newSequencer(),
		logger:       logx.Component("controller"),
	}
	c.poller = poller.New(opts.Clock, c.tick)
	return c
}

// State exposes the session for read access.
func (c *Controller) State() *session.State {
	return c.state
}

// Polling reports whether the background refresh loop is active.
func (c *Controller) Polling() bool {
	return c.poller.Running()
}

// Restore reapplies the persisted selections to the display. It makes no network calls:
// the station map is drawn from the static list with the saved station highlighted.
func (c *Controller) Restore() session.Snapshot {
	snap := c.state.Restore()

	c.display.ShowScreen(snap.Screen)
	c.renderStationMap(snap)
	c.renderTags(snap)
	c.display.ShowTimer(view.TimerNotStarted)

	c.logger.Debug().
		Str("station", snap.Station).
		Str("position", snap.Position).
		Str("mood", snap.Mood).
		Int("timer_minutes", snap.TimerMinutes).
		Msg("Persisted selections restored.")

	return snap
}

// tick is the poller's per-screen dispatch.
func (c *Controller) tick(ctx context.Context) {
	snap := c.state.Snapshot()

	switch snap.Screen {
	case session.ScreenSetup:
		return
	case session.ScreenWaitingRoom:
		c.refreshWaitingRoom(ctx)
	case session.ScreenJoinedRoom:
		c.refreshMembers(ctx)
		c.renderTags(c.state.Snapshot())
	}

	c.ping(ctx, snap.UserID)
}

// Refresh runs the current screen's refresh sequence right away.
func (c *Controller) Refresh(ctx context.Context) {
	c.tick(ctx)
}

// Retry re-triggers the refresh of a region that rendered a retry affordance.
func (c *Controller) Retry(ctx context.Context, region view.Region) {
	switch region {
	case view.RegionStations:
		c.refreshStations(ctx)
	case view.RegionRequests:
		c.refreshRequests(ctx)
	case view.RegionGroup:
		c.refreshMembers(ctx)
	}
}

// RegistrationExpiredMessage is shown when the server no longer knows the rider.
const RegistrationExpiredMessage = "Your registration expired. Type 'enter' to register again."

func (c *Controller) ping(ctx context.Context, id string) {
	if id == "" {
		return
	}
	err := c.store.Ping(ctx, id)
	if err == nil || isCancelled(err) {
		return
	}
	if !api.IsNotFound(err) {
		c.logger.Debug().Err(err).Msg("Ping failed.")
		return
	}
	if c.state.UserID() != id {
		return
	}

	// The server forgot the rider, so the id can never join again.
	c.logger.Warn().Str("user_id", id).Msg("Ping rejected: user record no longer exists, returning to setup.")
	c.BackToSetup()
	c.display.Notify(RegistrationExpiredMessage)
}

// visible reports whether the current screen shows region.
func (c *Controller) visible(region view.Region) bool {
	switch c.state.Screen() {
	case session.ScreenWaitingRoom:
		return region == view.RegionStations || region == view.RegionRequests
	case session.ScreenJoinedRoom:
		return region == view.RegionRequests || region == view.RegionGroup
	default:
		return false
	}
}

// refreshWaitingRoom fetches the aggregation and the user list concurrently. Each region
// renders on its own as soon as its response arrives.
func (c *Controller) refreshWaitingRoom(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		c.refreshStations(ctx)
		return nil
	})
	g.Go(func() error {
		c.refreshRequests(ctx)
		return nil
	})
	_ = g.Wait()
}

func (c *Controller) refreshStations(ctx context.Context) {
	token := c.seq.next(view.RegionStations)
	city := c.state.Snapshot().City

	room, err := c.store.WaitingRoom(ctx, city)
	if isCancelled(err) {
		return
	}

	c.seq.commit(view.RegionStations, token, func() {
		if !c.visible(view.RegionStations) {
			return
		}
		if err != nil {
			c.logger.Warn().Err(err).Str("city", city).Msg("Station aggregation fetch failed.")
			c.display.ShowStations(view.StationMapFailed(city, err))
			return
		}

		c.roomMu.Lock()
		c.lastRoom = room
		c.roomMu.Unlock()

		c.renderStationMap(c.state.Snapshot())
	})
}

func (c *Controller) refreshRequests(ctx context.Context) {
	token := c.seq.next(view.RegionRequests)

	users, err := c.store.ListUsers(ctx)
	if isCancelled(err) {
		return
	}

	c.seq.commit(view.RegionRequests, token, func() {
		c.renderRequests(users, err)
	})
}

// refreshMembers fetches the users once and redraws the group and the request list.
func (c *Controller) refreshMembers(ctx context.Context) {
	groupToken := c.seq.next(view.RegionGroup)
	listToken := c.seq.next(view.RegionRequests)

	users, err := c.store.ListUsers(ctx)
	if isCancelled(err) {
		return
	}

	c.seq.commit(view.RegionGroup, groupToken, func() {
		c.renderGroup(users, err)
	})
	c.seq.commit(view.RegionRequests, listToken, func() {
		c.renderRequests(users, err)
	})
}

func (c *Controller) renderRequests(users []user.User, err error) {
	if !c.visible(view.RegionRequests) {
		return
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("User list fetch failed.")
		c.display.ShowRequests(view.RequestListFailed(err))
		return
	}

	snap := c.state.Snapshot()
	filter := view.ListFilter{City: snap.City, MeID: snap.UserID}
	if snap.Screen == session.ScreenJoinedRoom && snap.Group != nil {
		filter.JoinedStation = snap.Group.Station
	}
	c.display.ShowRequests(view.RenderRequestList(users, filter))
}

func (c *Controller) renderGroup(users []user.User, err error) {
	snap := c.state.Snapshot()
	if snap.Group == nil || !c.visible(view.RegionGroup) {
		return
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("Group fetch failed.")
		c.display.ShowGroup(view.GroupFailed(snap.Group.Station, err))
		return
	}

	group := view.RenderGroup(users, snap.Group.Station, snap.UserID)
	c.state.JoinGroup(snap.Group.Station, groupMembers(users, snap.Group.Station))
	c.display.ShowGroup(group)
}

func (c *Controller) renderStationMap(snap session.Snapshot) {
	c.roomMu.Lock()
	room := c.lastRoom
	c.roomMu.Unlock()

	stations := c.catalog.Stations(snap.City)
	view.Guard(view.RegionStations, func() {
		c.display.ShowStations(view.RenderStationMap(snap.City, stations, room, snap.Station))
	})
}

func (c *Controller) renderTags(snap session.Snapshot) {
	view.Guard("tags", func() {
		c.display.ShowTags(view.RenderTags(user.Positions, user.Moods, user.TimerOptions,
			snap.Position, snap.Mood, snap.TimerMinutes))
	})
}

func (c *Controller) switchScreen(screen session.Screen) {
	c.state.SetScreen(screen)
	c.display.ShowScreen(screen)
	c.logger.Info().Str("screen", screen.String()).Msg("Screen changed.")
}

// Shutdown stops the poller and a running countdown. A countdown that was never created
// stays uncreated.
func (c *Controller) Shutdown(ctx context.Context) {
	c.poller.Stop()
	if timer := c.timer.Load(); timer != nil && timer.Phase() == countdown.Running {
		timer.Stop(ctx)
	}
}

func groupMembers(users []user.User, stationName string) []user.User {
	out := make([]user.User, 0)
	for _, u := range users {
		if u.Station == stationName && u.IsConnected && u.Online {
			out = append(out, u)
		}
	}
	return out
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
