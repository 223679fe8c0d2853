/*
Package presence contains the in-memory user store behind the REST API.

This file defines the Registry, which owns every user record, applies partial updates,
answers the station aggregation and join-station queries, and runs a background reaper
that marks silent users offline and eventually forgets them. Nothing is persisted.
*/
package presence

import (
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"izmetro/internal/app/station"
	"izmetro/internal/app/user"
	"izmetro/internal/pkg/errs"
	"izmetro/internal/pkg/logx"
	"izmetro/internal/pkg/randx"
)

const (
	// DefaultOfflineAfter is the ping silence after which a user is marked offline.
	DefaultOfflineAfter = 60 * time.Second

	// DefaultPurgeAfter is the silence after which an offline user is removed.
	DefaultPurgeAfter = 30 * time.Minute
)

// Options tune a Registry. Zero values fall back to the defaults above and the real clock.
type Options struct {
	Clock        clockwork.Clock
	OfflineAfter time.Duration
	PurgeAfter   time.Duration
}

type entry struct {
	user user.User
	// seq keeps List in creation order even when timestamps collide.
	seq uint64
	// pinned entries are demo data and never reaped.
	pinned bool
}

// Registry is the authoritative set of user records.
type Registry struct {
	// mu protects users and nextSeq.
	mu      sync.RWMutex
	users   map[string]*entry
	nextSeq uint64

	clock        clockwork.Clock
	offlineAfter time.Duration
	purgeAfter   time.Duration

	stopChan chan struct{}
	stopOnce sync.Once

	// wg waits for the reaper goroutine during shutdown.
	wg sync.WaitGroup

	logger zerolog.Logger
}

// NewRegistry creates an empty registry and starts its reaper loop.
func NewRegistry(opts Options) *Registry {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.OfflineAfter <= 0 {
		opts.OfflineAfter = DefaultOfflineAfter
	}
	if opts.PurgeAfter < opts.OfflineAfter {
		opts.PurgeAfter = max(DefaultPurgeAfter, opts.OfflineAfter)
	}

	r := &Registry{
		users:        make(map[string]*entry),
		clock:        opts.Clock,
		offlineAfter: opts.OfflineAfter,
		purgeAfter:   opts.PurgeAfter,
		stopChan:     make(chan struct{}),
		logger:       logx.Component("Registry"),
	}

	r.wg.Add(1)
	go r.runReaper()

	return r
}

// sweepInterval is how often the reaper runs; a quarter of the offline window keeps the
// offline flag at most 25% late.
func (r *Registry) sweepInterval() time.Duration {
	return r.offlineAfter / 4
}

func (r *Registry) runReaper() {
	defer r.wg.Done()

	ticker := r.clock.NewTicker(r.sweepInterval())
	defer ticker.Stop()

	r.logger.Info().
		Dur("offline_after", r.offlineAfter).
		Dur("purge_after", r.purgeAfter).
		Msg("Reaper loop started.")

	for {
		select {
		case <-ticker.Chan():
			r.Sweep()
		case <-r.stopChan:
			r.logger.Info().Msg("Reaper loop stopped.")
			return
		}
	}
}

// Sweep marks silent users offline and removes users that stayed offline too long.
// Station and connection flags are left alone so a rider whose pings resume is back in
// their group; readers skip offline users instead.
// It returns how many users went offline and how many were removed.
func (r *Registry) Sweep() (wentOffline, purged int) {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, e := range r.users {
		if e.pinned {
			continue
		}
		idle := now.Sub(e.user.LastSeen)

		if e.user.Online && idle > r.offlineAfter {
			e.user.Online = false
			wentOffline++
			continue
		}

		if !e.user.Online && idle > r.purgeAfter {
			delete(r.users, id)
			purged++
		}
	}

	if wentOffline > 0 || purged > 0 {
		r.logger.Info().
			Int("went_offline", wentOffline).
			Int("purged", purged).
			Int("remaining", len(r.users)).
			Msg("Presence sweep finished.")
	}

	return wentOffline, purged
}

// Create stores u under a freshly generated id and returns the stored record.
func (r *Registry) Create(u user.User) user.User {
	return r.insert(u, false)
}

func (r *Registry) insert(u user.User, pinned bool) user.User {
	now := r.clock.Now()

	u.ID = randx.UserID()
	u.CreatedAt = now
	u.LastSeen = now

	r.mu.Lock()
	r.nextSeq++
	r.users[u.ID] = &entry{user: u, seq: r.nextSeq, pinned: pinned}
	total := len(r.users)
	r.mu.Unlock()

	r.logger.Info().
		Str("user_id", u.ID).
		Str("city", u.City).
		Int("total_users", total).
		Msg("User created.")

	return u
}

// List returns a snapshot of every user in creation order.
func (r *Registry) List() []user.User {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.users))
	for _, e := range r.users {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]user.User, len(entries))
	for i, e := range entries {
		out[i] = e.user
	}
	r.mu.RUnlock()

	return out
}

// Get returns the user with the given id.
func (r *Registry) Get(id string) (user.User, *errs.CustomError) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.users[id]
	if !ok {
		return user.User{}, errs.NewError(errs.ErrUserNotFound)
	}
	return e.user, nil
}

// Update applies patch to the user and returns the result. Any write counts as activity,
// so the user comes back online unless the patch says otherwise.
func (r *Registry) Update(id string, patch user.Patch) (user.User, *errs.CustomError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.users[id]
	if !ok {
		return user.User{}, errs.NewError(errs.ErrUserNotFound)
	}

	e.user.Online = true
	patch.Apply(&e.user)
	e.user.LastSeen = r.clock.Now()

	return e.user, nil
}

// Delete removes the user.
func (r *Registry) Delete(id string) *errs.CustomError {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return errs.NewError(errs.ErrUserNotFound)
	}
	delete(r.users, id)

	r.logger.Info().Str("user_id", id).Int("total_users", len(r.users)).Msg("User deleted.")
	return nil
}

// Ping records liveness for the user.
func (r *Registry) Ping(id string) *errs.CustomError {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.users[id]
	if !ok {
		return errs.NewError(errs.ErrUserNotFound)
	}
	e.user.Online = true
	e.user.LastSeen = r.clock.Now()
	return nil
}

// WaitingRoom aggregates the occupancy of city.
func (r *Registry) WaitingRoom(city string) station.WaitingRoom {
	return station.Aggregate(city, r.List())
}

// JoinStation moves the user into the group of stationName and returns the group's
// members, the joining user included.
func (r *Registry) JoinStation(id, stationName string) ([]user.User, *errs.CustomError) {
	r.mu.Lock()
	e, ok := r.users[id]
	if !ok {
		r.mu.Unlock()
		return nil, errs.NewError(errs.ErrUserNotFound)
	}

	e.user.Station = stationName
	e.user.IsConnected = true
	e.user.IsWaiting = false
	e.user.Online = true
	e.user.LastSeen = r.clock.Now()
	city := e.user.City
	r.mu.Unlock()

	r.logger.Info().Str("user_id", id).Str("station", stationName).Msg("User joined station.")

	return Members(r.List(), city, stationName), nil
}

// Members filters users down to the connected, online riders of one station.
func Members(users []user.User, city, stationName string) []user.User {
	out := make([]user.User, 0)
	for _, u := range users {
		if u.City == city && u.Station == stationName && u.IsConnected && u.Online {
			out = append(out, u)
		}
	}
	return out
}

// Len returns the number of stored users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Shutdown stops the reaper loop and waits for it to exit. It is safe to call twice.
func (r *Registry) Shutdown() {
	r.stopOnce.Do(func() {
		r.logger.Info().Msg("Shutting down Registry reaper...")
		close(r.stopChan)
	})
	r.wg.Wait()
}
