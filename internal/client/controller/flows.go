package controller

import (
	"context"
	"slices"
	"strings"

	"izmetro/internal/app/user"
	"izmetro/internal/client/api"
	"izmetro/internal/client/session"
	"izmetro/internal/pkg/errs"
)

// fail notifies the rider and returns err. Used for errors the rider must see.
func (c *Controller) fail(err error) error {
	c.display.Notify(errs.UserMessage(err))
	return err
}

// SelectCity chooses the city before registration.
func (c *Controller) SelectCity(city string) error {
	if c.state.Screen() != session.ScreenSetup {
		return c.fail(errs.NewError(errs.ErrWrongScreen))
	}
	if !c.catalog.HasCity(city) {
		return c.fail(errs.NewError(errs.ErrUnknownCity))
	}
	c.state.SetCity(city)
	return nil
}

// SelectGender chooses the gender used to pick the random display name.
func (c *Controller) SelectGender(gender string) error {
	if c.state.Screen() != session.ScreenSetup {
		return c.fail(errs.NewError(errs.ErrWrongScreen))
	}
	if len(user.Names(gender)) == 0 {
		return c.fail(errs.NewError(errs.ErrGenderRequired))
	}
	c.state.SetGender(gender)
	return nil
}

// EnterWaitingRoom registers the rider under a random name and switches to the waiting room.
// On failure the screen does not change.
func (c *Controller) EnterWaitingRoom(ctx context.Context) error {
	snap := c.state.Snapshot()
	if snap.Screen != session.ScreenSetup {
		return c.fail(errs.NewError(errs.ErrWrongScreen))
	}
	if snap.City == "" {
		return c.fail(errs.NewError(errs.ErrCityRequired))
	}
	if snap.Gender == "" || len(user.Names(snap.Gender)) == 0 {
		return c.fail(errs.NewError(errs.ErrGenderRequired))
	}

	name, err := user.RandomName(snap.Gender)
	if err != nil {
		return c.fail(errs.NewError(errs.ErrUnknown, err))
	}

	created, err := c.store.CreateUser(ctx, api.Registration{
		Name:        name,
		City:        snap.City,
		Gender:      snap.Gender,
		Wagon:       user.WagonUnspecified,
		Status:      user.CombineStatus(snap.Position, snap.Mood),
		Online:      true,
		IsWaiting:   true,
		IsConnected: false,
		Position:    snap.Position,
		Mood:        snap.Mood,
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("Registration failed.")
		return c.fail(err)
	}

	c.state.SetIdentity(created.ID, created.Name)
	c.logger.Info().Str("user_id", created.ID).Str("name", created.Name).Msg("Registered.")

	c.switchScreen(session.ScreenWaitingRoom)
	c.ensureExtras()

	c.refreshWaitingRoom(ctx)
	c.poller.Start(ctx, c.pollInterval)
	return nil
}

// SelectStation marks name as the single selected station, persists it and redraws the map
// from the last known aggregation.
func (c *Controller) SelectStation(name string) error {
	snap := c.state.Snapshot()
	if snap.Screen != session.ScreenWaitingRoom {
		return c.fail(errs.NewError(errs.ErrWrongScreen))
	}
	if !c.catalog.HasStation(snap.City, name) {
		return c.fail(errs.NewError(errs.ErrUnknownStation, name))
	}

	if err := c.state.SelectStation(name); err != nil {
		c.logger.Error().Err(err).Msg("Failed to persist station selection.")
	}

	c.renderStationMap(c.state.Snapshot())
	return nil
}

// SetWagon records the wagon; an empty value means unspecified.
func (c *Controller) SetWagon(wagon string) {
	c.state.SetWagon(strings.TrimSpace(wagon))
}

// SetColor records the clothing colour label.
func (c *Controller) SetColor(color string) {
	c.state.SetColor(strings.TrimSpace(color))
}

// SetStatus records a free-text status used when joining.
func (c *Controller) SetStatus(status string) {
	c.state.SetStatus(strings.TrimSpace(status))
}

// JoinStation confirms the selected station: it validates the form, updates the rider's
// record and joins the station group. Validation failures make no network call.
func (c *Controller) JoinStation(ctx context.Context) error {
	snap := c.state.Snapshot()
	if snap.UserID == "" {
		return c.fail(errs.NewError(errs.ErrNotRegistered))
	}
	if snap.Screen != session.ScreenWaitingRoom {
		return c.fail(errs.NewError(errs.ErrWrongScreen))
	}
	if snap.Color == "" {
		return c.fail(errs.NewError(errs.ErrColorRequired))
	}
	if snap.Station == "" {
		return c.fail(errs.NewError(errs.ErrStationRequired))
	}

	wagon := snap.Wagon
	if wagon == "" {
		wagon = user.WagonUnspecified
	}
	status := snap.Status
	if status == "" {
		status = user.CombineStatus(snap.Position, snap.Mood)
	}

	patch := user.Patch{
		Station:     user.Ptr(snap.Station),
		Wagon:       user.Ptr(wagon),
		Color:       user.Ptr(snap.Color),
		Status:      user.Ptr(status),
		IsWaiting:   user.Ptr(false),
		IsConnected: user.Ptr(true),
	}
	if color, ok := user.LookupColor(snap.Color); ok {
		patch.ColorCode = user.Ptr(color.Code)
	}

	if _, err := c.store.UpdateUser(ctx, snap.UserID, patch); err != nil {
		c.logger.Warn().Err(err).Msg("Profile update before join failed.")
		return c.fail(err)
	}

	members, err := c.store.JoinStation(ctx, snap.UserID, snap.Station)
	if err != nil {
		c.logger.Warn().Err(err).Str("station", snap.Station).Msg("Join failed.")
		c.revertJoin(ctx, snap.UserID)
		return c.fail(err)
	}

	c.state.JoinGroup(snap.Station, members)
	c.switchScreen(session.ScreenJoinedRoom)
	c.renderGroup(members, nil)

	c.afterMount(ctx, func() {
		c.refreshMembers(ctx)
	})
	return nil
}

// revertJoin puts the record back in the waiting room after the profile was updated for a
// join that then failed. It is best-effort.
func (c *Controller) revertJoin(ctx context.Context, id string) {
	_, err := c.store.UpdateUser(ctx, id, user.Patch{
		IsWaiting:   user.Ptr(true),
		IsConnected: user.Ptr(false),
	})
	if err != nil && !isCancelled(err) {
		c.logger.Warn().Err(err).Msg("Reverting the record after a failed join failed.")
	}
}

// afterMount runs fn once the joined room had time to appear.
func (c *Controller) afterMount(ctx context.Context, fn func()) {
	if c.mountDelay <= 0 {
		fn()
		return
	}

	go func() {
		select {
		case <-c.clock.After(c.mountDelay):
			fn()
		case <-ctx.Done():
		}
	}()
}

// LeaveGroup returns to the waiting room. The remote update is best-effort; position and
// mood stay selected.
func (c *Controller) LeaveGroup(ctx context.Context) error {
	snap := c.state.Snapshot()
	if snap.Screen != session.ScreenJoinedRoom {
		return c.fail(errs.NewError(errs.ErrWrongScreen))
	}

	if snap.UserID != "" {
		_, err := c.store.UpdateUser(ctx, snap.UserID, user.Patch{
			IsWaiting:   user.Ptr(true),
			IsConnected: user.Ptr(false),
			Status:      user.Ptr(user.DefaultStatus),
		})
		if err != nil {
			c.logger.Warn().Err(err).Msg("Leave update failed, leaving locally anyway.")
		}
	}

	c.state.LeaveGroup()
	c.switchScreen(session.ScreenWaitingRoom)
	return nil
}

// BackToSetup returns to the setup screen, stops polling and forgets the registration, so
// the next enter registers a fresh record. The old record is left to the server's reaper.
// Persisted selections are kept.
func (c *Controller) BackToSetup() {
	c.poller.Stop()
	c.state.Reset()
	c.switchScreen(session.ScreenSetup)
}

// SelectPosition exclusively selects a position tag. An empty tag clears the selection.
func (c *Controller) SelectPosition(ctx context.Context, tag string) error {
	if tag != "" && !slices.Contains(user.Positions, tag) {
		return c.fail(errs.NewError(errs.ErrInvalidParams))
	}
	if err := c.state.SelectPosition(tag); err != nil {
		c.logger.Error().Err(err).Msg("Failed to persist position.")
	}
	c.afterTagChange(ctx)
	return nil
}

// SelectMood exclusively selects a mood tag, independently of the position.
func (c *Controller) SelectMood(ctx context.Context, tag string) error {
	if tag != "" && !slices.Contains(user.Moods, tag) {
		return c.fail(errs.NewError(errs.ErrInvalidParams))
	}
	if err := c.state.SelectMood(tag); err != nil {
		c.logger.Error().Err(err).Msg("Failed to persist mood.")
	}
	c.afterTagChange(ctx)
	return nil
}

// afterTagChange redraws the tags, pushes the combined status and forces a refresh of the
// group and list without waiting for the next poll.
func (c *Controller) afterTagChange(ctx context.Context) {
	snap := c.state.Snapshot()
	c.renderTags(snap)

	if snap.UserID == "" {
		return
	}

	status := user.CombineStatus(snap.Position, snap.Mood)
	c.state.SetStatus(status)

	_, err := c.store.UpdateUser(ctx, snap.UserID, user.Patch{
		Position: user.Ptr(snap.Position),
		Mood:     user.Ptr(snap.Mood),
		Status:   user.Ptr(status),
	})
	if err != nil && !isCancelled(err) {
		c.logger.Warn().Err(err).Msg("Status update failed.")
	}

	switch snap.Screen {
	case session.ScreenJoinedRoom:
		c.refreshMembers(ctx)
	case session.ScreenWaitingRoom:
		c.refreshRequests(ctx)
	}
}
