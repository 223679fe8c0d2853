package controller

import (
	"context"
	"slices"

	"izmetro/internal/app/user"
	"izmetro/internal/client/countdown"
	"izmetro/internal/pkg/errs"
)

// TimeUpMessage is shown when the countdown reaches zero.
const TimeUpMessage = "Time is up!"

// ensureExtras creates the countdown and draws the tags the first time a screen needs them.
// Later calls are no-ops.
func (c *Controller) ensureExtras() {
	c.extrasOnce.Do(func() {
		c.timer.Store(countdown.New(c.clock, countdown.Hooks{
			Render:  c.display.ShowTimer,
			Push:    c.pushTimer,
			Expired: func() { c.display.Notify(TimeUpMessage) },
		}))
		c.renderTags(c.state.Snapshot())
		c.logger.Debug().Msg("Countdown and tags initialized.")
	})
}

// countdown returns the lazily created countdown.
func (c *Controller) countdown() *countdown.Countdown {
	c.ensureExtras()
	return c.timer.Load()
}

// pushTimer mirrors the countdown into the rider's record. Failures are only logged.
func (c *Controller) pushTimer(ctx context.Context, timer string, totalMinutes int) {
	id := c.state.UserID()
	if id == "" {
		return
	}

	_, err := c.store.UpdateUser(ctx, id, user.Patch{
		Timer:      user.Ptr(timer),
		TimerTotal: user.Ptr(totalMinutes),
	})
	if err != nil && !isCancelled(err) {
		c.logger.Debug().Err(err).Str("timer", timer).Msg("Timer push failed.")
	}
}

// SetTimer picks the countdown duration among the offered options and persists it.
func (c *Controller) SetTimer(minutes int) error {
	if !slices.Contains(user.TimerOptions, minutes) {
		return c.fail(errs.NewError(errs.ErrInvalidTimer))
	}
	if err := c.state.SetTimerMinutes(minutes); err != nil {
		c.logger.Error().Err(err).Msg("Failed to persist timer duration.")
	}
	c.renderTags(c.state.Snapshot())
	return nil
}

// StartTimer starts the countdown with the selected duration.
func (c *Controller) StartTimer(ctx context.Context) error {
	minutes := c.state.Snapshot().TimerMinutes
	if !c.countdown().Start(ctx, minutes) {
		return c.fail(errs.NewError(errs.ErrTimerRunning))
	}
	c.logger.Info().Int("minutes", minutes).Msg("Countdown started.")
	return nil
}

// StopTimer stops the countdown and resets the timer in the rider's record.
func (c *Controller) StopTimer(ctx context.Context) {
	c.countdown().Stop(ctx)
	c.logger.Info().Msg("Countdown stopped.")
}

// TimerLabel returns the label currently shown for the countdown.
func (c *Controller) TimerLabel() string {
	return c.countdown().Label()
}
