/*
Package view turns fetched collections into the view models the client displays.

Every renderer is a pure function that rebuilds its region from scratch: the station map,
the request list, the group member list, the tag boards and the countdown label. A region
whose data could not be fetched is rendered as an inline retry affordance instead.
*/
package view

import (
	"fmt"

	"izmetro/internal/pkg/errs"
	"izmetro/internal/pkg/logx"
)

// Region names one independently rendered part of the display.
type Region string

const (
	RegionStations Region = "stations"
	RegionRequests Region = "requests"
	RegionGroup    Region = "group"
)

// RetryLabel is the caption of the inline retry affordance.
const RetryLabel = "Try again"

// Retry replaces a region's content after a failed fetch.
type Retry struct {
	Region  Region
	Message string
	Label   string
}

func newRetry(region Region, err error) *Retry {
	return &Retry{Region: region, Message: errs.UserMessage(err), Label: RetryLabel}
}

// SelfMarker is appended to the rider's own name.
const SelfMarker = " (you)"

// Guard runs a render step and swallows any panic so a broken region never takes the
// client down. It reports whether fn completed.
func Guard(region Region, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error(fmt.Errorf("%v", r), "Render failed, region skipped", "region", string(region))
			ok = false
		}
	}()
	fn()
	return true
}

// FormatClock renders seconds as M:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// TimerNotStarted is the countdown label while no countdown runs.
const TimerNotStarted = "not started"
