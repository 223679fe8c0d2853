package view

import (
	"sort"
	"strings"

	"izmetro/internal/app/user"
)

// UserCard is one rider in the request list.
type UserCard struct {
	ID        string
	Name      string
	IsMe      bool
	Color     string
	ColorCode string
	Status    string
	// Wagon is empty when the rider did not specify one.
	Wagon    string
	Position string
	Mood     string
}

// DisplayName is the name with the self-marker when the card is the rider's own.
func (c UserCard) DisplayName() string {
	if c.IsMe {
		return c.Name + SelfMarker
	}
	return c.Name
}

// StationGroup is a header badge plus the cards of one station.
type StationGroup struct {
	Station string
	Count   int
	Cards   []UserCard
}

// RequestList is the list of riders grouped by station.
type RequestList struct {
	Groups []StationGroup
	Retry  *Retry
}

// ListFilter narrows the request list.
type ListFilter struct {
	City string
	// MeID marks the rider's own card.
	MeID string
	// JoinedStation, when set, keeps only riders of that station.
	JoinedStation string
}

// RenderRequestList keeps online riders of the filter's city, groups them by station and
// orders the groups by descending size. Equal groups keep the order of first appearance.
func RenderRequestList(users []user.User, f ListFilter) RequestList {
	index := make(map[string]int)
	var groups []StationGroup

	for _, u := range users {
		if u.City != f.City || !u.Online {
			continue
		}
		if f.JoinedStation != "" && u.Station != f.JoinedStation {
			continue
		}

		i, ok := index[u.Station]
		if !ok {
			i = len(groups)
			index[u.Station] = i
			groups = append(groups, StationGroup{Station: u.Station})
		}
		groups[i].Cards = append(groups[i].Cards, cardFor(u, f.MeID))
		groups[i].Count++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})

	return RequestList{Groups: groups}
}

// RequestListFailed renders the list region as a retry affordance.
func RequestListFailed(err error) RequestList {
	return RequestList{Retry: newRetry(RegionRequests, err)}
}

func cardFor(u user.User, meID string) UserCard {
	card := UserCard{
		ID:        u.ID,
		Name:      u.Name,
		IsMe:      meID != "" && u.ID == meID,
		Color:     u.Color,
		ColorCode: u.ColorCode,
		Status:    u.Status,
		Position:  u.Position,
		Mood:      u.Mood,
	}
	if user.HasWagon(u.Wagon) {
		card.Wagon = strings.TrimSpace(u.Wagon)
	}
	return card
}
