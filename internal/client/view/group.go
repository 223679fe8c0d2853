package view

import (
	"strings"

	"izmetro/internal/app/user"
)

// MemberCard is one connected member of the joined group.
type MemberCard struct {
	ID          string
	Initial     string
	AvatarColor string
	Name        string
	IsMe        bool
	// Details joins position, mood and wagon.
	Details string
	Status  string
}

// DisplayName is the name with the self-marker when the card is the rider's own.
func (c MemberCard) DisplayName() string {
	if c.IsMe {
		return c.Name + SelfMarker
	}
	return c.Name
}

// GroupList is the member list of the joined station.
type GroupList struct {
	Station string
	Members []MemberCard
	Retry   *Retry
}

// RenderGroup keeps the online riders of station whose isConnected flag is set.
func RenderGroup(users []user.User, station, meID string) GroupList {
	members := make([]MemberCard, 0)
	for _, u := range users {
		if u.Station != station || !u.IsConnected || !u.Online {
			continue
		}
		members = append(members, MemberCard{
			ID:          u.ID,
			Initial:     user.Initial(u.Name),
			AvatarColor: user.AvatarColor(u),
			Name:        u.Name,
			IsMe:        meID != "" && u.ID == meID,
			Details:     memberDetails(u),
			Status:      u.Status,
		})
	}
	return GroupList{Station: station, Members: members}
}

// GroupFailed renders the group region as a retry affordance.
func GroupFailed(station string, err error) GroupList {
	return GroupList{Station: station, Retry: newRetry(RegionGroup, err)}
}

func memberDetails(u user.User) string {
	parts := make([]string, 0, 3)
	if u.Position != "" {
		parts = append(parts, u.Position)
	}
	if u.Mood != "" {
		parts = append(parts, u.Mood)
	}
	if user.HasWagon(u.Wagon) {
		parts = append(parts, "wagon "+strings.TrimSpace(u.Wagon))
	}
	return strings.Join(parts, " · ")
}
