package station

import (
	"sort"

	"izmetro/internal/app/user"
)

// Stats is the occupancy of a single station.
type Stats struct {
	Station    string `json:"station"`
	Waiting    int    `json:"waiting"`
	Connected  int    `json:"connected"`
	TotalUsers int    `json:"totalUsers"`
}

// Totals sums the occupancy over a whole city.
type Totals struct {
	TotalWaiting   int `json:"total_waiting"`
	TotalConnected int `json:"total_connected"`
	TotalUsers     int `json:"total_users"`
}

// WaitingRoom is the body of GET /stations/waiting-room.
type WaitingRoom struct {
	StationStats []Stats `json:"stationStats"`
	TotalStats   Totals  `json:"totalStats"`
}

// ByStation indexes the sparse stats by station name.
func (w WaitingRoom) ByStation() map[string]Stats {
	out := make(map[string]Stats, len(w.StationStats))
	for _, s := range w.StationStats {
		out[s.Station] = s
	}
	return out
}

// Aggregate counts the online users of city per station.
// Only stations with at least one user appear; riders without a station count toward the
// totals only. Stations are ordered by TotalUsers descending, then by name.
func Aggregate(city string, users []user.User) WaitingRoom {
	perStation := make(map[string]*Stats)
	var totals Totals

	for _, u := range users {
		if u.City != city || !u.Online {
			continue
		}

		totals.TotalUsers++
		if u.IsWaiting {
			totals.TotalWaiting++
		}
		if u.IsConnected {
			totals.TotalConnected++
		}

		if u.Station == "" {
			continue
		}

		s, ok := perStation[u.Station]
		if !ok {
			s = &Stats{Station: u.Station}
			perStation[u.Station] = s
		}
		s.TotalUsers++
		if u.IsWaiting {
			s.Waiting++
		}
		if u.IsConnected {
			s.Connected++
		}
	}

	stats := make([]Stats, 0, len(perStation))
	for _, s := range perStation {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalUsers != stats[j].TotalUsers {
			return stats[i].TotalUsers > stats[j].TotalUsers
		}
		return stats[i].Station < stats[j].Station
	})

	return WaitingRoom{StationStats: stats, TotalStats: totals}
}
