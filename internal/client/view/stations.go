package view

import "izmetro/internal/app/station"

// TileClass is the occupancy classification of a station tile.
type TileClass string

const (
	ClassConnected TileClass = "connected"
	ClassWaiting   TileClass = "waiting"
	ClassEmpty     TileClass = "empty"
)

// StationTile is one station on the map.
type StationTile struct {
	Name      string
	Line      string
	LineColor string
	Class     TileClass
	Waiting   int
	Connected int
	Selected  bool
}

// StationMap is the whole map of a city.
type StationMap struct {
	City   string
	Tiles  []StationTile
	Totals station.Totals
	Retry  *Retry
}

// Selected returns the names of the tiles marked selected.
func (m StationMap) Selected() []string {
	var out []string
	for _, t := range m.Tiles {
		if t.Selected {
			out = append(out, t.Name)
		}
	}
	return out
}

// Classify picks the tile class: connected beats waiting beats empty.
func Classify(s station.Stats) TileClass {
	switch {
	case s.Connected > 0:
		return ClassConnected
	case s.Waiting > 0:
		return ClassWaiting
	default:
		return ClassEmpty
	}
}

// RenderStationMap lays out every station of the static list, filling counts from the
// sparse aggregation. At most one tile, the one named selected, is marked selected.
func RenderStationMap(city string, stations []station.Station, room station.WaitingRoom, selected string) StationMap {
	stats := room.ByStation()

	tiles := make([]StationTile, 0, len(stations))
	for _, st := range stations {
		s := stats[st.Name]
		tiles = append(tiles, StationTile{
			Name:      st.Name,
			Line:      st.Line,
			LineColor: st.LineColor,
			Class:     Classify(s),
			Waiting:   s.Waiting,
			Connected: s.Connected,
			Selected:  selected != "" && st.Name == selected,
		})
	}

	return StationMap{City: city, Tiles: tiles, Totals: room.TotalStats}
}

// StationMapFailed renders the map region as a retry affordance.
func StationMapFailed(city string, err error) StationMap {
	return StationMap{City: city, Retry: newRetry(RegionStations, err)}
}
