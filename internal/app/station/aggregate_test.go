package station

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"izmetro/internal/app/user"
)

func rider(city, st string, online, waiting, connected bool) user.User {
	return user.User{City: city, Station: st, Online: online, IsWaiting: waiting, IsConnected: connected}
}

func TestAggregate(t *testing.T) {
	users := []user.User{
		rider("spb", "Автово", true, true, false),
		rider("spb", "Автово", true, false, true),
		rider("spb", "Автово", true, true, false),
		rider("spb", "Маяковская", true, false, true),
		rider("spb", "Маяковская", false, false, true), // offline
		rider("spb", "", true, true, false),            // no station yet
		rider("msk", "Киевская", true, true, false),    // other city
	}

	got := Aggregate("spb", users)
	want := WaitingRoom{
		StationStats: []Stats{
			{Station: "Автово", Waiting: 2, Connected: 1, TotalUsers: 3},
			{Station: "Маяковская", Waiting: 0, Connected: 1, TotalUsers: 1},
		},
		TotalStats: Totals{TotalWaiting: 3, TotalConnected: 2, TotalUsers: 5},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateTiesOrderedByName(t *testing.T) {
	got := Aggregate("spb", []user.User{
		rider("spb", "Спасская", true, true, false),
		rider("spb", "Автово", true, true, false),
	})

	if got.StationStats[0].Station != "Автово" || got.StationStats[1].Station != "Спасская" {
		t.Fatalf("order = %v, want Автово before Спасская", got.StationStats)
	}
}

func TestAggregateEmptyCity(t *testing.T) {
	got := Aggregate("spb", nil)
	if len(got.StationStats) != 0 || got.TotalStats != (Totals{}) {
		t.Fatalf("Aggregate(nil) = %+v, want empty", got)
	}
	if got.StationStats == nil {
		t.Fatal("StationStats is nil, want an empty slice so it encodes as []")
	}
}

func TestByStation(t *testing.T) {
	room := WaitingRoom{StationStats: []Stats{{Station: "Автово", Waiting: 1, TotalUsers: 1}}}
	idx := room.ByStation()
	if idx["Автово"].Waiting != 1 {
		t.Fatalf("ByStation()[Автово] = %+v", idx["Автово"])
	}
	if s := idx["Маяковская"]; s != (Stats{}) {
		t.Fatalf("missing station = %+v, want zero", s)
	}
}
