package presence

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"izmetro/internal/app/user"
	"izmetro/internal/pkg/errs"
	"izmetro/internal/pkg/randx"
)

func newTestRegistry(t *testing.T) (*Registry, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	r := NewRegistry(Options{Clock: clock, OfflineAfter: time.Minute, PurgeAfter: 10 * time.Minute})
	t.Cleanup(r.Shutdown)
	return r, clock
}

func TestCreateAssignsIDAndKeepsOrder(t *testing.T) {
	r, clock := newTestRegistry(t)

	a := r.Create(user.User{Name: "Анна", City: "spb", Online: true})
	b := r.Create(user.User{Name: "Глеб", City: "spb", Online: true})

	if !randx.IsValidUserID(a.ID) || a.ID == b.ID {
		t.Fatalf("ids = %q, %q, want two distinct uuids", a.ID, b.ID)
	}
	if !a.CreatedAt.Equal(clock.Now()) || !a.LastSeen.Equal(clock.Now()) {
		t.Fatalf("timestamps not taken from the clock: %+v", a)
	}

	got := r.List()
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("List() = %v, want creation order", got)
	}
}

func TestUpdateAppliesPatch(t *testing.T) {
	r, clock := newTestRegistry(t)
	u := r.Create(user.User{Name: "Анна", City: "spb", Online: true, IsWaiting: true})

	clock.Advance(5 * time.Second)
	updated, err := r.Update(u.ID, user.Patch{Station: user.Ptr("Автово"), Wagon: user.Ptr("3")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Station != "Автово" || updated.Wagon != "3" || updated.Name != "Анна" || !updated.IsWaiting {
		t.Fatalf("Update() = %+v", updated)
	}
	if !updated.LastSeen.Equal(clock.Now()) {
		t.Fatalf("LastSeen = %v, want %v", updated.LastSeen, clock.Now())
	}

	stored, _ := r.Get(u.ID)
	if diff := cmp.Diff(updated, stored); diff != "" {
		t.Fatalf("stored record differs (-returned +stored):\n%s", diff)
	}
}

func TestUnknownIDs(t *testing.T) {
	r, _ := newTestRegistry(t)
	id := randx.UserID()

	if _, err := r.Get(id); err == nil || err.Code != errs.ErrUserNotFound {
		t.Errorf("Get() error = %v", err)
	}
	if _, err := r.Update(id, user.Patch{}); err == nil || err.Code != errs.ErrUserNotFound {
		t.Errorf("Update() error = %v", err)
	}
	if err := r.Delete(id); err == nil || err.Code != errs.ErrUserNotFound {
		t.Errorf("Delete() error = %v", err)
	}
	if err := r.Ping(id); err == nil || err.Code != errs.ErrUserNotFound {
		t.Errorf("Ping() error = %v", err)
	}
	if _, err := r.JoinStation(id, "Автово"); err == nil || err.Code != errs.ErrUserNotFound {
		t.Errorf("JoinStation() error = %v", err)
	}
}

func TestDelete(t *testing.T) {
	r, _ := newTestRegistry(t)
	u := r.Create(user.User{Name: "Анна", City: "spb"})

	if err := r.Delete(u.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d after delete", r.Len())
	}
}

func TestJoinStationReturnsGroup(t *testing.T) {
	r, _ := newTestRegistry(t)

	a := r.Create(user.User{Name: "A", City: "spb", Station: "Автово", Online: true, IsConnected: true})
	r.Create(user.User{Name: "B", City: "spb", Station: "Автово", Online: true, IsWaiting: true})
	r.Create(user.User{Name: "C", City: "spb", Station: "Маяковская", Online: true, IsConnected: true})
	r.Create(user.User{Name: "D", City: "msk", Station: "Автово", Online: true, IsConnected: true})
	me := r.Create(user.User{Name: "Me", City: "spb", Online: true, IsWaiting: true})

	members, err := r.JoinStation(me.ID, "Автово")
	if err != nil {
		t.Fatalf("JoinStation() error = %v", err)
	}

	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Name)
	}
	if diff := cmp.Diff([]string{"A", "Me"}, names); diff != "" {
		t.Fatalf("members mismatch (-want +got):\n%s", diff)
	}
	if members[0].ID != a.ID {
		t.Fatalf("first member = %s, want %s", members[0].ID, a.ID)
	}

	stored, _ := r.Get(me.ID)
	if !stored.IsConnected || stored.IsWaiting || stored.Station != "Автово" {
		t.Fatalf("joined record = %+v", stored)
	}
}

func TestSweepMarksOfflineThenPurges(t *testing.T) {
	r, clock := newTestRegistry(t)

	silent := r.Create(user.User{Name: "Silent", City: "spb", Online: true, IsConnected: true})
	active := r.Create(user.User{Name: "Active", City: "spb", Online: true})

	clock.Advance(50 * time.Second)
	if err := r.Ping(active.ID); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	clock.Advance(20 * time.Second)
	r.Sweep()

	got, _ := r.Get(silent.ID)
	if got.Online {
		t.Fatalf("silent user still online: %+v", got)
	}
	got, _ = r.Get(active.ID)
	if !got.Online {
		t.Fatalf("pinged user went offline: %+v", got)
	}

	clock.Advance(11 * time.Minute)
	r.Sweep()

	if _, err := r.Get(silent.ID); err == nil {
		t.Fatal("silent user not purged")
	}
}

func TestUpdateBringsUserBackOnline(t *testing.T) {
	r, clock := newTestRegistry(t)
	u := r.Create(user.User{Name: "A", City: "spb", Online: true})

	clock.Advance(2 * time.Minute)
	r.Sweep()

	updated, err := r.Update(u.ID, user.Patch{Status: user.Ptr("back")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.Online {
		t.Fatal("Update() did not bring the user back online")
	}
}

func TestRiderRejoinsGroupAfterPingGap(t *testing.T) {
	r, clock := newTestRegistry(t)
	u := r.Create(user.User{Name: "Анна", City: "spb", Online: true, IsWaiting: true})

	if _, err := r.JoinStation(u.ID, "Автово"); err != nil {
		t.Fatalf("JoinStation() error = %v", err)
	}

	clock.Advance(61 * time.Second)
	r.Sweep()
	if got := Members(r.List(), "spb", "Автово"); len(got) != 0 {
		t.Fatalf("offline rider still listed: %+v", got)
	}

	if err := r.Ping(u.ID); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	got := Members(r.List(), "spb", "Автово")
	if len(got) != 1 || got[0].ID != u.ID {
		t.Fatalf("members after reconnect = %+v, want the rider back", got)
	}
	if stats := r.WaitingRoom("spb").ByStation()["Автово"]; stats.Connected != 1 {
		t.Fatalf("station stats after reconnect = %+v", stats)
	}
}

func TestSeededUsersAreNeverReaped(t *testing.T) {
	r, clock := newTestRegistry(t)

	samples, err := SampleUsers()
	if err != nil {
		t.Fatalf("SampleUsers() error = %v", err)
	}
	if n := r.Seed(samples); n != len(samples) || n == 0 {
		t.Fatalf("Seed() = %d, want %d", n, len(samples))
	}

	clock.Advance(time.Hour)
	r.Sweep()

	if r.Len() != len(samples) {
		t.Fatalf("Len() = %d after sweep, want %d", r.Len(), len(samples))
	}
	for _, u := range r.List() {
		if !u.Online {
			t.Fatalf("seeded user %s went offline", u.Name)
		}
	}
}

func TestWaitingRoomUsesRegistryContents(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.Create(user.User{City: "spb", Station: "Автово", Online: true, IsWaiting: true})
	r.Create(user.User{City: "spb", Station: "Автово", Online: true, IsConnected: true})

	room := r.WaitingRoom("spb")
	if room.TotalStats.TotalUsers != 2 || len(room.StationStats) != 1 {
		t.Fatalf("WaitingRoom() = %+v", room)
	}
}

func TestConcurrentAccess(t *testing.T) {
	r, _ := newTestRegistry(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := r.Create(user.User{City: "spb", Online: true})
			_, _ = r.Update(u.ID, user.Patch{Station: user.Ptr("Автово")})
			_ = r.Ping(u.ID)
			_ = r.WaitingRoom("spb")
			_ = r.List()
		}()
	}
	wg.Wait()

	if r.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", r.Len())
	}
}
