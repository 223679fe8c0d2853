package user

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPatchApplyOnlySetFields(t *testing.T) {
	u := User{Name: "Анна", City: "spb", Station: "Автово", Wagon: "3", IsWaiting: true, TimerTotal: 5}

	Patch{
		Station:     Ptr("Маяковская"),
		IsWaiting:   Ptr(false),
		IsConnected: Ptr(true),
		TimerTotal:  Ptr(0),
	}.Apply(&u)

	want := User{Name: "Анна", City: "spb", Station: "Маяковская", Wagon: "3", IsConnected: true}
	if diff := cmp.Diff(want, u); diff != "" {
		t.Fatalf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestCombineStatus(t *testing.T) {
	tests := []struct {
		position, mood, want string
	}{
		{"", "", DefaultStatus},
		{"At the first door", "", "At the first door"},
		{"", "Chatty", "Chatty"},
		{"At the first door", "Chatty", "At the first door | Chatty"},
	}

	for _, tt := range tests {
		if got := CombineStatus(tt.position, tt.mood); got != tt.want {
			t.Errorf("CombineStatus(%q, %q) = %q, want %q", tt.position, tt.mood, got, tt.want)
		}
	}
}

func TestHasWagon(t *testing.T) {
	for w, want := range map[string]bool{"": false, "  ": false, "any": false, "3": true, " 7 ": true} {
		if got := HasWagon(w); got != want {
			t.Errorf("HasWagon(%q) = %v, want %v", w, got, want)
		}
	}
}

func TestInitial(t *testing.T) {
	for name, want := range map[string]string{"анна": "А", " глеб": "Г", "": "?", "zoe": "Z"} {
		if got := Initial(name); got != want {
			t.Errorf("Initial(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestRandomNameFromGenderList(t *testing.T) {
	for _, gender := range []string{GenderMale, GenderFemale} {
		name, err := RandomName(gender)
		if err != nil {
			t.Fatalf("RandomName(%q) error = %v", gender, err)
		}
		if !slices.Contains(Names(gender), name) {
			t.Fatalf("RandomName(%q) = %q, not in list", gender, name)
		}
	}

	if _, err := RandomName("other"); err == nil {
		t.Fatal("RandomName(other) error = nil, want error")
	}
}

func TestColors(t *testing.T) {
	c, ok := LookupColor(" Red ")
	if !ok || c.Code != "#e53935" {
		t.Fatalf("LookupColor(Red) = %+v, %v", c, ok)
	}
	if _, ok := LookupColor("octarine"); ok {
		t.Fatal("LookupColor(octarine) = ok")
	}

	if got := AvatarColor(User{ColorCode: "#123456", Color: "red"}); got != "#123456" {
		t.Errorf("AvatarColor with code = %q", got)
	}
	if got := AvatarColor(User{Color: "blue"}); got != "#1e88e5" {
		t.Errorf("AvatarColor from label = %q", got)
	}
	if got := AvatarColor(User{Color: "octarine"}); got != DefaultAvatarColor {
		t.Errorf("AvatarColor fallback = %q", got)
	}
}
