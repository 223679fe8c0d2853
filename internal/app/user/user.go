/*
Package user contains the rider record shared by the server registry and the client.

A User is created once at registration and then mutated in place through partial
updates (Patch). Besides the id, the store enforces no invariants on it.
*/
package user

import "time"

// Gender values accepted at registration.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// User is a rider waiting at, or meeting on, a metro station.
type User struct {
	// ID is assigned by the store at creation and never changes.
	ID string `json:"id"`

	// Name is the randomized display name.
	Name string `json:"name"`

	City   string `json:"city"`
	Gender string `json:"gender"`

	// Station and Wagon describe where the rider is. Wagon may hold WagonUnspecified.
	Station string `json:"station"`
	Wagon   string `json:"wagon"`

	// Color is the clothing colour label, ColorCode its display colour (#rrggbb).
	Color     string `json:"color"`
	ColorCode string `json:"colorCode"`

	// Status is the free-text line shown under the name.
	Status string `json:"status"`

	// Timer is the remaining countdown as M:SS, TimerTotal the chosen duration in minutes.
	Timer      string `json:"timer"`
	TimerTotal int    `json:"timerTotal"`

	Online      bool `json:"online"`
	IsWaiting   bool `json:"isWaiting"`
	IsConnected bool `json:"isConnected"`

	Position string `json:"position"`
	Mood     string `json:"mood"`

	CreatedAt time.Time `json:"createdAt"`
	LastSeen  time.Time `json:"lastSeen"`
}

// Patch is a partial update: nil fields are left untouched.
type Patch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=64"`
	City        *string `json:"city,omitempty" validate:"omitempty,max=32"`
	Gender      *string `json:"gender,omitempty" validate:"omitempty,oneof=male female"`
	Station     *string `json:"station,omitempty" validate:"omitempty,max=128"`
	Wagon       *string `json:"wagon,omitempty" validate:"omitempty,max=32"`
	Color       *string `json:"color,omitempty" validate:"omitempty,max=64"`
	ColorCode   *string `json:"colorCode,omitempty" validate:"omitempty,hexcolor"`
	Status      *string `json:"status,omitempty" validate:"omitempty,max=280"`
	Timer       *string `json:"timer,omitempty" validate:"omitempty,max=16"`
	TimerTotal  *int    `json:"timerTotal,omitempty" validate:"omitempty,min=0,max=1440"`
	Online      *bool   `json:"online,omitempty"`
	IsWaiting   *bool   `json:"isWaiting,omitempty"`
	IsConnected *bool   `json:"isConnected,omitempty"`
	Position    *string `json:"position,omitempty" validate:"omitempty,max=64"`
	Mood        *string `json:"mood,omitempty" validate:"omitempty,max=64"`
}

// Apply copies every set field of p onto u.
func (p Patch) Apply(u *User) {
	setString(&u.Name, p.Name)
	setString(&u.City, p.City)
	setString(&u.Gender, p.Gender)
	setString(&u.Station, p.Station)
	setString(&u.Wagon, p.Wagon)
	setString(&u.Color, p.Color)
	setString(&u.ColorCode, p.ColorCode)
	setString(&u.Status, p.Status)
	setString(&u.Timer, p.Timer)
	setString(&u.Position, p.Position)
	setString(&u.Mood, p.Mood)

	if p.TimerTotal != nil {
		u.TimerTotal = *p.TimerTotal
	}
	if p.Online != nil {
		u.Online = *p.Online
	}
	if p.IsWaiting != nil {
		u.IsWaiting = *p.IsWaiting
	}
	if p.IsConnected != nil {
		u.IsConnected = *p.IsConnected
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}
