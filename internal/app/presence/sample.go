package presence

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"izmetro/internal/app/user"
)

//go:embed sample_users.yaml
var sampleUsersYAML []byte

type sampleUser struct {
	Name      string `yaml:"name"`
	City      string `yaml:"city"`
	Gender    string `yaml:"gender"`
	Station   string `yaml:"station"`
	Wagon     string `yaml:"wagon"`
	Color     string `yaml:"color"`
	Status    string `yaml:"status"`
	Waiting   bool   `yaml:"waiting"`
	Connected bool   `yaml:"connected"`
	Position  string `yaml:"position"`
	Mood      string `yaml:"mood"`
}

// SampleUsers decodes the embedded demo riders.
func SampleUsers() ([]user.User, error) {
	var raw []sampleUser
	if err := yaml.Unmarshal(sampleUsersYAML, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse sample users: %w", err)
	}

	users := make([]user.User, 0, len(raw))
	for _, s := range raw {
		u := user.User{
			Name:        s.Name,
			City:        s.City,
			Gender:      s.Gender,
			Station:     s.Station,
			Wagon:       s.Wagon,
			Color:       s.Color,
			Status:      s.Status,
			Online:      true,
			IsWaiting:   s.Waiting,
			IsConnected: s.Connected,
			Position:    s.Position,
			Mood:        s.Mood,
		}
		if c, ok := user.LookupColor(s.Color); ok {
			u.ColorCode = c.Code
		}
		users = append(users, u)
	}
	return users, nil
}

// Seed stores users as pinned demo records the reaper never touches.
func (r *Registry) Seed(users []user.User) int {
	for _, u := range users {
		r.insert(u, true)
	}
	return len(users)
}
