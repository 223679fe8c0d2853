package user

import "strings"

// Color is a clothing colour a rider can pick.
type Color struct {
	Label string
	Code  string
}

// Palette lists the clothing colours offered by the client, in display order.
var Palette = []Color{
	{Label: "black", Code: "#222222"},
	{Label: "white", Code: "#f5f5f5"},
	{Label: "grey", Code: "#9e9e9e"},
	{Label: "red", Code: "#e53935"},
	{Label: "orange", Code: "#fb8c00"},
	{Label: "yellow", Code: "#fdd835"},
	{Label: "green", Code: "#43a047"},
	{Label: "blue", Code: "#1e88e5"},
	{Label: "purple", Code: "#8e24aa"},
	{Label: "pink", Code: "#ec407a"},
	{Label: "brown", Code: "#6d4c41"},
}

// DefaultAvatarColor paints avatars of riders without a known colour code.
const DefaultAvatarColor = "#607d8b"

// LookupColor finds a palette entry by label, case-insensitively.
func LookupColor(label string) (Color, bool) {
	label = strings.TrimSpace(label)
	for _, c := range Palette {
		if strings.EqualFold(c.Label, label) {
			return c, true
		}
	}
	return Color{}, false
}

// AvatarColor returns the disc colour of a group member avatar.
func AvatarColor(u User) string {
	if u.ColorCode != "" {
		return u.ColorCode
	}
	if c, ok := LookupColor(u.Color); ok {
		return c.Code
	}
	return DefaultAvatarColor
}
