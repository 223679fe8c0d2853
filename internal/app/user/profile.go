package user

import (
	"strings"
	"unicode/utf8"

	"izmetro/internal/pkg/randx"
)

// WagonUnspecified is stored when the rider does not know or care about the wagon.
const WagonUnspecified = "any"

// DefaultStatus is shown when neither a position nor a mood is chosen.
const DefaultStatus = "Waiting to meet"

// StatusSeparator joins position and mood in the combined status line.
const StatusSeparator = " | "

var namesByGender = map[string][]string{
	GenderMale: {
		"Алексей", "Борис", "Виктор", "Глеб", "Дмитрий", "Егор", "Иван",
		"Кирилл", "Лев", "Максим", "Никита", "Олег", "Павел", "Роман",
		"Сергей", "Тимур", "Фёдор", "Юрий", "Ярослав",
	},
	GenderFemale: {
		"Анна", "Вера", "Галина", "Дарья", "Евгения", "Жанна", "Зоя",
		"Ирина", "Ксения", "Лидия", "Мария", "Надежда", "Ольга", "Полина",
		"Светлана", "Татьяна", "Ульяна", "Юлия", "Яна",
	},
}

// Names returns the display names available for gender.
func Names(gender string) []string {
	return namesByGender[gender]
}

// RandomName picks a display name uniformly from the list of gender.
func RandomName(gender string) (string, error) {
	return randx.Pick(namesByGender[gender])
}

// Position tags describe where in the wagon or on the platform the rider stands.
var Positions = []string{
	"At the first door",
	"In the middle of the wagon",
	"At the last door",
	"On the platform",
	"By the escalator",
}

// Mood tags are chosen independently of the position.
var Moods = []string{
	"Chatty",
	"Quiet",
	"In a hurry",
	"Up for coffee",
}

// TimerOptions are the countdown durations offered to the rider, in minutes.
var TimerOptions = []int{1, 3, 5, 10, 15}

// CombineStatus builds the status line pushed after a tag selection.
func CombineStatus(position, mood string) string {
	parts := make([]string, 0, 2)
	if position != "" {
		parts = append(parts, position)
	}
	if mood != "" {
		parts = append(parts, mood)
	}
	if len(parts) == 0 {
		return DefaultStatus
	}
	return strings.Join(parts, StatusSeparator)
}

// HasWagon reports whether w is worth showing to other riders.
func HasWagon(w string) bool {
	w = strings.TrimSpace(w)
	return w != "" && w != WagonUnspecified
}

// Initial returns the first letter of name in upper case, or "?" for an empty name.
func Initial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return "?"
	}
	return strings.ToUpper(string(r))
}
