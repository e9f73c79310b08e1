package save

import "fmt"

// GameTime is the in-game clock. Month and day are 1-based; hour and minute
// are 0-based.
type GameTime struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// CheckRanges returns one message per out-of-range field, prefixed with the
// given field path.
func (t GameTime) CheckRanges(path string) []string {
	var problems []string
	if t.Month < 1 || t.Month > 12 {
		problems = append(problems, fmt.Sprintf("%s.month out of range: %d", path, t.Month))
	}
	if t.Day < 1 || t.Day > 31 {
		problems = append(problems, fmt.Sprintf("%s.day out of range: %d", path, t.Day))
	}
	if t.Hour < 0 || t.Hour > 23 {
		problems = append(problems, fmt.Sprintf("%s.hour out of range: %d", path, t.Hour))
	}
	if t.Minute < 0 || t.Minute > 59 {
		problems = append(problems, fmt.Sprintf("%s.minute out of range: %d", path, t.Minute))
	}
	return problems
}

// IsZero reports whether the clock has never been set.
func (t GameTime) IsZero() bool {
	return t == GameTime{}
}

func (t GameTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", t.Year, t.Month, t.Day, t.Hour, t.Minute)
}
