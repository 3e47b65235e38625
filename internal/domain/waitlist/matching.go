package waitlist

import "time"

const (
	// MatchWindowDays is how far a requested date may sit from the open slot's date.
	MatchWindowDays = 3

	DefaultCandidateLimit = 10
	MaxCandidateLimit     = 100
)

// CandidateWindow returns the inclusive requested-date range for a slot on date.
func CandidateWindow(date time.Time) (from, to time.Time) {
	d := DateOnly(date)
	return d.AddDate(0, 0, -MatchWindowDays), d.AddDate(0, 0, MatchWindowDays)
}

// NormalizeLimit defaults a non-positive limit and clamps anything above MaxCandidateLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultCandidateLimit
	}
	if limit > MaxCandidateLimit {
		return MaxCandidateLimit
	}
	return limit
}
