package waitlist

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTimeOfDay = errors.New("time of day must be HH:MM between 00:00 and 23:59")
	ErrMissingService   = errors.New("service is required")
	ErrMissingDate      = errors.New("date is required")
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time expressed in minutes after midnight.
type TimeOfDay struct {
	minutes int
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	m := hour*60 + minute
	if hour < 0 || minute < 0 || minute > 59 || m >= minutesPerDay {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{minutes: m}, nil
}

// ParseTimeOfDay accepts "15:04" and "15:04:05"; seconds are dropped.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeOfDay(t.Hour(), t.Minute())
		}
	}
	return TimeOfDay{}, ErrInvalidTimeOfDay
}

func TimeOfDayFromMinutes(m int) (TimeOfDay, error) {
	if m < 0 || m >= minutesPerDay {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{minutes: m}, nil
}

func (t TimeOfDay) Minutes() int { return t.minutes }
func (t TimeOfDay) Hour() int    { return t.minutes / 60 }
func (t TimeOfDay) Minute() int  { return t.minutes % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Label renders the time the way it appears in customer messages, e.g. "2:30 PM".
func (t TimeOfDay) Label() string {
	return time.Date(2000, 1, 1, t.Hour(), t.Minute(), 0, 0, time.UTC).Format("3:04 PM")
}

// DateOnly truncates t to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Slot is one bookable service/date/time combination.
type Slot struct {
	serviceID uuid.UUID
	date      time.Time
	time      TimeOfDay
}

func NewSlot(serviceID uuid.UUID, date time.Time, tod TimeOfDay) (Slot, error) {
	if serviceID == uuid.Nil {
		return Slot{}, ErrMissingService
	}
	if date.IsZero() {
		return Slot{}, ErrMissingDate
	}
	return Slot{serviceID: serviceID, date: DateOnly(date), time: tod}, nil
}

func (s Slot) ServiceID() uuid.UUID { return s.serviceID }
func (s Slot) Date() time.Time      { return s.date }
func (s Slot) Time() TimeOfDay      { return s.time }

// Label is the human form used in offer and confirmation messages.
func (s Slot) Label() string {
	return s.date.Format("Mon, Jan 2") + " at " + s.time.Label()
}
