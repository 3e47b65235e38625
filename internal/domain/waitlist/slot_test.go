//go:build unit

package waitlist_test

import (
	"testing"
	"time"

	"grooming-waitlist/internal/domain/waitlist"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		minutes int
		label   string
		wantErr bool
	}{
		{in: "09:00", minutes: 540, label: "9:00 AM"},
		{in: "14:30", minutes: 870, label: "2:30 PM"},
		{in: "14:30:59", minutes: 870, label: "2:30 PM"},
		{in: "00:00", minutes: 0, label: "12:00 AM"},
		{in: "23:59", minutes: 1439, label: "11:59 PM"},
		{in: "24:00", wantErr: true},
		{in: "2pm", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tod, err := waitlist.ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, waitlist.ErrInvalidTimeOfDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.minutes, tod.Minutes())
			assert.Equal(t, tt.label, tod.Label())
		})
	}
}

func TestTimeOfDayFromMinutes(t *testing.T) {
	tod, err := waitlist.TimeOfDayFromMinutes(615)
	require.NoError(t, err)
	assert.Equal(t, "10:15", tod.String())

	_, err = waitlist.TimeOfDayFromMinutes(1440)
	assert.ErrorIs(t, err, waitlist.ErrInvalidTimeOfDay)
	_, err = waitlist.TimeOfDayFromMinutes(-1)
	assert.ErrorIs(t, err, waitlist.ErrInvalidTimeOfDay)
}

func TestNewSlot(t *testing.T) {
	tod, _ := waitlist.NewTimeOfDay(14, 30)
	serviceID := uuid.New()

	s, err := waitlist.NewSlot(serviceID, time.Date(2026, 3, 5, 18, 45, 0, 0, time.UTC), tod)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), s.Date())
	assert.Equal(t, "Thu, Mar 5 at 2:30 PM", s.Label())

	_, err = waitlist.NewSlot(uuid.Nil, s.Date(), tod)
	assert.ErrorIs(t, err, waitlist.ErrMissingService)
	_, err = waitlist.NewSlot(serviceID, time.Time{}, tod)
	assert.ErrorIs(t, err, waitlist.ErrMissingDate)
}

func TestCandidateWindow(t *testing.T) {
	from, to := waitlist.CandidateWindow(time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), to)
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, waitlist.DefaultCandidateLimit, waitlist.NormalizeLimit(0))
	assert.Equal(t, waitlist.DefaultCandidateLimit, waitlist.NormalizeLimit(-5))
	assert.Equal(t, 7, waitlist.NormalizeLimit(7))
	assert.Equal(t, 100, waitlist.NormalizeLimit(100))
	assert.Equal(t, waitlist.MaxCandidateLimit, waitlist.NormalizeLimit(101))
	assert.Equal(t, waitlist.MaxCandidateLimit, waitlist.NormalizeLimit(1000))
}
