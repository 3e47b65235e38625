package waitlist

type EntryStatus string

const (
	EntryStatusActive       EntryStatus = "active"
	EntryStatusNotified     EntryStatus = "notified"
	EntryStatusBooked       EntryStatus = "booked"
	EntryStatusExpiredOffer EntryStatus = "expired_offer"
	EntryStatusExpired      EntryStatus = "expired"
	EntryStatusCancelled    EntryStatus = "cancelled"
)

// entryTransitions lists every permitted move; anything absent is rejected.
var entryTransitions = map[EntryStatus][]EntryStatus{
	EntryStatusActive:   {EntryStatusNotified, EntryStatusCancelled, EntryStatusExpired},
	EntryStatusNotified: {EntryStatusBooked, EntryStatusExpiredOffer, EntryStatusCancelled},
}

func (s EntryStatus) String() string {
	return string(s)
}

func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusActive, EntryStatusNotified, EntryStatusBooked,
		EntryStatusExpiredOffer, EntryStatusExpired, EntryStatusCancelled:
		return true
	default:
		return false
	}
}

func (s EntryStatus) IsTerminal() bool {
	return s.IsValid() && s != EntryStatusActive && s != EntryStatusNotified
}

func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	for _, allowed := range entryTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func NewEntryStatus(s string) (EntryStatus, error) {
	st := EntryStatus(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusExpired  OfferStatus = "expired"
	OfferStatusRejected OfferStatus = "rejected"
)

func (s OfferStatus) String() string {
	return string(s)
}

func (s OfferStatus) IsValid() bool {
	switch s {
	case OfferStatusPending, OfferStatusAccepted, OfferStatusExpired, OfferStatusRejected:
		return true
	default:
		return false
	}
}

func (s OfferStatus) IsTerminal() bool {
	return s.IsValid() && s != OfferStatusPending
}

func NewOfferStatus(s string) (OfferStatus, error) {
	st := OfferStatus(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

type TimePreference string

const (
	PreferenceMorning   TimePreference = "morning"
	PreferenceAfternoon TimePreference = "afternoon"
	PreferenceAny       TimePreference = "any"
)

const noonMinutes = 12 * 60

func NewTimePreference(s string) (TimePreference, error) {
	if s == "" {
		return PreferenceAny, nil
	}
	p := TimePreference(s)
	switch p {
	case PreferenceMorning, PreferenceAfternoon, PreferenceAny:
		return p, nil
	default:
		return "", ErrInvalidPreference
	}
}

func (p TimePreference) String() string {
	return string(p)
}

// Accepts reports whether a slot at t suits the customer. Informational only; it does not
// filter candidates.
func (p TimePreference) Accepts(t TimeOfDay) bool {
	switch p {
	case PreferenceMorning:
		return t.Minutes() < noonMinutes
	case PreferenceAfternoon:
		return t.Minutes() >= noonMinutes
	default:
		return true
	}
}
