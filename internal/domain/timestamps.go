package domain

import "time"

// Timestamps is embedded by every persisted entity.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTimestamps returns creation and update times both set to now in UTC,
// truncated to the microsecond precision of the database.
func NewTimestamps(now time.Time) Timestamps {
	now = now.UTC().Truncate(time.Microsecond)
	return Timestamps{CreatedAt: now, UpdatedAt: now}
}

// Touch refreshes the update time.
func (t *Timestamps) Touch(now time.Time) {
	t.UpdatedAt = now.UTC().Truncate(time.Microsecond)
}
