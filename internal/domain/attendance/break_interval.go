package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
)

// BreakInterval is a pause inside a session. It is open while EndTime is nil;
// a session has at most one open break.
type BreakInterval struct {
	shared.BaseEntity
	SessionID uuid.UUID
	UserID    uuid.UUID
	StartTime time.Time
	EndTime   *time.Time
}

// IsOpen reports whether the break has not ended
func (b *BreakInterval) IsOpen() bool {
	return b.EndTime == nil
}

// End closes the break at the given instant. An instant before the start
// (possible when a late-night break is force-closed at 23:55) collapses the
// break to zero length.
func (b *BreakInterval) End(at time.Time) error {
	if !b.IsOpen() {
		return shared.NewDomainError("BREAK_ALREADY_ENDED", "Break has already ended")
	}
	if at.Before(b.StartTime) {
		at = b.StartTime
	}
	b.EndTime = &at
	b.Touch(at)
	return nil
}

// Duration returns the break length, measuring an open break up to now
func (b *BreakInterval) Duration(now time.Time) time.Duration {
	end := now
	if b.EndTime != nil {
		end = *b.EndTime
	}
	if end.Before(b.StartTime) {
		return 0
	}
	return end.Sub(b.StartTime)
}

// TotalBreakTime sums closed break durations plus the running time of an open break
func TotalBreakTime(breaks []BreakInterval, now time.Time) time.Duration {
	var total time.Duration
	for i := range breaks {
		total += breaks[i].Duration(now)
	}
	return total
}

// OpenBreak returns the most recently started open break, or nil
func OpenBreak(breaks []BreakInterval) *BreakInterval {
	var latest *BreakInterval
	for i := range breaks {
		b := &breaks[i]
		if !b.IsOpen() {
			continue
		}
		if latest == nil || b.StartTime.After(latest.StartTime) {
			latest = b
		}
	}
	return latest
}
