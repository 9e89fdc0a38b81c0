package attendance

import "github.com/hrms/backend/internal/domain/shared/valueobject"

// Status is the display state of a user's attendance for today
type Status string

const (
	StatusOffline   Status = "offline"
	StatusWorking   Status = "working"
	StatusOnBreak   Status = "on_break"
	StatusCompleted Status = "completed"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// StatusSnapshot holds the rows status derivation looks at
type StatusSnapshot struct {
	Today valueobject.CivilDate
	// Open is the user's latest open session, if any. A stale open session
	// must have been auto-closed before deriving status.
	Open *Session
	// OpenBreak is set when Open has a break without an end time
	OpenBreak bool
	// TodaySession is the user's session dated Today, if any
	TodaySession *Session
}

// DeriveStatus maps stored rows to a display state. It is a pure function:
// the same snapshot always yields the same status.
func DeriveStatus(snap StatusSnapshot) Status {
	if snap.Open != nil && snap.Open.IsOpen() && !snap.Open.WorkDate.Before(snap.Today) {
		if snap.OpenBreak {
			return StatusOnBreak
		}
		return StatusWorking
	}
	if snap.TodaySession != nil && !snap.TodaySession.IsOpen() {
		return StatusCompleted
	}
	return StatusOffline
}
