package attendance

import "time"

// Timesheet is the elapsed-time projection of a session at a given instant.
// The client timer ticks from these numbers; the values always equal what
// the server would derive from the stored rows at the same instant.
type Timesheet struct {
	GrossSeconds   int64      `json:"gross_seconds"`
	BreakSeconds   int64      `json:"break_seconds"`
	NetSeconds     int64      `json:"net_seconds"`
	OnBreak        bool       `json:"on_break"`
	BreakStartedAt *time.Time `json:"break_started_at,omitempty"`
	ComputedAt     time.Time  `json:"computed_at"`
}

// ComputeTimesheet projects session and breaks onto now. A closed session
// measures gross time up to its punch-out. Breaks from before the current
// punch-in are ignored.
func ComputeTimesheet(s *Session, breaks []BreakInterval, now time.Time) Timesheet {
	breaks = s.CurrentBreaks(breaks)
	end := now
	if s.PunchOut != nil {
		end = *s.PunchOut
	}

	gross := end.Sub(s.PunchIn)
	if gross < 0 {
		gross = 0
	}
	breakTime := TotalBreakTime(breaks, end)
	net := gross - breakTime
	if net < 0 {
		net = 0
	}

	ts := Timesheet{
		GrossSeconds: int64(gross / time.Second),
		BreakSeconds: int64(breakTime / time.Second),
		NetSeconds:   int64(net / time.Second),
		ComputedAt:   now,
	}
	if s.IsOpen() {
		if open := OpenBreak(breaks); open != nil {
			started := open.StartTime
			ts.OnBreak = true
			ts.BreakStartedAt = &started
		}
	}
	return ts
}
