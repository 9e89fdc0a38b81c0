package attendance

import (
	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ComputeStreak counts consecutive calendar days with a session, ending
// today. A user who has not punched in yet today keeps yesterday's streak.
func ComputeStreak(workDates []valueobject.CivilDate, today valueobject.CivilDate) int {
	seen := make(map[valueobject.CivilDate]struct{}, len(workDates))
	for _, d := range workDates {
		seen[d] = struct{}{}
	}

	day := today
	if _, ok := seen[day]; !ok {
		day = today.AddDays(-1)
	}

	streak := 0
	for {
		if _, ok := seen[day]; !ok {
			return streak
		}
		streak++
		day = day.AddDays(-1)
	}
}

// MonthlySummary aggregates one user's sessions for a month
type MonthlySummary struct {
	Month        valueobject.YearMonth `json:"month"`
	DaysPresent  int                   `json:"days_present"`
	OfficeDays   int                   `json:"office_days"`
	HomeDays     int                   `json:"home_days"`
	TotalHours   decimal.Decimal       `json:"total_hours"`
	BreakSeconds int64                 `json:"break_seconds"`
	OpenSessions int                   `json:"open_sessions"`
}

// SummarizeMonth folds sessions (already filtered to the month) into a
// summary. Open sessions count as present but contribute no hours.
func SummarizeMonth(month valueobject.YearMonth, sessions []Session, breaks map[uuid.UUID][]BreakInterval) MonthlySummary {
	summary := MonthlySummary{Month: month, TotalHours: decimal.Zero}
	days := make(map[valueobject.CivilDate]struct{})

	for i := range sessions {
		s := &sessions[i]
		if _, counted := days[s.WorkDate]; !counted {
			days[s.WorkDate] = struct{}{}
			switch s.WorkMode {
			case WorkModeHome:
				summary.HomeDays++
			default:
				summary.OfficeDays++
			}
		}

		if s.IsOpen() {
			summary.OpenSessions++
			continue
		}
		if s.TotalHours != nil {
			summary.TotalHours = summary.TotalHours.Add(*s.TotalHours)
		}
		summary.BreakSeconds += int64(TotalBreakTime(s.CurrentBreaks(breaks[s.ID]), *s.PunchOut).Seconds())
	}

	summary.DaysPresent = len(days)
	return summary
}
