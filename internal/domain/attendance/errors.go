package attendance

import "github.com/hrms/backend/internal/domain/shared"

// Attendance state machine violations
var (
	ErrAlreadyPunchedIn = shared.NewDomainError("ALREADY_PUNCHED_IN", "You are already punched in")
	ErrNoOpenSession    = shared.NewDomainError("NO_OPEN_SESSION", "No open attendance session to punch out of")
	ErrAlreadyOnBreak   = shared.NewDomainError("ALREADY_ON_BREAK", "You are already on a break")
	ErrNoActiveSession  = shared.NewDomainError("NO_ACTIVE_SESSION", "You must be punched in to do that")
	ErrInvalidWorkMode  = shared.NewDomainError("INVALID_WORK_MODE", "Work mode must be office or home")
)
