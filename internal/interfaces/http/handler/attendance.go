package handler

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	attendanceapp "github.com/hrms/backend/internal/application/attendance"
	"github.com/hrms/backend/internal/domain/attendance"
)

// AttendanceService is the attendance use cases the handler drives
type AttendanceService interface {
	PunchIn(ctx context.Context, userID uuid.UUID, req attendanceapp.PunchInRequest) (*attendanceapp.SessionResponse, error)
	PunchOut(ctx context.Context, userID uuid.UUID, req attendanceapp.PunchOutRequest) (*attendanceapp.SessionResponse, error)
	StartBreak(ctx context.Context, userID uuid.UUID) (*attendanceapp.BreakActionResponse, error)
	ResumeWork(ctx context.Context, userID uuid.UUID) (*attendanceapp.BreakActionResponse, error)
	GetStatus(ctx context.Context, userID uuid.UUID) (*attendanceapp.StatusResponse, error)
	History(ctx context.Context, userID uuid.UUID, query attendanceapp.HistoryQuery) ([]attendanceapp.SessionResponse, error)
	Streak(ctx context.Context, userID uuid.UUID) (*attendanceapp.StreakResponse, error)
	MonthlySummary(ctx context.Context, userID uuid.UUID, month string) (*attendance.MonthlySummary, error)
}

// AttendanceHandler serves the punch clock of the signed-in user
type AttendanceHandler struct {
	BaseHandler
	service AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler
func NewAttendanceHandler(service AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// bindOptionalJSON binds a JSON body that clients may omit entirely
func bindOptionalJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// PunchIn starts the caller's working day
// POST /api/v1/attendance/punch-in
func (h *AttendanceHandler) PunchIn(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req attendanceapp.PunchInRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.service.PunchIn(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Punched in", session)
}

// PunchOut closes the caller's open session
// POST /api/v1/attendance/punch-out
func (h *AttendanceHandler) PunchOut(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req attendanceapp.PunchOutRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.service.PunchOut(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Punched out", session)
}

// StartBreak opens a break in the caller's session
// POST /api/v1/attendance/break/start
func (h *AttendanceHandler) StartBreak(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	result, err := h.service.StartBreak(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Break started", result)
}

// ResumeWork ends the caller's open break. Resuming without a break in
// progress succeeds without changes.
// POST /api/v1/attendance/break/resume
func (h *AttendanceHandler) ResumeWork(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	result, err := h.service.ResumeWork(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	message := "Back to work"
	if !result.Resumed {
		message = "No break in progress"
	}
	h.SuccessWithMessage(c, message, result)
}

// GetStatus reports whether the caller is off, working or on break
// GET /api/v1/attendance/status
func (h *AttendanceHandler) GetStatus(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	status, err := h.service.GetStatus(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// History lists the caller's sessions between two dates
// GET /api/v1/attendance/history?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *AttendanceHandler) History(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var query attendanceapp.HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	sessions, err := h.service.History(c.Request.Context(), userID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if sessions == nil {
		sessions = []attendanceapp.SessionResponse{}
	}
	h.Success(c, sessions)
}

// Streak counts the caller's consecutive attended days
// GET /api/v1/attendance/streak
func (h *AttendanceHandler) Streak(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	streak, err := h.service.Streak(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, streak)
}

// MonthlySummary aggregates the caller's month; month defaults to the current one
// GET /api/v1/attendance/summary?month=YYYY-MM
func (h *AttendanceHandler) MonthlySummary(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	summary, err := h.service.MonthlySummary(c.Request.Context(), userID, c.Query("month"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
