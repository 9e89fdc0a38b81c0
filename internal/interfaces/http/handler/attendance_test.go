package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	attendanceapp "github.com/hrms/backend/internal/application/attendance"
	"github.com/hrms/backend/internal/domain/attendance"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAttendanceService implements AttendanceService for testing
type MockAttendanceService struct {
	mock.Mock
}

func (m *MockAttendanceService) PunchIn(ctx context.Context, userID uuid.UUID, req attendanceapp.PunchInRequest) (*attendanceapp.SessionResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attendanceapp.SessionResponse), args.Error(1)
}

func (m *MockAttendanceService) PunchOut(ctx context.Context, userID uuid.UUID, req attendanceapp.PunchOutRequest) (*attendanceapp.SessionResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attendanceapp.SessionResponse), args.Error(1)
}

func (m *MockAttendanceService) StartBreak(ctx context.Context, userID uuid.UUID) (*attendanceapp.BreakActionResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attendanceapp.BreakActionResponse), args.Error(1)
}

func (m *MockAttendanceService) ResumeWork(ctx context.Context, userID uuid.UUID) (*attendanceapp.BreakActionResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attendanceapp.BreakActionResponse), args.Error(1)
}

func (m *MockAttendanceService) GetStatus(ctx context.Context, userID uuid.UUID) (*attendanceapp.StatusResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attendanceapp.StatusResponse), args.Error(1)
}

func (m *MockAttendanceService) History(ctx context.Context, userID uuid.UUID, query attendanceapp.HistoryQuery) ([]attendanceapp.SessionResponse, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]attendanceapp.SessionResponse), args.Error(1)
}

func (m *MockAttendanceService) Streak(ctx context.Context, userID uuid.UUID) (*attendanceapp.StreakResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attendanceapp.StreakResponse), args.Error(1)
}

func (m *MockAttendanceService) MonthlySummary(ctx context.Context, userID uuid.UUID, month string) (*attendance.MonthlySummary, error) {
	args := m.Called(ctx, userID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attendance.MonthlySummary), args.Error(1)
}

// newAuthedRouter returns an engine that marks every request as coming from
// userID; uuid.Nil leaves requests anonymous
func newAuthedRouter(userID uuid.UUID) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			setJWTContext(c, userID)
		}
		c.Next()
	})
	return r
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func setupAttendanceRouter(userID uuid.UUID) (*gin.Engine, *MockAttendanceService) {
	svc := new(MockAttendanceService)
	h := NewAttendanceHandler(svc)
	r := newAuthedRouter(userID)
	r.POST("/attendance/punch-in", h.PunchIn)
	r.POST("/attendance/punch-out", h.PunchOut)
	r.POST("/attendance/break/start", h.StartBreak)
	r.POST("/attendance/break/resume", h.ResumeWork)
	r.GET("/attendance/status", h.GetStatus)
	r.GET("/attendance/history", h.History)
	r.GET("/attendance/streak", h.Streak)
	r.GET("/attendance/summary", h.MonthlySummary)
	return r, svc
}

func TestAttendanceHandler_PunchIn(t *testing.T) {
	userID := uuid.New()

	t.Run("without body", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)
		session := &attendanceapp.SessionResponse{ID: uuid.New(), UserID: userID, Status: "active", WorkMode: "office"}
		svc.On("PunchIn", mock.Anything, userID, attendanceapp.PunchInRequest{}).Return(session, nil)

		w := serve(r, http.MethodPost, "/attendance/punch-in", "")

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.OK)
		assert.Equal(t, "Punched in", resp.Message)
		data := resp.Data.(map[string]any)
		assert.Equal(t, session.ID.String(), data["id"])
		assert.Equal(t, "active", data["status"])
		svc.AssertExpectations(t)
	})

	t.Run("with work mode and notes", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)
		req := attendanceapp.PunchInRequest{WorkMode: "home", Notes: "dentist at 4"}
		svc.On("PunchIn", mock.Anything, userID, req).
			Return(&attendanceapp.SessionResponse{ID: uuid.New(), WorkMode: "home"}, nil)

		w := serve(r, http.MethodPost, "/attendance/punch-in", `{"work_mode":"home","notes":"dentist at 4"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown work mode is rejected before the service", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)

		w := serve(r, http.MethodPost, "/attendance/punch-in", `{"work_mode":"beach"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "work_mode", resp.Error.Details[0].Field)
		svc.AssertNotCalled(t, "PunchIn", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already punched in", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)
		svc.On("PunchIn", mock.Anything, userID, mock.Anything).Return(nil, attendance.ErrAlreadyPunchedIn)

		w := serve(r, http.MethodPost, "/attendance/punch-in", "")

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.OK)
		assert.Equal(t, "ALREADY_PUNCHED_IN", resp.Error.Code)
		assert.Equal(t, "You are already punched in", resp.Message)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		r, svc := setupAttendanceRouter(uuid.Nil)

		w := serve(r, http.MethodPost, "/attendance/punch-in", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "NOT_AUTHENTICATED", decodeResponse(t, w).Error.Code)
		svc.AssertNotCalled(t, "PunchIn", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAttendanceHandler_PunchOut(t *testing.T) {
	userID := uuid.New()

	t.Run("closes the session", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)
		out := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
		svc.On("PunchOut", mock.Anything, userID, attendanceapp.PunchOutRequest{Notes: "done"}).
			Return(&attendanceapp.SessionResponse{ID: uuid.New(), Status: "completed", PunchOut: &out}, nil)

		w := serve(r, http.MethodPost, "/attendance/punch-out", `{"notes":"done"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "Punched out", resp.Message)
		assert.Equal(t, "completed", resp.Data.(map[string]any)["status"])
	})

	t.Run("no open session", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)
		svc.On("PunchOut", mock.Anything, userID, attendanceapp.PunchOutRequest{}).Return(nil, attendance.ErrNoOpenSession)

		w := serve(r, http.MethodPost, "/attendance/punch-out", "")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "NO_OPEN_SESSION", decodeResponse(t, w).Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)

		w := serve(r, http.MethodPost, "/attendance/punch-out", `{"notes":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "PunchOut", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAttendanceHandler_Breaks(t *testing.T) {
	userID := uuid.New()

	t.Run("start", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)
		svc.On("StartBreak", mock.Anything, userID).
			Return(&attendanceapp.BreakActionResponse{Break: &attendanceapp.BreakResponse{ID: uuid.New()}}, nil)

		w := serve(r, http.MethodPost, "/attendance/break/start", "")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Break started", decodeResponse(t, w).Message)
	})

	t.Run("start twice", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)
		svc.On("StartBreak", mock.Anything, userID).Return(nil, attendance.ErrAlreadyOnBreak)

		w := serve(r, http.MethodPost, "/attendance/break/start", "")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ALREADY_ON_BREAK", decodeResponse(t, w).Error.Code)
	})

	t.Run("start while punched out", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)
		svc.On("StartBreak", mock.Anything, userID).Return(nil, attendance.ErrNoActiveSession)

		w := serve(r, http.MethodPost, "/attendance/break/start", "")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "NO_ACTIVE_SESSION", decodeResponse(t, w).Error.Code)
	})

	t.Run("resume", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)
		svc.On("ResumeWork", mock.Anything, userID).
			Return(&attendanceapp.BreakActionResponse{Resumed: true, Break: &attendanceapp.BreakResponse{ID: uuid.New()}}, nil)

		w := serve(r, http.MethodPost, "/attendance/break/resume", "")

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "Back to work", resp.Message)
		assert.Equal(t, true, resp.Data.(map[string]any)["resumed"])
	})

	t.Run("resume without a break", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)
		svc.On("ResumeWork", mock.Anything, userID).Return(&attendanceapp.BreakActionResponse{}, nil)

		w := serve(r, http.MethodPost, "/attendance/break/resume", "")

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "No break in progress", resp.Message)
		assert.Equal(t, false, resp.Data.(map[string]any)["resumed"])
	})
}

func TestAttendanceHandler_Reads(t *testing.T) {
	userID := uuid.New()

	t.Run("status", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)
		svc.On("GetStatus", mock.Anything, userID).Return(&attendanceapp.StatusResponse{Status: "on_break"}, nil)

		w := serve(r, http.MethodGet, "/attendance/status", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "on_break", decodeResponse(t, w).Data.(map[string]any)["status"])
	})

	t.Run("history passes the range", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)
		query := attendanceapp.HistoryQuery{From: "2026-03-01", To: "2026-03-31"}
		svc.On("History", mock.Anything, userID, query).Return(nil, nil)

		w := serve(r, http.MethodGet, "/attendance/history?from=2026-03-01&to=2026-03-31", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []any{}, decodeResponse(t, w).Data)
		svc.AssertExpectations(t)
	})

	t.Run("history requires both ends", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)

		w := serve(r, http.MethodGet, "/attendance/history?from=2026-03-01", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "History", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("history range too long", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)
		svc.On("History", mock.Anything, userID, mock.Anything).
			Return(nil, shared.NewDomainError("INVALID_INPUT", "Date range cannot exceed one year"))

		w := serve(r, http.MethodGet, "/attendance/history?from=2024-01-01&to=2026-01-01", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Date range cannot exceed one year", decodeResponse(t, w).Error.Message)
	})

	t.Run("streak", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)
		svc.On("Streak", mock.Anything, userID).Return(&attendanceapp.StreakResponse{Days: 4}, nil)

		w := serve(r, http.MethodGet, "/attendance/streak", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(4), decodeResponse(t, w).Data.(map[string]any)["days"])
	})

	t.Run("summary passes the month", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)
		svc.On("MonthlySummary", mock.Anything, userID, "2026-02").Return(&attendance.MonthlySummary{}, nil)

		w := serve(r, http.MethodGet, "/attendance/summary?month=2026-02", "")

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("summary with a bad month", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)
		svc.On("MonthlySummary", mock.Anything, userID, "March").Return(nil, shared.ErrInvalidInput)

		w := serve(r, http.MethodGet, "/attendance/summary?month=March", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("datastore failure", func(t *testing.T) {
		r, svc := setupAttendanceRouter(userID)
		svc.On("GetStatus", mock.Anything, userID).Return(nil, errors.New("connection refused"))

		w := serve(r, http.MethodGet, "/attendance/status", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
		assert.Equal(t, "connection refused", resp.Error.Message)
	})
}
