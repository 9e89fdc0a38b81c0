package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	standupapp "github.com/hrms/backend/internal/application/standup"
)

// StandupService is the standup use cases the handler drives
type StandupService interface {
	Submit(ctx context.Context, userID uuid.UUID, req standupapp.SubmitRequest) (*standupapp.StandupResponse, error)
	Get(ctx context.Context, userID uuid.UUID, date string) (*standupapp.StandupResponse, error)
	ListForDate(ctx context.Context, date string) ([]standupapp.StandupResponse, error)
}

// StandupHandler serves daily standup notes
type StandupHandler struct {
	BaseHandler
	service StandupService
}

// NewStandupHandler creates a new StandupHandler
func NewStandupHandler(service StandupService) *StandupHandler {
	return &StandupHandler{service: service}
}

// Submit creates or replaces the caller's standup for a day
// POST /api/v1/standups
func (h *StandupHandler) Submit(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req standupapp.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	standup, err := h.service.Submit(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Standup saved", standup)
}

// Get returns the caller's standup; date defaults to today
// GET /api/v1/standups?date=YYYY-MM-DD
func (h *StandupHandler) Get(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	standup, err := h.service.Get(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, standup)
}

// Team lists every standup submitted for a day
// GET /api/v1/standups/team?date=YYYY-MM-DD
func (h *StandupHandler) Team(c *gin.Context) {
	if _, ok := h.requireUser(c); !ok {
		return
	}

	standups, err := h.service.ListForDate(c.Request.Context(), c.Query("date"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if standups == nil {
		standups = []standupapp.StandupResponse{}
	}
	h.Success(c, standups)
}
