package checkins

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"wellness-backend/internal/checkins/adaptation"
	"wellness-backend/internal/shared/server/middleware"
	"wellness-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches check-in routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkins", h.submit)
	rg.POST("/checkins/preview", h.preview)
	rg.GET("/checkins", h.list)
	rg.GET("/checkins/streak", h.streak)
	rg.GET("/checkins/:date", h.get)
}

type submitRequest struct {
	Date    string                `json:"date"`
	Answers adaptation.RawCheckin `json:"answers"`
}

type previewResponse struct {
	Checkin   adaptation.NormalizedCheckin `json:"checkin"`
	Modifiers adaptation.PlanModifiers     `json:"modifiers"`
}

func (h *Handler) submit(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", gin.H{"reason": err.Error()})
		return
	}

	rec, err := h.Svc.Submit(c.Request.Context(), userID, req.Answers, req.Date)
	if err != nil {
		writeServiceError(c, err, "failed to record checkin")
		return
	}

	c.Set(middleware.CheckinDateKey, rec.Date())
	respond.OK(c, rec)
}

func (h *Handler) preview(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", gin.H{"reason": err.Error()})
		return
	}

	normalized, mods, err := h.Svc.Preview(req.Answers, req.Date)
	if err != nil {
		writeServiceError(c, err, "failed to preview checkin")
		return
	}
	respond.OK(c, previewResponse{Checkin: normalized, Modifiers: mods})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	out, err := h.Svc.List(c.Request.Context(), userID, limit)
	if err != nil {
		writeServiceError(c, err, "failed to list checkins")
		return
	}
	respond.OK(c, gin.H{"checkins": out})
}

func (h *Handler) streak(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	streak, err := h.Svc.Streak(c.Request.Context(), userID, h.Svc.now())
	if err != nil {
		writeServiceError(c, err, "failed to compute streak")
		return
	}
	respond.OK(c, streak)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	day := c.Param("date")
	c.Set(middleware.CheckinDateKey, day)

	rec, err := h.Svc.Get(c.Request.Context(), userID, day)
	if err != nil {
		writeServiceError(c, err, "failed to load checkin")
		return
	}
	respond.OK(c, rec)
}

func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "checkin not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
