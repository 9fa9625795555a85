package protocols

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wellness-backend/internal/protocols/consolidation"
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

// RegisterRoutes attaches protocol routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/protocol/batches", h.recordBatch)
	rg.GET("/protocol/batches", h.listBatches)
	rg.GET("/protocol", h.protocol)
	rg.POST("/protocol/preview", h.preview)
}

func (h *Handler) recordBatch(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req NewBatch
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", gin.H{"reason": err.Error()})
		return
	}

	rec, err := h.Svc.RecordBatch(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record batch", nil)
		}
		return
	}

	c.Set(middleware.BatchIDKey, rec.ID)
	respond.JSON(c, http.StatusCreated, rec)
}

func (h *Handler) listBatches(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	batches, err := h.Svc.ListBatches(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list batches", nil)
		}
		return
	}
	if batches == nil {
		batches = []BatchRecord{}
	}
	respond.OK(c, gin.H{"batches": batches})
}

func (h *Handler) protocol(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	protocol, err := h.Svc.Protocol(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, consolidation.ErrUnknownTier):
			respond.Error(c, http.StatusUnprocessableEntity, "invalid_batch", "stored batches could not be consolidated", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build protocol", nil)
		}
		return
	}
	respond.OK(c, protocol)
}

type previewRequest struct {
	Batches []consolidation.Batch `json:"batches"`
}

func (h *Handler) preview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", gin.H{"reason": err.Error()})
		return
	}

	protocol, err := h.Svc.Preview(req.Batches)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	respond.OK(c, protocol)
}
