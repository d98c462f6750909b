package telemetry

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thoth-om/maskd/internal/server/handlers/api"
	"github.com/thoth-om/maskd/internal/telemetry"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Handler exposes the telemetry store over the API.
type Handler struct {
	store *telemetry.Store
}

func New(store *telemetry.Store) *Handler {
	return &Handler{store: store}
}

// GetRecent lists recent events, newest first.
func (h *Handler) GetRecent(ctx *gin.Context) {
	limit := defaultLimit
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			ctx.PureJSON(http.StatusBadRequest, api.Error{
				Code:    api.CodeInvalidRequest,
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = min(parsed, maxLimit)
	}

	events, err := h.store.Recent(ctx.Request.Context(), limit)
	if err != nil {
		ctx.PureJSON(http.StatusInternalServerError, api.Error{
			Code:    api.CodeInternalError,
			Message: err.Error(),
		})
		return
	}

	ctx.PureJSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// TurnRequest is the body of a turn submission.
type TurnRequest struct {
	Coherence      float64 `json:"coherence" binding:"min=0,max=1"`
	MirrorResidual float64 `json:"mirror_residual" binding:"min=0,max=1"`
	Samples        int64   `json:"samples"`
}

// PostTurn records the telemetry of a finished turn.
func (h *Handler) PostTurn(ctx *gin.Context) {
	var req TurnRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.PureJSON(http.StatusBadRequest, api.Error{
			Code:    api.CodeInvalidRequest,
			Message: err.Error(),
		})
		return
	}
	if req.Samples <= 0 {
		req.Samples = 1
	}

	event, err := h.store.RecordTurn(ctx.Request.Context(), req.Coherence, req.MirrorResidual, req.Samples)
	if err != nil {
		ctx.PureJSON(http.StatusInternalServerError, api.Error{
			Code:    api.CodeInternalError,
			Message: err.Error(),
		})
		return
	}

	ctx.PureJSON(http.StatusCreated, event)
}
