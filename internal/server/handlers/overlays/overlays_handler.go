package overlays

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thoth-om/maskd/internal/overlay"
	"github.com/thoth-om/maskd/internal/server/handlers/api"
)

// Handler exposes the overlay catalog over the API.
type Handler struct {
	svc *overlay.Service
}

func New(svc *overlay.Service) *Handler {
	return &Handler{svc: svc}
}

// List returns the known agent ids.
func (h *Handler) List(ctx *gin.Context) {
	agents := h.svc.List()
	ctx.PureJSON(http.StatusOK, gin.H{
		"agents": agents,
		"count":  len(agents),
	})
}

// InvokeRequest is the body of an invoke call.
type InvokeRequest struct {
	Message string `json:"message"`
}

// Invoke queues an overlay invocation and returns its receipt.
func (h *Handler) Invoke(ctx *gin.Context) {
	agent := ctx.Param("agent")

	var req InvokeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.PureJSON(http.StatusBadRequest, api.Error{
			Code:    api.CodeInvalidRequest,
			Message: err.Error(),
		})
		return
	}

	receipt, err := h.svc.Invoke(ctx.Request.Context(), agent, req.Message)
	switch {
	case errors.Is(err, overlay.ErrUnknownAgent):
		ctx.PureJSON(http.StatusNotFound, api.Error{
			Code:    api.CodeUnknownAgent,
			Message: err.Error(),
		})
	case errors.Is(err, overlay.ErrCooldown), errors.Is(err, overlay.ErrTurnBudget):
		ctx.PureJSON(http.StatusTooManyRequests, api.Error{
			Code:    api.CodePolicyBlocked,
			Message: err.Error(),
		})
	case err != nil:
		ctx.PureJSON(http.StatusInternalServerError, api.Error{
			Code:    api.CodeInternalError,
			Message: err.Error(),
		})
	default:
		ctx.PureJSON(http.StatusAccepted, receipt)
	}
}
