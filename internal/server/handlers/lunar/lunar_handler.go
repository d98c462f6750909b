package lunar

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thoth-om/maskd/internal/lunar"
	"github.com/thoth-om/maskd/internal/server/handlers/api"
)

// Handler serves lunar phase samples.
type Handler struct {
	caps *lunar.Caps
}

func New(caps *lunar.Caps) *Handler {
	return &Handler{caps: caps}
}

// GetSample returns the lunar snapshot for now, or for the RFC3339 time
// given in the optional `at` query parameter.
func (h *Handler) GetSample(ctx *gin.Context) {
	var at time.Time
	if raw := ctx.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			ctx.PureJSON(http.StatusBadRequest, api.Error{
				Code:    api.CodeInvalidRequest,
				Message: "at must be RFC3339",
			})
			return
		}
		at = parsed
	}

	ctx.PureJSON(http.StatusOK, lunar.Snapshot(at, h.caps))
}
