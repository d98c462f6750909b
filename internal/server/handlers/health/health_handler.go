package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Status is the liveness payload. Constructed fresh on every request,
// never persisted.
type Status struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	TS      int64  `json:"ts"`
}

// Handler answers liveness probes.
type Handler struct {
	service string
}

func New(service string) *Handler {
	return &Handler{service: service}
}

// GetHealth reports that the process is alive. It reads the wall clock and
// nothing else, so it cannot fail while the process can serve requests.
func (h *Handler) GetHealth(ctx *gin.Context) {
	ctx.PureJSON(http.StatusOK, &Status{
		OK:      true,
		Service: h.service,
		TS:      time.Now().UnixMilli(),
	})
}
