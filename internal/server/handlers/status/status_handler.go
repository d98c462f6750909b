package status

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/thoth-om/maskd/internal/version"
)

// Handler reports daemon process details, a richer companion to /health.
type Handler struct {
	started time.Time
	pid     int32
}

func New(started time.Time) *Handler {
	return &Handler{
		started: started,
		pid:     int32(os.Getpid()),
	}
}

// GetStatus returns process-level daemon status.
func (h *Handler) GetStatus(ctx *gin.Context) {
	resp := gin.H{
		"service":  version.AppName,
		"version":  version.Short(),
		"pid":      h.pid,
		"uptime_s": int64(time.Since(h.started).Seconds()),
	}

	// Process stats are best effort.
	if proc, err := process.NewProcess(h.pid); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
			resp["rss_bytes"] = mem.RSS
		}
		if cpu, err := proc.CPUPercent(); err == nil {
			resp["cpu_percent"] = cpu
		}
	}

	ctx.PureJSON(http.StatusOK, resp)
}
