package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fullauth/gateway/api/transport"
	"github.com/fullauth/gateway/internal/infrastructure/monitor"
	"github.com/fullauth/gateway/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
}

func NewHealthHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(rc *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"services": map[string]interface{}{
			"backend": map[string]interface{}{
				"online":     status.Upstream,
				"last_check": status.LastCheck,
			},
		},
	}

	if status.Upstream {
		h.respondSuccess(rc, http.StatusOK, payload)
		return
	}
	h.respondJSON(rc, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "backend API unreachable", payload))
}
