package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oksasatya/portofolio/internal/container"
	"github.com/oksasatya/portofolio/internal/interface/middleware"
	"github.com/oksasatya/portofolio/internal/metrics"
)

// DebugModule exposes /api/debug/vars (expvar) and /metrics (Prometheus).
type DebugModule struct {
	Vars     bool
	Metrics  bool
	Gatherer prometheus.Gatherer
}

func NewDebugModule(vars, metricsEnabled bool, g prometheus.Gatherer) *DebugModule {
	return &DebugModule{Vars: vars, Metrics: metricsEnabled, Gatherer: g}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	if m.Vars {
		rg.GET("/api/debug/vars", rl, gin.WrapH(expvar.Handler()))
	}
	if m.Metrics && m.Gatherer != nil {
		rg.GET("/metrics", rl, gin.WrapH(metrics.Handler(m.Gatherer)))
	}
}
