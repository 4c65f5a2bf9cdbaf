package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/portofolio/internal/container"
	handlers "github.com/oksasatya/portofolio/internal/interface/http"
	"github.com/oksasatya/portofolio/internal/interface/middleware"
)

// SiteModule serves the public pages:
// GET /, GET /portofolio, GET /portofolio/:id, GET /kontak, POST /kontak
type SiteModule struct {
	Handler *handlers.SiteHandler
}

func NewSiteModule(h *handlers.SiteHandler) *SiteModule {
	return &SiteModule{Handler: h}
}

func (m *SiteModule) Register(rg *gin.RouterGroup) {
	contactLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowAdmin()) // 5 req/min per IP
	pageLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	rg.GET("/", pageLimiter, m.Handler.Landing)
	rg.GET("/portofolio", pageLimiter, m.Handler.Gallery)
	rg.GET("/portofolio/:id", pageLimiter, m.Handler.Project)
	rg.GET("/kontak", pageLimiter, m.Handler.ContactPage)
	rg.POST("/kontak", contactLimiter, m.Handler.SubmitContact)
}
