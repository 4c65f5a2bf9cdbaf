package modules

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/portofolio/internal/container"
	"github.com/oksasatya/portofolio/internal/gate"
	handlers "github.com/oksasatya/portofolio/internal/interface/http"
	"github.com/oksasatya/portofolio/internal/interface/middleware"
)

// AdminModule mounts the back-office under /admin. Every route is behind
// RequireAdmin and scoped to the session owner by the handlers.
type AdminModule struct {
	Gate      *gate.Gate
	Profile   *handlers.ProfileHandler
	Portfolio *handlers.PortfolioHandler
	Messages  *handlers.MessageHandler
	Uploads   *handlers.UploadHandler
}

func NewAdminModule(g *gate.Gate, profile *handlers.ProfileHandler, portfolio *handlers.PortfolioHandler,
	messages *handlers.MessageHandler, uploads *handlers.UploadHandler) *AdminModule {
	return &AdminModule{Gate: g, Profile: profile, Portfolio: portfolio, Messages: messages, Uploads: uploads}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(
		middleware.RequireAdmin(m.Gate),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		admin.GET("", func(c *gin.Context) { c.Redirect(http.StatusFound, handlers.AdminHome) })
		admin.GET("/dashboard", m.Profile.Dashboard)
		admin.GET("/profil", m.Profile.Get)
		admin.PUT("/profil", m.Profile.Update)

		m.Portfolio.Register(admin)

		admin.GET("/pesan", m.Messages.List)
		admin.PUT("/pesan/:id/read", m.Messages.MarkRead)
		admin.POST("/pesan/:id/balas", m.Messages.Reply)
		admin.DELETE("/pesan/:id", m.Messages.Delete)

		uploadLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil)
		admin.POST("/upload", uploadLimiter, m.Uploads.Upload)
	}
}
