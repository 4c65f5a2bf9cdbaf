package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/portofolio/internal/container"
	handlers "github.com/oksasatya/portofolio/internal/interface/http"
	"github.com/oksasatya/portofolio/internal/interface/middleware"
)

// AuthModule: GET /login, POST /login, POST /logout. There is no sign-up;
// accounts come from cmd/seed.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil) // 10 req/min per IP
	logoutLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil)

	rg.GET("/login", m.Handler.LoginPage)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/logout", logoutLimiter, m.Handler.Logout)
}
