package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/internal/application"
	"github.com/oksasatya/portofolio/internal/domain/entity"
	"github.com/oksasatya/portofolio/internal/gate"
	"github.com/oksasatya/portofolio/internal/interface/middleware"
	"github.com/oksasatya/portofolio/pkg/helpers"
	"github.com/oksasatya/portofolio/pkg/response"
)

const AdminHome = "/admin/dashboard"

type Authenticator interface {
	Login(ctx context.Context, email, password string) (*application.LoginResult, error)
	Logout(ctx context.Context, sess *entity.Session) error
}

type AuthHandler struct {
	Auth    Authenticator
	Gate    *gate.Gate
	Cookies *helpers.Manager
	Logger  *logrus.Logger
}

func NewAuthHandler(auth Authenticator, g *gate.Gate, cookies *helpers.Manager, logger *logrus.Logger) *AuthHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthHandler{Auth: auth, Gate: g, Cookies: cookies, Logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginPage GET /login. Visitors who already hold an admin session go
// straight to the dashboard.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if sess, ok := middleware.CurrentSession(c); ok {
		if d := h.Gate.Require(c.Request.Context(), AdminHome, sess); d.Allowed() {
			c.Redirect(http.StatusFound, AdminHome)
			return
		}
	}
	response.Success(c, http.StatusOK, gin.H{"page": "login", "locale": middleware.LocaleOf(c)}, "login", nil)
}

// Login POST /login {email,password}
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, application.ErrInvalidCredentials) {
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	if err != nil {
		h.Logger.WithError(err).Error("login failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to sign in", nil)
		return
	}

	pair := res.Tokens
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	redirect := h.Gate.HomePath()
	if res.IsAdmin {
		redirect = AdminHome
	}
	response.Success(c, http.StatusOK, gin.H{
		"user_id":  res.UserID,
		"email":    res.Email,
		"name":     res.Name,
		"is_admin": res.IsAdmin,
		"redirect": redirect,
	}, "login successful", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

// Logout POST /logout. Cookies are cleared even when the stored session
// could not be removed.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sess, ok := middleware.CurrentSession(c); ok {
		if err := h.Auth.Logout(c.Request.Context(), sess); err != nil {
			h.Logger.WithError(err).WithField("user_id", sess.UserID).Warn("logout: delete session failed")
		}
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}
