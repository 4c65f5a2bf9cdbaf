package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/internal/application"
	"github.com/oksasatya/portofolio/internal/domain/entity"
	"github.com/oksasatya/portofolio/internal/gate"
	"github.com/oksasatya/portofolio/pkg/helpers"
)

const (
	CtxSession = "session"
	CtxUserID  = "userID"

	ctxDecision     = "gate_decision"
	ctxDecisionPath = "gate_path"
)

// SessionResolver derives the session from cookie values. A non-nil pair
// means the tokens were rotated.
type SessionResolver interface {
	ResolveSession(ctx context.Context, access, refresh string) (*entity.Session, *application.TokenPair, error)
}

// EdgeGate runs before every route. It resolves the session from the
// cookies, writes rotated cookies back, and lets the gate decide whether the
// request may continue. Excluded static paths skip the gate unless they are
// also protected.
func EdgeGate(resolver SessionResolver, g *gate.Gate, cookies *helpers.Manager, logger *logrus.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		m := g.Matcher()
		if m.IsExcluded(path) && !m.IsProtected(path) {
			c.Next()
			return
		}

		sess := resolveSession(c, resolver, g, cookies, logger)
		d := g.Decide(c.Request.Context(), path, sess)
		if !d.Allowed() {
			c.Redirect(http.StatusFound, d.Location)
			c.Abort()
			return
		}
		if sess != nil {
			c.Set(CtxSession, sess)
			c.Set(CtxUserID, sess.UserID)
		}
		c.Set(ctxDecision, d)
		c.Set(ctxDecisionPath, path)
		c.Next()
	}
}

func resolveSession(c *gin.Context, resolver SessionResolver, g *gate.Gate, cookies *helpers.Manager, logger *logrus.Logger) *entity.Session {
	if resolver == nil {
		return nil
	}
	access, refresh := cookies.Read(c)
	if access == "" && refresh == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), g.Timeout())
	defer cancel()

	sess, pair, err := resolver.ResolveSession(ctx, access, refresh)
	if err != nil {
		logger.WithError(err).WithField("path", c.Request.URL.Path).Warn("session resolution failed")
		return nil
	}
	if pair != nil {
		cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	}
	return sess
}

// RequireAdmin guards a route group. It reuses the edge decision for the
// same path when that decision already authorized an admin, and otherwise
// evaluates the session and role steps again.
func RequireAdmin(g *gate.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if v, ok := c.Get(ctxDecision); ok && c.GetString(ctxDecisionPath) == path {
			if d, ok := v.(gate.Decision); ok && d.Allowed() && d.Reason == gate.ReasonAdmin {
				c.Next()
				return
			}
		}
		sess, _ := CurrentSession(c)
		d := g.Require(c.Request.Context(), path, sess)
		if !d.Allowed() {
			c.Redirect(http.StatusFound, d.Location)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session the edge gate attached to the request.
func CurrentSession(c *gin.Context) (*entity.Session, bool) {
	v, ok := c.Get(CtxSession)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*entity.Session)
	if !ok || sess == nil || sess.UserID == "" {
		return nil, false
	}
	return sess, true
}
