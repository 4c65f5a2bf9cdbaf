// Package gate holds the request authorization decision for protected
// paths. It is transport agnostic; the gin adapter lives in
// internal/interface/middleware.
package gate

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/internal/domain/entity"
)

type Outcome int

const (
	Allow Outcome = iota
	Redirect
)

func (o Outcome) String() string {
	if o == Allow {
		return "allow"
	}
	return "redirect"
}

const (
	ReasonUnprotected      = "unprotected"
	ReasonNoSession        = "no_session"
	ReasonRoleLookupFailed = "role_lookup_failed"
	ReasonNotAdmin         = "not_admin"
	ReasonAdmin            = "admin"
)

// Decision is the terminal result of one gate evaluation.
type Decision struct {
	Outcome  Outcome
	Location string // set for Redirect
	Reason   string
	Role     string
}

func (d Decision) Allowed() bool { return d.Outcome == Allow }

// RoleLookup returns the stored role string for a user.
type RoleLookup interface {
	LookupRole(ctx context.Context, userID string) (string, error)
}

// Recorder receives decision metrics. Optional.
type Recorder interface {
	RecordDecision(outcome, reason string)
	ObserveRoleLookup(result string, d time.Duration)
}

type Config struct {
	Matcher   Matcher
	LoginPath string
	HomePath  string
	// Timeout bounds session resolution and role lookup. A timeout is
	// handled like any other lookup failure.
	Timeout time.Duration
}

type Gate struct {
	cfg     Config
	roles   RoleLookup
	logger  *logrus.Logger
	metrics Recorder
}

func New(cfg Config, roles RoleLookup, logger *logrus.Logger) *Gate {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.HomePath == "" {
		cfg.HomePath = "/"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if len(cfg.Matcher.Protected) == 0 {
		cfg.Matcher = DefaultMatcher()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Gate{cfg: cfg, roles: roles, logger: logger}
}

// WithMetrics attaches a decision recorder.
func (g *Gate) WithMetrics(r Recorder) *Gate {
	g.metrics = r
	return g
}

func (g *Gate) Matcher() Matcher       { return g.cfg.Matcher }
func (g *Gate) Timeout() time.Duration { return g.cfg.Timeout }
func (g *Gate) LoginPath() string      { return g.cfg.LoginPath }
func (g *Gate) HomePath() string       { return g.cfg.HomePath }

// Decide evaluates the request path against the resolved session. Steps are
// strictly ordered: protection check, session presence, role lookup. Decide
// holds no state, so evaluating it twice for the same inputs yields the same
// decision.
func (g *Gate) Decide(ctx context.Context, path string, sess *entity.Session) Decision {
	if !g.cfg.Matcher.IsProtected(path) {
		return g.finish(path, sess, Decision{Outcome: Allow, Reason: ReasonUnprotected})
	}
	return g.Require(ctx, path, sess)
}

// Require runs the session and role steps of Decide for a path that is
// known to be protected, regardless of the matcher.
func (g *Gate) Require(ctx context.Context, path string, sess *entity.Session) Decision {
	if sess == nil || sess.UserID == "" {
		return g.finish(path, sess, Decision{Outcome: Redirect, Location: g.cfg.LoginPath, Reason: ReasonNoSession})
	}

	res := g.lookup(ctx, sess.UserID)
	switch res.Kind {
	case RoleAdmin:
		return g.finish(path, sess, Decision{Outcome: Allow, Reason: ReasonAdmin, Role: res.Role})
	case RoleNotAdmin:
		return g.finish(path, sess, Decision{Outcome: Redirect, Location: g.cfg.HomePath, Reason: ReasonNotAdmin, Role: res.Role})
	default:
		g.logger.WithError(res.Err).WithFields(logrus.Fields{
			"path":    path,
			"user_id": sess.UserID,
		}).Warn("role lookup failed; denying")
		return g.finish(path, sess, Decision{Outcome: Redirect, Location: g.cfg.HomePath, Reason: ReasonRoleLookupFailed})
	}
}

func (g *Gate) lookup(ctx context.Context, userID string) RoleResult {
	if g.roles == nil {
		return Classify("", ErrNoRoleLookup)
	}
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	start := time.Now()
	role, err := g.roles.LookupRole(ctx, userID)
	if err == nil && ctx.Err() != nil {
		// lookup returned after the deadline
		err = ctx.Err()
	}
	res := Classify(role, err)
	if g.metrics != nil {
		g.metrics.ObserveRoleLookup(res.Kind.String(), time.Since(start))
	}
	return res
}

func (g *Gate) finish(path string, sess *entity.Session, d Decision) Decision {
	fields := logrus.Fields{
		"path":        path,
		"has_session": sess != nil && sess.UserID != "",
		"decision":    d.Outcome.String(),
		"reason":      d.Reason,
	}
	if sess != nil {
		fields["user_id"] = sess.UserID
	}
	if d.Role != "" {
		fields["role"] = d.Role
	}
	entry := g.logger.WithFields(fields)
	if d.Outcome == Redirect {
		entry = entry.WithField("location", d.Location)
		entry.Info("gate redirect")
	} else if d.Reason != ReasonUnprotected {
		entry.Debug("gate allow")
	}
	if g.metrics != nil {
		g.metrics.RecordDecision(d.Outcome.String(), d.Reason)
	}
	return d
}
