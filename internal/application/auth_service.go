package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/internal/domain/entity"
	repo "github.com/oksasatya/portofolio/internal/domain/repository"
	"github.com/oksasatya/portofolio/pkg/helpers"
)

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type AuthService struct {
	Users    repo.UserRepository
	Roles    repo.RoleRepository
	Sessions repo.SessionRepository
	JWT      *helpers.JWTManager
	Logger   *logrus.Logger
	audit    auditor
}

func NewAuthService(users repo.UserRepository, roles repo.RoleRepository, sessions repo.SessionRepository,
	jwt *helpers.JWTManager, audit repo.AuditRepository, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:    users,
		Roles:    roles,
		Sessions: sessions,
		JWT:      jwt,
		Logger:   logger,
		audit:    auditor{repo: audit, logger: logger},
	}
}

type LoginResult struct {
	UserID  string
	Email   string
	Name    string
	IsAdmin bool
	Tokens  TokenPair
}

// Login checks the password, opens a new session (replacing any previous
// one) and issues the token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if u == nil || !helpers.CompareHashAndPassword(u.Password, password) {
		var uid string
		if u != nil {
			uid = u.ID
		}
		s.audit.log(withEmail(ctx, email), uid, ActionLoginFailed, nil)
		return nil, ErrInvalidCredentials
	}

	sess := &entity.Session{ID: uuid.NewString(), UserID: u.ID, Email: u.Email, Name: u.Name}
	pair, err := s.issue(u.ID, sess.ID)
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		s.logger().WithError(err).WithField("user_id", u.ID).Error("save session failed")
		return nil, err
	}

	res := &LoginResult{UserID: u.ID, Email: u.Email, Name: u.Name, Tokens: pair}
	if s.Roles != nil {
		role, rErr := s.Roles.LookupRole(ctx, u.ID)
		res.IsAdmin = rErr == nil && entity.RoleAssignment{UserID: u.ID, Role: role}.IsAdmin()
	}
	s.audit.log(withEmail(ctx, u.Email), u.ID, ActionLoginSuccess, map[string]any{"admin": res.IsAdmin})
	return res, nil
}

// Logout removes the server-side session. A nil session is a no-op.
func (s *AuthService) Logout(ctx context.Context, sess *entity.Session) error {
	if sess == nil || sess.UserID == "" {
		return nil
	}
	if err := s.Sessions.Delete(ctx, sess.UserID); err != nil {
		return err
	}
	s.audit.log(withEmail(ctx, sess.Email), sess.UserID, ActionLogout, nil)
	return nil
}

// ResolveSession derives the session from the cookie values. A valid access
// token bound to the live session id wins; otherwise a valid refresh token
// rotates the session id and returns the new pair, which the caller must
// write back as cookies. Tokens bound to the sid that was just rotated away
// stay valid for the store's grace window and get a pair for the live sid,
// so parallel requests racing a refresh keep their session. No usable token
// yields (nil, nil, nil). Store errors are returned and callers treat them
// as "no session".
func (s *AuthService) ResolveSession(ctx context.Context, access, refresh string) (*entity.Session, *TokenPair, error) {
	now := time.Now()
	if access != "" {
		if claims, err := s.JWT.ParseAccessToken(access); err == nil {
			sess, err := s.Sessions.Get(ctx, claims.UserID)
			switch {
			case err == nil && sess.ID == claims.SessionID:
				return sess, nil, nil
			case err == nil && sess.InGrace(claims.SessionID, now):
				return s.reissue(sess)
			case err != nil && !errors.Is(err, repo.ErrNotFound):
				return nil, nil, err
			}
		}
	}
	if refresh == "" {
		return nil, nil, nil
	}
	claims, err := s.JWT.ParseRefreshToken(refresh)
	if err != nil {
		return nil, nil, nil
	}
	sess, err := s.Sessions.Get(ctx, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	switch {
	case sess.ID == claims.SessionID:
	case sess.InGrace(claims.SessionID, now):
		return s.reissue(sess)
	default:
		// refresh token from a replaced session
		return nil, nil, nil
	}

	sid := uuid.NewString()
	pair, err := s.issue(sess.UserID, sid)
	if err != nil {
		return nil, nil, err
	}
	err = s.Sessions.Rotate(ctx, sess.UserID, claims.SessionID, sid)
	switch {
	case err == nil:
	case errors.Is(err, repo.ErrSessionRotated):
		// another request rotated first; follow the sid it stored
		cur, gerr := s.Sessions.Get(ctx, sess.UserID)
		if errors.Is(gerr, repo.ErrNotFound) {
			return nil, nil, nil
		}
		if gerr != nil {
			return nil, nil, gerr
		}
		if !cur.Accepts(claims.SessionID, now) {
			return nil, nil, nil
		}
		return s.reissue(cur)
	case errors.Is(err, repo.ErrNotFound):
		return nil, nil, nil
	default:
		return nil, nil, err
	}
	sess.PrevID = claims.SessionID
	sess.ID = sid
	return sess, &pair, nil
}

// reissue hands out a fresh pair bound to the live sid without rotating.
func (s *AuthService) reissue(sess *entity.Session) (*entity.Session, *TokenPair, error) {
	pair, err := s.issue(sess.UserID, sess.ID)
	if err != nil {
		return nil, nil, err
	}
	return sess, &pair, nil
}

func (s *AuthService) issue(userID, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		s.logger().WithError(err).WithField("user_id", userID).Error("generate access token failed")
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		s.logger().WithError(err).WithField("user_id", userID).Error("generate refresh token failed")
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *AuthService) logger() *logrus.Logger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}
