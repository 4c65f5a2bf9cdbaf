// Package redisstore keeps server-side login sessions in Redis hashes keyed
// by user id. A user has at most one live session; its sid is bound into
// the access and refresh tokens.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/portofolio/internal/domain/entity"
	"github.com/oksasatya/portofolio/internal/domain/repository"
)

// ErrNoSession is returned when the user has no live session hash. It
// matches repository.ErrNotFound.
var ErrNoSession = fmt.Errorf("session: %w", repository.ErrNotFound)

// DefaultRefreshGrace is used when NewSessionStore gets no grace window.
const DefaultRefreshGrace = 30 * time.Second

type SessionStore struct {
	rdb   *redis.Client
	ttl   time.Duration
	grace time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl, grace time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if grace <= 0 {
		grace = DefaultRefreshGrace
	}
	return &SessionStore{rdb: rdb, ttl: ttl, grace: grace}
}

func SessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Save replaces the user's session hash and resets its TTL.
func (s *SessionStore) Save(ctx context.Context, sess *entity.Session) error {
	key := SessionKey(sess.UserID)
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    sess.UserID,
		"email":      sess.Email,
		"name":       sess.Name,
		"sid":        sess.ID,
		"created_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	sess.ExpiresAt = time.Now().Add(s.ttl)
	return nil
}

func (s *SessionStore) Get(ctx context.Context, userID string) (*entity.Session, error) {
	key := SessionKey(userID)
	pipe := s.rdb.Pipeline()
	all := pipe.HGetAll(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	return decode(all.Val(), ttl.Val())
}

// swap sid only when it still equals ARGV[1]; -1 missing, 0 stale, 1 done
var rotateScript = redis.NewScript(`
local current = redis.call("HGET", KEYS[1], "sid")
if not current then
  return -1
end
if current ~= ARGV[1] then
  return 0
end
redis.call("HSET", KEYS[1], "sid", ARGV[2], "prev_sid", ARGV[1], "prev_until", ARGV[3], "updated_at", ARGV[4])
redis.call("PEXPIRE", KEYS[1], ARGV[5])
return 1
`)

// Rotate replaces fromSID with toSID and extends the TTL. fromSID stays
// accepted for the grace window. A missing session is ErrNoSession; a sid
// already rotated by another request is repository.ErrSessionRotated.
func (s *SessionStore) Rotate(ctx context.Context, userID, fromSID, toSID string) error {
	until := time.Now().Add(s.grace).UnixMilli()
	res, err := rotateScript.Run(ctx, s.rdb, []string{SessionKey(userID)},
		fromSID, toSID, strconv.FormatInt(until, 10), nowRFC3339(), s.ttl.Milliseconds()).Int()
	if err != nil {
		return err
	}
	switch res {
	case 1:
		return nil
	case 0:
		return repository.ErrSessionRotated
	default:
		return ErrNoSession
	}
}

func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, SessionKey(userID)).Err()
}

var _ repository.SessionRepository = (*SessionStore)(nil)

func decode(fields map[string]string, ttl time.Duration) (*entity.Session, error) {
	if len(fields) == 0 || fields["sid"] == "" || fields["user_id"] == "" {
		return nil, ErrNoSession
	}
	sess := &entity.Session{
		ID:     fields["sid"],
		UserID: fields["user_id"],
		Email:  fields["email"],
		Name:   fields["name"],
	}
	if ttl > 0 {
		sess.ExpiresAt = time.Now().Add(ttl)
	}
	if prev := fields["prev_sid"]; prev != "" {
		if ms, err := strconv.ParseInt(fields["prev_until"], 10, 64); err == nil {
			sess.PrevID = prev
			sess.PrevUntil = time.UnixMilli(ms)
		}
	}
	return sess, nil
}
