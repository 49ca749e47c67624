package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lkn-labs/supportbot/internal/domain"
	util "github.com/lkn-labs/supportbot/pkg/util/errorutil"
)

// RedisStore persists sessions as JSON blobs keyed by user id, surviving
// process restarts as a best effort.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps the given client. A zero ttl means sessions never expire.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.NewSession(userID), nil
	}
	if err != nil {
		return nil, util.NewStorageError(err)
	}
	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		// Corrupt blob; recover by restarting the dialog.
		return domain.NewSession(userID), nil
	}
	if sess.Context == nil {
		sess.Context = map[string]string{}
	}
	sess.UserID = userID
	return &sess, nil
}

func (s *RedisStore) SetState(ctx context.Context, userID int64, state domain.DialogState) error {
	sess, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	sess.State = state
	return s.put(ctx, sess)
}

func (s *RedisStore) UpdateContext(ctx context.Context, userID int64, key, value string) error {
	sess, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	sess.Context[key] = value
	return s.put(ctx, sess)
}

func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return util.NewStorageError(err)
	}
	return nil
}

func (s *RedisStore) put(ctx context.Context, sess *domain.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return util.NewStorageError(err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.UserID), raw, s.ttl).Err(); err != nil {
		return util.NewStorageError(err)
	}
	return nil
}
