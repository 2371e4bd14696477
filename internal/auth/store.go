package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	userKey  = "auth_user"
	tokenKey = "auth_token"
)

const RoleAdmin = "admin"

// AdminUser is the user record persisted next to the session token.
// The only supported role is RoleAdmin.
type AdminUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SessionStore keeps at most one (user, token) session pair under two
// fixed redis keys. The pair is treated as a unit: a load with either
// half missing reports no session at all.
type SessionStore struct {
	redisClient *redis.Client
}

func NewSessionStore(redisClient *redis.Client) *SessionStore {
	return &SessionStore{
		redisClient: redisClient,
	}
}

func (s *SessionStore) Save(ctx context.Context, user *AdminUser, token string) error {
	userJson, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}

	if err := s.redisClient.Set(ctx, userKey, userJson, 0).Err(); err != nil {
		return fmt.Errorf("save session user: %w", err)
	}
	if err := s.redisClient.Set(ctx, tokenKey, token, 0).Err(); err != nil {
		return fmt.Errorf("save session token: %w", err)
	}

	return nil
}

// Load returns the stored session pair, or (nil, "") when no complete
// pair is present.
func (s *SessionStore) Load(ctx context.Context) (*AdminUser, string, error) {
	userJson, err := s.redisClient.Get(ctx, userKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("load session user: %w", err)
	}

	token, err := s.redisClient.Get(ctx, tokenKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("load session token: %w", err)
	}

	var user AdminUser
	if err := json.Unmarshal([]byte(userJson), &user); err != nil {
		return nil, "", fmt.Errorf("unmarshal session user: %w", err)
	}

	return &user, token, nil
}

// Clear removes both session keys. Safe to call when nothing is stored.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.redisClient.Del(ctx, userKey, tokenKey).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
