package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore tracks the single active session token per user.
type SessionStore interface {
	StoreSession(ctx context.Context, userID uuid.UUID, token string) error
	ValidateSession(ctx context.Context, userID uuid.UUID, token string) error
	InvalidateSession(ctx context.Context, userID uuid.UUID) error
}

// SessionService keeps the active session token per user in Redis. Login
// overwrites the key, logout deletes it, the auth middleware compares against
// it, so a revoked token fails even while its JWT is still unexpired.
type SessionService struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewSessionService(redisClient *redis.Client, sessionHours int) *SessionService {
	if sessionHours <= 0 {
		sessionHours = 48
	}
	return &SessionService{
		redisClient: redisClient,
		ttl:         time.Duration(sessionHours) * time.Hour,
	}
}

func sessionKey(userID uuid.UUID) string {
	return "session:" + userID.String()
}

func (s *SessionService) StoreSession(ctx context.Context, userID uuid.UUID, token string) error {
	if err := s.redisClient.Set(ctx, sessionKey(userID), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// ValidateSession checks that the presented token is the user's current one.
func (s *SessionService) ValidateSession(ctx context.Context, userID uuid.UUID, token string) error {
	stored, err := s.redisClient.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("no active session")
	}
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if stored != token {
		return fmt.Errorf("session token mismatch")
	}
	return nil
}

func (s *SessionService) InvalidateSession(ctx context.Context, userID uuid.UUID) error {
	if err := s.redisClient.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	return nil
}
