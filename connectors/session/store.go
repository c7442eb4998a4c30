// Package session keeps each browser session's uploaded export between renders.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	dconfig "mttr-dashboard/domain/config"
)

// ErrNotFound is returned when a session has no (unexpired) upload.
var ErrNotFound = errors.New("session: upload not found")

// Upload is the raw file a session uploaded.
type Upload struct {
	Name       string    `json:"name"`
	Data       []byte    `json:"data"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Key identifies one version of an upload, for de-duplicating parses.
func (u Upload) Key(sessionID string) string {
	return fmt.Sprintf("%s:%d", sessionID, u.UploadedAt.UnixNano())
}

// Store holds uploads by session ID.
type Store interface {
	Save(ctx context.Context, id string, up Upload) error
	Load(ctx context.Context, id string) (Upload, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewID returns a fresh random session ID.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id looks like an ID issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// New builds the store selected by cfg.
func New(ctx context.Context, cfg *dconfig.Config, logger *zap.Logger) (Store, error) {
	switch cfg.Session.Store {
	case dconfig.StoreRedis:
		s, err := NewRedisStore(ctx,
			WithAddress(cfg.Redis.Addr),
			WithPassword(cfg.Redis.Password),
			WithDB(cfg.Redis.DB),
			WithTTL(cfg.Session.TTL),
		)
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("session.store.ready", zap.String("store", "redis"), zap.String("addr", cfg.Redis.Addr))
		return s, nil
	default:
		logger.Info("session.store.ready", zap.String("store", "memory"), zap.Duration("ttl", cfg.Session.TTL))
		return NewMemoryStore(cfg.Session.TTL), nil
	}
}
