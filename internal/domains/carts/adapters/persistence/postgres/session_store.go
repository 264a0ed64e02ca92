package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/monochra/storefront/internal/domains/carts/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// DefaultSessionTTL is the fallback guest session lifetime.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore tracks guest shopper sessions in PostgreSQL.
type SessionStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{db: db, ttl: ttl}
}

type sessionRecord struct {
	Key       string    `gorm:"primaryKey;column:key;size:128"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "guest_sessions" }

// Touch creates the session or pushes its expiry forward.
func (s *SessionStore) Touch(ctx context.Context, key string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("session key is required")
	}
	rec := sessionRecord{Key: key, ExpiresAt: time.Now().Add(s.ttl)}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

// Delete removes a session by key.
func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "key = ?", key).Error
}

// PurgeExpired deletes expired sessions and returns their keys.
func (s *SessionStore) PurgeExpired(ctx context.Context) ([]string, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var keys []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&sessionRecord{}).
			Where("expires_at < NOW()").
			Pluck("key", &keys).Error; err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		return tx.Delete(&sessionRecord{}, "key IN ?", keys).Error
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}
