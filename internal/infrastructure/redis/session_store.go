// Package redis guarda las sesiones autenticadas en Redis con TTL igual a la expiración del JWT.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/pkg/config"
)

var _ repository.SessionStore = (*SessionStore)(nil)

const keyPrefix = "session:"

// NewClient crea el cliente y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 20,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// sessionDoc forma serializada de entity.Session.
type sessionDoc struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Role        string    `json:"role"`
	LocationIDs []string  `json:"location_ids"`
	Permissions []string  `json:"permissions"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SessionStore implementa repository.SessionStore sobre Redis.
type SessionStore struct {
	client goredis.UniversalClient
	now    func() time.Time
}

// NewSessionStore construye el store sobre un cliente ya conectado.
func NewSessionStore(client goredis.UniversalClient) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

// Save guarda la sesión; Redis la elimina sola al expirar.
func (s *SessionStore) Save(ctx context.Context, session *entity.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("sesión %s ya expirada", session.ID)
	}
	raw, err := json.Marshal(sessionDoc{
		ID:          session.ID,
		UserID:      session.UserID,
		Role:        session.Role,
		LocationIDs: session.LocationIDs,
		Permissions: session.Permissions,
		ExpiresAt:   session.ExpiresAt,
	})
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, keyPrefix+session.ID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// Get devuelve nil si la clave no existe.
func (s *SessionStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	raw, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var doc sessionDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if !s.now().Before(doc.ExpiresAt) {
		return nil, nil
	}
	return &entity.Session{
		ID:          doc.ID,
		UserID:      doc.UserID,
		Role:        doc.Role,
		LocationIDs: doc.LocationIDs,
		Permissions: doc.Permissions,
		ExpiresAt:   doc.ExpiresAt,
	}, nil
}

// Delete elimina la sesión (logout).
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
