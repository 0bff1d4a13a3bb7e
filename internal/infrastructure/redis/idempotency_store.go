package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-ledger/pkg/config"
)

const (
	keyNamespace      = "ledger"
	idempotencyPrefix = "idempotency"
)

type cmdable interface {
	Ping(context.Context) *goredis.StatusCmd
	Get(context.Context, string) *goredis.StringCmd
	SetNX(context.Context, string, any, time.Duration) *goredis.BoolCmd
	Set(context.Context, string, any, time.Duration) *goredis.StatusCmd
	Del(context.Context, ...string) *goredis.IntCmd
}

// IdempotencyStore guarda las respuestas de las peticiones con Idempotency-Key.
type IdempotencyStore struct {
	store cmdable
	raw   *goredis.Client
}

// New abre el cliente Redis y verifica conectividad.
func New(ctx context.Context, cfg config.RedisConfig) (*IdempotencyStore, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := goredis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &IdempotencyStore{store: raw, raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*goredis.Options, error) {
	if !cfg.Enabled() {
		return nil, errors.New("redis: se requiere REDIS_URL o REDIS_ADDRESS")
	}
	if cfg.URL != "" {
		opts, err := goredis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		if opts.DB == 0 {
			opts.DB = cfg.DB
		}
		return opts, nil
	}
	return &goredis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}, nil
}

// Get devuelve el registro guardado; found=false si la clave no existe.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.store.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// SetNX guarda value solo si la clave no existe todavía.
func (s *IdempotencyStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.store.SetNX(ctx, key, value, ttl).Result()
}

// Set sobrescribe el registro (respuesta definitiva) renovando el TTL.
func (s *IdempotencyStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.store.Set(ctx, key, value, ttl).Err()
}

// Delete libera la clave, p. ej. cuando la petición terminó en error de servidor.
func (s *IdempotencyStore) Delete(ctx context.Context, key string) error {
	return s.store.Del(ctx, key).Err()
}

// Key arma la clave con namespace: ledger:idempotency:<scope>:<id>.
func (s *IdempotencyStore) Key(scope, id string) string {
	return strings.Join([]string{keyNamespace, idempotencyPrefix, scope, id}, ":")
}

// Ping verifica la conexión (health check).
func (s *IdempotencyStore) Ping(ctx context.Context) error {
	return s.store.Ping(ctx).Err()
}

// Close cierra el cliente.
func (s *IdempotencyStore) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}
