package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// HeaderIdempotencyKey cabecera opcional en restock, sell y return.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotentReplayed marca una respuesta servida desde el registro guardado.
const HeaderIdempotentReplayed = "Idempotent-Replayed"

const maxIdempotencyKeyLen = 200

// IdempotencyStore almacenamiento de registros de idempotencia (Redis en producción).
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Key(scope, id string) string
}

// idempotencyRecord Status == 0 significa que la petición original sigue en curso.
type idempotencyRecord struct {
	BodyHash    string `json:"bodyHash"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Idempotency reserva la clave con SetNX antes de ejecutar el handler y guarda la respuesta al terminar.
// Una repetición con el mismo cuerpo recibe la respuesta original; con otro cuerpo recibe 422.
// Con store nil el middleware no hace nada. Debe ir después de AuthMiddleware: la clave se aísla por usuario.
func Idempotency(store IdempotencyStore, ttl time.Duration, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("idempotency")
	return func(c *fiber.Ctx) error {
		if store == nil {
			return c.Next()
		}
		id := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
		if id == "" {
			return c.Next()
		}
		if len(id) > maxIdempotencyKeyLen {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "INVALID_IDEMPOTENCY_KEY",
				Message: "Idempotency-Key supera " + strconv.Itoa(maxIdempotencyKeyLen) + " caracteres",
			})
		}

		ctx := c.UserContext()
		hash := bodyHash(c.Body())
		scope := strconv.FormatInt(GetUserID(c), 10) + "|" + c.Method() + "|" + c.Path()
		key := store.Key(scope, id)

		pending, _ := json.Marshal(idempotencyRecord{BodyHash: hash})
		acquired, err := store.SetNX(ctx, key, string(pending), ttl)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("redis no disponible, se procesa sin idempotencia")
			return c.Next()
		}
		if !acquired {
			return replay(c, store, key, hash, log)
		}

		// Un pánico del handler también libera la clave antes de llegar al recover externo.
		defer func() {
			if r := recover(); r != nil {
				release(ctx, store, key, log)
				panic(r)
			}
		}()
		if err := c.Next(); err != nil {
			release(ctx, store, key, log)
			return err
		}
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			release(ctx, store, key, log)
			return nil
		}
		rec, _ := json.Marshal(idempotencyRecord{
			BodyHash:    hash,
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		})
		if err := store.Set(ctx, key, string(rec), ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar la respuesta idempotente")
		}
		return nil
	}
}

func replay(c *fiber.Ctx, store IdempotencyStore, key, hash string, log *logger.Logger) error {
	raw, found, err := store.Get(c.UserContext(), key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("leer registro idempotente")
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_UNAVAILABLE", Message: "intente de nuevo"})
	}
	var rec idempotencyRecord
	if !found || json.Unmarshal([]byte(raw), &rec) != nil || rec.Status == 0 {
		if found && rec.BodyHash != "" && rec.BodyHash != hash {
			return keyReused(c)
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "IDEMPOTENCY_IN_PROGRESS",
			Message: "hay una petición en curso con la misma Idempotency-Key",
		})
	}
	if rec.BodyHash != hash {
		return keyReused(c)
	}
	c.Set(HeaderIdempotentReplayed, "true")
	if rec.ContentType != "" {
		c.Set(fiber.HeaderContentType, rec.ContentType)
	}
	return c.Status(rec.Status).Send(rec.Body)
}

func keyReused(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
		Code:    "IDEMPOTENCY_KEY_REUSED",
		Message: "la Idempotency-Key ya se usó con otro cuerpo",
	})
}

func release(ctx context.Context, store IdempotencyStore, key string, log *logger.Logger) {
	if err := store.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar la Idempotency-Key")
	}
}

func bodyHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
