package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func TestWrapWriteError(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	fk := &pgconn.PgError{Code: "23503"}
	check := &pgconn.PgError{Code: "23514"}
	other := errors.New("conn reset")

	assert.ErrorIs(t, wrapWriteError("insert product", unique), domain.ErrDuplicate)
	assert.ErrorIs(t, wrapWriteError("delete product", fk), domain.ErrConflict)
	assert.ErrorIs(t, wrapWriteError("update stock", check), domain.ErrConflict)

	err := wrapWriteError("insert transaction", other)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, err, other)
	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(other))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%café%", likePattern("café"))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}
