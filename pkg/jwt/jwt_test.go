package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateAndParse(t *testing.T) {
	token, err := jwt.Generate(secret, 42, "ADMIN", "inventario-ledger", 5)
	require.NoError(t, err)

	userID, role, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "ADMIN", role)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := jwt.Generate(secret, 1, "MANAGER", "inventario-ledger", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro-secret", token)
	assert.Error(t, err, "una firma con otro secret debe rechazarse")
}

func TestGenerate_RequiresSecret(t *testing.T) {
	_, err := jwt.Generate("", 1, "ADMIN", "x", 5)
	assert.Error(t, err)
}

func TestParse_Garbage(t *testing.T) {
	_, _, err := jwt.Parse(secret, "no.es.un.token")
	assert.Error(t, err)
}
