package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Farmacia-api/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cret", "user-1", "sess-1", "vendedor", "farmacia-test", 5)
	require.NoError(t, err)

	userID, sessionID, role, err := pkgjwt.Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "sess-1", sessionID)
	assert.Equal(t, "vendedor", role)
}

func TestParse_Rejects(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cret", "user-1", "sess-1", "admin", "farmacia-test", 5)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro-secreto", tok)
	assert.Error(t, err, "firma incorrecta")

	expired, err := pkgjwt.Generate("s3cret", "user-1", "sess-1", "admin", "farmacia-test", -1)
	require.NoError(t, err)
	_, _, _, err = pkgjwt.Parse("s3cret", expired)
	assert.Error(t, err, "token expirado")

	_, err = pkgjwt.Generate("", "user-1", "sess-1", "admin", "farmacia-test", 5)
	assert.Error(t, err)
}
