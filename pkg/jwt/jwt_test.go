package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Validade-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "maria", "validade-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	id, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, id.UserID)
	assert.Equal(t, "maria", id.Username)
	assert.NotEmpty(t, id.SessionID)
}

func TestGenerate_CadaTokenEsUnaSesionDistinta(t *testing.T) {
	a, err := pkgjwt.Generate(testSecret, testUserID, "maria", "validade-test", 60)
	require.NoError(t, err)
	b, err := pkgjwt.Generate(testSecret, testUserID, "maria", "validade-test", 60)
	require.NoError(t, err)

	idA, err := pkgjwt.Parse(testSecret, a)
	require.NoError(t, err)
	idB, err := pkgjwt.Parse(testSecret, b)
	require.NoError(t, err)
	assert.NotEqual(t, idA.SessionID, idB.SessionID)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "maria", "validade-test", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "maria", "validade-test", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestParse_SinUserID(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "", "anon", "validade-test", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testUserID, "maria", "validade-test", 60)
	assert.Error(t, err)
}
