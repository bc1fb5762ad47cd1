package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secret"

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	return signWith(t, testSecret, claims)
}

func signWith(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestNew_NumericUserID(t *testing.T) {
	sess, err := NewVerifier(testSecret).New(sign(t, jwt.MapClaims{"user_id": 7, "name": "Caja 1", "roles": []string{"cashier"}, "role": "admin"}))
	require.NoError(t, err)

	assert.Equal(t, "7", sess.OperatorID())
	assert.Equal(t, "Caja 1", sess.Name())
	assert.Equal(t, []string{"cashier", "admin"}, sess.Roles())
	assert.True(t, sess.Authenticated())
}

func TestNew_FallsBackToSubject(t *testing.T) {
	sess, err := NewVerifier(testSecret).New(sign(t, jwt.MapClaims{"sub": "op-9"}))
	require.NoError(t, err)
	assert.Equal(t, "op-9", sess.OperatorID())
}

func TestNew_Errors(t *testing.T) {
	v := NewVerifier(testSecret)

	_, err := v.New("")
	assert.ErrorIs(t, err, ErrTokenRequired)

	_, err = v.New("not-a-jwt")
	assert.Error(t, err)

	_, err = v.New(sign(t, jwt.MapClaims{"name": "nobody"}))
	assert.ErrorIs(t, err, ErrOperatorNotFound)
}

func TestVerify_RejectsUntrustedTokens(t *testing.T) {
	v := NewVerifier(testSecret)

	// Firmado con otra clave
	_, err := v.Verify(signWith(t, "attacker", jwt.MapClaims{"user_id": "7"}))
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	// Sin firma
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "7"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = v.Verify(unsigned)
	assert.Error(t, err)

	// Vencido
	_, err = v.Verify(sign(t, jwt.MapClaims{"user_id": "7", "exp": time.Now().Add(-time.Minute).Unix()}))
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_WithoutSecretRejectsEverything(t *testing.T) {
	_, err := NewVerifier("").Verify(sign(t, jwt.MapClaims{"user_id": "7"}))
	assert.ErrorIs(t, err, ErrSecretMissing)
}

func TestFromHeader(t *testing.T) {
	v := NewVerifier(testSecret)
	token := sign(t, jwt.MapClaims{"user_id": "12"})

	sess, err := v.FromHeader("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, token, sess.Token())

	_, err = v.FromHeader(token)
	assert.ErrorIs(t, err, ErrTokenRequired)
}

func TestRefreshAndClear(t *testing.T) {
	sess, err := NewVerifier(testSecret).New(sign(t, jwt.MapClaims{"user_id": "1"}))
	require.NoError(t, err)

	require.NoError(t, sess.Refresh(sign(t, jwt.MapClaims{"user_id": "2"})))
	assert.Equal(t, "2", sess.OperatorID())

	sess.Clear()
	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.OperatorID())
	assert.Empty(t, sess.Roles())
}

func TestRefresh_ForgedTokenKeepsIdentity(t *testing.T) {
	original := sign(t, jwt.MapClaims{"user_id": "1", "name": "Caja 1"})
	sess, err := NewVerifier(testSecret).New(original)
	require.NoError(t, err)

	err = sess.Refresh(signWith(t, "attacker", jwt.MapClaims{"user_id": "1", "name": "Impostor"}))
	require.Error(t, err)

	assert.Equal(t, original, sess.Token())
	assert.Equal(t, "Caja 1", sess.Name())
}
