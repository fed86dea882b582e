package auth

import (
	"testing"
	"time"

	"github.com/laoming/experiment-manage-system/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(expireMs int64) *JWTManager {
	return NewJWTManager(&config.JWTConfig{
		Secret: "test-secret",
		Issuer: "ems-test",
		Expire: expireMs,
	})
}

func TestGenerateAndParseToken(t *testing.T) {
	m := newTestManager(60_000)

	token, err := m.GenerateToken(1, "alice", "爱丽丝")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "爱丽丝", claims.DisplayName)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "ems-test", claims.Issuer)
}

func TestParseTokenMalformed(t *testing.T) {
	m := newTestManager(60_000)

	_, err := m.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestParseTokenWrongSecret(t *testing.T) {
	m := newTestManager(60_000)
	other := NewJWTManager(&config.JWTConfig{Secret: "other-secret", Issuer: "ems-test", Expire: 60_000})

	token, err := other.GenerateToken(1, "alice", "")
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenExpired(t *testing.T) {
	m := newTestManager(-1000)

	token, err := m.GenerateToken(1, "alice", "")
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateToken(t *testing.T) {
	m := newTestManager(60_000)

	token, err := m.GenerateToken(1, "alice", "")
	require.NoError(t, err)

	assert.True(t, m.ValidateToken(token, "alice"))
	// subject不匹配
	assert.False(t, m.ValidateToken(token, "bob"))
	assert.False(t, m.ValidateToken("garbage", "alice"))
}

func TestTamperedToken(t *testing.T) {
	m := newTestManager(60_000)

	token, err := m.GenerateToken(1, "alice", "")
	require.NoError(t, err)

	// 翻转签名末位字符，签名校验必须失败
	last := token[len(token)-1]
	flipped := byte('A')
	if last == 'A' {
		flipped = 'B'
	}
	tampered := token[:len(token)-1] + string(flipped)

	assert.False(t, m.ValidateToken(tampered, "alice"))
	_, err = m.ExtractUsername(tampered)
	assert.Error(t, err)
	_, err = m.ParseToken(tampered)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	m := newTestManager(-1000)

	token, err := m.GenerateToken(1, "alice", "")
	require.NoError(t, err)

	assert.False(t, m.ValidateToken(token, "alice"))
}

func TestExtractUsername(t *testing.T) {
	m := newTestManager(60_000)

	token, err := m.GenerateToken(7, "carol", "")
	require.NoError(t, err)

	username, err := m.ExtractUsername(token)
	require.NoError(t, err)
	assert.Equal(t, "carol", username)

	_, err = m.ExtractUsername("bad")
	assert.Error(t, err)
}

func TestExtractExpiration(t *testing.T) {
	m := newTestManager(60_000)

	before := time.Now()
	token, err := m.GenerateToken(1, "alice", "")
	require.NoError(t, err)

	exp, err := m.ExtractExpiration(token)
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(time.Minute), exp, 2*time.Second)
}

func TestCreateTokenInfo(t *testing.T) {
	m := newTestManager(60_000)

	info, err := m.CreateTokenInfo(1, "alice", "爱丽丝")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", info.TokenType)
	assert.Equal(t, int64(60_000), info.ExpiresIn)
	assert.NotEmpty(t, info.AccessToken)
}
