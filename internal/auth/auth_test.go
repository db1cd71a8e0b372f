package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T, ttl time.Duration, now time.Time) *Signer {
	t.Helper()
	s, err := NewSigner("task-manager-secret", ttl)
	require.NoError(t, err)
	s.now = func() time.Time { return now }
	return s
}

func TestNewSigner_EmptySecret(t *testing.T) {
	_, err := NewSigner("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestSigner_IssueVerify(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := newTestSigner(t, 30*24*time.Hour, now)

	token := s.Issue("user-123")
	parts := strings.Split(token, ":")
	require.Len(t, parts, 3)
	assert.Equal(t, "user-123", parts[0])
	assert.Equal(t, "1700000000", parts[1])
	assert.Len(t, parts[2], sigLen)

	uid, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", uid)
}

func TestSigner_Verify(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := newTestSigner(t, time.Hour, now)
	valid := s.Issue("u1")

	tests := []struct {
		name    string
		token   string
		advance time.Duration
		wantErr error
	}{
		{name: "valid", token: valid},
		{name: "wrong part count", token: "u1:123", wantErr: ErrInvalidToken},
		{name: "empty user", token: ":1700000000:" + strings.Repeat("0", sigLen), wantErr: ErrInvalidToken},
		{name: "tampered user", token: "u2" + valid[2:], wantErr: ErrInvalidToken},
		{name: "tampered signature", token: valid[:len(valid)-1] + "x", wantErr: ErrInvalidToken},
		{name: "expired", token: valid, advance: 2 * time.Hour, wantErr: ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.now = func() time.Time { return now.Add(tt.advance) }
			_, err := s.Verify(tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSigner_OtherSecretRejected(t *testing.T) {
	now := time.Now()
	a := newTestSigner(t, time.Hour, now)
	b, err := NewSigner("another-secret", time.Hour)
	require.NoError(t, err)

	_, err = b.Verify(a.Issue("u1"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer abc"))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken("Bearer "))
	assert.Equal(t, "", BearerToken(""))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.False(t, NeedsRehash(hash))

	ok, err := CheckPassword("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPassword_Legacy(t *testing.T) {
	sum := sha256.Sum256([]byte("secret1"))
	legacy := hex.EncodeToString(sum[:])
	assert.True(t, NeedsRehash(legacy))

	ok, err := CheckPassword("secret1", legacy)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword("secret2", legacy)
	require.NoError(t, err)
	assert.False(t, ok)
}
