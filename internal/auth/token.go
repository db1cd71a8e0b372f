package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrEmptySecret  = errors.New("auth secret is required")
)

// sigLen is the number of hex characters of the HMAC kept in a token.
const sigLen = 32

// Signer issues and verifies bearer tokens of the form "<userID>:<unix>:<sig>",
// where sig is the truncated hex HMAC-SHA256 of "<userID>:<unix>".
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner creates a Signer. A zero ttl disables expiry.
func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a fresh token for userID.
func (s *Signer) Issue(userID string) string {
	payload := userID + ":" + strconv.FormatInt(s.now().Unix(), 10)
	return payload + ":" + s.sign(payload)
}

// Verify checks the signature and age of token and returns the user ID it carries.
func (s *Signer) Verify(token string) (string, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] == "" {
		return "", ErrInvalidToken
	}
	userID, ts, sig := parts[0], parts[1], parts[2]

	expected := s.sign(userID + ":" + ts)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrInvalidToken
	}

	issued, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return "", ErrInvalidToken
	}
	if s.ttl > 0 && s.now().Sub(time.Unix(issued, 0)) > s.ttl {
		return "", ErrTokenExpired
	}
	return userID, nil
}

func (s *Signer) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))[:sigLen]
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
