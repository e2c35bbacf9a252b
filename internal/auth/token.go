package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ResetTokenLifetime is the validity window of a password reset token.
const ResetTokenLifetime = 30 * time.Minute

const (
	purposeSession = "session"
	purposeReset   = "pwreset"
)

type claims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenSigner issues and verifies the signed tokens used for login sessions
// and password resets. Both are HS256 JWTs carrying the user id as subject
// plus a purpose claim, so one can never stand in for the other.
type TokenSigner struct {
	secret []byte
	now    func() time.Time
}

func NewTokenSigner(secret []byte) *TokenSigner {
	return &TokenSigner{secret: secret, now: time.Now}
}

// NewTokenSignerAt returns a signer with a fixed clock, for tests.
func NewTokenSignerAt(secret []byte, now func() time.Time) *TokenSigner {
	return &TokenSigner{secret: secret, now: now}
}

// IssueSession creates a session token for the user, valid for ttl.
func (s *TokenSigner) IssueSession(userID int, ttl time.Duration) (string, error) {
	return s.issue(userID, purposeSession, ttl)
}

// IssueReset creates a password reset token for the user.
// No state is stored; the token alone encodes user and issuance time.
func (s *TokenSigner) IssueReset(userID int) (string, error) {
	return s.issue(userID, purposeReset, ResetTokenLifetime)
}

func (s *TokenSigner) issue(userID int, purpose string, ttl time.Duration) (string, error) {
	now := s.now()
	c := claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// ParseSession resolves a session token to a user id.
// Returns false for anything invalid or expired.
func (s *TokenSigner) ParseSession(token string) (int, bool) {
	return s.parse(token, purposeSession)
}

// VerifyReset resolves a reset token to a user id. Fails open to false on a
// bad signature, expiry, or a token issued for another purpose; callers must
// additionally check that the user still exists.
func (s *TokenSigner) VerifyReset(token string) (int, bool) {
	return s.parse(token, purposeReset)
}

func (s *TokenSigner) parse(token, purpose string) (int, bool) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)

	c := &claims{}
	parsed, err := parser.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid || c.Purpose != purpose {
		return 0, false
	}

	id, err := strconv.Atoi(c.Subject)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
