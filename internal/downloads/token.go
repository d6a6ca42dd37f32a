package downloads

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/siteoptz/siteoptz/internal/apperr"
)

const (
	issuer     = "siteoptz"
	DefaultTTL = 24 * time.Hour
)

// Claims identify which guide a download link grants and to whom.
type Claims struct {
	Guide string `json:"guide"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Signer issues and verifies short-lived guide download tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for guide, bound to email.
func (s *Signer) Issue(guide, email string) (string, error) {
	now := s.now()
	claims := Claims{
		Guide: guide,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperr.Internal("failed to sign download token", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the claims.
func (s *Signer) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("invalid or expired download link")
	}
	if claims.Guide == "" {
		return nil, apperr.Unauthorized("invalid download link")
	}
	return claims, nil
}
