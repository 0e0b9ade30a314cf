package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/JongDeug/blog-backend/internal/model"
)

// Kind labels what a signed token may be used for. Access tokens
// authorize individual requests; refresh tokens are exchanged for a
// new pair and are single-use under rotation.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is what a verified token carries: the subject, its role and
// the token kind. Tokens are immutable once signed; rotation always
// produces brand-new tokens.
type Claims struct {
	UserID uint64
	Role   model.Role
	Kind   Kind
}

type tokenClaims struct {
	Role string `json:"role"`
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 JWTs. Each kind has its own
// signing secret and TTL, so an access token can never verify where a
// refresh token is required and vice versa even before the kind claim
// is checked.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenCodec builds a codec from the per-kind secrets and TTLs.
func NewTokenCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenCodec {
	return &TokenCodec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RefreshTTL exposes the refresh token lifetime; the session store
// entry is written with the same TTL so both expire together.
func (tc *TokenCodec) RefreshTTL() time.Duration { return tc.refreshTTL }

func (tc *TokenCodec) secretFor(kind Kind) []byte {
	if kind == KindRefresh {
		return tc.refreshSecret
	}
	return tc.accessSecret
}

func (tc *TokenCodec) ttlFor(kind Kind) time.Duration {
	if kind == KindRefresh {
		return tc.refreshTTL
	}
	return tc.accessTTL
}

// Sign issues a token of the given kind bound to the subject and role.
// It is a pure signing operation with no store interaction.
func (tc *TokenCodec) Sign(userID uint64, role model.Role, kind Kind) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(tc.ttlFor(kind))
	claims := tokenClaims{
		Role: role.String(),
		Kind: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(tc.secretFor(kind))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, exp, nil
}

// Verify parses a token and checks signature, expiry and kind. Any
// failure surfaces as ErrUnauthorized; whether the token merely
// expired or was forged is deliberately not exposed to the caller and
// can be recovered from the wrapped error for diagnostics only.
func (tc *TokenCodec) Verify(raw string, kind Kind) (Claims, error) {
	var parsed tokenClaims
	tok, err := jwt.ParseWithClaims(raw, &parsed,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return tc.secretFor(kind), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, fmt.Errorf("%w: expired", ErrUnauthorized)
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !tok.Valid {
		return Claims{}, ErrUnauthorized
	}
	if Kind(parsed.Kind) != kind {
		return Claims{}, fmt.Errorf("%w: wrong token kind", ErrUnauthorized)
	}
	uid, err := strconv.ParseUint(parsed.Subject, 10, 64)
	if err != nil || uid == 0 {
		return Claims{}, fmt.Errorf("%w: bad subject", ErrUnauthorized)
	}
	return Claims{UserID: uid, Role: model.ParseRole(parsed.Role), Kind: kind}, nil
}
