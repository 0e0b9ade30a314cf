package auth

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/JongDeug/blog-backend/internal/model"
	"github.com/JongDeug/blog-backend/internal/utils"
)

// UserStore is the identity collaborator. It is the sole source of
// truth for user records; this package reads them and never mutates
// one directly. Lookups report a missing user with sql.ErrNoRows.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	Create(ctx context.Context, name, email, passwordHash string, role model.Role) (uint64, error)
}

// TokenPair is what login and rotation hand back to the client.
type TokenPair struct {
	AccessToken  string
	AccessExp    time.Time
	RefreshToken string
	RefreshExp   time.Time
}

// Service orchestrates registration, login, rotation and revocation.
// All dependencies are explicit; the service itself holds no mutable
// state, so any number of server processes can share the same redis
// session tier.
type Service struct {
	users      UserStore
	sessions   *SessionStore
	tokens     *TokenCodec
	bcryptCost int
}

// NewService wires the service. Panics on a nil dependency since the
// process cannot meaningfully run without one.
func NewService(users UserStore, sessions *SessionStore, tokens *TokenCodec, bcryptCost int) *Service {
	if users == nil || sessions == nil || tokens == nil {
		panic("nil dependency passed to auth.NewService")
	}
	return &Service{users: users, sessions: sessions, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates a user account. It does not establish a session;
// callers chain a login when they want one. The returned profile never
// carries the password hash.
func (s *Service) Register(ctx context.Context, name, email, secret string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return model.User{}, ErrConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("register lookup: %w", err)
	}

	hash, err := utils.HashPassword(secret, s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("register hash: %w", err)
	}
	id, err := s.users.Create(ctx, name, email, hash, model.RoleUser)
	if err != nil {
		return model.User{}, fmt.Errorf("register create: %w", err)
	}
	return model.User{ID: id, Name: name, Email: email, Role: model.RoleUser}, nil
}

// Authenticate verifies an email/secret pair against the stored hash
// and returns the matching user. It never issues tokens; it is the
// credential primitive Login builds on.
func (s *Service) Authenticate(ctx context.Context, email, secret string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("authenticate lookup: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, secret) {
		return model.User{}, ErrInvalidCredential
	}
	return u, nil
}

// Login decodes a Basic authorization header, authenticates it and
// issues a fresh token pair, writing the refresh token as the user's
// single session record. Decode and authenticate failures propagate
// unchanged and leave no partial session behind.
func (s *Service) Login(ctx context.Context, basicHeader string) (model.User, TokenPair, error) {
	email, secret, err := DecodeBasic(basicHeader)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}
	u, err := s.Authenticate(ctx, email, secret)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}
	pair, err := s.issuePair(ctx, u.ID, u.Role)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}
	return u, pair, nil
}

// Rotate exchanges a refresh token for a brand-new pair. The presented
// token must verify as kind=refresh and be byte-identical to the value
// currently stored for its subject; anything else is ErrUnauthorized.
// A token that was already rotated away therefore fails here, which is
// what makes a stolen-but-stale refresh token worthless.
func (s *Service) Rotate(ctx context.Context, presented string) (model.User, TokenPair, error) {
	claims, err := s.tokens.Verify(presented, KindRefresh)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}

	stored, err := s.sessions.Get(ctx, claims.UserID)
	if errors.Is(err, ErrNoSession) {
		log.Printf("auth: rotate rejected for user %d: no active session", claims.UserID)
		return model.User{}, TokenPair{}, fmt.Errorf("%w: no active session", ErrUnauthorized)
	}
	if err != nil {
		return model.User{}, TokenPair{}, err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
		log.Printf("auth: rotate rejected for user %d: refresh token superseded", claims.UserID)
		return model.User{}, TokenPair{}, fmt.Errorf("%w: refresh token superseded", ErrUnauthorized)
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, TokenPair{}, fmt.Errorf("%w: unknown subject", ErrUnauthorized)
	}
	if err != nil {
		return model.User{}, TokenPair{}, fmt.Errorf("rotate lookup: %w", err)
	}

	pair, err := s.issuePair(ctx, u.ID, u.Role)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}
	return u, pair, nil
}

// Logout deletes the user's session record. Calling it again is a
// no-op, not an error.
func (s *Service) Logout(ctx context.Context, userID uint64) error {
	return s.sessions.Delete(ctx, userID)
}

// Revoke has the same effect as Logout but is exposed as a distinct
// administrative operation (an admin forcing another user's session to
// end). Idempotent for the same reason.
func (s *Service) Revoke(ctx context.Context, userID uint64) error {
	return s.sessions.Delete(ctx, userID)
}

// issuePair signs an access+refresh pair for the subject and
// overwrites the session record with the new refresh token. Exactly
// one session record exists per subject after it returns.
func (s *Service) issuePair(ctx context.Context, userID uint64, role model.Role) (TokenPair, error) {
	access, accessExp, err := s.tokens.Sign(userID, role, KindAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := s.tokens.Sign(userID, role, KindRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.sessions.Set(ctx, userID, refresh, s.tokens.RefreshTTL()); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		AccessExp:    accessExp,
		RefreshToken: refresh,
		RefreshExp:   refreshExp,
	}, nil
}
