package servicetest

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/auth"
)

type refreshToken struct {
	userID    string
	expiresAt time.Time
	revoked   bool
	session   auth.SessionTrackingRequest
}

// JWTRepo is an in-memory postgresql.JWTRepository keyed by the raw token.
type JWTRepo struct {
	mu     sync.Mutex
	tokens map[string]refreshToken
}

func NewJWTRepo() *JWTRepo {
	return &JWTRepo{tokens: make(map[string]refreshToken)}
}

func (r *JWTRepo) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = refreshToken{userID: userID, expiresAt: time.Unix(expiresAt, 0), session: sessionReq}
	return nil
}

func (r *JWTRepo) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.tokens[token]
	if !ok {
		return "", false, auth.ErrInvalidToken
	}
	return rt.userID, rt.revoked || !rt.expiresAt.After(time.Now()), nil
}

func (r *JWTRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rt, ok := r.tokens[token]; ok {
		rt.revoked = true
		r.tokens[token] = rt
	}
	return nil
}

// Session returns the session stored with token.
func (r *JWTRepo) Session(token string) (auth.SessionTrackingRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.tokens[token]
	return rt.session, ok
}

// Len is the number of stored refresh tokens.
func (r *JWTRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}
