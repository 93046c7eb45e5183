// Package servicetest provides in-memory repositories and helpers for
// service tests.
package servicetest

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var tokenAuth = jwtauth.New("HS256", []byte("servicetest-secret"), nil)

// ContextAs returns a context authenticated as u.
func ContextAs(t *testing.T, u user.User) context.Context {
	t.Helper()
	ctx, err := jwt.ContextWithActor(context.Background(), tokenAuth, jwt.Actor{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	})
	require.NoError(t, err)
	return ctx
}

// NewID returns a fresh UUIDv7 string.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
