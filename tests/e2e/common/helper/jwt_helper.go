//go:build e2e

package helper

import (
	"testing"

	"fleetrent/internal/domain/user"
	"fleetrent/internal/pkg/config"
	"fleetrent/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTTestHelper mints tokens directly so tests can authenticate
// without going through the login endpoint each time.
type JWTTestHelper struct {
	svc *jwt.Service
}

func NewJWTTestHelper(cfg config.JWTConfig) *JWTTestHelper {
	return &JWTTestHelper{svc: jwt.NewService(cfg.Secret, cfg.Duration)}
}

func (h *JWTTestHelper) TokenFor(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()

	token, err := h.svc.GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}
