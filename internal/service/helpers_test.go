package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"textok/internal/config"
	"textok/internal/security/token"
)

func newTokenProvider(t *testing.T) *token.Provider {
	t.Helper()
	p, err := token.NewProvider(config.JWTConfig{
		Secret:     "0123456789abcdef0123456789abcdef",
		AccessExp:  30 * time.Minute,
		RefreshExp: 14 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return p
}
