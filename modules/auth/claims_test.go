package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guarzo/hrmapi/modules/auth"
	"github.com/guarzo/hrmapi/testutil/fakeapi"
)

func TestInspect(t *testing.T) {
	issued := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	api := fakeapi.New(fakeapi.WithClock(func() time.Time { return issued }), fakeapi.WithAccessTTL(15*time.Minute))

	pair, err := api.IssuePair("admin@hrms.local")
	require.NoError(t, err)

	info, err := auth.Inspect(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "1", info.Subject)
	assert.Equal(t, "access", info.Type)
	assert.True(t, info.IssuedAt.Equal(issued))
	assert.True(t, info.ExpiresAt.Equal(issued.Add(15*time.Minute)))
	assert.False(t, info.Expired(issued.Add(14*time.Minute)))
	assert.True(t, info.Expired(issued.Add(15*time.Minute)))

	refresh, err := auth.Inspect(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refresh.Type)
}

func TestInspect_Malformed(t *testing.T) {
	_, err := auth.Inspect("not-a-jwt")
	assert.Error(t, err)
}
