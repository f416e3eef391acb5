package auth_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guarzo/hrmapi/common"
	"github.com/guarzo/hrmapi/modules/auth"
	"github.com/guarzo/hrmapi/modules/credstore"
	"github.com/guarzo/hrmapi/modules/gateway"
	"github.com/guarzo/hrmapi/testutil"
	"github.com/guarzo/hrmapi/testutil/fakeapi"
)

func newSession(t *testing.T, baseURL string, store common.TokenStore) (*auth.Session, *gateway.Gateway) {
	t.Helper()
	gw := gateway.New(baseURL, common.NewHrmHttpClient("hrmapi-test", 5*time.Second, nil), store,
		gateway.WithLogger(testutil.MakeNoopLogger()))
	return auth.NewSession(auth.NewClient(gw), store, testutil.MakeNoopLogger()), gw
}

func TestSession_LoginThenMe(t *testing.T) {
	api := fakeapi.Start(t)
	store := credstore.NewState()
	session, gw := newSession(t, api.URL, store)

	user, err := session.Login(context.Background(), "Admin@HRMS.local", fakeapi.DefaultPassword)
	require.NoError(t, err)
	assert.Equal(t, "admin@hrms.local", user.Email)
	assert.True(t, session.Authenticated())
	assert.Equal(t, user, session.User())

	access, ok := store.AccessToken()
	require.True(t, ok)
	_, ok = store.RefreshToken()
	require.True(t, ok)

	assert.Empty(t, api.LastHeader(fakeapi.RouteLogin).Get("Authorization"))
	assert.Equal(t, "Bearer "+access, api.LastHeader(fakeapi.RouteMe).Get("Authorization"))
	assert.Equal(t, 0, api.Calls(fakeapi.RouteRefresh))
	assert.Equal(t, int64(0), gw.Stats().Refreshes)
}

func TestSession_LoginRejected(t *testing.T) {
	api := fakeapi.Start(t)
	store := credstore.NewState()
	session, _ := newSession(t, api.URL, store)

	_, err := session.Login(context.Background(), "admin@hrms.local", "wrong-password")
	var reqErr *common.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusUnauthorized, reqErr.StatusCode)
	assert.Equal(t, "Invalid email or password", reqErr.Message)

	assert.Equal(t, 0, api.Calls(fakeapi.RouteRefresh), "login failures never trigger a refresh")
	assert.False(t, session.Authenticated())
	_, ok := store.AccessToken()
	assert.False(t, ok)
}

func TestSession_LoginEmptyCredentials(t *testing.T) {
	session, _ := newSession(t, "http://127.0.0.1:1", credstore.NewState())

	_, err := session.Login(context.Background(), "  ", "secret")
	assert.ErrorIs(t, err, auth.ErrEmptyCredentials)
}

func TestSession_LoginWithoutData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"message":"Account locked","data":null}`)
	}))
	defer ts.Close()

	session, _ := newSession(t, ts.URL, credstore.NewState())
	_, err := session.Login(context.Background(), "admin@hrms.local", "admin123")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrIncompleteTokenPair)
	assert.Contains(t, err.Error(), "Account locked")
}

func TestSession_Restore(t *testing.T) {
	t.Run("nothing stored", func(t *testing.T) {
		api := fakeapi.Start(t)
		session, _ := newSession(t, api.URL, credstore.NewState())

		_, err := session.Restore(context.Background())
		assert.ErrorIs(t, err, auth.ErrNoSession)
		assert.Equal(t, 0, api.Calls(fakeapi.RouteMe))
	})

	t.Run("expired access token is refreshed", func(t *testing.T) {
		api := fakeapi.Start(t)
		pair, err := api.IssuePair("admin@hrms.local")
		require.NoError(t, err)
		api.ExpireAccessTokens()

		store, err := credstore.NewFileStore(filepath.Join(t.TempDir(), "tokens.json"))
		require.NoError(t, err)
		require.NoError(t, store.SetTokens(pair.AccessToken, pair.RefreshToken))

		session, _ := newSession(t, api.URL, store)
		user, err := session.Restore(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "admin@hrms.local", user.Email)
		assert.Equal(t, 1, api.Calls(fakeapi.RouteRefresh))

		// the rotated pair survives a restart
		reopened, err := credstore.NewFileStore(store.Path())
		require.NoError(t, err)
		refresh, _ := reopened.RefreshToken()
		assert.NotEqual(t, pair.RefreshToken, refresh)
	})

	t.Run("irrecoverable session is cleared", func(t *testing.T) {
		api := fakeapi.Start(t)
		pair, err := api.IssuePair("admin@hrms.local")
		require.NoError(t, err)
		api.ExpireAccessTokens()
		api.RevokeRefreshTokens()

		store := credstore.NewStateWith(pair.AccessToken, pair.RefreshToken)
		session, _ := newSession(t, api.URL, store)

		_, err = session.Restore(context.Background())
		assert.True(t, common.IsUnauthorized(err))
		_, ok := store.AccessToken()
		assert.False(t, ok)
		_, ok = store.RefreshToken()
		assert.False(t, ok)
		assert.Nil(t, session.User())
	})
}

func TestSession_Logout(t *testing.T) {
	api := fakeapi.Start(t)
	store := credstore.NewState()
	session, _ := newSession(t, api.URL, store)

	_, err := session.Login(context.Background(), "admin@hrms.local", fakeapi.DefaultPassword)
	require.NoError(t, err)

	require.NoError(t, session.Logout())
	assert.False(t, session.Authenticated())
	assert.Nil(t, session.User())
	_, ok := store.RefreshToken()
	assert.False(t, ok)
}

func TestClient_RefreshToken(t *testing.T) {
	api := fakeapi.Start(t)
	_, gw := newSession(t, api.URL, credstore.NewState())
	client := auth.NewClient(gw)

	pair, err := api.IssuePair("admin@hrms.local")
	require.NoError(t, err)

	tok, err := client.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.AccessToken)
	assert.NotEmpty(t, tok.RefreshToken)
}
