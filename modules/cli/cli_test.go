package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guarzo/hrmapi/common"
	"github.com/guarzo/hrmapi/common/config"
	"github.com/guarzo/hrmapi/common/model"
	"github.com/guarzo/hrmapi/modules/auth"
	"github.com/guarzo/hrmapi/modules/cli"
	"github.com/guarzo/hrmapi/testutil"
	"github.com/guarzo/hrmapi/testutil/fakeapi"
)

func newTestConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	return &config.Config{
		API: config.API{
			URL:       apiURL,
			Timeout:   5 * time.Second,
			UserAgent: "hrmctl-test",
		},
		Tokens: config.Tokens{
			Store: "file",
			Path:  filepath.Join(t.TempDir(), "tokens.json"),
		},
	}
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := cli.NewApp(cfg, &out, testutil.MakeNoopLogger()).Execute(context.Background(), args)
	return out.String(), err
}

func TestExecute_SessionLifecycle(t *testing.T) {
	api := fakeapi.Start(t)
	cfg := newTestConfig(t, api.URL)

	out, err := run(t, cfg, "login", "--email", "admin@hrms.local", "--password", fakeapi.DefaultPassword)
	require.NoError(t, err)
	var user model.User
	require.NoError(t, json.Unmarshal([]byte(out), &user))
	assert.Equal(t, "admin@hrms.local", user.Email)

	// a fresh process picks the pair up from disk
	out, err = run(t, cfg, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, `"email": "admin@hrms.local"`)

	out, err = run(t, cfg, "token")
	require.NoError(t, err)
	var report struct {
		Access        auth.TokenInfo `json:"access"`
		Refresh       auth.TokenInfo `json:"refresh"`
		AccessExpired bool           `json:"access_expired"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "access", report.Access.Type)
	assert.Equal(t, "refresh", report.Refresh.Type)
	assert.False(t, report.AccessExpired)

	_, err = run(t, cfg, "logout")
	require.NoError(t, err)

	_, err = run(t, cfg, "whoami")
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestExecute_ResourcesRefreshExpiredToken(t *testing.T) {
	api := fakeapi.Start(t)
	api.AddDepartment(model.Department{Name: "Engineering", Code: "ENG"})
	api.AddEmployee(model.Employee{EmployeeID: "E-1", FullName: "Ada", Email: "ada@hrms.local", IsActive: true})
	api.AddEmployee(model.Employee{EmployeeID: "E-2", FullName: "Bob", Email: "bob@hrms.local", IsActive: false})
	cfg := newTestConfig(t, api.URL)

	_, err := run(t, cfg, "login", "--email", "admin@hrms.local", "--password", fakeapi.DefaultPassword)
	require.NoError(t, err)
	api.ExpireAccessTokens()

	out, err := run(t, cfg, "employees", "--active", "true")
	require.NoError(t, err)
	var page model.Page[model.EmployeeListItem]
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Ada", page.Data[0].FullName)
	assert.Equal(t, 1, api.Calls(fakeapi.RouteRefresh))

	out, err = run(t, cfg, "departments", "--per-page", "5")
	require.NoError(t, err)
	assert.Contains(t, out, `"code": "ENG"`)

	out, err = run(t, cfg, "get", "/api/v1/departments")
	require.NoError(t, err)
	assert.Contains(t, out, `"code": "ENG"`)
	assert.Equal(t, 1, api.Calls(fakeapi.RouteRefresh), "the rotated pair was persisted")
}

func TestExecute_Errors(t *testing.T) {
	api := fakeapi.Start(t)
	cfg := newTestConfig(t, api.URL)

	tests := []struct {
		name      string
		args      []string
		wantUsage bool
	}{
		{name: "no command", args: nil, wantUsage: true},
		{name: "unknown command", args: []string{"payroll"}, wantUsage: true},
		{name: "login without password", args: []string{"login", "--email", "admin@hrms.local"}, wantUsage: true},
		{name: "unknown flag", args: []string{"departments", "--size", "3"}, wantUsage: true},
		{name: "bad active flag", args: []string{"employees", "--active", "maybe"}, wantUsage: true},
		{name: "get without path", args: []string{"get"}, wantUsage: true},
		{name: "wrong password", args: []string{"login", "--email", "admin@hrms.local", "--password", "nope-nope"}},
		{name: "token without session", args: []string{"token"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, cfg, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantUsage, errors.Is(err, cli.ErrUsage))
		})
	}
}

func TestExecute_WrongPasswordIsUnauthorized(t *testing.T) {
	api := fakeapi.Start(t)
	_, err := run(t, newTestConfig(t, api.URL), "login", "--email", "admin@hrms.local", "--password", "nope-nope")
	assert.True(t, common.IsUnauthorized(err))
}
