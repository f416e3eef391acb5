// Package cli implements the hrmctl commands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/guarzo/hrmapi/common"
	"github.com/guarzo/hrmapi/common/config"
	"github.com/guarzo/hrmapi/common/logger"
	"github.com/guarzo/hrmapi/modules/auth"
	"github.com/guarzo/hrmapi/modules/credstore"
	"github.com/guarzo/hrmapi/modules/gateway"
	"github.com/guarzo/hrmapi/modules/hrm"
)

var ErrUsage = errors.New("usage")

// App runs one command against the configured API.
type App struct {
	cfg    *config.Config
	out    io.Writer
	logger *logger.Logger
	now    func() time.Time
}

// NewApp creates an App writing command output to out.
func NewApp(cfg *config.Config, out io.Writer, l *logger.Logger) *App {
	return &App{cfg: cfg, out: out, logger: l, now: time.Now}
}

// PrintUsage writes the command synopsis to w.
func PrintUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: hrmctl login --email <email> --password <password>")
	fmt.Fprintln(w, "       hrmctl logout")
	fmt.Fprintln(w, "       hrmctl whoami")
	fmt.Fprintln(w, "       hrmctl token")
	fmt.Fprintln(w, "       hrmctl get <path>")
	fmt.Fprintln(w, "       hrmctl employees [--page n] [--per-page n] [--department name] [--department-id id] [--active true|false]")
	fmt.Fprintln(w, "       hrmctl departments [--page n] [--per-page n]")
}

func usageError() error {
	return fmt.Errorf("%w: hrmctl <login|logout|whoami|token|get|employees|departments> [...]", ErrUsage)
}

// Execute dispatches args to a command.
func (a *App) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usageError()
	}

	switch args[0] {
	case "login":
		return a.runLogin(ctx, args[1:])
	case "logout":
		return a.runLogout(ctx)
	case "whoami":
		return a.runWhoami(ctx)
	case "token":
		return a.runToken(ctx)
	case "get":
		return a.runGet(ctx, args[1:])
	case "employees":
		return a.runEmployees(ctx, args[1:])
	case "departments":
		return a.runDepartments(ctx, args[1:])
	default:
		return usageError()
	}
}

// deps is everything a command may need, built from the config.
type deps struct {
	store   credstore.Store
	gateway *gateway.Gateway
	session *auth.Session
	hrm     *hrm.Client
}

func (a *App) open(ctx context.Context) (*deps, error) {
	store, err := credstore.Open(ctx, a.cfg.Tokens.Store, a.cfg.Tokens.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	httpClient := common.NewHrmHttpClient(a.cfg.API.UserAgent, a.cfg.API.Timeout, nil)
	gw := gateway.New(a.cfg.API.URL, httpClient, store, gateway.WithLogger(a.logger))
	authClient := auth.NewClient(gw)

	return &deps{
		store:   store,
		gateway: gw,
		session: auth.NewSession(authClient, store, a.logger),
		hrm:     hrm.NewClient(gw),
	}, nil
}

func (d *deps) close(l *logger.Logger) {
	s := d.gateway.Stats()
	l.Debug("gateway stats",
		"calls", s.Calls,
		"refreshes", s.Refreshes,
		"refresh_failures", s.RefreshFailures,
		"retries", s.Retries,
		"failures", s.Failures,
	)
	if err := d.store.Close(); err != nil {
		l.Warn("failed to close token store", "error", err)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUsage, fs.Name(), err)
	}
	return nil
}

func (a *App) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("%w: login requires --email and --password", ErrUsage)
	}

	d, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer d.close(a.logger)

	user, err := d.session.Login(ctx, *email, *password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return a.print(user)
}

func (a *App) runLogout(ctx context.Context) error {
	d, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer d.close(a.logger)

	if err := d.session.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	return a.print(map[string]bool{"logged_out": true})
}

func (a *App) runWhoami(ctx context.Context) error {
	d, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer d.close(a.logger)

	user, err := d.session.Restore(ctx)
	if err != nil {
		return err
	}
	return a.print(user)
}

type tokenReport struct {
	Access        *auth.TokenInfo `json:"access"`
	Refresh       *auth.TokenInfo `json:"refresh"`
	AccessExpired bool            `json:"access_expired"`
}

// runToken shows the stored pair's claims. It makes no network calls.
func (a *App) runToken(ctx context.Context) error {
	d, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer d.close(a.logger)

	report := tokenReport{}
	if access, ok := d.store.AccessToken(); ok {
		if report.Access, err = auth.Inspect(access); err != nil {
			return fmt.Errorf("stored access token: %w", err)
		}
		report.AccessExpired = report.Access.Expired(a.now())
	}
	if refresh, ok := d.store.RefreshToken(); ok {
		if report.Refresh, err = auth.Inspect(refresh); err != nil {
			return fmt.Errorf("stored refresh token: %w", err)
		}
	}
	if report.Access == nil && report.Refresh == nil {
		return auth.ErrNoSession
	}
	return a.print(report)
}

func (a *App) runGet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: get requires exactly one path", ErrUsage)
	}

	d, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer d.close(a.logger)

	resp, err := d.gateway.Send(ctx, gateway.Request{Method: http.MethodGet, Path: args[0]})
	if err != nil {
		return err
	}
	return a.print(json.RawMessage(resp.Body))
}

func (a *App) runEmployees(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("employees", flag.ContinueOnError)
	page := fs.Int("page", 0, "page number")
	perPage := fs.Int("per-page", 0, "page size")
	department := fs.String("department", "", "department name")
	departmentID := fs.Int("department-id", 0, "department id")
	active := fs.String("active", "", "filter by active flag (true or false)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	filter := hrm.EmployeeFilter{
		PageOptions:  hrm.PageOptions{Page: *page, PerPage: *perPage},
		Department:   *department,
		DepartmentID: *departmentID,
	}
	if *active != "" {
		v, err := strconv.ParseBool(*active)
		if err != nil {
			return fmt.Errorf("%w: --active must be true or false", ErrUsage)
		}
		filter.IsActive = &v
	}

	d, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer d.close(a.logger)

	result, err := d.hrm.Employees.List(ctx, filter)
	if err != nil {
		return err
	}
	return a.print(result)
}

func (a *App) runDepartments(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("departments", flag.ContinueOnError)
	page := fs.Int("page", 0, "page number")
	perPage := fs.Int("per-page", 0, "page size")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	d, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer d.close(a.logger)

	result, err := d.hrm.Departments.List(ctx, hrm.PageOptions{Page: *page, PerPage: *perPage})
	if err != nil {
		return err
	}
	return a.print(result)
}

func (a *App) print(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
