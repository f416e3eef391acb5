// Package fakeapi is an in-process stand-in for the HRM REST API. It issues real
// HS256 token pairs, rotates refresh tokens on use, and lets tests expire or revoke
// tokens and inject failures.
package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guarzo/hrmapi/common/model"
)

// Routes as recorded by Calls and LastHeader.
const (
	RouteLogin       = "POST /api/v1/auth/login"
	RouteRefresh     = "POST /api/v1/auth/refresh"
	RouteMe          = "GET /api/v1/auth/me"
	RouteEcho        = "POST /api/v1/echo"
	RouteEmployees   = "GET /api/v1/employees"
	RouteEmployee    = "GET /api/v1/employees/:id"
	RouteDeleteEmp   = "DELETE /api/v1/employees/:id"
	RouteDepartments = "GET /api/v1/departments"
)

// DefaultPassword is the password of users added by AddUser when none is given.
const DefaultPassword = "admin123"

type user struct {
	model.User
	password string
}

type failure struct {
	status  int
	message string
}

// Server is a fake HRM API backed by memory.
type Server struct {
	URL string

	engine *gin.Engine
	secret []byte
	now    func() time.Time

	accessTTL  time.Duration
	refreshTTL time.Duration

	mu          sync.Mutex
	accessGen   int
	refreshGen  int
	usedJTIs    map[string]bool
	users       map[string]*user
	nextUserID  int
	employees   []model.Employee
	departments []model.Department
	nextEmpID   int
	calls       map[string]int
	headers     map[string]http.Header
	failures    map[string][]failure
}

// Option configures a Server.
type Option func(*Server)

// WithAccessTTL sets the lifetime of issued access tokens.
func WithAccessTTL(d time.Duration) Option {
	return func(s *Server) { s.accessTTL = d }
}

// WithClock overrides the clock used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New builds a Server without starting it. Use Handler to mount it.
func New(opts ...Option) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		secret:     []byte("fakeapi-secret"),
		now:        time.Now,
		accessTTL:  30 * time.Minute,
		refreshTTL: 7 * 24 * time.Hour,
		usedJTIs:   map[string]bool{},
		users:      map[string]*user{},
		calls:      map[string]int{},
		headers:    map[string]http.Header{},
		failures:   map[string][]failure{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.AddUser("admin@hrms.local", DefaultPassword, "HRMS Admin")
	s.setupRoutes()
	return s
}

// Start builds a Server and serves it on a local port until the test ends.
func Start(t testing.TB, opts ...Option) *Server {
	t.Helper()
	s := New(opts...)
	ts := httptest.NewServer(s.engine)
	t.Cleanup(ts.Close)
	s.URL = ts.URL
	return s
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// AddUser registers a login; an empty password selects DefaultPassword.
func (s *Server) AddUser(email, password, fullName string) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if password == "" {
		password = DefaultPassword
	}
	s.nextUserID++
	u := &user{
		User: model.User{
			ID:       s.nextUserID,
			Email:    strings.ToLower(email),
			FullName: fullName,
			IsActive: true,
		},
		password: password,
	}
	s.users[u.Email] = u
	return u.User
}

// AddEmployee seeds an employee and returns it with its assigned ID.
func (s *Server) AddEmployee(e model.Employee) model.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEmpID++
	e.ID = s.nextEmpID
	s.employees = append(s.employees, e)
	return e
}

// AddDepartment seeds a department.
func (s *Server) AddDepartment(d model.Department) model.Department {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = len(s.departments) + 1
	s.departments = append(s.departments, d)
	return d
}

// ExpireAccessTokens makes every access token issued so far fail authentication.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	s.accessGen++
	s.mu.Unlock()
}

// RevokeRefreshTokens makes every refresh token issued so far unusable.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	s.refreshGen++
	s.mu.Unlock()
}

// FailNext makes the next call to route answer with status and message.
func (s *Server) FailNext(route string, status int, message string) {
	s.mu.Lock()
	s.failures[route] = append(s.failures[route], failure{status: status, message: message})
	s.mu.Unlock()
}

// Calls returns how many requests route has received.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// LastHeader returns the headers of the latest request to route.
func (s *Server) LastHeader(route string) http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers[route].Clone()
}

func (s *Server) setupRoutes() {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.record())

	v1 := r.Group("/api/v1")
	auth := v1.Group("/auth")
	{
		auth.POST("/login", s.handleLogin)
		auth.POST("/refresh", s.handleRefresh)
		auth.GET("/me", s.requireAccess(), s.handleMe)
	}

	protected := v1.Group("", s.requireAccess())
	{
		protected.POST("/echo", s.handleEcho)

		protected.GET("/employees", s.handleListEmployees)
		protected.POST("/employees", s.handleCreateEmployee)
		protected.GET("/employees/:id", s.handleGetEmployee)
		protected.DELETE("/employees/:id", s.handleDeleteEmployee)

		protected.GET("/departments", s.handleListDepartments)
	}

	s.engine = r
}

// record counts calls per route and serves injected failures.
func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		route := c.Request.Method + " " + path

		s.mu.Lock()
		s.calls[route]++
		s.headers[route] = c.Request.Header.Clone()
		var injected *failure
		if queue := s.failures[route]; len(queue) > 0 {
			injected = &queue[0]
			s.failures[route] = queue[1:]
		}
		s.mu.Unlock()

		if injected != nil {
			abortWithError(c, injected.status, injected.message, "INJECTED")
			return
		}
		c.Next()
	}
}

func writeOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": data})
}

func abortWithError(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, model.ErrorEnvelope{
		Success:   false,
		Message:   message,
		ErrorCode: code,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func paginate(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

func window[T any](items []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
