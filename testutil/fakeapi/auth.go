package fakeapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/guarzo/hrmapi/common/model"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"

	ctxUser = "fakeapi.user"
)

// Claims are the JWT claims of issued tokens.
type Claims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
	Gen  int    `json:"gen"`
}

// IssuePair mints a token pair for a registered user, as login would.
func (s *Server) IssuePair(email string) (model.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, found := s.users[strings.ToLower(email)]
	if !found {
		return model.TokenPair{}, fmt.Errorf("unknown user %s", email)
	}
	return s.issueLocked(u.ID)
}

func (s *Server) issueLocked(userID int) (model.TokenPair, error) {
	now := s.now()
	subject := strconv.Itoa(userID)

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			ID:        uuid.NewString(),
		},
		Type: typeAccess,
		Gen:  s.accessGen,
	})
	accessString, err := access.SignedString(s.secret)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
			ID:        uuid.NewString(),
		},
		Type: typeRefresh,
		Gen:  s.refreshGen,
	})
	refreshString, err := refresh.SignedString(s.secret)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return model.TokenPair{
		AccessToken:  accessString,
		RefreshToken: refreshString,
		TokenType:    "bearer",
		ExpiresIn:    int(s.accessTTL.Seconds()),
	}, nil
}

func (s *Server) parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	if claims.Type != wantType {
		return nil, fmt.Errorf("token type mismatch: %s", claims.Type)
	}
	return claims, nil
}

func (s *Server) userByID(id int) *user {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Server) requireAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || raw == "" {
			abortWithError(c, http.StatusUnauthorized, "Not authenticated", "UNAUTHORIZED")
			return
		}
		claims, err := s.parse(raw, typeAccess)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired token", "UNAUTHORIZED")
			return
		}

		s.mu.Lock()
		stale := claims.Gen < s.accessGen
		id, _ := strconv.Atoi(claims.Subject)
		u := s.userByID(id)
		s.mu.Unlock()

		if stale || u == nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired token", "UNAUTHORIZED")
			return
		}
		c.Set(ctxUser, u.User)
		c.Next()
	}
}

func (s *Server) handleLogin(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Password) < 6 {
		abortWithError(c, http.StatusUnprocessableEntity, "Validation failed", "VALIDATION_ERROR")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, found := s.users[strings.ToLower(strings.TrimSpace(req.Email))]
	if !found || u.password != req.Password {
		abortWithError(c, http.StatusUnauthorized, "Invalid email or password", "UNAUTHORIZED")
		return
	}
	pair, err := s.issueLocked(u.ID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error(), "INTERNAL")
		return
	}
	writeOK(c, "Login successful", pair)
}

func (s *Server) handleRefresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		abortWithError(c, http.StatusUnprocessableEntity, "Validation failed", "VALIDATION_ERROR")
		return
	}
	claims, err := s.parse(req.RefreshToken, typeRefresh)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid or expired refresh token", "UNAUTHORIZED")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if claims.Gen < s.refreshGen || s.usedJTIs[claims.ID] {
		abortWithError(c, http.StatusUnauthorized, "Invalid or expired refresh token", "UNAUTHORIZED")
		return
	}
	id, _ := strconv.Atoi(claims.Subject)
	if s.userByID(id) == nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid or expired refresh token", "UNAUTHORIZED")
		return
	}
	s.usedJTIs[claims.ID] = true

	pair, err := s.issueLocked(id)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error(), "INTERNAL")
		return
	}
	writeOK(c, "Tokens refreshed", pair)
}

func (s *Server) handleMe(c *gin.Context) {
	writeOK(c, "Success", c.MustGet(ctxUser).(model.User))
}
