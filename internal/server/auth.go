package server

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/huddleup/gameplan/pkg/gameplan"
	"github.com/huddleup/gameplan/pkg/storage"
)

const tokenIssuer = "gameplan"

type ctxKey int

const userIDKey ctxKey = iota

// Auth issues and checks HS256 bearer tokens whose subject is the user id.
type Auth struct {
	key []byte
	ttl time.Duration
}

// NewAuth uses secret as the signing key; an empty secret gets a random key,
// so tokens do not survive a restart.
func NewAuth(secret []byte, ttl time.Duration) *Auth {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		_, _ = rand.Read(secret)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Auth{key: secret, ttl: ttl}
}

func (a *Auth) Issue(u gameplan.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   u.ID,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.key)
}

// ParseToken returns the user id a valid token was issued for.
func (a *Auth) ParseToken(tok string) (string, error) {
	if tok == "" {
		return "", errors.New("missing token")
	}
	var claims jwt.RegisteredClaims
	t, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil || !t.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("bad claims")
	}
	return claims.Subject, nil
}

func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		userID, err := a.ParseToken(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

// UserID returns the authenticated user id stored by RequireAuth.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	u, err := s.Store.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, storage.ErrBadCredentials) {
		respondMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	tok, err := s.auth.Issue(u)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{Token: tok, Username: u.Username})
}
