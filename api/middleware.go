package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/logging"
	"github.com/linesmerrill/case-tracker-api/models"
)

// tokenCacheTTL bounds how long a verified token is trusted without re-parsing
const tokenCacheTTL = 5 * time.Minute

// Claims are the identity provider's token claims. Subject is the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// MiddlewareDB authenticates requests against the identity provider's
// tokens and the user collection
type MiddlewareDB struct {
	DB     databases.UserDatabase
	Secret []byte

	authenticator auth.Authenticator
}

// SetupGoGuardian sets up the go-guardian bearer strategy
func (m *MiddlewareDB) SetupGoGuardian() {
	cache := store.NewFIFO(context.Background(), tokenCacheTTL)
	m.authenticator = auth.New()
	m.authenticator.EnableStrategy(bearer.CachedStrategyKey, bearer.New(m.verifyToken, cache))
}

// verifyToken checks the token signature and expiry and extracts the
// user id and role
func (m *MiddlewareDB) verifyToken(_ context.Context, _ *http.Request, token string) (auth.Info, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Subject == "" || !models.Role(claims.Role).Valid() {
		return nil, errors.New("token is missing subject or role")
	}
	return auth.NewDefaultUser(claims.Subject, claims.Subject, []string{claims.Role}, nil), nil
}

func unauthorized(w http.ResponseWriter, r *http.Request, reason string, err error) {
	logging.FromContext(r.Context()).Errorw("unauthorized", "url", r.URL.Path, "reason", reason, "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error": "unauthorized"}`))
}

// Middleware authenticates the bearer token and puts the caller's Actor on
// the request context. Websocket clients may pass the token as ?token=.
func (m *MiddlewareDB) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			if token := r.URL.Query().Get("token"); token != "" {
				r.Header.Set("Authorization", "Bearer "+token)
			}
		}
		info, err := m.authenticator.Authenticate(r)
		if err != nil {
			unauthorized(w, r, "token rejected", err)
			return
		}

		id, err := primitive.ObjectIDFromHex(info.ID())
		if err != nil {
			unauthorized(w, r, "token subject is not a user id", err)
			return
		}
		user, err := m.DB.FindByID(r.Context(), id)
		if err != nil {
			unauthorized(w, r, "unknown user", err)
			return
		}
		if !user.Details.IsActive || len(info.Groups()) == 0 || info.Groups()[0] != string(user.Details.Role) {
			unauthorized(w, r, "user inactive or role changed", nil)
			return
		}
		actor, err := models.NewActor(*user)
		if err != nil {
			unauthorized(w, r, "incomplete user profile", err)
			return
		}

		zap.S().Debugw("user authenticated", "userID", id.Hex(), "role", actor.Role())
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequestIDMiddleware tags every request with an id, reusing X-Request-ID when the caller sends one
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}
