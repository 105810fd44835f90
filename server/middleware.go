package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"ActivityAdmin/cache"
	"ActivityAdmin/logger"
	"ActivityAdmin/metrics"
	"ActivityAdmin/model"
	"ActivityAdmin/service"
)

var errUnauthorized = errors.New("unauthorized")

type contextKey int

const principalKey contextKey = iota

// TokenParser verifies access tokens.
type TokenParser interface {
	Parse(token string) (model.Principal, time.Time, error)
}

// Authenticator checks bearer tokens against the signature and the revocation store.
type Authenticator struct {
	tokens   TokenParser
	sessions cache.SessionStore
}

// NewAuthenticator 创建认证中间件
func NewAuthenticator(tokens TokenParser, sessions cache.SessionStore) *Authenticator {
	return &Authenticator{tokens: tokens, sessions: sessions}
}

// AuthMiddleware rejects requests without a valid, unrevoked bearer token and puts the
// principal into the request context.
func (a *Authenticator) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			writeError(w, errUnauthorized)
			return
		}

		p, issuedAt, err := a.tokens.Parse(parts[1])
		if err != nil {
			logger.Debug("token rejected", logger.ErrorField(err))
			writeError(w, errUnauthorized)
			return
		}

		revoked, err := a.isRevoked(r.Context(), p, issuedAt)
		if err != nil {
			logger.Error("failed to check token revocation", logger.String("userId", p.UserID), logger.ErrorField(err))
			writeError(w, service.ErrStore)
			return
		}
		if revoked {
			writeError(w, errUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// isRevoked reports whether the token was logged out or issued before the user's last
// password change. Both sides are compared in milliseconds.
func (a *Authenticator) isRevoked(ctx context.Context, p model.Principal, issuedAt time.Time) (bool, error) {
	revoked, err := a.sessions.IsTokenRevoked(ctx, p.TokenID)
	if err != nil || revoked {
		return revoked, err
	}
	at, err := a.sessions.UserRevokedAt(ctx, p.UserID)
	if err != nil {
		return false, err
	}
	return !at.IsZero() && issuedAt.UnixMilli() < at.UnixMilli(), nil
}

// RequireSuper is AuthMiddleware plus the super admin check.
func (a *Authenticator) RequireSuper(next http.HandlerFunc) http.HandlerFunc {
	return a.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		if !p.IsSuper {
			logger.Warn("non super admin rejected", logger.String("username", p.Username), logger.String("path", r.URL.Path))
			writeError(w, service.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PrincipalFromContext returns the principal set by AuthMiddleware.
func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey).(model.Principal)
	return p, ok
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// metricsMiddleware counts requests by route template so ids do not explode label cardinality.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
