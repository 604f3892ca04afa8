// Package middleware resolves the caller's workspace from its bearer
// token and enforces per-client rate limits.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/sabiboss/internal/auth"
	"github.com/rogerio-castellano/sabiboss/internal/http/ban"
	rl "github.com/rogerio-castellano/sabiboss/internal/http/rate_limiter"
	"github.com/rogerio-castellano/sabiboss/internal/workspace"
)

type contextKey string

const (
	workspaceKey = contextKey("workspace")
	tokenKey     = contextKey("token")
)

// Auth rejects requests without a live session and stores the caller's
// workspace in the request context.
func Auth(reg *workspace.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing or invalid token", http.StatusUnauthorized)
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")

			ws, err := reg.Resolve(r.Context(), token)
			if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrTokenExpired) {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			if err != nil {
				http.Error(w, "could not restore session", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), workspaceKey, ws)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Workspace returns the workspace Auth resolved, or nil.
func Workspace(r *http.Request) *workspace.Workspace {
	ws, _ := r.Context().Value(workspaceKey).(*workspace.Workspace)
	return ws
}

func Token(r *http.Request) string {
	tok, _ := r.Context().Value(tokenKey).(string)
	return tok
}

// RateLimit throttles each client IP. With a guard, repeated
// violations turn into a temporary ban.
func RateLimit(limiters *rl.Limiters, guard *ban.Guard, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			if guard != nil {
				banned, ttl, err := guard.Banned(r.Context(), ip)
				if err != nil {
					logger.Error("ban lookup failed", "ip", ip, "error", err)
				} else if banned {
					w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())+1))
					http.Error(w, "too many requests, try again later", http.StatusForbidden)
					return
				}
			}

			if !limiters.Get(ip).Allow() {
				if guard != nil {
					if _, err := guard.Strike(r.Context(), ip, r.URL.Path); err != nil {
						logger.Error("ban strike failed", "ip", ip, "error", err)
					}
				}
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
