package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hkondo/secretbase/internal/common"
	"github.com/hkondo/secretbase/internal/server/auth"
)

type ctxKey string

const (
	userIDKey    ctxKey = "userID"
	requestIDKey ctxKey = "requestID"
)

// requireAuth is the auth gate. State machine per request:
// no token -> 401; token present -> verify; verify fails -> 403;
// verify succeeds -> attach identity, record liveness, proceed.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get(common.AuthorizationHeader)
		if header == "" || !strings.HasPrefix(header, common.BearerPrefix) {
			s.writeError(w, r, common.ErrorUnauthenticated)
			return
		}
		token := strings.TrimPrefix(header, common.BearerPrefix)
		if token == "" {
			s.writeError(w, r, common.ErrorUnauthenticated)
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		// Liveness is recorded on every authenticated request, best effort:
		// a failed write is logged and swallowed, never failing the request.
		go func(userID int64) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.users.TouchLastAccess(ctx, userID); err != nil {
				s.logger.Warn(ctx, "failed to record last access", "user_id", userID, "error", err.Error())
			}
		}(userID)

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), requestIDKey, uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userIDFromContext returns the identity attached by requireAuth. The bool is
// false only if a handler was somehow mounted without the middleware.
func userIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
