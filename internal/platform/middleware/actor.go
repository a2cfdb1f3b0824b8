package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"gavel/pkg/requestcontext"
)

// ActorValidator validates a bearer token into actor claims. Authentication
// mechanics live upstream; this layer only resolves who is acting.
type ActorValidator interface {
	ValidateToken(tokenString string) (*ActorClaims, error)
}

// ActorClaims carries the resolved actor identity from the token validator.
type ActorClaims struct {
	ActorID string
	Roles   []string
}

// GetActorID retrieves the resolved actor identity from the context.
func GetActorID(ctx context.Context) string {
	return requestcontext.ActorID(ctx)
}

// RequireActor resolves the acting identity from the Authorization header
// before any mutating governance operation. Requests without a valid bearer
// token are rejected with 401.
func RequireActor(validator ActorValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithActor(ctx, claims.ActorID, claims.Roles)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
