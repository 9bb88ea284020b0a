package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AdminValidator defines the interface for validating operator tokens
type AdminValidator interface {
	ValidateToken(tokenString string) (*AdminClaims, error)
}

// AdminClaims represents the claims we expect from the validator
type AdminClaims struct {
	Operator string
	TokenID  string
}

type contextKeyOperator struct{}

// ContextKeyOperator is exported for use in handlers
var ContextKeyOperator = contextKeyOperator{}

// GetOperator retrieves the authenticated operator from the context
func GetOperator(ctx context.Context) string {
	operator, ok := ctx.Value(ContextKeyOperator).(string)
	if !ok {
		return ""
	}
	return operator
}

// RequireAdmin rejects requests without a valid operator bearer token.
func RequireAdmin(validator AdminValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := chimw.GetReqID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
					"client_ip", GetClientIP(ctx),
				)
				writeUnauthorized(ctx, w, logger, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
					"client_ip", GetClientIP(ctx),
					"user_agent", GetUserAgent(ctx),
				)
				writeUnauthorized(ctx, w, logger, "Invalid or expired token")
				return
			}

			logger.DebugContext(ctx, "operator authenticated",
				"operator", claims.Operator,
				"token_id", claims.TokenID,
				"client_ip", GetClientIP(ctx),
			)
			ctx = context.WithValue(ctx, ContextKeyOperator, claims.Operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, err := w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
	if err != nil {
		logger.ErrorContext(ctx, "failed to write unauthorized response", "error", err)
	}
}
