package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Claims is the token payload issued by the school platform's identity service.
type Claims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tid"`
	UserID   string `json:"uid"`
	Role     string `json:"role"`
}

// Auth authenticates the bearer token and stores tenant, user and role in the
// request context.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := extractBearer(r)
			if tok == "" {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"missing bearer token"}`, http.StatusUnauthorized)
				return
			}

			ctx, err := authenticateJWT(r.Context(), tok, jwtSecret)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("auth: token rejected")
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"missing or invalid credentials"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearer(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return auth[7:]
	}
	return ""
}

func authenticateJWT(ctx context.Context, tokenStr, secret string) (context.Context, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return ctx, err
	}

	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return ctx, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return ctx, err
	}

	ctx = context.WithValue(ctx, ContextKeyTenantID, tenantID)
	ctx = context.WithValue(ctx, ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, ContextKeyUserRole, claims.Role)
	return ctx, nil
}
