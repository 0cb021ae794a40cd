package handler

import (
	"context"
	"net/http"
	"shop-api/common"
	"shop-api/config"
	"shop-api/model"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserIDKey   contextKey = "userID"
	UserRoleKey contextKey = "userRole"
)

// AuthMiddleware is the authentication gate. Validation is stateless: the
// access token is self-contained, so no database read happens here. Any
// missing, malformed or expired token is rejected with 401; a failure never
// falls through to an anonymous identity.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			err := common.NewAppError(http.StatusUnauthorized, common.KindUnauthenticated, "Authorization header is required", nil)
			err.Send(w)
			return
		}

		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
			err := common.NewAppError(http.StatusUnauthorized, common.KindUnauthenticated, "Invalid authorization header format", nil)
			err.Send(w)
			return
		}

		tokenString := headerParts[1]
		claims := &model.AppClaims{}

		jwtKey := []byte(config.AppConfig.JWT.SecretKey)

		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return jwtKey, nil
		})

		if err != nil || !token.Valid {
			appErr := common.NewAppError(http.StatusUnauthorized, common.KindUnauthenticated, "Invalid or expired token", err)
			appErr.Send(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, UserRoleKey, claims.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminMiddleware authorizes the identity resolved by AuthMiddleware and must
// run after it in the chain. It denies with 403, distinct from the 401 the
// gate uses, so callers can tell authentication from authorization failures.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(UserRoleKey).(string)

		if !ok || role != string(model.RoleAdmin) {
			err := common.NewAppError(http.StatusForbidden, common.KindForbidden, "Access denied. Admin privileges required.", nil)
			err.Send(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}
