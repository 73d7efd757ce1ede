package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Diego200509/asotema-sub000/pkg/utils"
)

// AuthMiddleware checks if the request has a valid JWT token and puts the
// user id and role into the request context
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.RespondWithError(w, http.StatusUnauthorized, "no authorization header provided")
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				utils.RespondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}

				return []byte(jwtSecret), nil
			})

			if err != nil {
				utils.RespondWithError(w, http.StatusUnauthorized, "invalid token: "+err.Error())
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok || !token.Valid {
				utils.RespondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			userID, ok := claims["user_id"]
			if !ok {
				utils.RespondWithError(w, http.StatusUnauthorized, "invalid token: missing user_id claim")
				return
			}

			// JSON numbers decode as float64
			userIDFloat, ok := userID.(float64)
			if !ok {
				utils.RespondWithError(w, http.StatusUnauthorized, "invalid token: user_id has wrong type")
				return
			}

			ctx := context.WithValue(r.Context(), "user_id", int(userIDFloat))

			if role, ok := claims["role"].(string); ok {
				ctx = context.WithValue(ctx, "role", role)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
