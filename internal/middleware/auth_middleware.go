package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-clockin/internal/shared/apperror"
	"go-clockin/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// MintToken issues an HS256 access token for username.
func MintToken(secret, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || tokenString == "" {
			response.AbortError(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Token not found")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token expired"
			}
			response.AbortError(c, http.StatusUnauthorized, apperror.CodeUnauthorized, msg)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Invalid token claims")
			return
		}

		username, ok := claims["username"].(string)
		if !ok || username == "" {
			response.AbortError(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Username not found in token")
			return
		}

		c.Set("username", username)
		c.Next()
	}
}
