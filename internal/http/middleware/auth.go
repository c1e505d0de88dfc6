package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/pkg/errors"
)

type AuthClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the Authorization bearer token and stores the
// caller's user id in the gin context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			abortUnauthenticated(c, apperrors.ErrMissingToken)
			return
		}

		tokenStr := strings.TrimPrefix(h, "Bearer ")
		userID, err := ParseUserID(tokenStr, jwtSecret)
		if err != nil {
			abortUnauthenticated(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// ParseUserID verifies a token and extracts the user id claim. Shared with the
// websocket handler, which receives the token as a query parameter.
func ParseUserID(tokenStr, secret string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AuthClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || claims.UserID == 0 {
		return 0, apperrors.ErrInvalidToken
	}
	return claims.UserID, nil
}

func MustUserID(c *gin.Context) uint {
	v, _ := c.Get("userID")
	return v.(uint)
}

func abortUnauthenticated(c *gin.Context, err error) {
	appErr, _ := apperrors.AsAppError(err)
	c.AbortWithStatusJSON(apperrors.HTTPStatus(appErr.Code), gin.H{"message": appErr.Message})
}
