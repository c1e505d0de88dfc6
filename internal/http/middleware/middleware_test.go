package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func signToken(t *testing.T, userID uint, expiresAt time.Time) string {
	t.Helper()
	claims := AuthClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": MustUserID(c)})
	})
	return r
}

func request(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestAuthMiddleware(t *testing.T) {
	r := newProtectedRouter()

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, 42, time.Now().Add(time.Hour))
		rr := request(r, "Bearer "+token)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"user_id": 42}`, rr.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		rr := request(r, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		rr := request(r, "Basic abc123")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rr := request(r, "Bearer not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, 42, time.Now().Add(-time.Hour))
		rr := request(r, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
