package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/database"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/http/middleware"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/models"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/store"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/ws"
)

const testSecret = "test-secret"

// newTestRouter wires the real routes against an in-memory database, the same
// way cmd/api does.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Conversation{},
		&models.Message{},
		&models.Purchase{},
	))

	st := store.New(db)
	hub := ws.NewHub()

	r := gin.New()

	authH := &AuthHandler{Store: st, JWTSecret: testSecret}
	r.POST("/api/v1/auth/register", authH.Register)
	r.POST("/api/v1/auth/login", authH.Login)

	productH := &ProductHandler{Store: st}
	r.GET("/api/v1/products", productH.List)
	r.GET("/api/v1/products/:id", productH.Get)

	authed := r.Group("/api/v1")
	authed.Use(middleware.AuthMiddleware(testSecret))

	authed.POST("/products", productH.Create)
	authed.PUT("/products/:id", productH.Update)
	authed.DELETE("/products/:id", productH.Delete)

	chatH := &ChatHandler{Store: st, Hub: hub}
	authed.POST("/chat/conversations", chatH.OpenConversation)
	authed.GET("/chat/conversations", chatH.ListConversations)
	authed.POST("/chat/conversations/:id/messages", chatH.SendMessage)
	authed.GET("/chat/conversations/:id/messages", chatH.ListMessages)

	purchaseH := &PurchaseHandler{Store: st, Hub: hub}
	authed.POST("/purchases", purchaseH.Create)
	authed.GET("/purchases", purchaseH.List)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out))
}

type authPayload struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

// registerUser creates an account through the API and returns its session.
func registerUser(t *testing.T, r *gin.Engine, username string) authPayload {
	t.Helper()

	rr := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    fmt.Sprintf("%s@example.com", username),
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var payload authPayload
	decodeBody(t, rr, &payload)
	require.NotEmpty(t, payload.Token)
	return payload
}

// createProduct lists a product through the API for the given session.
func createProduct(t *testing.T, r *gin.Engine, token, name string, price float64) models.Product {
	t.Helper()

	rr := doJSON(t, r, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"name":  name,
		"type":  "furniture",
		"price": price,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Data models.Product `json:"data"`
	}
	decodeBody(t, rr, &resp)
	return resp.Data
}
