package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/config"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/database"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/http/handlers"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/http/middleware"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/models"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/store"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/ws"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.DBDSN == "" || cfg.JWTSecret == "" {
		log.Fatal("DB_DSN and JWT_SECRET must be set")
	}

	lg := logger.New(cfg.LogLevel, cfg.LogJSON)

	db, err := database.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("failed connect db:", err)
	}

	// Auto-migrate tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Conversation{},
		&models.Message{},
		&models.Purchase{},
	); err != nil {
		log.Fatal("failed migrate:", err)
	}

	st := store.New(db)
	hub := ws.NewHub()

	r := gin.Default()

	// Auth
	authH := &handlers.AuthHandler{Store: st, JWTSecret: cfg.JWTSecret, Logger: lg}
	r.POST("/api/v1/auth/register", authH.Register)
	r.POST("/api/v1/auth/login", authH.Login)

	// Public catalog
	productH := &handlers.ProductHandler{Store: st, Logger: lg}
	r.GET("/api/v1/products", productH.List)
	r.GET("/api/v1/products/:id", productH.Get)

	// WebSocket notification stream
	wsH := &handlers.WSHandler{
		Hub:                  hub,
		JWTSecret:            cfg.JWTSecret,
		WSInsecureSkipVerify: cfg.WSInsecureSkipVerify,
	}
	r.GET("/ws", wsH.Handle)

	// Protected routes
	authed := r.Group("/api/v1")
	authed.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	authed.POST("/products", productH.Create)
	authed.PUT("/products/:id", productH.Update)
	authed.DELETE("/products/:id", productH.Delete)

	chatH := &handlers.ChatHandler{Store: st, Hub: hub, Logger: lg}
	authed.POST("/chat/conversations", chatH.OpenConversation)
	authed.GET("/chat/conversations", chatH.ListConversations)
	authed.POST("/chat/conversations/:id/messages", chatH.SendMessage)
	authed.GET("/chat/conversations/:id/messages", chatH.ListMessages)

	purchaseH := &handlers.PurchaseHandler{Store: st, Hub: hub, Logger: lg}
	authed.POST("/purchases", purchaseH.Create)
	authed.GET("/purchases", purchaseH.List)

	addr := fmt.Sprintf(":%d", cfg.Port)
	lg.Info("listening", "addr", addr)
	log.Fatal(r.Run(addr))
}
