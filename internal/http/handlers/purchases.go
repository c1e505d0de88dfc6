package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/http/middleware"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/store"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/ws"
)

type PurchaseHandler struct {
	Store  *store.Store
	Hub    *ws.Hub
	Logger *slog.Logger
}

type createPurchaseReq struct {
	ProductID uint `json:"product_id" binding:"required"`
}

func (h *PurchaseHandler) Create(c *gin.Context) {
	userID := middleware.MustUserID(c)

	var req createPurchaseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	purchase, conv, err := h.Store.CreatePurchase(c.Request.Context(), userID, req.ProductID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	if h.Hub != nil {
		h.Hub.BroadcastToUsers([]uint{purchase.SellerID}, ws.Event{Type: ws.EventPurchaseCompleted, Data: purchase})
	}

	c.JSON(http.StatusCreated, gin.H{
		"purchase":     purchase,
		"conversation": conv,
	})
}

func (h *PurchaseHandler) List(c *gin.Context) {
	userID := middleware.MustUserID(c)

	purchases, err := h.Store.PurchasesFor(c.Request.Context(), userID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": purchases})
}
