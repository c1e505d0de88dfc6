package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/http/middleware"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/store"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/ws"
)

type ChatHandler struct {
	Store  *store.Store
	Hub    *ws.Hub
	Logger *slog.Logger
}

type openConversationReq struct {
	ReceiverID uint `json:"receiver_id" binding:"required"`
}

// OpenConversation finds or creates the thread between the caller and the
// receiver. Answers 200 either way: the caller gets the same conversation no
// matter how many times it asks.
func (h *ChatHandler) OpenConversation(c *gin.Context) {
	userID := middleware.MustUserID(c)

	var req openConversationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	conv, err := h.Store.EnsureConversation(c.Request.Context(), userID, req.ReceiverID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": conv})
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID := middleware.MustUserID(c)

	convs, err := h.Store.ConversationsFor(c.Request.Context(), userID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": convs})
}

type sendMessageReq struct {
	Content string `json:"content" binding:"required"`
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID := middleware.MustUserID(c)
	convID, ok := paramID(c)
	if !ok {
		return
	}

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := h.Store.AppendMessage(c.Request.Context(), convID, userID, req.Content)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	if h.Hub != nil {
		if participants, err := h.Store.Participants(c.Request.Context(), convID); err == nil {
			h.Hub.BroadcastToUsers(participants, ws.Event{Type: ws.EventMessageNew, Data: msg})
		}
	}

	c.JSON(http.StatusCreated, gin.H{"data": msg})
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID := middleware.MustUserID(c)
	convID, ok := paramID(c)
	if !ok {
		return
	}

	msgs, err := h.Store.MessagesFor(c.Request.Context(), convID, userID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": msgs})
}
