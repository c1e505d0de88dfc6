package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/models"
)

func TestOpenConversationEnsureSemantics(t *testing.T) {
	r := newTestRouter(t)
	alice := registerUser(t, r, "alice")
	bob := registerUser(t, r, "bob")

	var first struct {
		Data models.Conversation `json:"data"`
	}
	rr := doJSON(t, r, http.MethodPost, "/api/v1/chat/conversations", alice.Token,
		map[string]uint{"receiver_id": bob.User.ID})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decodeBody(t, rr, &first)

	// Asking again, from either side, returns the same thread.
	var second struct {
		Data models.Conversation `json:"data"`
	}
	rr = doJSON(t, r, http.MethodPost, "/api/v1/chat/conversations", bob.Token,
		map[string]uint{"receiver_id": alice.User.ID})
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &second)
	assert.Equal(t, first.Data.ID, second.Data.ID)
}

func TestOpenConversationWithSelf(t *testing.T) {
	r := newTestRouter(t)
	alice := registerUser(t, r, "alice")

	rr := doJSON(t, r, http.MethodPost, "/api/v1/chat/conversations", alice.Token,
		map[string]uint{"receiver_id": alice.User.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSendAndListMessages(t *testing.T) {
	r := newTestRouter(t)
	alice := registerUser(t, r, "alice")
	bob := registerUser(t, r, "bob")
	eve := registerUser(t, r, "eve")

	var conv struct {
		Data models.Conversation `json:"data"`
	}
	rr := doJSON(t, r, http.MethodPost, "/api/v1/chat/conversations", alice.Token,
		map[string]uint{"receiver_id": bob.User.ID})
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &conv)

	msgPath := fmt.Sprintf("/api/v1/chat/conversations/%d/messages", conv.Data.ID)

	rr = doJSON(t, r, http.MethodPost, msgPath, alice.Token, map[string]string{"content": "hi bob"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = doJSON(t, r, http.MethodPost, msgPath, bob.Token, map[string]string{"content": "hi alice"})
	require.Equal(t, http.StatusCreated, rr.Code)

	// Outsiders can neither write nor read.
	rr = doJSON(t, r, http.MethodPost, msgPath, eve.Token, map[string]string{"content": "hello?"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = doJSON(t, r, http.MethodGet, msgPath, eve.Token, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, r, http.MethodGet, msgPath, bob.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var msgs struct {
		Data []models.MessageView `json:"data"`
	}
	decodeBody(t, rr, &msgs)
	require.Len(t, msgs.Data, 2)
	assert.Equal(t, "hi bob", msgs.Data[0].Content)
	assert.Equal(t, "alice", msgs.Data[0].SenderUsername)
	assert.Equal(t, "hi alice", msgs.Data[1].Content)
}

func TestSendMessageValidation(t *testing.T) {
	r := newTestRouter(t)
	alice := registerUser(t, r, "alice")
	bob := registerUser(t, r, "bob")

	var conv struct {
		Data models.Conversation `json:"data"`
	}
	rr := doJSON(t, r, http.MethodPost, "/api/v1/chat/conversations", alice.Token,
		map[string]uint{"receiver_id": bob.User.ID})
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &conv)

	msgPath := fmt.Sprintf("/api/v1/chat/conversations/%d/messages", conv.Data.ID)

	rr = doJSON(t, r, http.MethodPost, msgPath, alice.Token, map[string]string{"content": ""})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, r, http.MethodPost, "/api/v1/chat/conversations/9999/messages", alice.Token,
		map[string]string{"content": "hello"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListConversations(t *testing.T) {
	r := newTestRouter(t)
	alice := registerUser(t, r, "alice")
	bob := registerUser(t, r, "bob")
	carol := registerUser(t, r, "carol")

	for _, other := range []uint{bob.User.ID, carol.User.ID} {
		rr := doJSON(t, r, http.MethodPost, "/api/v1/chat/conversations", alice.Token,
			map[string]uint{"receiver_id": other})
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := doJSON(t, r, http.MethodGet, "/api/v1/chat/conversations", alice.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var convs struct {
		Data []models.ConversationSummary `json:"data"`
	}
	decodeBody(t, rr, &convs)
	require.Len(t, convs.Data, 2)
	names := []string{convs.Data[0].Counterpart.Username, convs.Data[1].Counterpart.Username}
	assert.ElementsMatch(t, []string{"bob", "carol"}, names)

	// Bob only sees his one thread.
	rr = doJSON(t, r, http.MethodGet, "/api/v1/chat/conversations", bob.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &convs)
	require.Len(t, convs.Data, 1)
	assert.Equal(t, "alice", convs.Data[0].Counterpart.Username)
}
