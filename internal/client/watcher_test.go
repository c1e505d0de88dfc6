package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/models"
)

// pollServer serves canned message lists and counts fetches per conversation.
type pollServer struct {
	*httptest.Server
	conv1Fetches atomic.Int32
	conv2Fetches atomic.Int32
	failSends    atomic.Bool
}

func newPollServer(t *testing.T) *pollServer {
	t.Helper()
	ps := &pollServer{}

	writeMsgs := func(w http.ResponseWriter, msgs []models.MessageView) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": msgs})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/chat/conversations/1/messages", func(w http.ResponseWriter, r *http.Request) {
		ps.conv1Fetches.Add(1)
		writeMsgs(w, []models.MessageView{
			{ID: 1, ConversationID: 1, SenderID: 2, Content: "hello", SenderUsername: "bob"},
		})
	})
	mux.HandleFunc("GET /api/v1/chat/conversations/2/messages", func(w http.ResponseWriter, r *http.Request) {
		ps.conv2Fetches.Add(1)
		writeMsgs(w, nil)
	})
	mux.HandleFunc("GET /api/v1/chat/conversations/3/messages", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "you are not part of this conversation"})
	})
	mux.HandleFunc("POST /api/v1/chat/conversations/1/messages", func(w http.ResponseWriter, r *http.Request) {
		if ps.failSends.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "internal server error"})
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": models.Message{ID: 9, ConversationID: 1, SenderID: 1, Content: "sent"},
		})
	})

	ps.Server = httptest.NewServer(mux)
	t.Cleanup(ps.Close)
	return ps
}

func newTestWatcher(t *testing.T, ps *pollServer, onUpdate func(uint, []models.MessageView)) *Watcher {
	t.Helper()
	c := New(ps.URL)
	w := NewWatcher(c, onUpdate)
	w.SetInterval(10 * time.Millisecond)
	t.Cleanup(w.Close)
	return w
}

func TestWatcherPollsAndStops(t *testing.T) {
	ps := newPollServer(t)

	updates := make(chan []models.MessageView, 64)
	w := newTestWatcher(t, ps, func(_ uint, msgs []models.MessageView) {
		updates <- msgs
	})

	msgs, err := w.Open(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Content)

	// Background refreshes arrive on the interval.
	select {
	case got := <-updates:
		assert.Len(t, got, 1)
	case <-time.After(time.Second):
		t.Fatal("no background refresh before timeout")
	}

	w.Close()
	after := ps.conv1Fetches.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, ps.conv1Fetches.Load(), "no fetches after Close")
}

func TestWatcherSwitchCancelsPrevious(t *testing.T) {
	ps := newPollServer(t)
	w := newTestWatcher(t, ps, nil)

	_, err := w.Open(context.Background(), 1)
	require.NoError(t, err)

	_, err = w.Open(context.Background(), 2)
	require.NoError(t, err)

	conv1After := ps.conv1Fetches.Load()
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, conv1After, ps.conv1Fetches.Load(),
		"switching conversations must cancel the old poll loop")
	assert.Greater(t, ps.conv2Fetches.Load(), int32(1),
		"the new conversation keeps polling")
}

func TestWatcherForegroundFetchSurfacesError(t *testing.T) {
	ps := newPollServer(t)
	w := newTestWatcher(t, ps, nil)

	_, err := w.Open(context.Background(), 3)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestWatcherPendingLifecycle(t *testing.T) {
	ps := newPollServer(t)
	w := newTestWatcher(t, ps, nil)

	_, err := w.Open(context.Background(), 1)
	require.NoError(t, err)

	msg, err := w.Send(context.Background(), "hi there")
	require.NoError(t, err)
	assert.EqualValues(t, 9, msg.ID)

	// The optimistic entry disappears once an authoritative fetch covers it.
	require.Eventually(t, func() bool {
		return len(w.Pending()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestWatcherSendFailureDropsPending(t *testing.T) {
	ps := newPollServer(t)
	w := newTestWatcher(t, ps, nil)

	_, err := w.Open(context.Background(), 1)
	require.NoError(t, err)

	ps.failSends.Store(true)
	_, err = w.Send(context.Background(), "will fail")
	require.Error(t, err)
	assert.Empty(t, w.Pending(), "failed sends must not linger as pending entries")
}
