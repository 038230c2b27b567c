package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedEvent struct {
	Type string `json:"type"`
}

func (e namedEvent) EventName() string { return e.Type }

func TestEncode(t *testing.T) {
	t.Run("adds the event name when known", func(t *testing.T) {
		msg, err := encode(namedEvent{Type: "collection_started"})
		require.NoError(t, err)
		assert.Equal(t, "event: collection_started\ndata: {\"type\":\"collection_started\"}\n\n", string(msg))
	})

	t.Run("sends plain data otherwise", func(t *testing.T) {
		msg, err := encode(map[string]int{"n": 1})
		require.NoError(t, err)
		assert.Equal(t, "data: {\"n\":1}\n\n", string(msg))
	})
}

func TestHubStreamsEvents(t *testing.T) {
	h := New(logr.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", line)

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	h.Broadcast(namedEvent{Type: "collection_succeeded"})

	var got []string
	for len(got) < 2 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if line = strings.TrimSpace(line); line != "" {
			got = append(got, line)
		}
	}
	assert.Equal(t, []string{"event: collection_succeeded", `data: {"type":"collection_succeeded"}`}, got)
}

func TestHubOutlivesServerWriteTimeout(t *testing.T) {
	h := New(logr.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	srv := httptest.NewUnstartedServer(h)
	srv.Config.WriteTimeout = 100 * time.Millisecond
	srv.Start()
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", line)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	time.Sleep(300 * time.Millisecond)
	h.Broadcast(namedEvent{Type: "collection_started"})

	var got []string
	for len(got) < 2 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if line = strings.TrimSpace(line); line != "" {
			got = append(got, line)
		}
	}
	assert.Equal(t, "event: collection_started", got[0])
}

func TestHubRejectsAfterShutdown(t *testing.T) {
	h := New(logr.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(finished)
	}()
	cancel()
	<-finished

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
