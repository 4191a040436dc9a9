package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"khapey/internal/config"
	"khapey/internal/localstore"
	"khapey/internal/offline"
)

// scriptedFetcher answers every request with 200 until taken offline.
type scriptedFetcher struct {
	mu      sync.Mutex
	offline bool
}

func (f *scriptedFetcher) setOffline(offline bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = offline
}

func (f *scriptedFetcher) Do(ctx context.Context, req *offline.Request) (*offline.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.offline {
		return nil, errors.New("network unreachable")
	}
	return &offline.Response{
		Status: http.StatusOK,
		Body:   []byte("ok " + req.URL),
	}, nil
}

func newTestProxy(t *testing.T) (*gin.Engine, *scriptedFetcher, *offline.ClientHub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.OfflineConfig{
		CacheVersion:   "proxy-test-v1",
		ShellAssets:    []string{"/", "/offline"},
		OfflinePath:    "/offline",
		APIPathSegment: "/api/",
		SyncTagPrefix:  "khapey-sync:",
	}

	fetcher := &scriptedFetcher{}
	hub := offline.NewClientHub()
	worker := offline.NewWorker(cfg, localstore.NewMemoryStore(), fetcher, hub, zap.NewNop().Sugar())

	ctx := context.Background()
	require.NoError(t, worker.Install(ctx))
	require.NoError(t, worker.Activate(ctx))

	return newRouter(worker, hub), fetcher, hub
}

func TestStatusEndpoint(t *testing.T) {
	r, _, _ := newTestProxy(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/__offline/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"active"`)
	assert.Contains(t, w.Body.String(), `"clients":0`)
}

func TestQueueEndpointShowsFailedMutation(t *testing.T) {
	r, fetcher, _ := newTestProxy(t)
	fetcher.setOffline(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/discounts", strings.NewReader(`{"name":"Queued Deal"}`))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadGateway, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/__offline/queue?tag=discounts", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/discounts")
}

func TestQueueEndpointRequiresTag(t *testing.T) {
	r, _, _ := newTestProxy(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/__offline/queue", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncCompletedReachesSubscriber(t *testing.T) {
	r, fetcher, hub := newTestProxy(t)

	// queue a mutation while offline
	fetcher.setOffline(true)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/discounts", strings.NewReader(`{"name":"Queued Deal"}`))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadGateway, w.Code)

	// subscribe a client window to the event stream
	subCtx, cancel := context.WithCancel(context.Background())
	sub := httptest.NewRequest(http.MethodGet, "/__offline/events", nil).WithContext(subCtx)
	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		r.ServeHTTP(rec, sub)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// back online; the sync event replays the queue and notifies clients
	fetcher.setOffline(false)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/__offline/sync?tag=khapey-sync:discounts", nil))
	require.Equal(t, http.StatusOK, w.Code)

	cancel()
	<-done

	assert.Contains(t, rec.Body.String(), offline.MsgSyncCompleted)
	assert.Contains(t, rec.Body.String(), "discounts")
	assert.Equal(t, 0, hub.Clients())
}

func TestOfflineNavigationThroughProxy(t *testing.T) {
	r, fetcher, _ := newTestProxy(t)
	fetcher.setOffline(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept", "text/html")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok /offline", w.Body.String())
}
