package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"khapey/internal/config"
	"khapey/internal/localstore"
	"khapey/internal/logger"
	"khapey/internal/offline"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// offline-proxy fronts the portal with the offline engine: requests are
// served under the cache strategies, failed mutations land in the sync
// queue, and sync events can be delivered over the control endpoints.
func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	upstream := os.Getenv("UPSTREAM_URL")
	if upstream == "" {
		log.Fatal("❌ Missing env var: UPSTREAM_URL")
	}

	cfg, err := config.Init()
	if err != nil {
		log.Fatal("❌ Config load failed:", err)
	}

	zlog := logger.Get()
	defer logger.Sync()

	// ───────────────────────── ENGINE ─────────────────────────
	store := localstore.NewMemoryStore()
	hub := offline.NewClientHub()
	fetcher := &offline.RebaseFetcher{
		Base: upstream,
		Next: offline.NewHTTPFetcher(nil),
	}
	worker := offline.NewWorker(cfg.Offline, store, fetcher, hub, zlog)

	ctx := context.Background()
	if err := worker.Install(ctx); err != nil {
		log.Fatal("❌ Shell precache failed:", err)
	}
	if err := worker.Activate(ctx); err != nil {
		log.Fatal("❌ Activation failed:", err)
	}

	r := newRouter(worker, hub)

	addr := os.Getenv("PROXY_ADDRESS")
	if addr == "" {
		addr = ":8090"
	}
	log.Printf("🚀 Offline proxy running at http://localhost%s -> %s", addr, upstream)
	r.Run(addr)
}

// newRouter mounts the control surface and the engine catch-all.
func newRouter(worker *offline.Worker, hub *offline.ClientHub) *gin.Engine {
	r := gin.Default()

	// ───────────────────────── CONTROL ROUTES ─────────────────────────
	r.GET("/__offline/status", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"state":   worker.State().String(),
			"clients": hub.Clients(),
		})
	})

	r.GET("/__offline/queue", func(c *gin.Context) {
		tag := c.Query("tag")
		if tag == "" {
			c.JSON(400, gin.H{"error": "missing tag"})
			return
		}
		items, err := worker.Queue().Pending(tag)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"pending": items})
	})

	r.POST("/__offline/sync", func(c *gin.Context) {
		tag := c.Query("tag")
		if err := worker.HandleSync(c.Request.Context(), tag); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"processed": tag})
	})

	r.POST("/__offline/message", func(c *gin.Context) {
		var msg offline.Message
		if err := c.ShouldBindJSON(&msg); err != nil {
			c.JSON(400, gin.H{"error": "invalid message"})
			return
		}
		if err := worker.HandleMessage(c.Request.Context(), msg); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"ok": true})
	})

	// clients subscribe here; sync-completed notifications stream out
	// as server-sent events so the UI can refresh
	r.GET("/__offline/events", func(c *gin.Context) {
		id, ch := hub.Register()
		defer hub.Unregister(id)

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Writer.Flush()

		streamEvents(c, ch)
	})

	// everything else goes through the engine
	r.NoRoute(func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)

		req := &offline.Request{
			Method:   c.Request.Method,
			URL:      c.Request.URL.RequestURI(),
			Header:   c.Request.Header,
			Body:     body,
			Navigate: isNavigation(c.Request),
		}

		resp, err := worker.HandleFetch(c.Request.Context(), req)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "upstream unreachable"})
			return
		}

		for k, vs := range resp.Header {
			for _, v := range vs {
				c.Writer.Header().Add(k, v)
			}
		}
		c.Status(resp.Status)
		c.Writer.Write(resp.Body)
	})

	return r
}

// streamEvents relays hub messages to one subscriber until it
// disconnects. Messages already queued at disconnect are still
// delivered before the stream closes.
func streamEvents(c *gin.Context, ch <-chan offline.Message) {
	write := func(msg offline.Message) {
		c.SSEvent("message", msg)
		c.Writer.Flush()
	}

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			write(msg)
		case <-c.Request.Context().Done():
			for {
				select {
				case msg, ok := <-ch:
					if !ok {
						return
					}
					write(msg)
				default:
					return
				}
			}
		}
	}
}

func isNavigation(r *http.Request) bool {
	return r.Method == http.MethodGet &&
		strings.Contains(r.Header.Get("Accept"), "text/html")
}
