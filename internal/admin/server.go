package admin

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/holoscene/simgate/internal/dispatch"
	"github.com/holoscene/simgate/internal/observability"
	"github.com/holoscene/simgate/internal/server"
)

// Plane is the HTTP side-channel for operators: health, metrics, the
// registered command listing, and recent traffic. It never touches the
// framed protocol.
type Plane struct {
	Version    string
	Dispatcher *dispatch.Dispatcher
	Control    *server.Server
	Recent     *server.RecentLog

	router  *gin.Engine
	started time.Time
}

func New(version string, d *dispatch.Dispatcher, srv *server.Server, recent *server.RecentLog, corsOrigins []string) *Plane {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	p := &Plane{
		Version:    version,
		Dispatcher: d,
		Control:    srv,
		Recent:     recent,
		router:     r,
		started:    time.Now(),
	}
	p.registerRoutes()
	return p
}

func (p *Plane) registerRoutes() {
	p.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"uptime":   time.Since(p.started).String(),
			"sessions": p.Control.SessionCount(),
			"version":  p.Version,
		})
	})

	p.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"uptime":  time.Since(p.started).String(),
			"version": p.Version,
		})
	})

	p.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	p.router.GET("/commands", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"commands": p.Dispatcher.Bindings(),
		})
	})

	p.router.GET("/sessions", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"sessions": p.Control.Sessions(),
		})
	})

	p.router.GET("/recent", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"recent": p.Recent.Entries(),
		})
	})
}

func (p *Plane) Router() *gin.Engine {
	return p.router
}

// Serve blocks on the admin listener.
func (p *Plane) Serve(addr string) error {
	return p.router.Run(addr)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
