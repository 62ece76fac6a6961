// Package server boots the bazaar API: configuration, database, cache,
// storage, the optional MongoDB log sink, the middleware stack, and the
// route table.
package server

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/bazaar/app/gateway"
	"github.com/shashiranjanraj/bazaar/app/media"
	"github.com/shashiranjanraj/bazaar/app/routes"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/cache"
	"github.com/shashiranjanraj/bazaar/pkg/database"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
	"github.com/shashiranjanraj/bazaar/pkg/reqid"
	"github.com/shashiranjanraj/bazaar/pkg/router"
	"github.com/shashiranjanraj/bazaar/pkg/storage"
)

// redisCache adapts pkg/cache to the orm cache seam.
type redisCache struct{}

func (redisCache) Get(key string, dest interface{}) bool {
	return cache.Get(key, dest)
}

func (redisCache) Set(key string, value interface{}, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}

// Start boots every subsystem and serves HTTP on APP_PORT. It blocks until
// the listener fails.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable, caching disabled", "error", err)
	} else {
		orm.CacheStore = redisCache{}
	}

	storage.Connect()

	if uri := config.LogMongoURI(); uri != "" {
		sink, err := logger.NewMongoHandler(uri, config.LogMongoDatabase(), config.LogMongoCollection())
		if err != nil {
			logger.Warn("server: mongo log sink disabled", "error", err)
		} else {
			logger.AttachMongoSink(sink)
		}
	}

	r := NewRouter()

	addr := ":" + config.AppPort()
	logger.Info("bazaar listening", "addr", addr, "env", config.AppEnv())

	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// NewRouter assembles the middleware stack and the route table. Split out
// of Start so the CLI's route:list can build it without binding a port.
func NewRouter() *router.Router {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(200, time.Minute),
	)

	store := media.NewDiskStore("products")
	gw := gateway.NewClient(config.Gateway())
	routes.RegisterAPI(r, store, gw)

	// Callback URLs come from the registered route table, not literals.
	gw.UseRoutes(r.URL)

	return r
}
