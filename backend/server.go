// Package backend serves the trip and nearby generation endpoints and the
// saved-trips API over gin.
package backend

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderplan/config"
	"wanderplan/models"
	"wanderplan/planner"
)

// Generator produces packages and nearby places. *gemini.Client satisfies it.
type Generator interface {
	GeneratePackage(ctx context.Context, city string) (*models.TravelPackage, error)
	DiscoverNearby(ctx context.Context, lat, lng float64, city string) ([]models.Place, error)
}

type Server struct {
	cfg     config.ServerConfig
	gen     Generator
	store   planner.Store
	cache   *responseCache
	limiter *rateLimiter
	log     *zap.Logger
	engine  *gin.Engine
}

// New builds the server and its routes. gen may be nil, in which case the
// generation endpoints answer 500.
func New(cfg config.ServerConfig, gen Generator, store planner.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if store == nil {
		store = planner.NewMemoryStore()
	}
	s := &Server{
		cfg:     cfg,
		gen:     gen,
		store:   store,
		cache:   newResponseCache(cfg.CacheTTL),
		limiter: newRateLimiter(cfg.RatePerMinute, cfg.Burst),
		log:     log,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(s.log))

	// CORS for the browser front end
	origins := s.cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		// generation
		api.POST("/trip", s.limiter.middleware(), s.generateTrip)
		api.POST("/nearby", s.limiter.middleware(), s.discoverNearby)

		// saved trips
		api.GET("/saved", s.listSaved)
		api.GET("/saved/:city", s.getSaved)
		api.POST("/saved/toggle", s.toggleSaved)
		api.PUT("/saved/:city/itinerary", s.updateSavedItinerary)
		api.DELETE("/saved/:city", s.deleteSaved)

		// health
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
				"time":   time.Now(),
			})
		})
	}
	return r
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server running", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
