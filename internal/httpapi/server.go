// Package httpapi exposes question generation over HTTP with gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/quizgen/internal/logger"
)

type RouterConfig struct {
	Log       *logger.Logger
	Generator Generator

	// AllowOrigins enables CORS for the listed origins. Empty disables it.
	AllowOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(cfg.Log))
	if len(cfg.AllowOrigins) > 0 {
		router.Use(CORS(cfg.AllowOrigins))
	}

	questions := NewQuestionHandler(cfg.Log, cfg.Generator)

	router.GET("/healthz", HealthCheck)
	api := router.Group("/api")
	{
		api.GET("/question-types", questions.Types)
		api.POST("/questions/generate", questions.Generate)
	}
	return router
}

type Server struct {
	Engine *gin.Engine
	log    *logger.Logger
}

func NewServer(cfg RouterConfig) *Server {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Server{Engine: NewRouter(cfg), log: log}
}

// Run serves on address until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.Engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", address)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.log.Info("shutting down", "addr", address)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
