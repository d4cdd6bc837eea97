package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"taxiflow/server/handler"
	"taxiflow/storage"
	"taxiflow/utils"
)

const shutdownTimeout = 5 * time.Second

type ServerConfig struct {
	Port         string `yaml:"port"`
	IP           string `yaml:"ip"`
	DatabasePath string `yaml:"database_path"`
	DefaultLimit int    `yaml:"default_limit"`
}

type Server struct {
	config ServerConfig
	store  *storage.Store
}

func NewServer(config ServerConfig, store *storage.Store) *Server {
	return &Server{
		config: config,
		store:  store,
	}
}

// Run serves the dashboard API until an interrupt or termination signal
// arrives, then shuts down draining in-flight requests
func (s *Server) Run() error {
	tripHandler := handler.NewTripHandler(s.store, s.config.DefaultLimit)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/data", tripHandler.GetData)
	router.Get("/stats", tripHandler.GetStats)
	router.Get("/health", tripHandler.GetHealth)

	address := s.config.IP + ":" + s.config.Port
	httpServer := &http.Server{
		Addr:    address,
		Handler: router,
	}

	go func() {
		<-utils.GetSignalChannel()
		log.Info("[server] shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := httpServer.Shutdown(ctx)
		if err != nil {
			log.Errorf("[server] error shutting down: %s", err.Error())
		}
	}()

	log.Infof("[server] listening on %s", address)
	err := httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
