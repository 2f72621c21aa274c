package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"facelens-go/internal/api/handlers"
	"facelens-go/internal/config"
	"facelens-go/internal/services"
)

type Server struct {
	config    *config.Config
	router    *gin.Engine
	server    *http.Server
	container *services.ServiceContainer
	health    *grpcHealth

	healthHandler *handlers.HealthHandler
	faceHandler   *handlers.FaceHandler
	systemHandler *handlers.SystemHandler
}

// NewServer builds the service container and the HTTP server around it.
func NewServer(cfg *config.Config) (*Server, error) {
	sc, err := services.NewServiceContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create services: %w", err)
	}
	return NewServerWithContainer(cfg, sc)
}

func NewServerWithContainer(cfg *config.Config, sc *services.ServiceContainer) (*Server, error) {
	switch {
	case gin.Mode() == gin.TestMode:
	case cfg.Environment == "development":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:        cfg,
		router:        gin.New(),
		container:     sc,
		healthHandler: handlers.NewHealthHandler(cfg, sc.Detector),
		faceHandler:   handlers.NewFaceHandler(cfg, sc.Decoder, sc.Pipeline, sc.Sessions, sc.Metrics),
		systemHandler: handlers.NewSystemHandler(cfg, sc.Sessions, sc.Detector),
	}

	if err := s.Setup(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Setup() error {
	s.setupMiddleware()

	s.setupRoutes()

	s.setupSwagger()

	s.server = &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	if s.config.GRPCHealthPort > 0 {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.GRPCHealthPort))
		if err != nil {
			return fmt.Errorf("failed to listen for gRPC health on port %d: %w", s.config.GRPCHealthPort, err)
		}
		s.health = newGRPCHealth(lis, s.container.Detector)
	}

	return nil
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	if s.health != nil {
		go s.health.serve()
	}

	log.Info().
		Str("addr", s.server.Addr).
		Str("backend", s.container.Detector.Name()).
		Msg("Starting face detection API")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Stopping face detection API")

	err := s.server.Shutdown(ctx)
	if s.health != nil {
		s.health.stop()
	}
	if cerr := s.container.Shutdown(ctx); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) GetServer() *http.Server {
	return s.server
}
