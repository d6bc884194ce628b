package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vidhi-1412/Realestate/internal/config"
	"github.com/vidhi-1412/Realestate/internal/handler"
	"github.com/vidhi-1412/Realestate/internal/metrics"
	"github.com/vidhi-1412/Realestate/internal/repository"
	"github.com/vidhi-1412/Realestate/internal/service"
)

type Server struct {
	httpServer *http.Server
	records    repository.RecordStore
	cfg        *config.Config
	log        *zap.Logger
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	objects, err := newObjectStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	// The bucket check runs on every start; failing it is not fatal because
	// the bucket may be provisioned out of band with narrower credentials.
	if err := objects.EnsureBucketExists(ctx); err != nil {
		log.Warn("Failed to ensure bucket exists",
			zap.String("bucket", cfg.S3.BucketName),
			zap.Error(err))
	}

	records, err := repository.NewRecordStore(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	m := metrics.New()
	contentService := service.NewContentService(records, objects, service.Options{
		SignedURLTTL:    cfg.S3.SignedURLTTL,
		SerializeWrites: cfg.App.SerializeWrites,
		Metrics:         m,
	}, log)
	h := handler.NewHandler(contentService, cfg.App.MaxUploadSize, log)

	server := &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           NewRouter(cfg, h, m, log),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      60 * time.Second,
			MaxHeaderBytes:    1 << 20, // 1 MB
		},
		records: records,
		cfg:     cfg,
		log:     log,
	}

	log.Info("Server created successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("storage_driver", cfg.S3.Driver),
		zap.String("store_driver", cfg.Store.Driver))

	return server, nil
}

func newObjectStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.ObjectStore, error) {
	if cfg.S3.Driver == "memory" {
		log.Warn("Using in-memory object storage; uploads are lost on restart")
		return repository.NewMemoryObjectStore(cfg.S3.BucketName), nil
	}
	store, err := repository.NewS3Repository(ctx, &cfg.S3, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 repository: %w", err)
	}
	return store, nil
}

// NewRouter builds the gin engine: CORS, request logging, the content API
// under the configured base path and /metrics at the root.
func NewRouter(cfg *config.Config, h *handler.Handler, m *metrics.Metrics, log *zap.Logger) *gin.Engine {
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log, m))
	router.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))

	h.Register(router.Group(cfg.Server.BasePath))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        600 * time.Second,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

func (s *Server) Run() error {
	s.log.Info("Server is running",
		zap.String("address", s.httpServer.Addr))

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	err := s.httpServer.Shutdown(ctx)
	if cerr := s.records.Close(); cerr != nil {
		s.log.Error("Failed to close record store", zap.Error(cerr))
	}
	return err
}
