package server

import (
	"context"
	"net/http"
	"time"

	clientdomain "github.com/approvly/approvly/internal/client/domain"
	"github.com/approvly/approvly/internal/config"
	ingestdomain "github.com/approvly/approvly/internal/ingest/domain"
	reportdomain "github.com/approvly/approvly/internal/report/domain"
	uploaddomain "github.com/approvly/approvly/internal/upload/domain"
	pkgrepository "github.com/approvly/approvly/pkg/repository"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(reg *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	log         *zap.Logger
	clientSvc   clientdomain.Service
	ingestSvc   ingestdomain.Service
	reportSvc   reportdomain.Service
	uploadRepo  uploaddomain.Repository
	uploadStore pkgrepository.Repository[uploaddomain.UploadBatch]
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	Log         *zap.Logger
	ClientSvc   clientdomain.Service
	IngestSvc   ingestdomain.Service
	ReportSvc   reportdomain.Service
	UploadRepo  uploaddomain.Repository
	UploadStore pkgrepository.Repository[uploaddomain.UploadBatch]
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		log:         p.Log.Named("http"),
		clientSvc:   p.ClientSvc,
		ingestSvc:   p.IngestSvc,
		reportSvc:   p.ReportSvc,
		uploadRepo:  p.UploadRepo,
		uploadStore: p.UploadStore,
	}

	svc.registerRoutes()
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1", s.AgencyRequired())

	clients := v1.Group("/clients")
	{
		clients.GET("", s.ListClients)
		clients.POST("", s.CreateClient)
		clients.GET("/:id", s.GetClient)
	}

	imports := v1.Group("/imports")
	{
		imports.POST("/posts", s.ImportPosts)
		imports.POST("/analytics", s.ImportAnalytics)
		imports.POST("/followers", s.ImportFollowers)
		imports.POST("/agency", s.ImportAgencyAnalytics)
	}

	reports := v1.Group("/reports")
	{
		reports.POST("/apply", s.ApplyReport)
		reports.GET("/clients/:id", s.ClientReport)
	}

	v1.GET("/uploads", s.ListUploads)
	v1.GET("/uploads/:id", s.GetUpload)
}
