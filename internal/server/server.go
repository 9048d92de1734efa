package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/metrics"
	"github.com/datsun80zx/repairtrack/internal/notify"
	"github.com/datsun80zx/repairtrack/internal/report"
)

// Notifier sends customer messages
type Notifier interface {
	Send(ctx context.Context, to, message string) (*notify.SendResult, error)
	Status(ctx context.Context) notify.Status
}

// csvSource is implemented by stores that can export the raw sheet
type csvSource interface {
	ExportCSV(ctx context.Context) (string, error)
}

// Deps are the collaborators the handlers use
type Deps struct {
	Store    jobs.Store
	Engine   *metrics.Engine
	Renderer *report.Renderer
	Notifier Notifier
	Logger   logrus.FieldLogger

	// Gatherer backs /metrics; nil uses the default registry
	Gatherer prometheus.Gatherer

	CORSOrigins     []string
	MessageTemplate string
}

// Server is the HTTP API in front of the job store
type Server struct {
	Deps
	router *gin.Engine
}

// New builds the router
func New(deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if deps.Engine == nil {
		deps.Engine = metrics.NewEngine(time.UTC)
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	if deps.Renderer == nil {
		r, err := report.NewRenderer(report.DefaultCurrency)
		if err != nil {
			return nil, err
		}
		deps.Renderer = r
	}

	s := &Server{Deps: deps}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(correlationID())
	r.Use(requestLogger(s.Logger))
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(s.CORSOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.CORSOrigins
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")

	sheetsGroup := api.Group("/sheets")
	sheetsGroup.GET("", s.getSheets)
	sheetsGroup.POST("", s.postSheets)
	sheetsGroup.GET("/dashboard", s.getDashboard)

	api.GET("/jobs", s.listJobs)

	reports := api.Group("/reports")
	reports.GET("/today", s.reportToday)
	reports.GET("/daily", s.reportDaily)
	reports.GET("/weekly", s.reportWeekly)
	reports.GET("/monthly", s.reportMonthly)
	reports.GET("/yearly", s.reportYearly)
	reports.GET("/categories", s.reportCategories)
	reports.GET("/summary", s.reportSummary)
	reports.GET("/red-flags", s.reportRedFlags)

	api.GET("/export", s.exportJobs)
	api.GET("/export/summary", s.exportSummary)

	wa := api.Group("/whatsapp")
	wa.POST("/send", s.sendWhatsApp)
	wa.GET("/status", s.whatsAppStatus)

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, errors.New("route not found"))
	})

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.WithField("addr", addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.Logger.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	}
}

func correlationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Set("correlation_id", cid)
		c.Header("x-correlation-id", cid)
		c.Next()
	}
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := logger.WithFields(logrus.Fields{
			"status":         c.Writer.Status(),
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"latency":        time.Since(start).String(),
			"correlation_id": c.GetString("correlation_id"),
		})
		if len(c.Errors) > 0 {
			entry.Error(c.Errors.String())
			return
		}
		entry.Info("request")
	}
}
