package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"mttr-dashboard/connectors/session"
	dconfig "mttr-dashboard/domain/config"
)

// Run starts the Echo web server serving the MTTD/MTTR dashboard.
//
// Usage:
//
//	mttr-dashboard web [--addr :8080]
//
// Endpoints:
//
//	GET  /                     -> upload form, or the dashboard once a file is uploaded
//	POST /upload               -> store the ticket export for this session
//	GET  /api/options          -> available months and priorities
//	GET  /api/report           -> pivots, chart series and filtered rows
//	GET  /api/summary/:metric  -> full summary table (mttd|mttr)
//	GET  /download             -> MTTD_MTTR_Report.xlsx
//	GET  /_health              -> liveness
//
// Every endpoint taking filters accepts repeated month=Mon-YYYY and
// priority=Pn query parameters. An absent parameter selects all values; a
// present but empty one selects none.
func Run(ctx context.Context, cfg *dconfig.Config, logger *zap.Logger, args []string) error {
	fs := pflag.NewFlagSet("web", pflag.ContinueOnError)
	addr := fs.String("addr", cfg.HTTP.Addr, "http listen address (host:port)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := session.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := NewServer(cfg, store, logger)
	e := srv.Echo()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Warn("web.shutdown.error", zap.Error(err))
		}
	}()

	logger.Info("web.start", zap.String("addr", *addr), zap.String("environment", cfg.Environment))
	if err := e.Start(*addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("web.stopped")
	return nil
}

// Server holds the per-process dependencies of the handlers. All report
// state is rebuilt per request from the session's upload.
type Server struct {
	cfg    *dconfig.Config
	store  session.Store
	logger *zap.Logger
	parses singleflight.Group
}

func NewServer(cfg *dconfig.Config, store session.Store, logger *zap.Logger) *Server {
	if store == nil {
		panic("store must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{cfg: cfg, store: store, logger: logger}
}

// Echo wires routes and middleware.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = newRenderer()

	e.Use(middleware.Recover())
	e.Use(s.accessLog)
	// Leave headroom for the multipart envelope; upload enforces the exact limit.
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", s.cfg.HTTP.MaxUploadMB+1)))

	e.GET("/", s.index)
	e.POST("/upload", s.upload)
	e.POST("/reset", s.reset)
	e.GET("/api/options", s.apiOptions)
	e.GET("/api/report", s.apiReport)
	e.GET("/api/summary/:metric", s.apiSummary)
	e.GET("/download", s.download)
	e.GET("/_health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
	})
	return e
}

func (s *Server) accessLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.logger.Info("web.request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.Duration("latency", time.Since(start)))
		return nil
	}
}
