package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jmehdipour/loyalty-admin/internal/http/middleware"
	"github.com/jmehdipour/loyalty-admin/internal/logger"
	"github.com/jmehdipour/loyalty-admin/internal/service/kpi"
	"github.com/jmehdipour/loyalty-admin/internal/service/ranking"
	"github.com/jmehdipour/loyalty-admin/internal/service/sales"
	"github.com/jmehdipour/loyalty-admin/internal/service/settings"
	"github.com/jmehdipour/loyalty-admin/internal/service/tier"
)

// Services are the operations the API exposes.
type Services struct {
	Tiers    *tier.Service
	Kpis     *kpi.Service
	Ranking  *ranking.Service
	Sales    *sales.Service
	Settings *settings.Service
}

type Options struct {
	Verifier      middleware.TokenVerifier // nil serves every request as the local operator
	Redis         *redis.Client            // nil disables rate limiting
	RateLimitRPS  int
	TopCustomers  int // default n for /customers/top
	SalesPageSize int // default page_size for /sales
}

type Server struct{ e *echo.Echo }

func NewServer(svc Services, opts Options) *Server {
	if opts.TopCustomers <= 0 {
		opts.TopCustomers = ranking.DefaultTopN
	}
	if opts.SalesPageSize <= 0 {
		opts.SalesPageSize = 10
	}

	// echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)
	e.Use(echoMid.Recover(), echoMid.RequestID(), requestLogger())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	authMW := middleware.LocalOperatorMiddleware()
	if opts.Verifier != nil {
		authMW = middleware.FirebaseAuthMiddleware(opts.Verifier)
	}
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          opts.Redis,
		RPS:            opts.RateLimitRPS,
		KeyPrefix:      "rl:op:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// routes
	v1 := e.Group("/api/v1", authMW, rlMW)
	v1.GET("/kpis", getKpisHandler(svc.Kpis))
	v1.GET("/kpis/stream", streamKpisHandler(svc.Kpis))
	v1.GET("/customers/top", topCustomersHandler(svc.Ranking, opts.TopCustomers))
	v1.GET("/tiers", listTiersHandler(svc.Tiers))
	v1.POST("/tiers", createTierHandler(svc.Tiers))
	v1.PUT("/tiers/:id", updateTierHandler(svc.Tiers))
	v1.DELETE("/tiers/:id", deleteTierHandler(svc.Tiers))
	v1.GET("/sales", salesPageHandler(svc.Sales, opts.SalesPageSize))
	v1.GET("/reports/sales", salesReportHandler(svc.Sales))
	v1.GET("/settings", getSettingsHandler(svc.Settings))
	v1.PUT("/settings", putSettingsHandler(svc.Settings))

	return &Server{e: e}
}

// requestLogger logs one line per request through zap.
func requestLogger() echo.MiddlewareFunc {
	return echoMid.RequestLoggerWithConfig(echoMid.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echoMid.RequestLoggerValues) error {
			logger.Log.Info("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	})
}

func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) Start(addr string) error {
	logger.Log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
