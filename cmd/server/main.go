package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/astrofauna/totemeter/internal/cache"
	"github.com/astrofauna/totemeter/internal/catalog"
	"github.com/astrofauna/totemeter/internal/config"
	"github.com/astrofauna/totemeter/internal/ephemeris"
	"github.com/astrofauna/totemeter/internal/errors"
	"github.com/astrofauna/totemeter/internal/history"
	"github.com/astrofauna/totemeter/internal/monitoring"
	"github.com/astrofauna/totemeter/internal/ratelimit"
	"github.com/astrofauna/totemeter/internal/resilience"
	"github.com/astrofauna/totemeter/internal/scoring"
	"github.com/astrofauna/totemeter/internal/security"
	"github.com/astrofauna/totemeter/internal/timezone"
	"github.com/astrofauna/totemeter/internal/types"
	"github.com/astrofauna/totemeter/internal/zodiac"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	// Load the catalogue tables. A malformed or inconsistent table set is
	// a deployment defect, not a runtime condition: abort startup.
	cat, err := catalog.Load(cfg.ScoresPath, cfg.WeightsPath, cfg.MultipliersPath)
	if err != nil {
		slog.Error("Failed to load catalogue tables", "error", err)
		os.Exit(1)
	}
	slog.Info("Catalogue loaded",
		"animals", len(cat.Animals()),
		"points", len(cat.Points()))

	engine := scoring.NewEngine(cat, scoring.Config{
		TopK:            cfg.TopK,
		MinPercentage:   cfg.MinPercentage,
		SignaturePoints: cfg.SignaturePoints,
	})

	// Initialize analysis history storage
	db, err := history.NewDB(cfg.DataDir)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	historyService := history.NewService(db)

	// Ephemeris collaborator
	provider := ephemeris.NewHTTPProvider(cfg.EphemerisURL, cfg.EphemerisTimeout())

	// Redis-backed rate limiting with in-memory fallback
	redisClient, err := ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		slog.Warn("Redis unavailable, continuing with in-memory rate limiting", "error", err)
	}
	defer redisClient.Close()

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.Config{
		IPLimitPerMin:       cfg.IPLimitPerMin,
		AnalysisLimitPerDay: cfg.AnalysisLimitPerDay,
		BurstMultiplier:     2,
	}, appMetrics)

	r := gin.New()

	// Monitoring first to capture all requests
	r.Use(monitoring.MonitoringMiddleware(appMetrics, appLogger))

	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	// Security middleware setup
	securityConfig := security.DefaultSecurityConfig()
	securityConfig.AllowedOrigins = cfg.AllowedOrigins
	securityConfig.RequestTimeout = cfg.RequestTimeout()
	securityMiddleware := security.NewSecurityMiddleware(securityConfig)

	r.Use(securityMiddleware.SecurityHeaders)
	r.Use(securityMiddleware.RequestTimeout)
	r.Use(securityMiddleware.ValidateContentType)
	r.Use(securityMiddleware.LimitBodySize)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Requested-With")
	r.Use(cors.New(corsConfig))

	r.Use(ratelimit.Middleware(limiter, appMetrics))
	r.Use(ratelimit.AnalysisMiddleware(limiter, appMetrics))

	// Identical birth data always produces identical output, so analyze
	// responses cache cleanly on the request body.
	appCache := cache.NewCache(cfg.CacheTTL())
	r.Use(appCache.Middleware(appMetrics))

	r.GET("/health", func(c *gin.Context) {
		healthResponse := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
			"catalogue": gin.H{
				"animals": len(cat.Animals()),
				"points":  len(cat.Points()),
			},
			"ephemeris_breaker": provider.BreakerState().String(),
			"metrics":           appMetrics.GetStats(),
		}

		if provider.BreakerState() == resilience.StateOpen {
			healthResponse["status"] = "degraded"
			c.JSON(http.StatusServiceUnavailable, healthResponse)
			return
		}

		c.JSON(http.StatusOK, healthResponse)
	})

	r.POST("/analyze", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout())
		defer cancel()

		start := time.Now()

		var req types.AnalyzeRequest
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.NewInvalidInputError("invalid JSON payload")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		if err := req.Validate(); err != nil {
			appErr := errors.NewInvalidInputError(err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		slog.Info("Starting analysis",
			"date", req.Date, "lat", req.Lat, "lon", req.Lon, "ip", c.ClientIP())

		utc, err := timezone.ToUTC(req.Date, req.Time, req.Lat, req.Lon, req.Timezone)
		if err != nil {
			appErr := errors.NewInvalidInputError(err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		var chart types.BirthChart
		ephemerisStart := time.Now()
		err = resilience.Retry(ctx, func() error {
			var fetchErr error
			chart, fetchErr = provider.ComputeChart(ctx, utc, req.Lat, req.Lon)
			return fetchErr
		})
		appMetrics.RecordEphemerisCall(err == nil)
		appLogger.EphemerisLogger(cfg.EphemerisURL, len(chart), time.Since(ephemerisStart), err == nil)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		result, err := engine.Analyze(chart)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		appMetrics.IncrementAnalyses()
		top := result.Rankings[0]
		appLogger.AnalysisLogger(top.Animal, top.Total, len(result.Rankings), time.Since(start), false)

		rec, err := historyService.RecordAnalysis(req, utc, result, c.ClientIP(), c.GetHeader("User-Agent"))
		if err != nil {
			slog.Error("Failed to record analysis", "error", err)
		}

		response := gin.H{
			"name":              req.Name,
			"utc_moment":        utc.Format(time.RFC3339),
			"birth_chart":       result.Chart,
			"effective_weights": result.EffectiveWeights,
			"rankings":          result.Rankings,
			"top_animals":       result.Top,
			"point_strengths":   result.PointStrengths,
			"signature_points":  result.SignaturePoints,
		}
		if rec != nil {
			response["analysis_id"] = rec.ID
		}

		c.JSON(http.StatusOK, response)
	})

	// Scoring against caller-supplied placements, no ephemeris involved.
	r.POST("/analyze/chart", func(c *gin.Context) {
		var req struct {
			Chart map[string]string `json:"chart" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.NewInvalidInputError("invalid JSON payload")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		chart := make(types.BirthChart, len(req.Chart))
		for rawPoint, rawSign := range req.Chart {
			point, err := zodiac.ParsePoint(rawPoint)
			if err != nil {
				appErr := errors.NewInvalidInputError("unknown celestial point", rawPoint)
				errors.LogError(c, appErr)
				c.JSON(appErr.HTTPStatus, appErr)
				return
			}
			sign, err := zodiac.ParseSign(rawSign)
			if err != nil {
				appErr := errors.NewInvalidInputError("unknown zodiac sign", rawSign)
				errors.LogError(c, appErr)
				c.JSON(appErr.HTTPStatus, appErr)
				return
			}
			chart[point] = sign
		}

		result, err := engine.Analyze(chart)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		appMetrics.IncrementAnalyses()

		c.JSON(http.StatusOK, result)
	})

	r.GET("/animals", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"animals": cat.Animals(),
			"count":   len(cat.Animals()),
		})
	})

	r.GET("/points", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"points": cat.Points(),
			"count":  len(cat.Points()),
		})
	})

	r.GET("/signs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"signs": zodiac.Signs,
			"count": len(zodiac.Signs),
		})
	})

	// History endpoints
	r.GET("/history/recent", func(c *gin.Context) {
		limit := 20
		if limitStr := c.Query("limit"); limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
				limit = l
			}
		}

		records, err := historyService.Recent(limit)
		if err != nil {
			appLogger.APIErrorLogger(err, "GET", "/history/recent", c.ClientIP(), http.StatusInternalServerError)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve history"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"analyses": records,
			"count":    len(records),
		})
	})

	r.GET("/history/:id", func(c *gin.Context) {
		rec, err := historyService.Get(c.Param("id"))
		if err != nil {
			appLogger.APIErrorLogger(err, "GET", "/history/"+c.Param("id"), c.ClientIP(), http.StatusInternalServerError)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve analysis"})
			return
		}
		if rec == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
			return
		}

		c.JSON(http.StatusOK, rec)
	})

	r.GET("/totems/stats", func(c *gin.Context) {
		limit := 20
		if limitStr := c.Query("limit"); limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
				limit = l
			}
		}

		stats, err := historyService.TotemStats(limit)
		if err != nil {
			appLogger.APIErrorLogger(err, "GET", "/totems/stats", c.ClientIP(), http.StatusInternalServerError)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve totem stats"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"totems": stats,
			"count":  len(stats),
		})
	})

	// Swagger documentation routes
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics endpoint
	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, appMetrics.GetStats())
	})

	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, appCache.Stats())
	})

	r.GET("/ratelimit/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, limiter.GetStats())
	})

	r.GET("/pools/database", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"pool":  "database",
			"stats": db.GetPoolStats(),
		})
	})

	r.GET("/history/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, historyService.Stats())
	})

	if cfg.EnablePprof {
		slog.Info("Enabling performance profiling endpoints")
		r.GET("/debug/pprof/*filepath", gin.WrapF(pprof.Index))
		r.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
		r.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
		r.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
		r.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
	}

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
