package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Daniel-dot92/bookings-app/api/swagger"
	"github.com/Daniel-dot92/bookings-app/internal/calendar"
	"github.com/Daniel-dot92/bookings-app/internal/handler"
	"github.com/Daniel-dot92/bookings-app/internal/hours"
	"github.com/Daniel-dot92/bookings-app/internal/middleware"
	"github.com/Daniel-dot92/bookings-app/internal/reservation"
	"github.com/Daniel-dot92/bookings-app/internal/service"
	"github.com/Daniel-dot92/bookings-app/pkg/cache"
	"github.com/Daniel-dot92/bookings-app/pkg/config"
	"github.com/Daniel-dot92/bookings-app/pkg/logger"
	corsmiddleware "github.com/Daniel-dot92/bookings-app/pkg/middleware/cors"
	reqidmiddleware "github.com/Daniel-dot92/bookings-app/pkg/middleware/requestid"
)

// @title Bookings API
// @version 1.0.0
// @description Slot availability and conflict-safe booking over Google Calendar
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	calClient, err := calendar.NewClient(ctx, cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init calendar client", "error", err)
	}

	metrics := service.NewMetricsService()
	backend := service.NewInstrumentedCalendar(calClient, metrics)

	schedule := hours.Default()
	if err := schedule.Validate(); err != nil {
		logr.Sugar().Fatalw("invalid working hours", "error", err)
	}

	var holds service.SlotHolder
	if cfg.Booking.HoldsEnabled {
		redisClient, rerr := cache.NewRedis(cfg.Redis)
		if rerr != nil {
			logr.Sugar().Warnw("redis unavailable, slot holds disabled", "error", rerr)
		} else {
			holds = reservation.NewHolds(redisClient, cfg.Booking.HoldTTL)
			logr.Sugar().Infow("slot holds enabled", "ttl", cfg.Booking.HoldTTL)
		}
	}

	availabilitySvc := service.NewAvailabilityService(backend, schedule, logr)
	bookingSvc := service.NewBookingService(backend, holds, schedule, cfg.Booking.CalendarID, nil, logr)

	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc, metrics)
	oauthHandler := handler.NewOAuthHandler(cfg.Google, logr)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)

	r.GET("/ready", func(c *gin.Context) {
		rctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := calClient.Ping(rctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "calendar unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/availability", availabilityHandler.Day)
		api.POST("/bookings", bookingHandler.Create)
	}

	if cfg.Google.AuthMode == config.AuthModeDelegated {
		r.GET("/oauth/initiate", oauthHandler.Initiate)
		r.GET("/oauth/callback", oauthHandler.Callback)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "calendar", cfg.Booking.CalendarID)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
