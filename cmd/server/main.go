package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/paddockml/racesim/internal/api/handlers"
	"github.com/paddockml/racesim/internal/domain"
	"github.com/paddockml/racesim/internal/factors"
	"github.com/paddockml/racesim/internal/orchestrator"
	"github.com/paddockml/racesim/internal/wshub"
	"github.com/paddockml/racesim/pkg/config"
	"github.com/paddockml/racesim/pkg/database"
	"github.com/paddockml/racesim/pkg/logger"
	"github.com/paddockml/racesim/pkg/metrics"
	"github.com/paddockml/racesim/pkg/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := logger.Init(cfg.LogLevel, cfg.IsDevelopment())
	log.WithFields(logrus.Fields{"env": cfg.Env, "port": cfg.Port}).Info("starting racesim server")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// The database mirror is optional (spec §6): a connection failure is
	// logged and the server continues with orchestrator-only in-memory
	// history.
	var db *gorm.DB
	if gormDB, err := database.Open(cfg.DatabaseURL, "postgres", log); err != nil {
		log.WithError(err).Warn("database unavailable; continuing with in-memory history only")
	} else {
		db = gormDB
	}

	runStore := store.NewRedisStore(cfg.RedisURL, log)
	hub := wshub.NewHub(log)

	var factorClient *factors.Client
	var factorScheduler *factors.Scheduler
	if cfg.FactorEndpoint != "" {
		factorClient = factors.NewClient(cfg.FactorEndpoint, log)
		factorScheduler = factors.NewScheduler(factorClient, log, func(result *factors.Result) {
			log.WithFields(logrus.Fields{
				"source":  result.Source,
				"factors": len(result.Factors),
			}).Info("scheduled variation factor refresh completed")
		})
		if err := factorScheduler.Start("@every " + cfg.FactorCooldown.String()); err != nil {
			log.WithError(err).Warn("failed to start variation factor scheduler")
			factorScheduler = nil
		} else {
			defer factorScheduler.Stop()
		}
	}

	orch := orchestrator.New(
		orchestrator.WithTimeout(cfg.SimulationTimeout),
		orchestrator.WithLogger(log),
		orchestrator.WithProgressListener(func(run domain.SimulationRun, progress int) {
			hub.Broadcast(run.ID, gin.H{
				"runId":    run.ID,
				"status":   run.Status,
				"progress": progress,
			})
			if run.Status != domain.StatusRunning {
				duration := 0.0
				if run.FinishedAt != nil {
					duration = run.FinishedAt.Sub(run.StartedAt).Seconds()
				}
				metrics.ObserveTerminal(string(run.Status), duration)

				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := runStore.SetRun(ctx, run, time.Hour); err != nil {
					log.WithError(err).Warn("failed to persist run to store")
				}
				if db != nil {
					if err := database.Mirror(ctx, db, run); err != nil {
						log.WithError(err).Warn("failed to mirror run to database")
					}
				}
			} else {
				metrics.ObserveStart()
			}
		}),
	)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(corsMiddleware(cfg.CorsOrigins))

	simHandler := handlers.NewSimulationHandler(orch, factorClient, log)
	ingestHandler := handlers.NewIngestHandler(log)
	healthHandler := handlers.NewHealthHandler(db)

	api := router.Group("/api/v1")
	{
		api.POST("/simulations", simHandler.Submit)
		api.GET("/simulations/current", simHandler.Status)
		api.GET("/simulations/current/result", simHandler.Result)
		api.POST("/simulations/current/cancel", simHandler.Cancel)
		api.GET("/simulations/history", simHandler.History)
		api.POST("/factors/refresh", simHandler.RefreshFactors)
		api.POST("/drivers/import", ingestHandler.UploadCSV)
		api.POST("/drivers/export", ingestHandler.ExportCSV)
	}

	router.GET("/ws/:run_id", hub.HandleWebSocket)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("server exited")
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
