// Package database provides an optional durable mirror of run history,
// adapted from the original services' gorm/postgres wiring. It is a
// best-effort adjunct to the orchestrator's in-memory ring buffer: a
// database outage degrades history durability, never the simulation path
// itself (spec §6).
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/paddockml/racesim/internal/domain"
)

// RunRecord is the gorm model mirroring domain.SimulationRun for durable
// storage and historical querying outside the process lifetime.
type RunRecord struct {
	ID          string `gorm:"primaryKey"`
	Status      string
	Seed        int64
	RunsCount   int
	WinnerCode  string
	PodiumCodes pq.StringArray `gorm:"type:text[]"`
	Message     string
	StartedAt   time.Time
	FinishedAt  *time.Time
	Result      datatypes.JSON
	Context     datatypes.JSON
}

func (RunRecord) TableName() string { return "simulation_runs" }

// Open connects to dsn, preferring postgres but accepting a sqlite DSN
// (e.g. "file::memory:?cache=shared") for tests and single-binary
// deployments, and auto-migrates RunRecord.
func Open(dsn string, driver string, log *logrus.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: newGormLogger(log, 200*time.Millisecond)}

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&RunRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

// Mirror persists run as a RunRecord, upserting by ID. Callers treat a
// returned error as a logged warning, never a simulation failure.
func Mirror(ctx context.Context, db *gorm.DB, run domain.SimulationRun) error {
	contextJSON, err := json.Marshal(run.Context)
	if err != nil {
		return fmt.Errorf("failed to marshal run context: %w", err)
	}

	record := RunRecord{
		ID:         run.ID,
		Status:     string(run.Status),
		RunsCount:  run.Context.Runs,
		Message:    run.Message,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Context:    datatypes.JSON(contextJSON),
	}
	if run.Result != nil {
		resultJSON, err := json.Marshal(run.Result)
		if err != nil {
			return fmt.Errorf("failed to marshal run result: %w", err)
		}
		record.Result = datatypes.JSON(resultJSON)
	}
	if run.Seed != nil {
		record.Seed = *run.Seed
	}
	if run.Result != nil && run.Result.PredictedWinner != nil {
		record.WinnerCode = run.Result.PredictedWinner.Code
	}
	if run.Result != nil {
		codes := make(pq.StringArray, 0, len(run.Result.PredictedPodium))
		for _, d := range run.Result.PredictedPodium {
			codes = append(codes, d.Code)
		}
		record.PodiumCodes = codes
	}
	return db.WithContext(ctx).Save(&record).Error
}

// gormQueryLogger adapts gorm's query-logging interface to this package's
// logrus logger. Unlike a logger that always logs regardless of the level
// gorm was opened with, this implementation honors LogMode: a level set to
// gormlogger.Silent (or below the message's own severity) suppresses the
// call entirely, and a query slower than slowThreshold is escalated to a
// warning even when it returned no error.
type gormQueryLogger struct {
	logger        *logrus.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func newGormLogger(logger *logrus.Logger, slowThreshold time.Duration) *gormQueryLogger {
	return &gormQueryLogger{logger: logger, level: gormlogger.Warn, slowThreshold: slowThreshold}
}

func (l *gormQueryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormQueryLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level < gormlogger.Info {
		return
	}
	l.logger.WithContext(ctx).Infof(msg, args...)
}

func (l *gormQueryLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level < gormlogger.Warn {
		return
	}
	l.logger.WithContext(ctx).Warnf(msg, args...)
}

func (l *gormQueryLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level < gormlogger.Error {
		return
	}
	l.logger.WithContext(ctx).Errorf(msg, args...)
}

func (l *gormQueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	duration := time.Since(begin)
	query, rowsAffected := fc()
	entry := l.logger.WithContext(ctx).WithFields(logrus.Fields{
		"duration_ms":   duration.Milliseconds(),
		"rows_affected": rowsAffected,
		"query":         query,
	})

	switch {
	case err != nil && l.level >= gormlogger.Error:
		entry.WithError(err).Error("gorm query returned an error")
	case duration > l.slowThreshold && l.level >= gormlogger.Warn:
		entry.WithField("slow_threshold_ms", l.slowThreshold.Milliseconds()).Warn("gorm query exceeded slow-query threshold")
	case l.level >= gormlogger.Info:
		entry.Debug("gorm query executed")
	}
}
