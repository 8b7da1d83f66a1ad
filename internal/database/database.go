package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/flowcrm/crm-api/internal/config"
	"github.com/flowcrm/crm-api/internal/domain"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase creates a new database connection
func NewDatabase(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.ConnectionString()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)

	return db, nil
}

// AutoMigrate runs automatic migrations (for development only)
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Company{},
		&domain.Contact{},
		&domain.PipelineStage{},
		&domain.Deal{},
		&domain.DealStageHistory{},
		&domain.Quote{},
		&domain.QuoteItem{},
		&domain.Task{},
		&domain.Note{},
		&domain.Activity{},
		&domain.NumberSequence{},
	)
}

// DefaultStages is the pipeline seeded into an empty database. The
// stage set is closed: deals may only reference stages present here or
// added later through the stage admin endpoints.
func DefaultStages() []domain.PipelineStage {
	return []domain.PipelineStage{
		{Name: "lead", Label: "Lead", Color: "#6b7280", SortOrder: 1},
		{Name: "qualified", Label: "Qualified", Color: "#3b82f6", SortOrder: 2},
		{Name: "proposal", Label: "Proposal", Color: "#8b5cf6", SortOrder: 3},
		{Name: "negotiation", Label: "Negotiation", Color: "#f59e0b", SortOrder: 4},
		{Name: "won", Label: "Won", Color: "#10b981", SortOrder: 5},
		{Name: "lost", Label: "Lost", Color: "#ef4444", SortOrder: 6},
	}
}

// SeedDefaultStages inserts the default pipeline stages when none exist
func SeedDefaultStages(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.PipelineStage{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count pipeline stages: %w", err)
	}
	if count > 0 {
		return nil
	}
	stages := DefaultStages()
	if err := db.Create(&stages).Error; err != nil {
		return fmt.Errorf("failed to seed pipeline stages: %w", err)
	}
	return nil
}

// HealthCheck pings the database
func HealthCheck(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Ping()
}

// HealthCheckWithStats pings the database and returns pool statistics
func HealthCheckWithStats(db *gorm.DB) (sql.DBStats, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return sql.DBStats{}, fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return sql.DBStats{}, err
	}
	return sqlDB.Stats(), nil
}
