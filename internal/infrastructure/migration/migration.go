package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/cinezone/cinezone/internal/infrastructure/persistence/models"
	"github.com/cinezone/cinezone/internal/shared/config"
	"github.com/cinezone/cinezone/internal/shared/logger"
)

// Manager picks the migration strategy for the configured driver.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager uses goose scripts for MySQL and AutoMigrate for SQLite.
func NewManager(cfg *config.DatabaseConfig, log logger.Interface) *Manager {
	var strategy Strategy
	if cfg.IsSQLite() {
		strategy = NewGormAutoMigrateStrategy(log)
	} else {
		strategy = NewGooseStrategy(log)
	}
	return NewManagerWithStrategy(strategy, log)
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.Named("migration.manager"),
	}
}

// Migrate brings every model's table up to date.
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db, models.All()...); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

// Goose returns the goose strategy, or nil when the driver does not use one.
func (m *Manager) Goose() *GooseStrategy {
	g, _ := m.strategy.(*GooseStrategy)
	return g
}
