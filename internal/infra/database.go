package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx and migrates the
// simulation schema. TranslateError is on so that unique violations surface
// as gorm.ErrDuplicatedKey; the DB unique index on escenarios.nombre is the
// authoritative guard against concurrent duplicate creates; the repository's
// pre-check is only an optimization.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migraciones: %w", err)
	}
	return db, nil
}

// RunMigrations creates / updates the simulation tables. Also used by the
// integration tests against a throwaway database.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Escenario{},
		&model.EscenarioOverride{},
		&model.EscenarioHistorial{},
	)
}
