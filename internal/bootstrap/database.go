package bootstrap

import (
	"errors"

	"clinical-notes-be/internal/config"
	"clinical-notes-be/pkg/database"

	"gorm.io/gorm"
)

// OpenDatabase connects to the database named by DB_DRIVER and DB_CONNECTION_STRING.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Database.Connection == "" {
		return nil, errors.New("DB_CONNECTION_STRING is not set")
	}
	return database.NewGormDB(database.GormConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.Connection,
	})
}
