package psql

import (
	"context"

	"learnflow/learnflow/config"
	"learnflow/learnflow/sources/psql/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the configured database and migrates the schema.
// With no DATABASE_URL it falls back to a local sqlite file, which keeps
// development setups free of a running postgres.
func NewDatabase(ctx context.Context, cfg config.Config) (*Database, error) {
	var dialector gorm.Dialector
	if cfg.DatabaseURL != "" {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open("learnflow.db")
	}

	// TranslateError maps driver duplicate-key failures onto
	// gorm.ErrDuplicatedKey so callers can detect them portably.
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Note{},
	)
	if err != nil {
		return nil, err
	}

	return &Database{DB: db}, nil
}

func (db *Database) Close() {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return
	}
	sqlDB.Close()
}
