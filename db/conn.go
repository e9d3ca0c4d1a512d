// Package db sets up the database connection and seed data
package db

import (
	"fmt"

	"cascadia/chapter-api/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the configured database and migrates the schema. SQLite is the
// dev/test default, postgres is what production deployments use
func New() (*gorm.DB, error) {
	var dial gorm.Dialector

	switch viper.GetString("db.driver") {
	case "postgres":
		dial = postgres.Open(viper.GetString("db.dsn"))
	default:
		dial = sqlite.Open(viper.GetString("db.dsn"))
	}

	db, err := gorm.Open(dial)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = db.AutoMigrate(model.User{}, model.Chapter{}, model.ResourcePost{}, model.Comment{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
