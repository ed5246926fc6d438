package db

import (
	"fmt"
	"runtime"
	"time"

	"github.com/USA-RedDragon/routesync-server/internal/config"
	"github.com/USA-RedDragon/routesync-server/internal/db/models"
	"github.com/glebarez/sqlite"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MakeDB(config *config.Config) (db *gorm.DB, err error) {
	var dialector gorm.Dialector
	switch config.Persistence.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(config.Persistence.Database.Database + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	case "postgres":
		dialector = postgres.Open(fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s %s",
			config.Persistence.Database.Host,
			config.Persistence.Database.Port,
			config.Persistence.Database.Username,
			config.Persistence.Database.Password,
			config.Persistence.Database.Database,
			config.Persistence.Database.ExtraParameters))
	case "mysql":
		dialector = mysql.Open(fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?%s",
			config.Persistence.Database.Username,
			config.Persistence.Database.Password,
			config.Persistence.Database.Host,
			config.Persistence.Database.Port,
			config.Persistence.Database.Database,
			config.Persistence.Database.ExtraParameters))
	default:
		return nil, fmt.Errorf("unknown database driver: %s", config.Persistence.Database.Driver)
	}

	db, err = gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return db, fmt.Errorf("failed to open database: %w", err)
	}
	if config.HTTP.Tracing.OTLPEndpoint != "" {
		if err = db.Use(otelgorm.NewPlugin()); err != nil {
			return db, fmt.Errorf("failed to trace database: %w", err)
		}
	}

	err = db.AutoMigrate(&models.Location{})
	if err != nil {
		return db, fmt.Errorf("failed to migrate database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return db, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxIdleConns(runtime.GOMAXPROCS(0))
	const connsPerCPU = 10
	sqlDB.SetMaxOpenConns(runtime.GOMAXPROCS(0) * connsPerCPU)
	const maxIdleTime = 10 * time.Minute
	sqlDB.SetConnMaxIdleTime(maxIdleTime)

	return
}
