package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/pageza/foodflow/backend/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database and returns a gorm handle with
// driver errors translated to gorm sentinels.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel(cfg.Environment)),
	}

	if cfg.UsesPostgres() {
		sqlDB, err := OpenPostgres(cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("error opening gorm on postgres: %w", err)
		}
		return db, nil
	}

	return OpenSQLite(cfg.SQLitePath(), gormCfg)
}

// OpenPostgres opens a pooled database/sql connection through lib/pq and pings it.
func OpenPostgres(dsn string) (*sql.DB, error) {
	log.Printf("[Database] connecting to postgres")

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	log.Printf("[Database] successfully connected to postgres")
	return db, nil
}

// OpenSQLite opens a sqlite database with foreign keys enforced. A single
// connection serializes writers the way sqlite requires.
func OpenSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{TranslateError: true}
	}

	db, err := gorm.Open(sqlite.Open(withForeignKeys(path)), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite database %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	log.Printf("[Database] using sqlite database %s", path)
	return db, nil
}

func withForeignKeys(path string) string {
	if strings.Contains(path, "_foreign_keys=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func logLevel(env config.Environment) logger.LogLevel {
	switch env {
	case config.Development:
		return logger.Info
	case config.Production:
		return logger.Warn
	default:
		return logger.Silent
	}
}

// HealthCheck checks if the database is accessible
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
