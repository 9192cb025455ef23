package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"hrdocflow/internal/config"
)

// Database holds the Postgres connection for the HR directory.
type Database struct {
	DB     *sql.DB
	logger *zap.Logger
}

func NewDatabase(cfg *config.Config, logger *zap.Logger) (*Database, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	db, err := sql.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connected successfully",
		zap.String("driver", cfg.Database.Driver),
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("dbname", cfg.Database.DBName),
	)

	database := &Database{
		DB:     db,
		logger: logger,
	}

	// Run migrations
	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return database, nil
}

func (d *Database) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS companies (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			address TEXT DEFAULT '',
			phone VARCHAR(50) DEFAULT '',
			email VARCHAR(255) DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS departments (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			parent_id VARCHAR(36) DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS positions (
			id VARCHAR(36) PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			department_id VARCHAR(36) DEFAULT '',
			occupant_id VARCHAR(36) DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS employees (
			id VARCHAR(36) PRIMARY KEY,
			first_name VARCHAR(255) NOT NULL,
			last_name VARCHAR(255) DEFAULT '',
			email VARCHAR(255) DEFAULT '',
			phone VARCHAR(50) DEFAULT '',
			department_id VARCHAR(36) DEFAULT '',
			position_id VARCHAR(36) DEFAULT '',
			stage VARCHAR(50) NOT NULL DEFAULT 'employed',
			hired_at TIMESTAMP,
			termination_date TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_employees_department ON employees(department_id);`,
		`CREATE INDEX IF NOT EXISTS idx_employees_stage ON employees(stage);`,
		`CREATE INDEX IF NOT EXISTS idx_positions_occupant ON positions(occupant_id);`,
	}

	for _, stmt := range statements {
		if _, err := d.DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run directory migration: %w", err)
		}
	}

	d.logger.Info("Database migrations completed successfully")
	return nil
}

func (d *Database) Close() error {
	return d.DB.Close()
}
