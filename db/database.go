package db

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"songbox/config"

	_ "github.com/go-sql-driver/mysql"
)

// DB is the global raw database connection used by the repositories.
var DB *sql.DB

// ConnectDB establishes the MySQL connection and configures the pool.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	DB.SetMaxIdleConns(10)
	DB.SetMaxOpenConns(100)
	DB.SetConnMaxLifetime(time.Hour)

	if err = DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB creates the songs table if it does not exist yet.
// AutoMigrateModels covers the same schema for deployments that prefer GORM
// migration; the raw statement keeps the server usable without it.
func InitDB() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	query := `CREATE TABLE IF NOT EXISTS songs (
		id CHAR(36) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		artist VARCHAR(255) NOT NULL,
		album VARCHAR(255) NOT NULL,
		genre VARCHAR(255) NOT NULL,
		file_asset_id VARCHAR(512) NOT NULL,
		file_url VARCHAR(1024) NOT NULL,
		cover_asset_id VARCHAR(512) NOT NULL,
		cover_url VARCHAR(1024) NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create songs table: %w", err)
	}

	log.Println("Database schema initialized.")
	return nil
}
