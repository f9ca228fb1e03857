package db

import (
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDatabase opens the history database and migrates its tables.
func InitDatabase(dbPath string) error {
	// stdout carries launch scripts, keep SQL warnings on stderr.
	newLogger := gormlogger.New(
		log.New(os.Stderr, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      false,
			Colorful:                  true,
		},
	)

	conn, err := gorm.Open(gormlite.Open(dbPath), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	if err := conn.AutoMigrate(&LoadOrderSnapshot{}, &PackHash{}); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	DB = conn
	return nil
}
