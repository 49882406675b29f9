package common

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDb opens the sqlite file at dbFile with foreign keys enforced and
// driver errors translated into gorm sentinels (gorm.ErrDuplicatedKey).
func ConnectDb(dbFile string, log zerolog.Logger) (*gorm.DB, error) {
	log.Info().Str("sqlite_db", dbFile).Msg("attempting to connect to database")
	if dbFile == "" {
		return nil, fmt.Errorf("sqlite_db not set")
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbFile)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql handle: %w", err)
	}
	// one writer at a time on the sqlite file
	sqlDB.SetMaxOpenConns(1)

	log.Info().Str("sqlite_db", dbFile).Msg("opened sqlite db")
	return db, nil
}

func dsn(dbFile string) string {
	sep := "?"
	if strings.Contains(dbFile, "?") {
		sep = "&"
	}
	return dbFile + sep + "_foreign_keys=on&_busy_timeout=5000"
}
