package database

import (
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"draftmode/analytics"
	"draftmode/models"
)

func RunMigrations(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("running database migrations")

	err := db.AutoMigrate(
		&models.User{},
		&models.Draft{},
		&models.Version{},
		&analytics.ShareView{},
	)

	if err != nil {
		log.Error().Err(err).Msg("error running migrations")
		return err
	}

	log.Info().Msg("migrations completed successfully")
	return nil
}
