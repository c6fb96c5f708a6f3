package storage

import (
	"github.com/alkhazraji96/yelp-camp/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitializeDB opens the postgres connection and runs the schema migrations.
// The returned handle is passed explicitly to every component that needs it;
// there is no package-level connection.
func InitializeDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate runs AutoMigrate for every entity. Split out so tests can run the
// same migrations against their own database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Campground{},
		&models.Comment{},
		&models.Review{},
		&models.Notification{},
	)
}
