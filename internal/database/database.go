package database

import (
	"fmt"
	"log"

	"futaverse/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database.
// TranslateError is on so unique-constraint violations surface as
// gorm.ErrDuplicatedKey and can be mapped to client-visible conflicts.
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	// Migrate account models first
	accountModels := []interface{}{
		&models.User{},
		&models.OneTimeCode{},
		&models.AlumniProfile{},
		&models.StudentProfile{},
		&models.StudentResume{},
	}

	for _, model := range accountModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	// Migrate mentorship models
	mentorshipModels := []interface{}{
		&models.Mentorship{},
		&models.MentorshipOffer{},
		&models.MentorshipApplication{},
		&models.MentorshipEngagement{},
	}

	for _, model := range mentorshipModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	// Migrate internship models
	internshipModels := []interface{}{
		&models.Internship{},
		&models.InternshipOffer{},
		&models.InternshipApplication{},
		&models.InternshipEngagement{},
	}

	for _, model := range internshipModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	// Migrate event models
	eventModels := []interface{}{
		&models.Event{},
		&models.VirtualMeeting{},
		&models.Ticket{},
		&models.TicketPurchase{},
	}

	for _, model := range eventModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
