package database

import (
	"fmt"
	"lms_progress_backend/internal/config"
	"lms_progress_backend/internal/model"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	logLevel := logger.Warn
	if mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Program{},
		&model.Stage{},
		&model.Unit{},
		&model.Subconcept{},
		&model.UnitSubconcept{},
		&model.CompletionFact{},
		&model.AttemptRecord{},
		&model.CohortConfig{},
		&model.UserCohortMembership{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}
