package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/sangkips/dukahub-api/internal/config"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection. SQL is logged
// at Info in debug mode and only warnings otherwise.
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	return Open(cfg.DSN(), debug)
}

// Open connects to the database behind dsn
func Open(dsn string, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Identity
		&entity.User{},

		// Tenancy
		&entity.Business{},
		&entity.UserSettings{},
		&entity.Branch{},

		// Catalogue and sales
		&entity.Product{},
		&entity.Customer{},
		&entity.Sale{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDemoData creates an owner account from ADMIN_EMAIL/ADMIN_PASSWORD with
// a demo business, a main branch and the default customers. It is a no-op
// when the variables are unset or the account already exists.
func SeedDemoData(db *gorm.DB) error {
	adminEmail := strings.ToLower(strings.TrimSpace(viper.GetString("ADMIN_EMAIL")))
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail == "" || adminPassword == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping seed")
		return nil
	}

	var existing int64
	if err := db.Model(&entity.User{}).Where("LOWER(email) = ?", adminEmail).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		log.Printf("Owner account already exists: %s", adminEmail)
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	if adminName == "" {
		adminName = "Shop Owner"
	}
	firstName, lastName, _ := strings.Cut(adminName, " ")

	return db.Transaction(func(tx *gorm.DB) error {
		owner := &entity.User{
			FirstName: firstName,
			LastName:  lastName,
			Email:     adminEmail,
			Password:  string(hashedPassword),
			Provider:  entity.ProviderLocal,
		}
		if err := tx.Create(owner).Error; err != nil {
			return err
		}

		business := &entity.Business{
			Name:     "Demo Shop",
			OwnerID:  owner.ID,
			Settings: entity.DefaultBusinessSettings(),
		}
		if err := tx.Omit(clause.Associations).Create(business).Error; err != nil {
			return err
		}

		settings := entity.DefaultUserSettings(owner.ID)
		settings.CurrentBusinessID = &business.ID
		if err := tx.Omit(clause.Associations).Create(settings).Error; err != nil {
			return err
		}

		branch := &entity.Branch{BusinessID: business.ID, Name: "Main"}
		if err := tx.Omit(clause.Associations).Create(branch).Error; err != nil {
			return err
		}

		customers := entity.DefaultCustomers(business.ID)
		if err := tx.Omit(clause.Associations).Create(&customers).Error; err != nil {
			return err
		}

		log.Printf("Seeded owner %s with business %s", adminEmail, business.ID)
		return nil
	})
}
