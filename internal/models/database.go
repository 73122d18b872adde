package models

import (
	"fmt"

	"github.com/onebase1/guestglow-backend/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&Tenant{},
		&User{},
		&Feedback{},
		&ExternalReview{},
		&ReviewResponse{},
		&ResponseApproval{},
		&ApprovalToken{},
		&CommunicationLog{},
		&EscalationRule{},
		&EscalationStats{},
		&RatingGoal{},
		&DailyRatingProgress{},
		&AIProviderConfig{},
		&SystemConfig{},
		&SystemLog{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates default data if not exists
func SeedDefaultData() error {
	// Platform-wide default escalation rules. Per-tenant overrides are created
	// through the API; these only apply when no tenant rule matches.
	defaultRules := []EscalationRule{
		{Category: "cleanliness", ThresholdHours: 4, IsActive: true},
		{Category: "maintenance", ThresholdHours: 2, IsActive: true},
		{Category: "staff_service", ThresholdHours: 4, IsActive: true},
		{Category: "food_beverage", ThresholdHours: 6, IsActive: true},
		{Category: "noise", ThresholdHours: 8, IsActive: true},
		{Category: "general", ThresholdHours: 12, IsActive: true},
	}

	for _, rule := range defaultRules {
		var count int64
		DB.Model(&EscalationRule{}).
			Where("tenant_id IS NULL AND category = ?", rule.Category).
			Count(&count)
		if count == 0 {
			if err := DB.Create(&rule).Error; err != nil {
				return err
			}
		}
	}

	// Default system configs
	defaultConfigs := []SystemConfig{
		{Key: "log_retention_days", Value: "30", Type: "int", Group: "system", Label: "System Log Retention Days"},
		{Key: "digest_enabled", Value: "false", Type: "bool", Group: "digest", Label: "Enable Daily Digest Email"},
		{Key: "digest_time", Value: "08:00", Type: "string", Group: "digest", Label: "Daily Digest Send Time"},
		{Key: "digest_country", Value: "NONE", Type: "string", Group: "digest", Label: "Business Calendar Country"},
	}

	for _, cfg := range defaultConfigs {
		var count int64
		DB.Model(&SystemConfig{}).Where("config_key = ?", cfg.Key).Count(&count)
		if count == 0 {
			if err := DB.Create(&cfg).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
