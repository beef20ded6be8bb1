package migration_1

import (
	"fmt"

	"gorm.io/gorm"
)

type ImportRecord struct {
	Advisory string
}

func Migration(db *gorm.DB) error {
	if err := db.Migrator().AddColumn(&ImportRecord{}, "advisory"); err != nil {
		return fmt.Errorf("error adding advisory column: %w", err)
	}

	if err := db.Model(&ImportRecord{}).
		Where("advisory IS NULL").
		Update("advisory", "").Error; err != nil {
		return fmt.Errorf("error setting default value for advisory: %w", err)
	}

	return nil
}

func Rollback(db *gorm.DB) error {
	if err := db.Migrator().DropColumn(&ImportRecord{}, "advisory"); err != nil {
		return fmt.Errorf("error dropping advisory column: %w", err)
	}
	return nil
}
