package migration_0

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// The first journal release, before pending downloads were recorded.
type ImportRecord struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name   string `gorm:"index;not null"`
	Source string `gorm:"size:20;not null"`
	Ref    string
	Status string `gorm:"size:20;not null;index"`

	ErrorKind string `gorm:"size:20"`
	Error     string

	Warnings datatypes.JSON

	CreatedAt time.Time `gorm:"index"`
}

func Migration(db *gorm.DB) error {
	return db.AutoMigrate(&ImportRecord{})
}
