package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ImportRecord is one journaled import attempt. Status holds SUCCEEDED,
// FAILED or SKIPPED.
type ImportRecord struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name   string `gorm:"index;not null"`
	Source string `gorm:"size:20;not null"`
	Ref    string
	Status string `gorm:"size:20;not null;index"`

	ErrorKind string `gorm:"size:20"`
	Error     string

	Warnings datatypes.JSON
	Advisory string

	CreatedAt time.Time `gorm:"index"`
}
