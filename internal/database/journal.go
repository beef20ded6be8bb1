package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"recipe-importer/pkg/api"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultHistoryLimit = 50

// NewDatabase opens the journal database and migrates it. Postgres URLs use
// the postgres driver, anything else is treated as a sqlite file path.
func NewDatabase(url string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		dialector = postgres.Open(url)
	} else {
		if dir := filepath.Dir(url); dir != "." && !strings.HasPrefix(url, "file:") {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return nil, fmt.Errorf("error creating database directory: %w", err)
			}
		}
		dialector = sqlite.Open(url)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := GetMigrator(db).Migrate(); err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	slog.Info("opened import journal", "dialect", db.Dialector.Name())
	return db, nil
}

type Journal struct {
	db *gorm.DB
}

func NewJournal(db *gorm.DB) *Journal {
	return &Journal{db: db}
}

func (j *Journal) RecordImport(ctx context.Context, record api.ImportRecord) error {
	warnings, err := json.Marshal(record.Warnings)
	if err != nil {
		return fmt.Errorf("error serializing warnings: %w", err)
	}

	row := ImportRecord{
		Id:        record.Id,
		Name:      record.Name,
		Source:    record.Source,
		Ref:       record.Ref,
		Status:    record.Status,
		ErrorKind: record.ErrorKind,
		Error:     record.Error,
		Warnings:  warnings,
		Advisory:  record.Advisory,
		CreatedAt: record.CreatedAt,
	}

	if err := j.db.WithContext(ctx).Create(&row).Error; err != nil {
		slog.Error("error saving import record", "recipe", record.Name, "error", err)
		return fmt.Errorf("error saving import record: %w", err)
	}
	return nil
}

// ListImports returns the most recent records first. A limit of zero or less
// uses the default; an empty status matches every record.
func (j *Journal) ListImports(ctx context.Context, limit int, status string) ([]api.ImportRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	query := j.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if status != "" {
		query = query.Where("status = ?", strings.ToUpper(status))
	}

	var rows []ImportRecord
	if err := query.Find(&rows).Error; err != nil {
		slog.Error("error listing import records", "error", err)
		return nil, fmt.Errorf("error listing import records: %w", err)
	}

	records := make([]api.ImportRecord, 0, len(rows))
	for _, row := range rows {
		var warnings []string
		if len(row.Warnings) > 0 {
			if err := json.Unmarshal(row.Warnings, &warnings); err != nil {
				return nil, fmt.Errorf("invalid warnings for import record %s: %w", row.Id, err)
			}
		}
		records = append(records, api.ImportRecord{
			Id:        row.Id,
			Name:      row.Name,
			Source:    row.Source,
			Ref:       row.Ref,
			Status:    row.Status,
			ErrorKind: row.ErrorKind,
			Error:     row.Error,
			Warnings:  warnings,
			Advisory:  row.Advisory,
			CreatedAt: row.CreatedAt,
		})
	}
	return records, nil
}
