package api

import (
	"time"

	"github.com/google/uuid"
)

type DatasetRef struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

type ModelRef struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// RecipeDescriptor is a gallery entry. ZOrder is only used for ordering the
// gallery and is never sent back to the backend.
type RecipeDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Plugin      string         `json:"plugin,omitempty"`
	Dataset     *DatasetRef    `json:"dataset,omitempty"`
	Model       *ModelRef      `json:"model,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Config      map[string]any `json:"config,omitempty"`
	ZOrder      *int           `json:"zOrder,omitempty"`
}

type AssetStatus struct {
	Path       string `json:"path"`
	Downloaded bool   `json:"downloaded"`
}

type UploadData struct {
	Model   *AssetStatus `json:"model,omitempty"`
	Dataset *AssetStatus `json:"dataset,omitempty"`
}

// UploadResult is the raw body returned by the recipe import endpoint.
type UploadResult struct {
	Status  string      `json:"status,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    *UploadData `json:"data,omitempty"`
}

type FileImportRequest struct {
	Paths           []string `json:"paths"`
	FilterExtension bool     `json:"filterExtension"`
}

type FileImportFailure struct {
	Ref   string `json:"ref"`
	Error string `json:"error"`
}

type BatchReport struct {
	Attempted int                 `json:"attempted"`
	Succeeded int                 `json:"succeeded"`
	Skipped   int                 `json:"skipped"`
	Failed    []FileImportFailure `json:"failed,omitempty"`
}

type StatusResponse struct {
	Busy     bool `json:"busy"`
	InFlight int  `json:"inFlight"`
}

type ImportResponse struct {
	Name     string   `json:"name"`
	Warnings []string `json:"warnings,omitempty"`
	Advisory string   `json:"advisory,omitempty"`
}

type ImportRecord struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	Ref       string    `json:"ref"`
	Status    string    `json:"status"`
	ErrorKind string    `json:"errorKind,omitempty"`
	Error     string    `json:"error,omitempty"`
	Warnings  []string  `json:"warnings,omitempty"`
	Advisory  string    `json:"advisory,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListImportsParams struct {
	Limit  int    `schema:"limit"`
	Status string `schema:"status"`
}

type Notice struct {
	Level   string    `json:"level"`
	Recipe  string    `json:"recipe,omitempty"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

type ModelDetail struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value any    `json:"value"`
}
