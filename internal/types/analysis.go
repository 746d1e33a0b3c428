// Package types provides type definitions for structured data used throughout the portfolio site.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// AnalysisRecord is the structured result of one successful inference call over a job posting screenshot.
type AnalysisRecord struct {
	Company        string   `json:"company" validate:"required"`
	Role           string   `json:"role" validate:"required"`
	KeySkills      []string `json:"key_skills"`
	Vibe           string   `json:"vibe"`
	TargetKeywords []string `json:"target_keywords"`

	// Optional fields some model replies carry; the applier prefers them when present.
	Experience string   `json:"experience,omitempty"`
	Stack      []string `json:"stack,omitzero"` // an empty list is kept; it means "no skills shown"
}

// Validate checks the fields the adaptation applier cannot do without.
func (r *AnalysisRecord) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Status is the state of an upload session.
type Status string

// Upload session states
const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusResult  Status = "result"
)

// EncodedImage is an image converted to a text-safe payload for a JSON request body.
type EncodedImage struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64, no data-URL prefix
	Size     int    `json:"size"`
}

// DataURL returns the image as a data URL suitable for an <img> preview.
func (e EncodedImage) DataURL() string {
	if e.Data == "" {
		return ""
	}
	return "data:" + e.MimeType + ";base64," + e.Data
}
