// Package session holds per-visitor page state and the upload/analyze flow that drives it.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio-site/internal/gallery"
	"github.com/jonathan/portfolio-site/internal/types"
)

// State is everything the page needs to render for one visitor.
type State struct {
	ID       string                `json:"id"`
	Status   types.Status          `json:"status"`
	Preview  string                `json:"preview,omitempty"` // data URL of the last upload
	Record   *types.AnalysisRecord `json:"record,omitempty"`
	Applied  *types.AnalysisRecord `json:"applied,omitempty"` // record the hero copy was adapted from
	Language types.Language        `json:"language"`
	Tab      types.Tab             `json:"tab"`
	Gallery  *gallery.Carousel     `json:"gallery,omitempty"`
	Flash    string                `json:"flash,omitempty"`   // translation tag of a one-shot notification

	Generation uint64    `json:"generation"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// NewState returns the state of a first visit.
func NewState(id string) *State {
	return &State{
		ID:       id,
		Status:   types.StatusIdle,
		Language: types.DefaultLanguage,
		Tab:      types.TabHome,
	}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.Record = cloneRecord(s.Record)
	c.Applied = cloneRecord(s.Applied)
	if s.Gallery != nil {
		g := *s.Gallery
		c.Gallery = &g
	}
	return &c
}

func cloneRecord(r *types.AnalysisRecord) *types.AnalysisRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.KeySkills = cloneStrings(r.KeySkills)
	c.TargetKeywords = cloneStrings(r.TargetKeywords)
	c.Stack = cloneStrings(r.Stack)
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
