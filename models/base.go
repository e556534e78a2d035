package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Base carries the surrogate key and timestamps shared by every row.
type Base struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Input is implemented by every create/update payload.
type Input[M any] interface {
	ValidateCreate() error
	ValidateUpdate() error
	// Model builds a new row with defaults applied.
	Model() *M
	// Updates returns the column assignments for a partial update.
	Updates() map[string]any
}

func orDefault[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

func orEmpty[T any](v *[]T) []T {
	if v == nil || *v == nil {
		return []T{}
	}
	return *v
}

func stamp(p patch) map[string]any {
	p["updated_at"] = time.Now().UTC()
	return p
}
