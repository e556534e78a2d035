package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SiteSetting is one key/value pair of the flat settings table.
type SiteSetting struct {
	Key       string    `json:"key" gorm:"type:text;primaryKey"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

// SettingsInput is the body of a bulk settings upsert. String values are
// stored verbatim; any other JSON value is stored as its JSON text.
type SettingsInput map[string]json.RawMessage

func (in SettingsInput) Rows() []SiteSetting {
	now := time.Now().UTC()
	rows := make([]SiteSetting, 0, len(in))
	for key, raw := range in {
		rows = append(rows, SiteSetting{Key: key, Value: settingValue(raw), UpdatedAt: now})
	}
	return rows
}

func settingValue(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	return string(trimmed)
}

// FoldSettings turns the table into one object.
func FoldSettings(rows []SiteSetting) map[string]string {
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out
}

const RoleAdmin = "admin"

// AdminUser can sign in to the admin panel. The API never creates or deletes one.
type AdminUser struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string     `json:"email" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"type:text;not null"`
	Role         string     `json:"role" gorm:"type:text;not null"`
	CreatedAt    time.Time  `json:"created_at" gorm:"not null"`
	LastSignIn   *time.Time `json:"last_sign_in"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}

func (u *AdminUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
