package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SourceDocument is an uploaded PDF a letter draws on: correspondence,
// contracts, evidence. Files live in object storage (or the local
// fallback) under StorageKey.
type SourceDocument struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID   string  `gorm:"type:uuid;not null;index" json:"user_id"`
	LetterID string  `gorm:"type:uuid;not null;index" json:"letter_id"`
	Letter   *Letter `gorm:"foreignKey:LetterID" json:"letter,omitempty"`

	FileName         string `gorm:"not null" json:"file_name"`
	FileOriginalName string `gorm:"not null" json:"file_original_name"`
	StorageKey       string `gorm:"not null" json:"-"`
	FileSize         int64  `gorm:"not null" json:"file_size"`
	MimeType         string `gorm:"not null" json:"mime_type"`
}

// BeforeCreate hook to generate UUID
func (d *SourceDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for SourceDocument model
func (SourceDocument) TableName() string {
	return "source_documents"
}
