package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"letterflow_app_go/pagination"
)

// Letter status constants
const (
	LetterStatusDraft = "draft"
	LetterStatusFinal = "final"
)

// Supported page sizes
const (
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
	PageSizeA4     = "A4"
)

// Letter is one legal letter: the rich-text content in the editor
// dialect plus the page settings the paginated editor needs. Margins are
// stored in pixels at 96dpi, matching the editor's page simulation.
type Letter struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Owner scoping
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Title string `gorm:"not null" json:"title"`

	// Content (rich-text HTML in the editor dialect; never empty, the
	// canonical empty letter is a single empty paragraph)
	Content string `gorm:"type:text;not null" json:"content"`

	// Drafting instructions handed to the AI drafter
	Instructions string `gorm:"type:text" json:"instructions"`

	Status string `gorm:"not null;default:draft" json:"status"`

	// Page settings (pixels at 96dpi)
	PageSize     string `gorm:"not null;default:A4" json:"page_size"`
	MarginTop    int    `gorm:"not null;default:72" json:"margin_top"`
	MarginBottom int    `gorm:"not null;default:72" json:"margin_bottom"`
	MarginLeft   int    `gorm:"not null;default:72" json:"margin_left"`
	MarginRight  int    `gorm:"not null;default:72" json:"margin_right"`

	LastExportedAt *time.Time `json:"last_exported_at"`
}

// BeforeCreate hook to generate UUID
func (l *Letter) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Letter model
func (Letter) TableName() string {
	return "letters"
}

// Margins returns the letter's stored margin configuration.
func (l *Letter) Margins() pagination.Margins {
	return pagination.Margins{
		Top:    l.MarginTop,
		Bottom: l.MarginBottom,
		Left:   l.MarginLeft,
		Right:  l.MarginRight,
	}.Clamped()
}

// SetMargins stores a margin configuration on the letter.
func (l *Letter) SetMargins(m pagination.Margins) {
	m = m.Clamped()
	l.MarginTop = m.Top
	l.MarginBottom = m.Bottom
	l.MarginLeft = m.Left
	l.MarginRight = m.Right
}

// PageOptions maps the letter's page size to pixel dimensions at 96dpi.
// Unknown values fall back to A4.
func (l *Letter) PageOptions() pagination.Options {
	opts := pagination.DefaultOptions()
	switch l.PageSize {
	case PageSizeLetter:
		opts.PageWidthPx = 816  // 8.5"
		opts.PageHeightPx = 1056 // 11"
	case PageSizeLegal:
		opts.PageWidthPx = 816
		opts.PageHeightPx = 1344 // 14"
	}
	return opts
}

// IsValidStatus checks if the status value is supported
func IsValidStatus(status string) bool {
	return status == LetterStatusDraft || status == LetterStatusFinal
}

// IsValidPageSize checks if the page size is supported
func IsValidPageSize(size string) bool {
	return size == PageSizeLetter || size == PageSizeLegal || size == PageSizeA4
}
