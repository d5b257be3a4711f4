package services

import (
	"fmt"
	"strings"
	"time"

	"letterflow_app_go/models"
	"letterflow_app_go/pagination"
	"letterflow_app_go/richtext"

	"gorm.io/gorm"
)

const MaxLetterTitleLength = 200

// CreateLetter creates a new draft letter for a user. The content starts
// as the canonical empty document.
func CreateLetter(db *gorm.DB, userID, title string) (*models.Letter, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if len(title) > MaxLetterTitleLength {
		return nil, fmt.Errorf("title must be at most %d characters", MaxLetterTitleLength)
	}

	letter := &models.Letter{
		UserID:   userID,
		Title:    title,
		Content:  richtext.Serialize(richtext.EmptyDoc()),
		Status:   models.LetterStatusDraft,
		PageSize: models.PageSizeA4,
	}
	letter.SetMargins(pagination.DefaultMargins())

	if err := db.Create(letter).Error; err != nil {
		return nil, fmt.Errorf("failed to create letter: %w", err)
	}

	return letter, nil
}

// GetLetter fetches a letter scoped to its owner
func GetLetter(db *gorm.DB, userID, letterID string) (*models.Letter, error) {
	var letter models.Letter
	err := db.Where("id = ? AND user_id = ?", letterID, userID).First(&letter).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("letter not found")
		}
		return nil, fmt.Errorf("failed to fetch letter: %w", err)
	}
	return &letter, nil
}

// ListLetters returns all letters owned by a user, newest first
func ListLetters(db *gorm.DB, userID string) ([]models.Letter, error) {
	var letters []models.Letter
	err := db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&letters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list letters: %w", err)
	}
	return letters, nil
}

// UpdateLetterContent validates and saves the editor's content for a letter.
// Content must parse in the editor dialect; invalid markup is rejected and
// the stored content is left untouched.
func UpdateLetterContent(db *gorm.DB, userID, letterID, content string) (*models.Letter, error) {
	letter, err := GetLetter(db, userID, letterID)
	if err != nil {
		return nil, err
	}

	doc, err := richtext.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("invalid letter content: %w", err)
	}
	doc.Normalize()
	canonical := richtext.Serialize(doc)

	if err := db.Model(letter).Update("content", canonical).Error; err != nil {
		return nil, fmt.Errorf("failed to update letter content: %w", err)
	}
	letter.Content = canonical
	return letter, nil
}

// UpdateLetterMargins stores a new margin configuration for a letter.
// Negative values are clamped to zero before saving.
func UpdateLetterMargins(db *gorm.DB, userID, letterID string, m pagination.Margins) (*models.Letter, error) {
	letter, err := GetLetter(db, userID, letterID)
	if err != nil {
		return nil, err
	}

	letter.SetMargins(m)
	updates := map[string]interface{}{
		"margin_top":    letter.MarginTop,
		"margin_bottom": letter.MarginBottom,
		"margin_left":   letter.MarginLeft,
		"margin_right":  letter.MarginRight,
	}
	if err := db.Model(letter).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update letter margins: %w", err)
	}
	return letter, nil
}

// UpdateLetterPageSize stores a new page size for a letter
func UpdateLetterPageSize(db *gorm.DB, userID, letterID, size string) (*models.Letter, error) {
	letter, err := GetLetter(db, userID, letterID)
	if err != nil {
		return nil, err
	}

	if !models.IsValidPageSize(size) {
		return nil, fmt.Errorf("invalid page size: %s", size)
	}

	if err := db.Model(letter).Update("page_size", size).Error; err != nil {
		return nil, fmt.Errorf("failed to update page size: %w", err)
	}
	letter.PageSize = size
	return letter, nil
}

// UpdateLetterDetails updates title, instructions and status
func UpdateLetterDetails(db *gorm.DB, userID, letterID, title, instructions, status string) (*models.Letter, error) {
	letter, err := GetLetter(db, userID, letterID)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if len(title) > MaxLetterTitleLength {
		return nil, fmt.Errorf("title must be at most %d characters", MaxLetterTitleLength)
	}
	if status != "" && !models.IsValidStatus(status) {
		return nil, fmt.Errorf("invalid status: %s", status)
	}

	updates := map[string]interface{}{
		"title":        title,
		"instructions": instructions,
	}
	if status != "" {
		updates["status"] = status
	}

	if err := db.Model(letter).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update letter: %w", err)
	}

	letter.Title = title
	letter.Instructions = instructions
	if status != "" {
		letter.Status = status
	}
	return letter, nil
}

// DeleteLetter soft-deletes a letter and its source document records
func DeleteLetter(db *gorm.DB, userID, letterID string) error {
	letter, err := GetLetter(db, userID, letterID)
	if err != nil {
		return err
	}

	tx := db.Begin()
	if err := tx.Where("letter_id = ?", letter.ID).Delete(&models.SourceDocument{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete source documents: %w", err)
	}
	if err := tx.Delete(letter).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete letter: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit letter deletion: %w", err)
	}
	return nil
}

// MarkLetterExported records the time of the latest export
func MarkLetterExported(db *gorm.DB, letter *models.Letter) error {
	now := time.Now()
	if err := db.Model(letter).Update("last_exported_at", now).Error; err != nil {
		return fmt.Errorf("failed to record export time: %w", err)
	}
	letter.LastExportedAt = &now
	return nil
}
