package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	MaxUploadSize   = 10 * 1024 * 1024 // 10MB
	AllowedMimeType = "application/pdf"
)

// ValidatePDFUpload checks if the uploaded file is a valid PDF within size limits
func ValidatePDFUpload(fileHeader *multipart.FileHeader) error {
	// Check file size
	if fileHeader.Size > MaxUploadSize {
		return fmt.Errorf("file size exceeds maximum allowed size of 10MB")
	}

	// Check file extension
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".pdf" {
		return fmt.Errorf("only PDF files are allowed")
	}

	// Open file to check MIME type
	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	// Read first 512 bytes to detect content type
	buffer := make([]byte, 512)
	_, err = file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file content: %w", err)
	}

	// Check if it's a PDF (PDF files start with %PDF)
	if len(buffer) < 4 || string(buffer[0:4]) != "%PDF" {
		return fmt.Errorf("file is not a valid PDF")
	}

	return nil
}

// StoreSourceDocument validates and uploads a source PDF for a letter,
// returning the storage result with the generated key.
func StoreSourceDocument(ctx context.Context, fileHeader *multipart.FileHeader, userID, letterID string) (*StorageResult, error) {
	if Storage == nil {
		return nil, fmt.Errorf("storage not initialized")
	}

	if err := ValidatePDFUpload(fileHeader); err != nil {
		return nil, err
	}

	key := GenerateSourceDocumentKey(userID, letterID, fileHeader.Filename)

	result, err := Storage.Upload(ctx, fileHeader, key)
	if err != nil {
		return nil, fmt.Errorf("failed to store source document: %w", err)
	}

	result.FileOriginalName = fileHeader.Filename
	result.MimeType = AllowedMimeType
	return result, nil
}
