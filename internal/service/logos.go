package service

import (
	"context"       // Request scoped context
	"errors"        // Error inspection
	"fmt"           // Error wrapping
	"io"            // Upload streams
	"path/filepath" // File extensions
	"strings"       // String trimming

	"catalog_system/internal/apperr"  // Typed application errors
	"catalog_system/internal/domain"  // Domain models
	"catalog_system/internal/storage" // Logo file storage

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // ORM
)

// MaxLogoSize is the largest accepted logo upload (5 MiB).
const MaxLogoSize = 5 << 20

// AllowedLogoExtensions lists the accepted logo file types.
var AllowedLogoExtensions = []string{"png", "jpg", "jpeg", "gif", "webp"}

// LogoUpload is one uploaded logo file.
type LogoUpload struct {
	Filename string    // Original client file name
	Size     int64     // Declared size, checked before reading
	Content  io.Reader // File payload
	Name     string    // Optional display name
}

// LogoService manages uploaded and default logos.
type LogoService struct {
	db    *gorm.DB
	files storage.FileStore
}

// NewLogoService creates a LogoService storing files in files.
func NewLogoService(db *gorm.DB, files storage.FileStore) *LogoService {
	return &LogoService{db: db, files: files}
}

// List returns all logos in insertion order.
func (s *LogoService) List(ctx context.Context) ([]domain.Logo, error) {
	var logos []domain.Logo
	if err := s.db.WithContext(ctx).Order("id").Find(&logos).Error; err != nil {
		return nil, fmt.Errorf("list logos: %w", err)
	}
	return logos, nil
}

func allowedExtension(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	for _, allowed := range AllowedLogoExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

var (
	errNoFile     = apperr.Validation("No file uploaded")
	errEmptyFile  = apperr.Validation("Uploaded file is empty")
	errFileType   = apperr.Validation("File type not allowed. Allowed types: " + strings.Join(AllowedLogoExtensions, ", "))
	errFileTooBig = apperr.Validation("File too large. Maximum size is 5MB")
)

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Create stores the uploaded file, then records it as a custom logo. The file
// is removed again if the row cannot be inserted.
func (s *LogoService) Create(ctx context.Context, up LogoUpload) (*domain.Logo, error) {
	if up.Content == nil || up.Filename == "" {
		return nil, errNoFile
	}
	if !allowedExtension(up.Filename) {
		return nil, errFileType
	}
	if up.Size > MaxLogoSize {
		return nil, errFileTooBig
	}

	counter := &countingReader{r: io.LimitReader(up.Content, MaxLogoSize+1)}
	stored, err := s.files.Save(up.Filename, counter)
	if err != nil {
		return nil, fmt.Errorf("store logo file: %w", err)
	}
	switch {
	case counter.n == 0:
		_ = s.files.Remove(stored)
		return nil, errEmptyFile
	case counter.n > MaxLogoSize:
		_ = s.files.Remove(stored)
		return nil, errFileTooBig
	}

	name := strings.TrimSpace(up.Name)
	if name == "" {
		base := filepath.Base(up.Filename)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	logo := domain.Logo{Name: name, Filename: stored, Type: domain.LogoTypeCustom}
	if err := s.db.WithContext(ctx).Create(&logo).Error; err != nil {
		if rmErr := s.files.Remove(stored); rmErr != nil {
			logrus.WithError(rmErr).WithField("filename", stored).Warn("Orphaned logo file")
		}
		return nil, fmt.Errorf("create logo: %w", err)
	}
	logrus.WithFields(logrus.Fields{"logo_id": logo.ID, "filename": stored}).Info("Logo uploaded")
	return &logo, nil
}

// Delete removes a custom logo's file, detaches it from print settings and
// deletes the row. The seeded white and black logos are protected.
func (s *LogoService) Delete(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	var logo domain.Logo
	if err := db.First(&logo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrLogoNotFound
		}
		return fmt.Errorf("find logo %d: %w", id, err)
	}
	if logo.IsDefault() {
		return apperr.ErrDefaultLogoProtected
	}
	if err := s.files.Remove(logo.Filename); err != nil {
		return fmt.Errorf("remove logo file %s: %w", logo.Filename, err)
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.PrintSettings{}).Where("logo_id = ?", id).Update("logo_id", nil).Error; err != nil {
			return fmt.Errorf("detach print settings: %w", err)
		}
		return tx.Delete(&logo).Error
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"logo_id": id, "filename": logo.Filename}).Info("Logo deleted")
	return nil
}
