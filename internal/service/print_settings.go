package service

import (
	"context" // Request scoped context
	"fmt"     // Error wrapping

	"catalog_system/internal/apperr" // Typed application errors
	"catalog_system/internal/domain" // Domain models

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // ORM
)

// PrintSettingsInput holds the fields a caller sent. Nil fields fall back to
// the defaults in domain.DefaultPrintSettings.
type PrintSettingsInput struct {
	PageSize       *string  `json:"page_size"`
	CustomWidth    *float64 `json:"custom_width"`
	CustomHeight   *float64 `json:"custom_height"`
	CardColorStart *string  `json:"card_color_start"`
	CardColorEnd   *string  `json:"card_color_end"`
	LogoID         *uint    `json:"logo_id"`
	LogoPosition   *string  `json:"logo_position"`
	LogoSize       *int     `json:"logo_size"`
	FontSize       *int     `json:"font_size"`
	FontColor      *string  `json:"font_color"`
	BorderEnabled  *bool    `json:"border_enabled"`
	BorderColor    *string  `json:"border_color"`
	BorderWidth    *int     `json:"border_width"`
	CardMode       *string  `json:"card_mode"`
	CardWidth      *int     `json:"card_width"`
	CardHeight     *int     `json:"card_height"`
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (in PrintSettingsInput) apply() domain.PrintSettings {
	ps := domain.DefaultPrintSettings()
	set(&ps.PageSize, in.PageSize)
	set(&ps.CustomWidth, in.CustomWidth)
	set(&ps.CustomHeight, in.CustomHeight)
	set(&ps.CardColorStart, in.CardColorStart)
	set(&ps.CardColorEnd, in.CardColorEnd)
	ps.LogoID = in.LogoID
	set(&ps.LogoPosition, in.LogoPosition)
	set(&ps.LogoSize, in.LogoSize)
	set(&ps.FontSize, in.FontSize)
	set(&ps.FontColor, in.FontColor)
	set(&ps.BorderEnabled, in.BorderEnabled)
	set(&ps.BorderColor, in.BorderColor)
	set(&ps.BorderWidth, in.BorderWidth)
	set(&ps.CardMode, in.CardMode)
	set(&ps.CardWidth, in.CardWidth)
	set(&ps.CardHeight, in.CardHeight)
	return ps
}

// PrintSettingsView is the effective settings row with its logo's file name.
type PrintSettingsView struct {
	domain.PrintSettings
	LogoFilename *string `json:"logo_filename"`
}

// PrintSettingsService reads and updates the singleton print settings row.
type PrintSettingsService struct {
	db *gorm.DB
}

// NewPrintSettingsService creates a PrintSettingsService backed by db.
func NewPrintSettingsService(db *gorm.DB) *PrintSettingsService {
	return &PrintSettingsService{db: db}
}

func latest(tx *gorm.DB) (*domain.PrintSettings, error) {
	var ps domain.PrintSettings
	if err := tx.Order("id desc").Limit(1).Find(&ps).Error; err != nil {
		return nil, fmt.Errorf("load print settings: %w", err)
	}
	if ps.ID == 0 {
		return nil, nil
	}
	return &ps, nil
}

// Get returns the effective settings, or nil when none were ever saved.
func (s *PrintSettingsService) Get(ctx context.Context) (*PrintSettingsView, error) {
	db := s.db.WithContext(ctx)
	ps, err := latest(db)
	if err != nil || ps == nil {
		return nil, err
	}
	view := &PrintSettingsView{PrintSettings: *ps}
	if ps.LogoID != nil {
		var logo domain.Logo
		if err := db.Where("id = ?", *ps.LogoID).Limit(1).Find(&logo).Error; err != nil {
			return nil, fmt.Errorf("load settings logo: %w", err)
		}
		if logo.ID != 0 {
			view.LogoFilename = &logo.Filename
		}
	}
	return view, nil
}

// Save updates the effective row in place, or inserts it when none exists.
func (s *PrintSettingsService) Save(ctx context.Context, in PrintSettingsInput) (*domain.PrintSettings, error) {
	ps := in.apply()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ps.LogoID != nil {
			var n int64
			if err := tx.Model(&domain.Logo{}).Where("id = ?", *ps.LogoID).Count(&n).Error; err != nil {
				return fmt.Errorf("check logo: %w", err)
			}
			if n == 0 {
				return apperr.Validation("Invalid logo_id")
			}
		}
		current, err := latest(tx)
		if err != nil {
			return err
		}
		if current == nil {
			return tx.Create(&ps).Error
		}
		ps.ID = current.ID
		return tx.Model(&domain.PrintSettings{}).Where("id = ?", current.ID).Select("*").Omit("id").Updates(&ps).Error
	})
	if err != nil {
		return nil, err
	}
	logrus.WithField("settings_id", ps.ID).Info("Print settings saved")
	return &ps, nil
}
