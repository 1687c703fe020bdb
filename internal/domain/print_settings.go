package domain

import "time"

// PrintSettings Model. Only the most recent row is ever read.
type PrintSettings struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PageSize       string    `gorm:"size:32;not null;default:A4" json:"page_size"`
	CustomWidth    float64   `gorm:"not null;default:21" json:"custom_width"`
	CustomHeight   float64   `gorm:"not null;default:29.7" json:"custom_height"`
	CardColorStart string    `gorm:"size:16;not null;default:#1e3c72" json:"card_color_start"`
	CardColorEnd   string    `gorm:"size:16;not null;default:#2a5298" json:"card_color_end"`
	LogoID         *uint     `gorm:"index" json:"logo_id"`
	LogoPosition   string    `gorm:"size:32;not null;default:top-center" json:"logo_position"`
	LogoSize       int       `gorm:"not null;default:100" json:"logo_size"`
	FontSize       int       `gorm:"not null;default:28" json:"font_size"`
	FontColor      string    `gorm:"size:16;not null;default:#ffffff" json:"font_color"`
	BorderEnabled  bool      `gorm:"not null;default:false" json:"border_enabled"`
	BorderColor    string    `gorm:"size:16;not null;default:#ffffff" json:"border_color"`
	BorderWidth    int       `gorm:"not null;default:2" json:"border_width"`
	CardMode       string    `gorm:"size:16;not null;default:grid" json:"card_mode"`
	CardWidth      int       `gorm:"not null;default:50" json:"card_width"`
	CardHeight     int       `gorm:"not null;default:50" json:"card_height"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DefaultPrintSettings returns the layout used when nothing has been saved
func DefaultPrintSettings() PrintSettings {
	return PrintSettings{
		PageSize:       "A4",
		CustomWidth:    21,
		CustomHeight:   29.7,
		CardColorStart: "#1e3c72",
		CardColorEnd:   "#2a5298",
		LogoPosition:   "top-center",
		LogoSize:       100,
		FontSize:       28,
		FontColor:      "#ffffff",
		BorderEnabled:  false,
		BorderColor:    "#ffffff",
		BorderWidth:    2,
		CardMode:       "grid",
		CardWidth:      50,
		CardHeight:     50,
	}
}
