package models

import "time"

// LanguageOption is one entry of the storefront language switcher. The set
// is replaced wholesale whenever a sync payload carries a languages array,
// so rows never merge with previous state.
type LanguageOption struct {
	Code          string `json:"code" gorm:"primary_key"`
	Label         string `json:"label" gorm:"not null"`
	Locale        string `json:"locale"`
	TextDirection string `json:"text_direction"`
	Position      int    `json:"position" gorm:"not null;default:0"`

	UpdatedAt time.Time `json:"updated_at"`
}
