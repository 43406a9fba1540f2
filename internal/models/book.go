package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book is the canonical record synced from the MPA app. ExternalID is the
// upstream natural key; it is intentionally not unique-indexed because the
// upstream store made no such guarantee, lookups take the first match.
type Book struct {
	ID            string  `json:"id" gorm:"type:uuid;primary_key"`
	ExternalID    string  `json:"external_id" gorm:"not null;index"`
	Title         string  `json:"title" gorm:"not null"`
	Description   string  `json:"description"`
	Excerpt       string  `json:"excerpt"`
	Status        string  `json:"status" gorm:"default:publish"`
	Slug          string  `json:"slug"`
	Language      string  `json:"language"`
	Locale        string  `json:"locale"`
	TextDirection string  `json:"text_direction" gorm:"default:ltr"`
	CoverImageURL string  `json:"cover_image_url"`
	ProductID     *string `json:"product_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookStatus string

const (
	StatusPublish BookStatus = "publish"
	StatusDraft   BookStatus = "draft"
	StatusPending BookStatus = "pending"
	StatusPrivate BookStatus = "private"
)

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}
