package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product mirrors a synced book as a sellable catalog entry. It shares the
// book's external_id and carries a back-reference to the book record.
type Product struct {
	ID          string  `json:"id" gorm:"type:uuid;primary_key"`
	ExternalID  string  `json:"external_id" gorm:"not null;index"`
	Title       string  `json:"title" gorm:"not null"`
	Description string  `json:"description"`
	Excerpt     string  `json:"excerpt"`
	Status      string  `json:"status" gorm:"default:publish"`
	BookID      *string `json:"book_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Variations []Variation `json:"variations,omitempty" gorm:"foreignKey:ProductID"`
}

// Variation is a per-format sellable unit of a product, keyed by
// (product_id, format_code). Always virtual and downloadable.
type Variation struct {
	ID           string          `json:"id" gorm:"type:uuid;primary_key"`
	ProductID    string          `json:"product_id" gorm:"not null;index"`
	FormatCode   string          `json:"format_code" gorm:"not null"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	Status       string          `json:"status" gorm:"default:publish"`
	Virtual      bool            `json:"virtual" gorm:"default:true"`
	Downloadable bool            `json:"downloadable" gorm:"default:true"`

	// Download link, present when the sync payload carried a download_url.
	// DownloadID is derived deterministically from (product id, format code)
	// so re-syncs overwrite rather than append.
	DownloadID   string `json:"download_id"`
	DownloadName string `json:"download_name"`
	DownloadURL  string `json:"download_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (v *Variation) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}
