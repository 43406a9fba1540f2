package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Taxonomies known to the sync core.
const (
	TaxonomySeries = "series"
	TaxonomyGenre  = "genre"
	TaxonomyFormat = "format"
)

// Term is a taxonomy value (series, genre, format). Slug is unique within
// its taxonomy; the resolver reuses an existing term before creating one.
type Term struct {
	ID       string `json:"id" gorm:"type:uuid;primary_key"`
	Taxonomy string `json:"taxonomy" gorm:"not null;uniqueIndex:idx_terms_taxonomy_slug"`
	Name     string `json:"name" gorm:"not null"`
	Slug     string `json:"slug" gorm:"not null;uniqueIndex:idx_terms_taxonomy_slug"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ObjectTerm links a book or product to a term. Taxonomy is denormalized
// so replace-mode association updates can scope deletes without a join.
type ObjectTerm struct {
	ID       string `json:"id" gorm:"type:uuid;primary_key"`
	ObjectID string `json:"object_id" gorm:"not null;index:idx_object_terms_object_taxonomy"`
	Taxonomy string `json:"taxonomy" gorm:"not null;index:idx_object_terms_object_taxonomy"`
	TermID   string `json:"term_id" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

func (t *Term) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

func (ot *ObjectTerm) BeforeCreate(tx *gorm.DB) error {
	if ot.ID == "" {
		ot.ID = uuid.New().String()
	}
	return nil
}
