// Package store is the persistence layer the sync core talks to through
// find-or-create verbs. Lookups by external_id are limited to a single
// row; when duplicates exist the first match wins.
package store

import (
	"booksync/internal/logger"
	"booksync/internal/models"

	"gorm.io/gorm"
)

type ContentStore struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewContentStore(db *gorm.DB, logger *logger.Logger) *ContentStore {
	return &ContentStore{
		db:     db,
		logger: logger,
	}
}

// DB exposes the underlying handle for read-side queries.
func (s *ContentStore) DB() *gorm.DB {
	return s.db
}

// FindOrCreateBookByExternalID returns the book matching externalID,
// creating an empty one when none exists. The create is not atomic with
// the lookup; concurrent syncs of a brand-new external_id can race.
func (s *ContentStore) FindOrCreateBookByExternalID(externalID string) (*models.Book, error) {
	var book models.Book
	err := s.db.Where("external_id = ?", externalID).First(&book).Error
	if err == gorm.ErrRecordNotFound {
		book = models.Book{ExternalID: externalID}
		if err := s.db.Create(&book).Error; err != nil {
			return nil, err
		}
		return &book, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *ContentStore) SaveBook(book *models.Book) error {
	return s.db.Save(book).Error
}

// FindOrCreateTerm resolves a taxonomy term by slug, reusing whichever
// term already carries it. Name collisions on distinct slugs create
// separate terms; the resolver does not disambiguate.
func (s *ContentStore) FindOrCreateTerm(taxonomy, name, slug string) (*models.Term, error) {
	var term models.Term
	err := s.db.Where("taxonomy = ? AND slug = ?", taxonomy, slug).First(&term).Error
	if err == gorm.ErrRecordNotFound {
		term = models.Term{Taxonomy: taxonomy, Name: name, Slug: slug}
		if err := s.db.Create(&term).Error; err != nil {
			return nil, err
		}
		return &term, nil
	}
	if err != nil {
		return nil, err
	}
	return &term, nil
}

// SetObjectTerms associates an object with terms in one taxonomy. With
// appendTerms false the given set replaces all prior associations in that
// taxonomy; with true, missing links are added and nothing is removed.
func (s *ContentStore) SetObjectTerms(objectID, taxonomy string, termIDs []string, appendTerms bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if !appendTerms {
			if err := tx.Where("object_id = ? AND taxonomy = ?", objectID, taxonomy).
				Delete(&models.ObjectTerm{}).Error; err != nil {
				return err
			}
		}

		for _, termID := range termIDs {
			if appendTerms {
				var count int64
				if err := tx.Model(&models.ObjectTerm{}).
					Where("object_id = ? AND taxonomy = ? AND term_id = ?", objectID, taxonomy, termID).
					Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					continue
				}
			}
			link := models.ObjectTerm{ObjectID: objectID, Taxonomy: taxonomy, TermID: termID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ObjectTerms lists the terms attached to an object in a taxonomy.
func (s *ContentStore) ObjectTerms(objectID, taxonomy string) ([]models.Term, error) {
	var terms []models.Term
	err := s.db.
		Joins("JOIN object_terms ON object_terms.term_id = terms.id").
		Where("object_terms.object_id = ? AND object_terms.taxonomy = ?", objectID, taxonomy).
		Find(&terms).Error
	return terms, err
}

// ReplaceLanguageOptions swaps the cached language set wholesale. An empty
// slice is a no-op, matching the upstream app which only sends languages
// when it has some.
func (s *ContentStore) ReplaceLanguageOptions(options []models.LanguageOption) error {
	if len(options) == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.LanguageOption{}).Error; err != nil {
			return err
		}
		for i := range options {
			if err := tx.Create(&options[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ContentStore) LanguageOptions() ([]models.LanguageOption, error) {
	var options []models.LanguageOption
	err := s.db.Order("position").Find(&options).Error
	return options, err
}
