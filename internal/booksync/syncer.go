// Package booksync sequences the idempotent upsert of one synced book
// across the book record, its catalog product and the per-format
// variations. Steps run fail-fast without compensation: a mid-sequence
// failure leaves earlier writes in place and the caller retries the whole
// payload.
package booksync

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"booksync/internal/logger"
	"booksync/internal/models"
	"booksync/internal/services/mpa"
	"booksync/internal/store"
)

type Syncer struct {
	content *store.ContentStore
	// commerce is nil when the product subsystem is disabled.
	commerce *store.CommerceStore
	logger   *logger.Logger
}

func NewSyncer(content *store.ContentStore, commerce *store.CommerceStore, logger *logger.Logger) *Syncer {
	return &Syncer{
		content:  content,
		commerce: commerce,
		logger:   logger,
	}
}

// Result mirrors the webhook response body.
type Result struct {
	BookID       string   `json:"book_post_id"`
	ProductID    string   `json:"product_id"`
	VariationIDs []string `json:"variation_ids"`
}

// SyncBook upserts the book record, then its taxonomy terms, then the
// product and variations. Every book field is overwritten on each sync;
// genres replace the prior set while format attributes only accumulate.
func (s *Syncer) SyncBook(record *mpa.BookRecord) (*Result, *SyncError) {
	book, err := s.upsertBook(record)
	if err != nil {
		return nil, err
	}

	if s.commerce == nil {
		// The book update above intentionally stands.
		s.logger.Debug("Commerce disabled, book %s synced without product", book.ExternalID)
		return nil, ErrCommerceNotActive
	}

	product, variationIDs, err := s.upsertProduct(record, book)
	if err != nil {
		return nil, err
	}

	return &Result{
		BookID:       book.ID,
		ProductID:    product.ID,
		VariationIDs: variationIDs,
	}, nil
}

func (s *Syncer) upsertBook(record *mpa.BookRecord) (*models.Book, *SyncError) {
	book, err := s.content.FindOrCreateBookByExternalID(record.ExternalID)
	if err != nil {
		return nil, storeError(err)
	}

	book.Title = record.Title
	book.Description = record.Description
	book.Excerpt = record.Excerpt
	book.Status = record.Status
	book.Language = record.Language
	book.Locale = record.Locale
	book.TextDirection = record.TextDirection
	book.CoverImageURL = record.CoverImageURL
	if record.Slug != "" {
		book.Slug = record.Slug
	}

	if err := s.content.SaveBook(book); err != nil {
		return nil, storeError(err)
	}

	if record.Series != nil {
		term, err := s.content.FindOrCreateTerm(models.TaxonomySeries, record.Series.Name, record.Series.Slug)
		if err != nil {
			return nil, storeError(err)
		}
		if err := s.content.SetObjectTerms(book.ID, models.TaxonomySeries, []string{term.ID}, false); err != nil {
			return nil, storeError(err)
		}
	}

	genreIDs := make([]string, 0, len(record.Genres))
	for _, genre := range record.Genres {
		term, err := s.content.FindOrCreateTerm(models.TaxonomyGenre, genre.Name, genre.Slug)
		if err != nil {
			return nil, storeError(err)
		}
		genreIDs = append(genreIDs, term.ID)
	}
	// Full replacement: a genre omitted from this payload is unlinked.
	if err := s.content.SetObjectTerms(book.ID, models.TaxonomyGenre, genreIDs, false); err != nil {
		return nil, storeError(err)
	}

	return book, nil
}

func (s *Syncer) upsertProduct(record *mpa.BookRecord, book *models.Book) (*models.Product, []string, *SyncError) {
	product, err := s.commerce.FindOrCreateProductByExternalID(record.ExternalID)
	if err != nil {
		return nil, nil, storeError(err)
	}

	product.Title = record.Title
	product.Description = record.Description
	product.Excerpt = record.Excerpt
	product.Status = record.Status
	product.BookID = &book.ID

	if err := s.commerce.SaveProduct(product); err != nil {
		return nil, nil, storeError(err)
	}

	book.ProductID = &product.ID
	if err := s.content.SaveBook(book); err != nil {
		return nil, nil, storeError(err)
	}

	variationIDs, syncErr := s.syncVariations(record, product)
	if syncErr != nil {
		return nil, nil, syncErr
	}

	return product, variationIDs, nil
}

func (s *Syncer) syncVariations(record *mpa.BookRecord, product *models.Product) ([]string, *SyncError) {
	variationIDs := []string{}

	for _, format := range record.Formats {
		if !format.Enabled {
			continue
		}

		term, err := s.content.FindOrCreateTerm(models.TaxonomyFormat, format.Label, format.Code)
		if err != nil {
			return nil, storeError(err)
		}
		// Format attributes accumulate: terms attached by earlier syncs
		// stay attached even when the format is later disabled.
		if err := s.content.SetObjectTerms(product.ID, models.TaxonomyFormat, []string{term.ID}, true); err != nil {
			return nil, storeError(err)
		}

		variation, err := s.commerce.FindOrCreateVariation(product.ID, format.Code)
		if err != nil {
			return nil, storeError(err)
		}

		variation.Price = record.Price
		variation.Status = string(models.StatusPublish)
		variation.Virtual = true
		variation.Downloadable = true

		if format.DownloadURL != "" {
			variation.DownloadID = DownloadID(product.ID, format.Code)
			variation.DownloadName = strings.ToUpper(format.Code)
			variation.DownloadURL = format.DownloadURL
		}

		if err := s.commerce.SaveVariation(variation); err != nil {
			return nil, storeError(err)
		}

		variationIDs = append(variationIDs, variation.ID)
	}

	return variationIDs, nil
}

// DownloadID derives a stable download identifier from the product and
// format code, so re-syncs overwrite the same download slot.
func DownloadID(productID, formatCode string) string {
	sum := md5.Sum([]byte(productID + ":" + formatCode))
	return hex.EncodeToString(sum[:])
}
