package booksync

import (
	"fmt"
	"testing"

	"booksync/internal/logger"
	"booksync/internal/models"
	"booksync/internal/services/mpa"
	"booksync/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbCounter int

func testStores(t *testing.T) (*store.ContentStore, *store.CommerceStore, *gorm.DB) {
	t.Helper()

	dbCounter++
	dsn := fmt.Sprintf("file:booksync_test_%d?mode=memory&cache=shared", dbCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Book{},
		&models.Product{},
		&models.Variation{},
		&models.Term{},
		&models.ObjectTerm{},
		&models.LanguageOption{},
	))

	log := logger.New("error")
	return store.NewContentStore(db, log), store.NewCommerceStore(db, log), db
}

func duneRecord() *mpa.BookRecord {
	price, _ := decimal.NewFromString("12.99")
	return &mpa.BookRecord{
		ExternalID:    "bk-42",
		Title:         "Dune",
		Description:   "<p>A classic.</p>",
		Excerpt:       "Spice and sand.",
		Status:        "publish",
		Language:      "en",
		Locale:        "en_US",
		TextDirection: "ltr",
		CoverImageURL: "https://cdn.example.com/dune.jpg",
		Series:        &mpa.TermInput{Name: "Dune Saga", Slug: "dune-saga"},
		Genres: []mpa.TermInput{
			{Name: "Sci-Fi", Slug: "sci-fi"},
		},
		Formats: []mpa.FormatVariant{
			{Code: "epub", Label: "EPUB", Enabled: true, DownloadURL: "https://cdn.example.com/dune.epub"},
			{Code: "mobi", Label: "MOBI", Enabled: false},
		},
		Price: price,
	}
}

func TestSyncBookCreates(t *testing.T) {
	content, commerce, db := testStores(t)
	s := NewSyncer(content, commerce, logger.New("error"))

	result, syncErr := s.SyncBook(duneRecord())
	require.Nil(t, syncErr)

	var book models.Book
	require.NoError(t, db.First(&book, "id = ?", result.BookID).Error)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "<p>A classic.</p>", book.Description)
	assert.Equal(t, "publish", book.Status)
	assert.Equal(t, "https://cdn.example.com/dune.jpg", book.CoverImageURL)

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", result.ProductID).Error)
	assert.Equal(t, "bk-42", product.ExternalID)
	assert.Equal(t, "Dune", product.Title)

	// Bidirectional cross-link
	require.NotNil(t, book.ProductID)
	assert.Equal(t, product.ID, *book.ProductID)
	require.NotNil(t, product.BookID)
	assert.Equal(t, book.ID, *product.BookID)

	// Only the enabled epub format is materialized
	require.Len(t, result.VariationIDs, 1)
	var variation models.Variation
	require.NoError(t, db.First(&variation, "id = ?", result.VariationIDs[0]).Error)
	assert.Equal(t, "epub", variation.FormatCode)
	assert.True(t, variation.Virtual)
	assert.True(t, variation.Downloadable)
	assert.True(t, variation.Price.Equal(decimal.RequireFromString("12.99")))
	assert.Equal(t, DownloadID(product.ID, "epub"), variation.DownloadID)
	assert.Equal(t, "EPUB", variation.DownloadName)
	assert.Equal(t, "https://cdn.example.com/dune.epub", variation.DownloadURL)

	genres, err := content.ObjectTerms(book.ID, models.TaxonomyGenre)
	require.NoError(t, err)
	require.Len(t, genres, 1)
	assert.Equal(t, "sci-fi", genres[0].Slug)

	series, err := content.ObjectTerms(book.ID, models.TaxonomySeries)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "dune-saga", series[0].Slug)
}

func TestSyncBookIdempotent(t *testing.T) {
	content, commerce, db := testStores(t)
	s := NewSyncer(content, commerce, logger.New("error"))

	first, syncErr := s.SyncBook(duneRecord())
	require.Nil(t, syncErr)

	second, syncErr := s.SyncBook(duneRecord())
	require.Nil(t, syncErr)

	assert.Equal(t, first.BookID, second.BookID)
	assert.Equal(t, first.ProductID, second.ProductID)
	assert.ElementsMatch(t, first.VariationIDs, second.VariationIDs)

	// No duplicate rows were created
	var books, products, variations int64
	db.Model(&models.Book{}).Count(&books)
	db.Model(&models.Product{}).Count(&products)
	db.Model(&models.Variation{}).Count(&variations)
	assert.Equal(t, int64(1), books)
	assert.Equal(t, int64(1), products)
	assert.Equal(t, int64(1), variations)
}

func TestSyncBookGenresReplaced(t *testing.T) {
	content, commerce, _ := testStores(t)
	s := NewSyncer(content, commerce, logger.New("error"))

	first, syncErr := s.SyncBook(duneRecord())
	require.Nil(t, syncErr)

	// Re-sync with no genres unlinks the previous set
	record := duneRecord()
	record.Genres = nil
	_, syncErr = s.SyncBook(record)
	require.Nil(t, syncErr)

	genres, err := content.ObjectTerms(first.BookID, models.TaxonomyGenre)
	require.NoError(t, err)
	assert.Empty(t, genres)
}

func TestSyncBookFormatAttributesAccumulate(t *testing.T) {
	content, commerce, _ := testStores(t)
	s := NewSyncer(content, commerce, logger.New("error"))

	first, syncErr := s.SyncBook(duneRecord())
	require.Nil(t, syncErr)

	// Re-sync with no formats: no variations come back, but the epub
	// format attribute stays attached to the product.
	record := duneRecord()
	record.Formats = nil
	second, syncErr := s.SyncBook(record)
	require.Nil(t, syncErr)
	assert.Empty(t, second.VariationIDs)

	formats, err := content.ObjectTerms(first.ProductID, models.TaxonomyFormat)
	require.NoError(t, err)
	require.Len(t, formats, 1)
	assert.Equal(t, "epub", formats[0].Slug)
}

func TestSyncBookSeriesReplaced(t *testing.T) {
	content, commerce, _ := testStores(t)
	s := NewSyncer(content, commerce, logger.New("error"))

	first, syncErr := s.SyncBook(duneRecord())
	require.Nil(t, syncErr)

	record := duneRecord()
	record.Series = &mpa.TermInput{Name: "Other Saga", Slug: "other-saga"}
	_, syncErr = s.SyncBook(record)
	require.Nil(t, syncErr)

	series, err := content.ObjectTerms(first.BookID, models.TaxonomySeries)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "other-saga", series[0].Slug)
}

func TestSyncBookCommerceDisabled(t *testing.T) {
	content, _, db := testStores(t)
	s := NewSyncer(content, nil, logger.New("error"))

	_, syncErr := s.SyncBook(duneRecord())
	require.NotNil(t, syncErr)
	assert.Equal(t, "woocommerce_not_active", syncErr.Code)

	// The book update is not rolled back
	var book models.Book
	require.NoError(t, db.First(&book, "external_id = ?", "bk-42").Error)
	assert.Equal(t, "Dune", book.Title)

	var products int64
	db.Model(&models.Product{}).Count(&products)
	assert.Equal(t, int64(0), products)
}

func TestSyncBookOverwritesFields(t *testing.T) {
	content, commerce, db := testStores(t)
	s := NewSyncer(content, commerce, logger.New("error"))

	_, syncErr := s.SyncBook(duneRecord())
	require.Nil(t, syncErr)

	record := duneRecord()
	record.Title = "Dune Messiah"
	record.Status = "draft"
	record.CoverImageURL = ""
	result, syncErr := s.SyncBook(record)
	require.Nil(t, syncErr)

	var book models.Book
	require.NoError(t, db.First(&book, "id = ?", result.BookID).Error)
	assert.Equal(t, "Dune Messiah", book.Title)
	assert.Equal(t, "draft", book.Status)
	assert.Equal(t, "", book.CoverImageURL, "fields are overwritten, not merged")

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", result.ProductID).Error)
	assert.Equal(t, "Dune Messiah", product.Title)
	assert.Equal(t, "draft", product.Status)
}

func TestDownloadIDDeterministic(t *testing.T) {
	a := DownloadID("prod-1", "epub")
	assert.Equal(t, a, DownloadID("prod-1", "epub"))
	assert.NotEqual(t, a, DownloadID("prod-1", "mobi"))
	assert.NotEqual(t, a, DownloadID("prod-2", "epub"))
	assert.Len(t, a, 32)
}
