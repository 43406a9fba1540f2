package store

import (
	"fmt"
	"testing"

	"booksync/internal/logger"
	"booksync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbCounter int

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbCounter++
	dsn := fmt.Sprintf("file:store_test_%d?mode=memory&cache=shared", dbCounter)
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
		&models.Issue{},
	))

	return db
}

func TestFindOrCreateBookByExternalID(t *testing.T) {
	s := NewContentStore(testDB(t), logger.New("error"))

	created, err := s.FindOrCreateBookByExternalID("bk-42")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "bk-42", created.ExternalID)

	found, err := s.FindOrCreateBookByExternalID("bk-42")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID, "same external_id resolves to the same entity")

	other, err := s.FindOrCreateBookByExternalID("bk-43")
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, other.ID)
}

func TestFindOrCreateTerm(t *testing.T) {
	s := NewContentStore(testDB(t), logger.New("error"))

	scifi, err := s.FindOrCreateTerm(models.TaxonomyGenre, "Sci-Fi", "sci-fi")
	require.NoError(t, err)

	// Reused by slug even when the name differs
	again, err := s.FindOrCreateTerm(models.TaxonomyGenre, "Science Fiction", "sci-fi")
	require.NoError(t, err)
	assert.Equal(t, scifi.ID, again.ID)
	assert.Equal(t, "Sci-Fi", again.Name)

	// Same slug in another taxonomy is a distinct term
	format, err := s.FindOrCreateTerm(models.TaxonomyFormat, "Sci-Fi", "sci-fi")
	require.NoError(t, err)
	assert.NotEqual(t, scifi.ID, format.ID)
}

func TestSetObjectTermsReplace(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db, logger.New("error"))

	book, err := s.FindOrCreateBookByExternalID("bk-42")
	require.NoError(t, err)

	scifi, _ := s.FindOrCreateTerm(models.TaxonomyGenre, "Sci-Fi", "sci-fi")
	classics, _ := s.FindOrCreateTerm(models.TaxonomyGenre, "Classics", "classics")

	require.NoError(t, s.SetObjectTerms(book.ID, models.TaxonomyGenre, []string{scifi.ID, classics.ID}, false))

	terms, err := s.ObjectTerms(book.ID, models.TaxonomyGenre)
	require.NoError(t, err)
	assert.Len(t, terms, 2)

	// Replace with a smaller set unlinks the rest
	require.NoError(t, s.SetObjectTerms(book.ID, models.TaxonomyGenre, []string{classics.ID}, false))
	terms, err = s.ObjectTerms(book.ID, models.TaxonomyGenre)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "classics", terms[0].Slug)

	// Replace with nothing clears the taxonomy
	require.NoError(t, s.SetObjectTerms(book.ID, models.TaxonomyGenre, nil, false))
	terms, err = s.ObjectTerms(book.ID, models.TaxonomyGenre)
	require.NoError(t, err)
	assert.Empty(t, terms)
}

func TestSetObjectTermsAppend(t *testing.T) {
	s := NewContentStore(testDB(t), logger.New("error"))

	book, err := s.FindOrCreateBookByExternalID("bk-42")
	require.NoError(t, err)

	epub, _ := s.FindOrCreateTerm(models.TaxonomyFormat, "EPUB", "epub")
	mobi, _ := s.FindOrCreateTerm(models.TaxonomyFormat, "MOBI", "mobi")

	require.NoError(t, s.SetObjectTerms(book.ID, models.TaxonomyFormat, []string{epub.ID}, true))
	require.NoError(t, s.SetObjectTerms(book.ID, models.TaxonomyFormat, []string{mobi.ID}, true))

	// Existing links survive and duplicates are not created
	require.NoError(t, s.SetObjectTerms(book.ID, models.TaxonomyFormat, []string{epub.ID}, true))

	terms, err := s.ObjectTerms(book.ID, models.TaxonomyFormat)
	require.NoError(t, err)
	assert.Len(t, terms, 2)
}

func TestReplaceLanguageOptions(t *testing.T) {
	s := NewContentStore(testDB(t), logger.New("error"))

	first := []models.LanguageOption{
		{Code: "en", Label: "English", Position: 0},
		{Code: "ar", Label: "Arabic", TextDirection: "rtl", Position: 1},
	}
	require.NoError(t, s.ReplaceLanguageOptions(first))

	options, err := s.LanguageOptions()
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, "en", options[0].Code)

	// Wholesale replacement, no merge
	second := []models.LanguageOption{{Code: "fr", Label: "French", Position: 0}}
	require.NoError(t, s.ReplaceLanguageOptions(second))

	options, err = s.LanguageOptions()
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "fr", options[0].Code)

	// Empty set is a no-op, not a wipe
	require.NoError(t, s.ReplaceLanguageOptions(nil))
	options, err = s.LanguageOptions()
	require.NoError(t, err)
	assert.Len(t, options, 1)
}

func TestCommerceStoreFindOrCreate(t *testing.T) {
	db := testDB(t)
	s := NewCommerceStore(db, logger.New("error"))

	product, err := s.FindOrCreateProductByExternalID("bk-42")
	require.NoError(t, err)

	again, err := s.FindOrCreateProductByExternalID("bk-42")
	require.NoError(t, err)
	assert.Equal(t, product.ID, again.ID)

	epub, err := s.FindOrCreateVariation(product.ID, "epub")
	require.NoError(t, err)

	sameEpub, err := s.FindOrCreateVariation(product.ID, "epub")
	require.NoError(t, err)
	assert.Equal(t, epub.ID, sameEpub.ID)

	mobi, err := s.FindOrCreateVariation(product.ID, "mobi")
	require.NoError(t, err)
	assert.NotEqual(t, epub.ID, mobi.ID)

	variations, err := s.Variations(product.ID)
	require.NoError(t, err)
	assert.Len(t, variations, 2)
}
