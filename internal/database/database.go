package database

import (
	"fmt"
	"strings"

	"booksync/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

func New(databaseURL string) (*Database, error) {
	if strings.HasPrefix(databaseURL, "sqlite://") {
		return newSqlite(strings.TrimPrefix(databaseURL, "sqlite://"))
	}
	return newPostgres(databaseURL)
}

// newSqlite opens the development database. SQLite cannot parse the
// Postgres DDL below, so the schema comes from AutoMigrate instead.
func newSqlite(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&models.Book{},
		&models.Product{},
		&models.Variation{},
		&models.Term{},
		&models.ObjectTerm{},
		&models.LanguageOption{},
		&models.Issue{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Database{DB: db}, nil
}

func newPostgres(databaseURL string) (*Database, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create tables manually with raw SQL
	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS books (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		external_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		excerpt TEXT,
		status TEXT DEFAULT 'publish',
		slug TEXT,
		language TEXT,
		locale TEXT,
		text_direction TEXT DEFAULT 'ltr',
		cover_image_url TEXT,
		product_id UUID,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_books_external_id ON books (external_id);

	CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		external_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		excerpt TEXT,
		status TEXT DEFAULT 'publish',
		book_id UUID,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_products_external_id ON products (external_id);

	CREATE TABLE IF NOT EXISTS variations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		product_id UUID NOT NULL,
		format_code TEXT NOT NULL,
		price DECIMAL(10,2),
		status TEXT DEFAULT 'publish',
		virtual BOOLEAN DEFAULT true,
		downloadable BOOLEAN DEFAULT true,
		download_id TEXT,
		download_name TEXT,
		download_url TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_variations_product_id ON variations (product_id);

	CREATE TABLE IF NOT EXISTS terms (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		taxonomy TEXT NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE(taxonomy, slug)
	);

	CREATE TABLE IF NOT EXISTS object_terms (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		object_id UUID NOT NULL,
		taxonomy TEXT NOT NULL,
		term_id UUID NOT NULL,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_object_terms_object_taxonomy ON object_terms (object_id, taxonomy);

	CREATE TABLE IF NOT EXISTS language_options (
		code TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		locale TEXT,
		text_direction TEXT,
		position INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS issues (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		book_id UUID NOT NULL,
		code TEXT NOT NULL,
		severity TEXT NOT NULL,
		explanation TEXT NOT NULL,
		is_resolved BOOLEAN DEFAULT false,
		resolved_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_issues_book_id ON issues (book_id);
	`

	err = db.Exec(createTablesSQL).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
