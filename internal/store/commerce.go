package store

import (
	"booksync/internal/logger"
	"booksync/internal/models"

	"gorm.io/gorm"
)

// CommerceStore persists catalog products and their per-format
// variations. It is an optional capability: when commerce is disabled the
// orchestrator receives nil and reports woocommerce_not_active.
type CommerceStore struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewCommerceStore(db *gorm.DB, logger *logger.Logger) *CommerceStore {
	return &CommerceStore{
		db:     db,
		logger: logger,
	}
}

func (s *CommerceStore) DB() *gorm.DB {
	return s.db
}

// FindOrCreateProductByExternalID returns the product matching
// externalID, creating an empty one when none exists. First match wins on
// duplicate external_ids, same as the book lookup.
func (s *CommerceStore) FindOrCreateProductByExternalID(externalID string) (*models.Product, error) {
	var product models.Product
	err := s.db.Where("external_id = ?", externalID).First(&product).Error
	if err == gorm.ErrRecordNotFound {
		product = models.Product{ExternalID: externalID}
		if err := s.db.Create(&product).Error; err != nil {
			return nil, err
		}
		return &product, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *CommerceStore) SaveProduct(product *models.Product) error {
	return s.db.Save(product).Error
}

// FindOrCreateVariation resolves a variation by (product, format code).
func (s *CommerceStore) FindOrCreateVariation(productID, formatCode string) (*models.Variation, error) {
	var variation models.Variation
	err := s.db.Where("product_id = ? AND format_code = ?", productID, formatCode).First(&variation).Error
	if err == gorm.ErrRecordNotFound {
		variation = models.Variation{ProductID: productID, FormatCode: formatCode}
		if err := s.db.Create(&variation).Error; err != nil {
			return nil, err
		}
		return &variation, nil
	}
	if err != nil {
		return nil, err
	}
	return &variation, nil
}

func (s *CommerceStore) SaveVariation(variation *models.Variation) error {
	return s.db.Save(variation).Error
}

// Variations lists a product's variations in creation order.
func (s *CommerceStore) Variations(productID string) ([]models.Variation, error) {
	var variations []models.Variation
	err := s.db.Where("product_id = ?", productID).Order("created_at").Find(&variations).Error
	return variations, err
}
