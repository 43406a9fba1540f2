// Package validation audits synced books and records catalog quality
// issues: published books without cover art, products without a price,
// downloadable variations without a file.
package validation

import (
	"fmt"

	"booksync/internal/logger"
	"booksync/internal/models"

	"gorm.io/gorm"
)

type Validator struct {
	db     *gorm.DB
	logger *logger.Logger
}

func New(db *gorm.DB, logger *logger.Logger) *Validator {
	return &Validator{
		db:     db,
		logger: logger,
	}
}

type finding struct {
	code        string
	severity    models.IssueSeverity
	explanation string
}

// ValidateBook checks one book and its variations, recording an issue per
// finding. A finding already open for the same (book, code) pair is not
// duplicated.
func (v *Validator) ValidateBook(bookID string) error {
	var book models.Book
	if err := v.db.First(&book, "id = ?", bookID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			v.logger.Debug("Book %s no longer exists, skipping validation", bookID)
			return nil
		}
		return fmt.Errorf("failed to load book: %w", err)
	}

	var findings []finding

	if book.Status == string(models.StatusPublish) && book.CoverImageURL == "" {
		findings = append(findings, finding{
			code:        models.IssueCodeMissingCover,
			severity:    models.IssueSeverityMedium,
			explanation: fmt.Sprintf("Published book %q has no cover image.", book.Title),
		})
	}

	if book.ProductID != nil {
		var variations []models.Variation
		if err := v.db.Where("product_id = ?", *book.ProductID).Find(&variations).Error; err != nil {
			return fmt.Errorf("failed to load variations: %w", err)
		}

		for _, variation := range variations {
			if variation.Price.IsZero() {
				findings = append(findings, finding{
					code:        models.IssueCodeMissingPrice,
					severity:    models.IssueSeverityHigh,
					explanation: fmt.Sprintf("Variation %s of %q has no price.", variation.FormatCode, book.Title),
				})
			}
			if variation.Downloadable && variation.DownloadURL == "" {
				findings = append(findings, finding{
					code:        models.IssueCodeMissingDownload,
					severity:    models.IssueSeverityHigh,
					explanation: fmt.Sprintf("Variation %s of %q is downloadable but has no file.", variation.FormatCode, book.Title),
				})
			}
		}
	}

	for _, f := range findings {
		if err := v.record(book.ID, f); err != nil {
			return err
		}
	}

	return nil
}

func (v *Validator) record(bookID string, f finding) error {
	var count int64
	err := v.db.Model(&models.Issue{}).
		Where("book_id = ? AND code = ? AND is_resolved = ?", bookID, f.code, false).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check existing issues: %w", err)
	}
	if count > 0 {
		return nil
	}

	issue := models.Issue{
		BookID:      bookID,
		Code:        f.code,
		Severity:    f.severity,
		Explanation: f.explanation,
	}
	if err := v.db.Create(&issue).Error; err != nil {
		return fmt.Errorf("failed to record issue: %w", err)
	}

	v.logger.Info("Recorded %s issue for book %s", f.code, bookID)
	return nil
}
