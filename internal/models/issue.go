package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Issue is a catalog quality finding recorded by the worker after a sync,
// e.g. a published book without a cover image or a variation without a
// download file.
type Issue struct {
	ID          string        `json:"id" gorm:"type:uuid;primary_key"`
	BookID      string        `json:"book_id" gorm:"not null;index"`
	Code        string        `json:"code" gorm:"not null"`
	Severity    IssueSeverity `json:"severity" gorm:"not null"`
	Explanation string        `json:"explanation" gorm:"not null"`
	IsResolved  bool          `json:"is_resolved" gorm:"default:false"`
	ResolvedAt  *time.Time    `json:"resolved_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type IssueSeverity string

const (
	IssueSeverityLow      IssueSeverity = "LOW"
	IssueSeverityMedium   IssueSeverity = "MEDIUM"
	IssueSeverityHigh     IssueSeverity = "HIGH"
	IssueSeverityCritical IssueSeverity = "CRITICAL"
)

// Issue codes recorded by the catalog quality validator.
const (
	IssueCodeMissingCover    = "missing_cover_image"
	IssueCodeMissingPrice    = "missing_price"
	IssueCodeMissingDownload = "missing_download_file"
)

func (i *Issue) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
