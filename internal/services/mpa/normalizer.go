package mpa

import (
	"encoding/json"
	"strings"

	"booksync/internal/models"
	"booksync/internal/sanitize"
)

// ValidationError is a payload rejection carrying its wire error code.
// Validation failures map to HTTP 400 and need a payload fix to retry.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrMalformedPayload      = &ValidationError{Code: "invalid_payload", Message: "request body is not a valid payload object"}
	ErrMissingBook           = &ValidationError{Code: "invalid_payload", Message: "payload has no book"}
	ErrMissingRequiredFields = &ValidationError{Code: "missing_required_fields", Message: "book external_id and title are required"}
)

var allowedStatuses = map[string]bool{
	"publish": true,
	"draft":   true,
	"pending": true,
	"private": true,
}

// Normalizer turns the untrusted webhook payload into canonical records.
// Scalar fields are sanitized per field class; array entries that are not
// objects or miss required sub-fields are skipped rather than rejected.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// ParsePayload decodes the raw body into its top-level shape.
func (n *Normalizer) ParsePayload(raw []byte) (*Payload, *ValidationError) {
	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, ErrMalformedPayload
	}
	if len(payload.Book) == 0 || string(payload.Book) == "null" {
		return nil, ErrMissingBook
	}
	return &payload, nil
}

// NormalizeBook sanitizes the book object into a canonical record.
func (n *Normalizer) NormalizeBook(raw json.RawMessage) (*BookRecord, *ValidationError) {
	var book bookPayload
	if err := json.Unmarshal(raw, &book); err != nil {
		return nil, ErrMissingBook
	}

	externalID := sanitize.PlainText(string(book.ExternalID))
	title := sanitize.PlainText(book.Title)
	if externalID == "" || title == "" {
		return nil, ErrMissingRequiredFields
	}

	record := &BookRecord{
		ExternalID:    externalID,
		Title:         title,
		Description:   sanitize.RichText(book.Description),
		Excerpt:       sanitize.MultilineText(book.Excerpt),
		Status:        MapStatus(book.Status),
		Language:      sanitize.PlainText(book.Language),
		Locale:        sanitize.PlainText(book.Locale),
		TextDirection: mapTextDirection(book.TextDirection),
		CoverImageURL: sanitize.URL(book.CoverImageURL),
		Price:         parsePrice(book.Price),
	}

	if book.Slug != "" {
		record.Slug = sanitize.Slug(book.Slug)
	}

	record.Series = n.normalizeSeries(book.Series)
	record.Genres = n.normalizeGenres(book.Genres)
	record.Formats = n.normalizeFormats(book.Formats)

	return record, nil
}

func (n *Normalizer) normalizeSeries(raw json.RawMessage) *TermInput {
	if len(raw) == 0 {
		return nil
	}
	var series termPayload
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil
	}
	name := sanitize.PlainText(series.Name)
	if name == "" {
		return nil
	}
	s := series.Slug
	if s == "" {
		s = name
	}
	return &TermInput{Name: name, Slug: sanitize.Slug(s)}
}

func (n *Normalizer) normalizeGenres(raws []json.RawMessage) []TermInput {
	var genres []TermInput
	for _, raw := range raws {
		var genre termPayload
		if err := json.Unmarshal(raw, &genre); err != nil {
			continue
		}
		name := sanitize.PlainText(genre.Name)
		if name == "" {
			continue
		}
		s := genre.Slug
		if s == "" {
			s = name
		}
		genres = append(genres, TermInput{Name: name, Slug: sanitize.Slug(s)})
	}
	return genres
}

func (n *Normalizer) normalizeFormats(raws []json.RawMessage) []FormatVariant {
	var formats []FormatVariant
	for _, raw := range raws {
		var format formatPayload
		if err := json.Unmarshal(raw, &format); err != nil {
			continue
		}
		code := sanitize.Slug(format.Code)
		label := sanitize.PlainText(format.Label)
		if code == "" || label == "" {
			continue
		}
		formats = append(formats, FormatVariant{
			Code:        code,
			Label:       label,
			Enabled:     format.Enabled,
			DownloadURL: sanitize.URL(format.DownloadURL),
		})
	}
	return formats
}

// NormalizeLanguages maps a languages array into storefront language
// options. Duplicate codes keep their first position, last value wins.
func (n *Normalizer) NormalizeLanguages(raws []json.RawMessage) []models.LanguageOption {
	byCode := make(map[string]int)
	var options []models.LanguageOption

	for _, raw := range raws {
		var language languagePayload
		if err := json.Unmarshal(raw, &language); err != nil {
			continue
		}
		code := sanitize.Key(language.Code)
		if code == "" {
			continue
		}

		label := sanitize.PlainText(language.Label)
		if label == "" {
			label = sanitize.PlainText(language.Name)
		}
		if label == "" {
			label = strings.ToUpper(code)
		}

		option := models.LanguageOption{
			Code:          code,
			Label:         label,
			Locale:        sanitize.PlainText(language.Locale),
			TextDirection: sanitize.Key(language.TextDirection),
		}

		if i, ok := byCode[code]; ok {
			option.Position = options[i].Position
			options[i] = option
			continue
		}
		option.Position = len(options)
		byCode[code] = len(options)
		options = append(options, option)
	}

	return options
}

// MapStatus restricts the publication status to the allowed set, falling
// open to publish for anything else. Status is not security data.
func MapStatus(status string) string {
	if allowedStatuses[status] {
		return status
	}
	return string(models.StatusPublish)
}

func mapTextDirection(dir string) string {
	if sanitize.Key(dir) == "rtl" {
		return "rtl"
	}
	return "ltr"
}
