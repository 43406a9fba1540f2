package mpa

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Payload is the raw body of a sync webhook. Array members stay as raw
// messages so one malformed entry never fails the whole request.
type Payload struct {
	Book      json.RawMessage   `json:"book"`
	Languages []json.RawMessage `json:"languages"`
}

// BookRecord is the canonical, sanitized form of a synced book.
type BookRecord struct {
	ExternalID    string
	Title         string
	Description   string
	Excerpt       string
	Status        string
	Slug          string
	Language      string
	Locale        string
	TextDirection string
	CoverImageURL string
	Series        *TermInput
	Genres        []TermInput
	Formats       []FormatVariant
	Price         decimal.Decimal
}

// TermInput names a series or genre term to resolve.
type TermInput struct {
	Name string
	Slug string
}

// FormatVariant is one sellable format of a book. Disabled entries are
// carried through normalization and skipped by the orchestrator.
type FormatVariant struct {
	Code        string
	Label       string
	Enabled     bool
	DownloadURL string
}

// bookPayload is the wire shape of the "book" object.
type bookPayload struct {
	ExternalID    flexString        `json:"external_id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Excerpt       string            `json:"excerpt"`
	Status        string            `json:"status"`
	Slug          string            `json:"slug"`
	Language      string            `json:"language"`
	Locale        string            `json:"locale"`
	TextDirection string            `json:"text_direction"`
	CoverImageURL string            `json:"cover_image_url"`
	Series        json.RawMessage   `json:"series"`
	Genres        []json.RawMessage `json:"genres"`
	Formats       []json.RawMessage `json:"formats"`
	Price         flexString        `json:"price"`
}

type termPayload struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type formatPayload struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	Enabled     bool   `json:"enabled"`
	DownloadURL string `json:"download_url"`
}

type languagePayload struct {
	Code          string `json:"code"`
	Label         string `json:"label"`
	Name          string `json:"name"`
	Locale        string `json:"locale"`
	TextDirection string `json:"text_direction"`
}

// flexString accepts JSON strings and numbers; the upstream app is not
// consistent about quoting ids and prices.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// parsePrice maps the wire price to a non-negative decimal, defaulting to
// zero on anything unparseable.
func parsePrice(raw flexString) decimal.Decimal {
	s := string(raw)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
