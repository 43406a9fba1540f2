package handlers

import (
	"net/http"

	"booksync/internal/booksync"
	"booksync/internal/config"
	"booksync/internal/events"
	"booksync/internal/logger"
	"booksync/internal/services/mpa"
	"booksync/internal/store"

	"github.com/gin-gonic/gin"
)

// SyncHandler receives signed book-sync webhooks from the MPA app.
type SyncHandler struct {
	verifier   *mpa.SignatureVerifier
	normalizer *mpa.Normalizer
	syncer     *booksync.Syncer
	content    *store.ContentStore
	publisher  *events.Publisher
	logger     *logger.Logger
}

// NewSyncHandler wires the sync pipeline. commerce is nil when the
// product subsystem is disabled; publisher is nil when events are off.
func NewSyncHandler(cfg *config.Config, content *store.ContentStore, commerce *store.CommerceStore, publisher *events.Publisher, logger *logger.Logger) *SyncHandler {
	creds := mpa.Credentials{Key: cfg.SyncKey, Secret: cfg.SyncSecret}

	return &SyncHandler{
		verifier:   mpa.NewSignatureVerifier(creds),
		normalizer: mpa.NewNormalizer(),
		syncer:     booksync.NewSyncer(content, commerce, logger),
		content:    content,
		publisher:  publisher,
		logger:     logger,
	}
}

// SyncBook handles POST /sync/book. Auth failures return 401, payload and
// business failures 400, all with {ok:false, error:<code>}.
func (h *SyncHandler) SyncBook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid_payload"})
		return
	}

	timestamp := c.GetHeader("X-Mpa-Timestamp")
	providedKey := c.GetHeader("X-Mpa-Key")
	providedSignature := c.GetHeader("X-Mpa-Signature")

	if authErr := h.verifier.Verify(timestamp, providedKey, providedSignature, raw); authErr != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": authErr.Code})
		return
	}

	payload, valErr := h.normalizer.ParsePayload(raw)
	if valErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": valErr.Code})
		return
	}

	// The language cache rides along on sync payloads; a failure here
	// never blocks the book upsert.
	if languages := h.normalizer.NormalizeLanguages(payload.Languages); len(languages) > 0 {
		if err := h.content.ReplaceLanguageOptions(languages); err != nil {
			h.logger.Error("Failed to replace language options: %v", err)
		}
	}

	record, valErr := h.normalizer.NormalizeBook(payload.Book)
	if valErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": valErr.Code})
		return
	}

	result, syncErr := h.syncer.SyncBook(record)
	if syncErr != nil {
		if syncErr.Err != nil {
			h.logger.Error("Sync failed for book %s: %v", record.ExternalID, syncErr.Err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": syncErr.Code})
		return
	}

	if h.publisher != nil {
		if err := h.publisher.BookSynced(c.Request.Context(), result.BookID, record.ExternalID, result.ProductID); err != nil {
			h.logger.Error("Failed to publish book.synced event: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"book_post_id":  result.BookID,
		"product_id":    result.ProductID,
		"variation_ids": result.VariationIDs,
	})
}
