package handlers

import (
	"net/http"
	"strconv"

	"booksync/internal/logger"
	"booksync/internal/models"
	"booksync/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BookHandler struct {
	db      *gorm.DB
	content *store.ContentStore
	logger  *logger.Logger
}

func NewBookHandler(db *gorm.DB, content *store.ContentStore, logger *logger.Logger) *BookHandler {
	return &BookHandler{
		db:      db,
		content: content,
		logger:  logger,
	}
}

func (h *BookHandler) List(c *gin.Context) {
	var books []models.Book

	// Pagination
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset := (page - 1) * limit

	// Filters
	language := c.Query("language")
	search := c.Query("search")
	genre := c.Query("genre")
	series := c.Query("series")

	query := h.db.Model(&models.Book{}).Where("status = ?", models.StatusPublish)

	if language != "" {
		query = query.Where("language = ?", language)
	}

	if search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}

	if genre != "" {
		query = query.Where("id IN (?)", termObjectIDs(h.db, models.TaxonomyGenre, genre))
	}

	if series != "" {
		query = query.Where("id IN (?)", termObjectIDs(h.db, models.TaxonomySeries, series))
	}

	var total int64
	query.Count(&total)

	if err := query.Order("title").Offset(offset).Limit(limit).Find(&books).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch books"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": books,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func (h *BookHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var book models.Book
	if err := h.db.First(&book, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch book"})
		return
	}

	genres, err := h.content.ObjectTerms(book.ID, models.TaxonomyGenre)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch book terms"})
		return
	}
	series, err := h.content.ObjectTerms(book.ID, models.TaxonomySeries)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch book terms"})
		return
	}

	response := gin.H{
		"data":   book,
		"genres": genres,
		"series": series,
	}

	if book.ProductID != nil {
		var product models.Product
		err := h.db.Preload("Variations").First(&product, "id = ?", *book.ProductID).Error
		if err == nil {
			response["product"] = product
		} else if err != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}
	}

	c.JSON(http.StatusOK, response)
}

// termObjectIDs builds a subquery of object ids carrying the term with
// the given slug in a taxonomy.
func termObjectIDs(db *gorm.DB, taxonomy, slug string) *gorm.DB {
	return db.Model(&models.ObjectTerm{}).
		Select("object_terms.object_id").
		Joins("JOIN terms ON terms.id = object_terms.term_id").
		Where("object_terms.taxonomy = ? AND terms.slug = ?", taxonomy, slug)
}
