// Vercel serverless entrypoint: a read-only slice of the storefront API
// (books, languages, health) over database/sql. The full service with the
// sync webhook runs from cmd/api.
package handler

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	_ "github.com/lib/pq"
)

type Book struct {
	ID            string  `json:"id"`
	ExternalID    string  `json:"external_id"`
	Title         string  `json:"title"`
	Excerpt       string  `json:"excerpt"`
	Status        string  `json:"status"`
	Language      string  `json:"language"`
	TextDirection string  `json:"text_direction"`
	CoverImageURL string  `json:"cover_image_url"`
	ProductID     *string `json:"product_id"`
}

type LanguageOption struct {
	Code          string `json:"code"`
	Label         string `json:"label"`
	Locale        string `json:"locale"`
	TextDirection string `json:"text_direction"`
}

var (
	db      *sql.DB
	dbMutex sync.Mutex
)

// initDB initializes the database connection
func initDB() error {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	if db != nil {
		return nil // Already initialized
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}

	var err error
	db, err = sql.Open("postgres", databaseURL)
	if err != nil {
		return err
	}

	return db.Ping()
}

// Handler is the serverless entrypoint.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api")

	switch {
	case path == "/health":
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case path == "/books" && r.Method == http.MethodGet:
		listBooks(w, r)
	case path == "/languages" && r.Method == http.MethodGet:
		listLanguages(w)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func listBooks(w http.ResponseWriter, r *http.Request) {
	if err := initDB(); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database unavailable"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	language := r.URL.Query().Get("language")

	query := `SELECT id, external_id, title, COALESCE(excerpt, ''), status,
		COALESCE(language, ''), COALESCE(text_direction, 'ltr'),
		COALESCE(cover_image_url, ''), product_id
		FROM books WHERE status = 'publish'`
	args := []interface{}{}

	if language != "" {
		query += " AND language = $1"
		args = append(args, language)
	}

	query += fmt.Sprintf(" ORDER BY title LIMIT %d", limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch books"})
		return
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.ExternalID, &b.Title, &b.Excerpt, &b.Status,
			&b.Language, &b.TextDirection, &b.CoverImageURL, &b.ProductID); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read books"})
			return
		}
		books = append(books, b)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": books})
}

func listLanguages(w http.ResponseWriter) {
	if err := initDB(); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database unavailable"})
		return
	}

	rows, err := db.Query(`SELECT code, label, COALESCE(locale, ''),
		COALESCE(text_direction, '') FROM language_options ORDER BY position`)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch languages"})
		return
	}
	defer rows.Close()

	languages := []LanguageOption{}
	for rows.Next() {
		var l LanguageOption
		if err := rows.Scan(&l.Code, &l.Label, &l.Locale, &l.TextDirection); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read languages"})
			return
		}
		languages = append(languages, l)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": languages})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
