package middleware

import (
	"bytes"
	"database/sql"
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// How long a cached response stays replayable. Older keys are purged by the
// background worker in main.
const IdempotencyKeyTTL = 24 * time.Hour

// bodyCaptureWriter tees the response body so it can be cached after the
// handler runs.
type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency guards create endpoints against duplicate submissions
// (e.g. a double-clicked "place order" button).
//
// Clients opt in by sending an Idempotency-Key header. A replayed key
// returns the cached response instead of running the handler again.
// Requests without the header pass straight through.
func Idempotency(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Key from Header
		key := c.GetHeader("Idempotency-Key")
		if key == "" {
			c.Next()
			return
		}

		// Keys are scoped per endpoint so reusing one key across, say,
		// POST /orders and POST /invoices never replays the wrong body.
		key = c.Request.Method + " " + c.Request.URL.Path + " " + key

		// 2. Check if the key was already used
		var status int
		var body []byte
		err := db.QueryRow(
			"SELECT response_status, response_body FROM idempotency_keys WHERE key_id = ?",
			key).Scan(&status, &body)
		if err == nil {
			c.Header("X-Idempotency-Hit", "true")
			c.Data(status, "application/json", body)
			c.Abort()
			return
		}

		// 3. Run the Handler, capturing the response
		writer := &bodyCaptureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Next()

		// 4. Save the Result
		// Only successful creations are worth replaying; a failed request
		// should be retryable with the same key.
		resStatus := writer.Status()
		if resStatus >= 300 {
			return
		}

		_, insertErr := db.Exec(
			"INSERT IGNORE INTO idempotency_keys (key_id, response_status, response_body, created_at) VALUES (?, ?, ?, ?)",
			key, resStatus, writer.body.Bytes(), time.Now())
		if insertErr != nil {
			log.Printf("ERROR: Failed to save idempotency key %q: %v", key, insertErr)
		}
	}
}

// PurgeExpiredIdempotencyKeys deletes keys past their TTL. Returns the number
// of rows removed.
func PurgeExpiredIdempotencyKeys(db *sql.DB) (int64, error) {
	result, err := db.Exec(
		"DELETE FROM idempotency_keys WHERE created_at < ?",
		time.Now().Add(-IdempotencyKeyTTL))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
