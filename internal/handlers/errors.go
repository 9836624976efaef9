package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

// MySQL duplicate-entry error code (unique index violation).
const mysqlDuplicateEntry = 1062

// isDuplicateEntry reports whether err is a unique-constraint violation.
// Racing writes can hit the index even after an application-level
// existence check passed, and that is a client-visible 400, not a 500.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

// serverError logs the underlying failure and answers with a generic 500.
// The real error message is only echoed back in development.
func (h *Handlers) serverError(c *gin.Context, err error) {
	requestID := c.GetString("requestID")
	log.Printf("ERROR [%s] %s %s: %v", requestID, c.Request.Method, c.Request.URL.Path, err)

	body := gin.H{"message": "Internal server error"}
	if h.Env == "development" {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
