package handlers

import "database/sql"

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB        *sql.DB
	JWTSecret []byte
	Env       string // "development" exposes underlying error messages on 500s
}
