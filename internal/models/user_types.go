package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is the permission class attached to a user account. The set is
// closed: every account is exactly one of main_admin, sub_admin, or store,
// and access checks go through Valid and IsAdmin rather than comparing
// raw strings.
type Role string

const (
	RoleMainAdmin Role = "main_admin" // platform administrator
	RoleSubAdmin  Role = "sub_admin"  // delegated administrator
	RoleStore     Role = "store"      // store owner
)

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleMainAdmin, RoleSubAdmin, RoleStore:
		return true
	}
	return false
}

// IsAdmin is the single permission-membership check used by every
// admin-gated endpoint. Both admin tiers pass; store owners do not.
func (r Role) IsAdmin() bool {
	return r == RoleMainAdmin || r == RoleSubAdmin
}

// User is the model for the 'users' table. Store owners and admins share
// the table; stores are rows with role = 'store'.
type User struct {
	ID           int64   `json:"id" db:"id"`
	Role         Role    `json:"role" db:"role"`
	Name         string  `json:"name" db:"name"`
	Email        string  `json:"email" db:"email"`
	PasswordHash string  `json:"-" db:"password_hash"`
	StoreName    *string `json:"storeName,omitempty" db:"store_name"`
	Phone        *string `json:"phone,omitempty" db:"phone"`
	Address      *string `json:"address,omitempty" db:"address"`

	// Accounts are never hard-deleted; deactivation flips this flag.
	IsActive bool `json:"isActive" db:"is_active"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Password wraps a plaintext/hash pair so handlers never touch bcrypt directly.
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
