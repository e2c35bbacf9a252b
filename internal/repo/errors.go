package repo

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation (code 23505), e.g. a duplicate username or email.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// UniqueViolationField maps a unique violation to the colliding column by
// constraint name (users_username_key, users_email_key). Falls back to
// "username" when the constraint is not recognized.
func UniqueViolationField(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && strings.Contains(pqErr.Constraint, "email") {
		return "email"
	}
	return "username"
}
