package repo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(&pq.Error{Code: "23505"}) {
		t.Error("code 23505 must be a unique violation")
	}
	if IsUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Error("foreign key violation is not a unique violation")
	}
	if IsUniqueViolation(errors.New("boom")) {
		t.Error("plain errors are not unique violations")
	}
	wrapped := fmt.Errorf("create user: %w", &pq.Error{Code: "23505"})
	if !IsUniqueViolation(wrapped) {
		t.Error("wrapped pq errors must be recognized")
	}
}

func TestUniqueViolationField(t *testing.T) {
	tests := []struct {
		constraint string
		want       string
	}{
		{"users_email_key", "email"},
		{"users_username_key", "username"},
		{"", "username"},
	}
	for _, tt := range tests {
		err := &pq.Error{Code: "23505", Constraint: tt.constraint}
		if got := UniqueViolationField(err); got != tt.want {
			t.Errorf("UniqueViolationField(%q) = %q, want %q", tt.constraint, got, tt.want)
		}
	}
}
