package repo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	if !IsUniqueViolation(unique) {
		t.Fatal("23505 must be reported as a unique violation")
	}
	if !IsUniqueViolation(fmt.Errorf("insert user: %w", unique)) {
		t.Fatal("wrapped unique violations must match")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("other pg errors must not match")
	}
	if IsUniqueViolation(errors.New("plain")) {
		t.Fatal("non-pg errors must not match")
	}
}
