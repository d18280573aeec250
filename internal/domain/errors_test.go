package domain_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		bad   bool
		nf    bool
		db    bool
		wants string
	}{
		{
			name:  "bad request names id",
			err:   domain.BadRequestf("product %d doesn't exist", 999),
			bad:   true,
			wants: "999",
		},
		{
			name:  "not found names id",
			err:   domain.NotFoundf("can't find the order item by id: %d", 7),
			nf:    true,
			wants: "7",
		},
		{
			name:  "database wraps cause",
			err:   domain.DatabaseError(errors.New("connection reset")),
			db:    true,
			wants: "connection reset",
		},
		{
			name:  "database formatted",
			err:   domain.DatabaseErrorf("can't update order item by id: %d", 42),
			db:    true,
			wants: "42",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := domain.IsBadRequest(tc.err); got != tc.bad {
				t.Fatalf("IsBadRequest = %v, want %v", got, tc.bad)
			}
			if got := domain.IsNotFound(tc.err); got != tc.nf {
				t.Fatalf("IsNotFound = %v, want %v", got, tc.nf)
			}
			if got := domain.IsDatabase(tc.err); got != tc.db {
				t.Fatalf("IsDatabase = %v, want %v", got, tc.db)
			}
			if !strings.Contains(tc.err.Error(), tc.wants) {
				t.Fatalf("error %q does not mention %q", tc.err, tc.wants)
			}
		})
	}
}

func TestDatabaseErrorNil(t *testing.T) {
	if err := domain.DatabaseError(nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestErrorKindsAreDistinct(t *testing.T) {
	// Один вид ошибки не должен матчиться как другой даже после обёртывания.
	err := fmt.Errorf("outer: %w", domain.BadRequestf("inner"))
	if !domain.IsBadRequest(err) {
		t.Fatal("wrapped bad request lost its kind")
	}
	if domain.IsDatabase(err) || domain.IsNotFound(err) {
		t.Fatal("bad request matched a foreign kind")
	}
}
