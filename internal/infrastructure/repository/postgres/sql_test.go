package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/brasilscore/brasileirao-sync/internal/usecase"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if isNotFound(errors.New("boom")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestWrapWriteError(t *testing.T) {
	t.Run("maps foreign key violation to integrity sentinel", func(t *testing.T) {
		pqErr := &pq.Error{Code: "23503", Message: "insert or update on table \"lineup_entries\" violates foreign key constraint"}
		err := wrapWriteError("insert lineup entry", fmt.Errorf("exec: %w", pqErr))
		if !errors.Is(err, usecase.ErrIntegrity) {
			t.Fatalf("expected integrity error, got %v", err)
		}
	})

	t.Run("keeps other pq errors unwrapped", func(t *testing.T) {
		pqErr := &pq.Error{Code: "23505", Message: "duplicate key value"}
		err := wrapWriteError("insert lineup entry", pqErr)
		if errors.Is(err, usecase.ErrIntegrity) {
			t.Fatalf("unique violation must not map to integrity error")
		}
	})

	t.Run("keeps plain errors unwrapped", func(t *testing.T) {
		err := wrapWriteError("upsert team", errors.New("connection reset"))
		if errors.Is(err, usecase.ErrIntegrity) {
			t.Fatalf("plain error must not map to integrity error")
		}
	})
}

func TestNullHelpers(t *testing.T) {
	if got := intPtrToNullInt64(nil); got.Valid {
		t.Fatalf("nil int must map to invalid NullInt64")
	}
	value := 3
	if got := intPtrToNullInt64(&value); !got.Valid || got.Int64 != 3 {
		t.Fatalf("unexpected NullInt64: %+v", got)
	}

	if got := intToNullInt64(0); got.Valid {
		t.Fatalf("zero round must map to NULL")
	}
	if got := intToNullInt64(14); !got.Valid || got.Int64 != 14 {
		t.Fatalf("unexpected NullInt64: %+v", got)
	}

	if got := stringToNullString(""); got.Valid {
		t.Fatalf("empty string must map to NULL")
	}
	if got := stringToNullString("4-2-3-1"); !got.Valid || got.String != "4-2-3-1" {
		t.Fatalf("unexpected NullString: %+v", got)
	}

	coord := 52.5
	if got := floatPtrToNullFloat64(&coord); !got.Valid || got.Float64 != 52.5 {
		t.Fatalf("unexpected NullFloat64: %+v", got)
	}
	if got := floatPtrToNullFloat64(nil); got.Valid {
		t.Fatalf("nil float must map to invalid NullFloat64")
	}
}
