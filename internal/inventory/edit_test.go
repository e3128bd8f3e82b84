package inventory

import (
	"errors"
	"testing"
	"time"

	"stockbook/internal"
)

func TestApplyEditCreatesMissingItem(t *testing.T) {
	db := openTestDB(t)

	outcome, err := ApplyEdit(db, "Widget", 7, 319, time.Date(2022, 6, 1, 14, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if outcome != internal.EditCreated {
		t.Fatalf("got outcome %s", outcome)
	}

	item := mustGetByName(t, db, "Widget")
	if item.Quantity != 7 || item.PriceCents != 319 {
		t.Fatalf("unexpected record: %+v", item)
	}
	if item.UpdatedAt.Format(internal.DateLayout) != "2022-06-01" {
		t.Fatalf("got date %s", item.UpdatedAt.Format(internal.DateLayout))
	}
}

// The edit path has no date gate: a confirmed edit overwrites even a record
// whose stored date is in the future.
func TestApplyEditOverwritesRegardlessOfDate(t *testing.T) {
	db := openTestDB(t)
	importFeed(t, db, "name,quantity,price,updated_at\nWidget,10,$1.00,01/01/2099\n")
	before := mustGetByName(t, db, "Widget")

	outcome, err := ApplyEdit(db, "Widget", 7, 50, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if outcome != internal.EditUpdated {
		t.Fatalf("got outcome %s", outcome)
	}

	after := mustGetByName(t, db, "Widget")
	if after.ID != before.ID {
		t.Fatalf("id changed: before=%d after=%d", before.ID, after.ID)
	}
	if after.Quantity != 7 || after.PriceCents != 50 {
		t.Fatalf("unexpected record: %+v", after)
	}
	if after.UpdatedAt.Format(internal.DateLayout) != "2022-06-01" {
		t.Fatalf("got date %s", after.UpdatedAt.Format(internal.DateLayout))
	}
}

func TestApplyEditValidatesInput(t *testing.T) {
	db := openTestDB(t)

	if _, err := ApplyEdit(db, "  ", 1, 1, time.Now()); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if _, err := ApplyEdit(db, "Widget", -1, 1, time.Now()); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := ApplyEdit(db, "Widget", 1, -1, time.Now()); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
}
