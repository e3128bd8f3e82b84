package inventory

import (
	"strings"
	"time"

	"stockbook/internal"
	"stockbook/internal/storage"
)

// ApplyEdit runs a user-confirmed upsert. Unlike the feed path there is no
// date gate: an existing record is overwritten whatever its stored date,
// because the edit was confirmed interactively. The record is stamped with
// the edit time's calendar date.
func ApplyEdit(db *storage.DB, name string, quantity int, priceCents int64, at time.Time) (internal.EditOutcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &FieldError{Field: "name", Value: name, Err: ErrEmptyName}
	}
	if quantity < 0 {
		return "", &FieldError{Field: "quantity", Value: "", Err: ErrInvalidQuantity}
	}
	if priceCents < 0 {
		return "", &FieldError{Field: "price", Value: "", Err: ErrInvalidPrice}
	}

	year, month, day := at.UTC().Date()
	stamp := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	updated, err := db.UpdateItemByName(name, quantity, priceCents, stamp)
	if err != nil {
		return "", err
	}
	if updated {
		return internal.EditUpdated, nil
	}

	if _, err := db.InsertItem(internal.ItemRecord{
		Name:       name,
		Quantity:   quantity,
		PriceCents: priceCents,
		UpdatedAt:  stamp,
	}); err != nil {
		return "", err
	}
	return internal.EditCreated, nil
}
