package inventory

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"stockbook/internal"
)

var (
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidDate     = errors.New("invalid date")
)

// FieldError is a record-scoped normalization failure. It names the field
// so callers can re-prompt for just that value.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Entry date layouts tried in priority order: month name or abbreviation,
// with or without a comma.
var entryDateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
}

const feedDateLayout = "1/2/2006"

// ParsePrice converts a textual dollar amount, with or without a leading
// currency symbol, into integer cents rounded half-up.
func ParsePrice(input string) (int64, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "$")
	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &FieldError{Field: "price", Value: input, Err: ErrInvalidPrice}
	}
	if value < 0 {
		return 0, &FieldError{Field: "price", Value: input, Err: ErrInvalidPrice}
	}
	return int64(math.Floor(value*100 + 0.5)), nil
}

func ParseQuantity(input string) (int, error) {
	quantity, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || quantity < 0 {
		return 0, &FieldError{Field: "quantity", Value: input, Err: ErrInvalidQuantity}
	}
	return quantity, nil
}

// ParseEntryDate parses an interactively entered calendar date, trying each
// accepted layout in order and returning the first success.
func ParseEntryDate(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	for _, layout := range entryDateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, &FieldError{Field: "date", Value: input, Err: ErrInvalidDate}
}

// ParseFeedDate parses the slash-separated month/day/year format used by
// the import feed.
func ParseFeedDate(input string) (time.Time, error) {
	parsed, err := time.Parse(feedDateLayout, strings.TrimSpace(input))
	if err != nil {
		return time.Time{}, &FieldError{Field: "updated_at", Value: input, Err: ErrInvalidDate}
	}
	return parsed, nil
}

// NormalizeRow turns one raw feed row into a typed record. The first field
// that fails to normalize fails the whole row.
func NormalizeRow(row internal.FeedRow) (internal.ItemRecord, error) {
	name := strings.TrimSpace(row.Name)
	if name == "" {
		return internal.ItemRecord{}, &FieldError{Field: "name", Value: row.Name, Err: ErrEmptyName}
	}

	quantity, err := ParseQuantity(row.Quantity)
	if err != nil {
		return internal.ItemRecord{}, err
	}

	priceCents, err := ParsePrice(row.Price)
	if err != nil {
		return internal.ItemRecord{}, err
	}

	updatedAt, err := ParseFeedDate(row.UpdatedAt)
	if err != nil {
		return internal.ItemRecord{}, err
	}

	return internal.ItemRecord{
		Name:       name,
		Quantity:   quantity,
		PriceCents: priceCents,
		UpdatedAt:  updatedAt,
	}, nil
}

func FormatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
