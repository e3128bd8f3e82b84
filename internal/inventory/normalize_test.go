package inventory

import (
	"errors"
	"testing"

	"stockbook/internal"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  int64
	}{
		{name: "dollar sign", input: "$3.19", want: 319},
		{name: "no symbol", input: "3.19", want: 319},
		{name: "whole dollars", input: "$12", want: 1200},
		{name: "sub dollar", input: "0.5", want: 50},
		{name: "rounds up", input: "0.999", want: 100},
		{name: "zero", input: "$0.00", want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePrice(tc.input)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("got %d want %d", got, tc.want)
			}
		})
	}
}

func TestParsePriceRejects(t *testing.T) {
	for _, input := range []string{"", "abc", "$", "-1.00", "$-0.50", "1,99"} {
		if _, err := ParsePrice(input); !errors.Is(err, ErrInvalidPrice) {
			t.Fatalf("input %q: expected ErrInvalidPrice, got %v", input, err)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	got, err := ParseQuantity(" 42 ")
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Fatalf("got %d want 42", got)
	}

	for _, input := range []string{"", "-1", "1.5", "ten"} {
		if _, err := ParseQuantity(input); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("input %q: expected ErrInvalidQuantity, got %v", input, err)
		}
	}
}

func TestParseEntryDateLayouts(t *testing.T) {
	inputs := []string{"January 5, 2022", "Jan 5, 2022", "January 5 2022", "Jan 5 2022"}

	first, err := ParseEntryDate(inputs[0])
	if err != nil {
		t.Fatal(err)
	}
	if first.Format(internal.DateLayout) != "2022-01-05" {
		t.Fatalf("got %s", first.Format(internal.DateLayout))
	}

	for _, input := range inputs[1:] {
		parsed, err := ParseEntryDate(input)
		if err != nil {
			t.Fatal(err)
		}
		if !parsed.Equal(first) {
			t.Fatalf("input %q: got %v want %v", input, parsed, first)
		}
	}
}

func TestParseEntryDateInvalid(t *testing.T) {
	for _, input := range []string{"", "2022-01-05", "5 January 2022", "soon"} {
		if _, err := ParseEntryDate(input); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("input %q: expected ErrInvalidDate, got %v", input, err)
		}
	}
}

func TestParseFeedDate(t *testing.T) {
	for _, input := range []string{"1/5/2022", "01/05/2022"} {
		parsed, err := ParseFeedDate(input)
		if err != nil {
			t.Fatal(err)
		}
		if parsed.Format(internal.DateLayout) != "2022-01-05" {
			t.Fatalf("input %q: got %s", input, parsed.Format(internal.DateLayout))
		}
	}

	if _, err := ParseFeedDate("January 5, 2022"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestNormalizeRow(t *testing.T) {
	item, err := NormalizeRow(internal.FeedRow{LineNo: 2, Name: " Widget ", Quantity: "10", Price: "$1.00", UpdatedAt: "01/01/2022"})
	if err != nil {
		t.Fatal(err)
	}
	if item.Name != "Widget" || item.Quantity != 10 || item.PriceCents != 100 {
		t.Fatalf("unexpected record: %+v", item)
	}
	if item.UpdatedAt.Format(internal.DateLayout) != "2022-01-01" {
		t.Fatalf("got date %s", item.UpdatedAt.Format(internal.DateLayout))
	}

	if _, err := NormalizeRow(internal.FeedRow{Name: "  ", Quantity: "1", Price: "1", UpdatedAt: "1/1/2022"}); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestFieldErrorNamesField(t *testing.T) {
	_, err := NormalizeRow(internal.FeedRow{Name: "Widget", Quantity: "1", Price: "oops", UpdatedAt: "1/1/2022"})
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldError, got %v", err)
	}
	if fieldErr.Field != "price" {
		t.Fatalf("got field %q", fieldErr.Field)
	}
}

func TestFormatCents(t *testing.T) {
	if got := FormatCents(319); got != "$3.19" {
		t.Fatalf("got %s", got)
	}
	if got := FormatCents(100); got != "$1.00" {
		t.Fatalf("got %s", got)
	}
	if got := FormatCents(5); got != "$0.05" {
		t.Fatalf("got %s", got)
	}
}
