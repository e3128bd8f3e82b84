package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"stockbook/internal"
)

var feedColumns = []string{"name", "quantity", "price", "updated_at"}

// ReadFeed reads a delimited import feed. The header row must name all four
// feed columns; column order is not significant. Field values are returned
// as raw text, so a row with an unparseable price or date still comes back
// here and is rejected by normalization, one row at a time.
func ReadFeed(r io.Reader) ([]internal.FeedRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("feed is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read feed header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range feedColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("feed header missing column %q", required)
		}
	}

	field := func(record []string, name string) string {
		idx := columns[name]
		if idx < len(record) {
			return record[idx]
		}
		return ""
	}

	var rows []internal.FeedRow
	lineNo := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read feed: %w", err)
		}
		lineNo++
		rows = append(rows, internal.FeedRow{
			LineNo:    lineNo,
			Name:      field(record, "name"),
			Quantity:  field(record, "quantity"),
			Price:     field(record, "price"),
			UpdatedAt: field(record, "updated_at"),
		})
	}

	return rows, nil
}
