package inventory

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"stockbook/internal"
	"stockbook/internal/storage"
)

var exportHeader = []string{"id", "name", "quantity", "price_cents", "updated_at"}

// Snapshot reads the whole catalog and collapses rows that agree on name,
// quantity, price and date into one. The id deliberately takes no part in
// the key: duplicates can only exist if the one-record-per-name rule was
// violated upstream, and the snapshot tolerates that rather than fail.
// Row order carries no meaning.
func Snapshot(db *storage.DB) ([]internal.ExportRow, error) {
	items, err := db.ListItems()
	if err != nil {
		return nil, err
	}

	seen := make(map[internal.ExportRow]struct{}, len(items))
	out := make([]internal.ExportRow, 0, len(items))
	for _, item := range items {
		row := internal.ExportRow{
			Name:       item.Name,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
			UpdatedAt:  item.UpdatedAt.Format(internal.DateLayout),
		}
		if _, ok := seen[row]; ok {
			continue
		}
		seen[row] = struct{}{}
		out = append(out, row)
	}

	return out, nil
}

// WriteCSV writes snapshot rows as a flat file. The id column is always
// empty: snapshot rows describe catalog contents, not identities.
func WriteCSV(rows []internal.ExportRow, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(exportHeader); err != nil {
		_ = f.Close()
		return err
	}
	for _, row := range rows {
		record := []string{
			"",
			row.Name,
			strconv.Itoa(row.Quantity),
			strconv.FormatInt(row.PriceCents, 10),
			row.UpdatedAt,
		}
		if err := w.Write(record); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// WriteXLSX writes the same snapshot as a spreadsheet.
func WriteXLSX(rows []internal.ExportRow, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, "")
		set(2, row.Name)
		set(3, row.Quantity)
		set(4, row.PriceCents)
		set(5, row.UpdatedAt)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
