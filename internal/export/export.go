// Package export renders expenses as CSV or XLSX attachments.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const sheetName = "Expenses"

// utf8BOM makes spreadsheet apps detect UTF-8 so currency symbols survive.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var headers = []string{"Date", "Category", "Amount", "Currency", "Note"}

// Row is one exported expense.
type Row struct {
	Date     time.Time
	Category string
	Amount   decimal.Decimal
	Currency string
	Note     string
}

// ContentType returns the MIME type for format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns the attachment name for an export taken at now.
func (f Format) Filename(now time.Time) string {
	return fmt.Sprintf("expenses_%s.%s", now.Format("20060102"), f)
}

// Render encodes rows in format.
func Render(format Format, rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatCSV:
		err = WriteCSV(&buf, rows)
	case FormatXLSX:
		err = WriteXLSX(&buf, rows)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func WriteCSV(w io.Writer, rows []Row) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Date.Format(time.DateOnly),
			row.Category,
			row.Amount.StringFixed(2),
			row.Currency,
			row.Note,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// columnWidths sizes the XLSX columns: date, category, amount, currency, note.
var columnWidths = map[string]float64{"A": 12, "B": 15, "C": 12, "D": 10, "E": 40}

func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	// rename the default sheet instead of adding a second one
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.Date.Format(time.DateOnly),
			row.Category,
			row.Amount.InexactFloat64(),
			row.Currency,
			row.Note,
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+2, err)
		}
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("set column %s width: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
