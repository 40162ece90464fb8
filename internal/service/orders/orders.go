// Package orders parses the daily order export into typed rows.
//
// The export is a semicolon-delimited CSV in Windows-1251 with a header row
// and a fixed 23-column schema. Identifier and quantity columns are kept as
// text so values like "007" are never coerced into numbers.
package orders

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"ftplake/internal/domain"
)

// Columns is the fixed export schema, in file order.
var Columns = []string{
	"createdAt", "updatedAt", "shippingDate", "orderId", "productName",
	"productCategory", "metalType", "size", "weight", "quantity", "price",
	"sale", "shippingCost", "orderSum", "orderSource", "city", "status",
	"paymentMethod", "clientId", "userId", "phone", "email", "authPhone",
}

// ParseFile reads the export at path and returns one row per non-header
// line. The source file is opened read-only and never mutated. Any malformed
// row or decoding failure is fatal; no partial result is returned.
func ParseFile(path string) ([]domain.OrderRow, error) {
	f, err := os.Open(path) //nolint:gosec // path lives in the invocation scratch dir
	if err != nil {
		return nil, domain.ErrTransform(path, err)
	}
	defer f.Close() //nolint:errcheck

	rows, err := Parse(f)
	if err != nil {
		return nil, domain.ErrTransform(path, err)
	}
	return rows, nil
}

// Parse decodes and parses the export from r.
func Parse(r io.Reader) ([]domain.OrderRow, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.Windows1251.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = len(Columns)

	var rows []domain.OrderRow
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 {
			continue // header
		}

		row, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(record []string) (domain.OrderRow, error) {
	row := domain.OrderRow{
		CreatedAt:       record[0],
		UpdatedAt:       record[1],
		ShippingDate:    record[2],
		OrderID:         record[3],
		ProductName:     record[4],
		ProductCategory: record[5],
		MetalType:       record[6],
		Size:            record[7],
		Quantity:        record[9],
		OrderSource:     record[14],
		City:            record[15],
		Status:          record[16],
		PaymentMethod:   record[17],
		ClientID:        record[18],
		UserID:          record[19],
		Phone:           record[20],
		Email:           record[21],
		AuthPhone:       record[22],
	}

	var err error
	if row.Weight, err = parseFloat(record[8]); err != nil {
		return row, fmt.Errorf("weight: %w", err)
	}
	if row.Price, err = parseFloat(record[10]); err != nil {
		return row, fmt.Errorf("price: %w", err)
	}
	if row.Sale, err = parseFloat(record[11]); err != nil {
		return row, fmt.Errorf("sale: %w", err)
	}
	if row.ShippingCost, err = parseFloat(record[12]); err != nil {
		return row, fmt.Errorf("shippingCost: %w", err)
	}
	if row.OrderSum, err = parseFloat(record[13]); err != nil {
		return row, fmt.Errorf("orderSum: %w", err)
	}
	return row, nil
}

// parseFloat accepts an empty field as zero and tolerates a decimal comma,
// which the export uses for some monetary columns.
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}
