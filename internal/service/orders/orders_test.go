package orders

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"ftplake/internal/domain"
)

// exportRecord returns a valid 23-field record with a few fields overridden.
func exportRecord(overrides map[int]string) []string {
	rec := []string{
		"2024-01-01 10:00:00", // createdAt
		"2024-01-01 11:00:00", // updatedAt
		"2024-01-03",          // shippingDate
		"A-1001",              // orderId
		"Кольцо золотое",      // productName
		"Кольца",              // productCategory
		"золото",              // metalType
		"17.5",                // size
		"3.2",                 // weight
		"007",                 // quantity
		"12500",               // price
		"500",                 // sale
		"350,5",               // shippingCost
		"12350,5",             // orderSum
		"site",                // orderSource
		"Москва",              // city
		"доставлен",           // status
		"card",                // paymentMethod
		"C-42",                // clientId
		"U-0099",              // userId
		"+79001234567",        // phone
		"a@example.com",       // email
		"+79001234567",        // authPhone
	}
	for i, v := range overrides {
		rec[i] = v
	}
	return rec
}

// encodeExport renders header plus records as a Windows-1251
// semicolon-delimited export.
func encodeExport(t *testing.T, records ...[]string) []byte {
	t.Helper()
	var sb strings.Builder
	sb.WriteString(strings.Join(Columns, ";") + "\n")
	for _, rec := range records {
		sb.WriteString(strings.Join(rec, ";") + "\n")
	}
	out, err := charmap.Windows1251.NewEncoder().String(sb.String())
	require.NoError(t, err)
	return []byte(out)
}

func TestParse(t *testing.T) {
	data := encodeExport(t, exportRecord(nil))

	rows, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "A-1001", row.OrderID)
	assert.Equal(t, "Москва", row.City)
	assert.Equal(t, "доставлен", row.Status)
	assert.Equal(t, 3.2, row.Weight)
	assert.Equal(t, 12500.0, row.Price)
	assert.Equal(t, 350.5, row.ShippingCost)
	assert.Equal(t, 12350.5, row.OrderSum)
}

func TestParse_QuantityStaysText(t *testing.T) {
	// Leading zeros in identifier-like columns must survive verbatim.
	data := encodeExport(t, exportRecord(map[int]string{9: "007", 18: "00123"}))

	rows, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "007", rows[0].Quantity)
	assert.Equal(t, "00123", rows[0].ClientID)
}

func TestParse_EmptyNumericFieldsAreZero(t *testing.T) {
	data := encodeExport(t, exportRecord(map[int]string{8: "", 11: "", 12: ""}))

	rows, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Zero(t, rows[0].Weight)
	assert.Zero(t, rows[0].Sale)
	assert.Zero(t, rows[0].ShippingCost)
}

func TestParse_HeaderOnly(t *testing.T) {
	rows, err := Parse(bytes.NewReader(encodeExport(t)))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParse_MalformedRowIsFatal(t *testing.T) {
	t.Run("wrong column count", func(t *testing.T) {
		short := exportRecord(nil)[:10]
		_, err := Parse(bytes.NewReader(encodeExport(t, short)))
		assert.Error(t, err)
	})
	t.Run("bad number", func(t *testing.T) {
		_, err := Parse(bytes.NewReader(encodeExport(t, exportRecord(map[int]string{10: "twelve"}))))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "price")
		assert.Contains(t, err.Error(), "line 2")
	})
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "01-01-2024.csv")
	require.NoError(t, os.WriteFile(path, encodeExport(t, exportRecord(nil)), 0o600))

	rows, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestParseFile_MissingFile(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.IsType(t, &domain.TransformError{}, err)
}
