package load

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"cloud.google.com/go/bigquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"ftplake/internal/domain"
)

func TestConfigureFileSource_CSV(t *testing.T) {
	src := bigquery.NewReaderSource(strings.NewReader(""))
	ConfigureFileSource(src, domain.LoadTarget{
		SourceFormat: domain.FormatCSV,
		Delimiter:    ";",
	})

	assert.Equal(t, bigquery.CSV, src.SourceFormat)
	assert.True(t, src.AutoDetect)
	assert.Equal(t, ";", src.FieldDelimiter)
	assert.Equal(t, int64(1), src.SkipLeadingRows)
}

func TestConfigureFileSource_JSON(t *testing.T) {
	src := bigquery.NewReaderSource(strings.NewReader(""))
	ConfigureFileSource(src, domain.LoadTarget{SourceFormat: domain.FormatJSON})

	assert.Equal(t, bigquery.JSON, src.SourceFormat)
	assert.True(t, src.AutoDetect)
	assert.Empty(t, src.FieldDelimiter)
	assert.Zero(t, src.SkipLeadingRows)
}

func TestEncodeRows(t *testing.T) {
	rows := []domain.OrderRow{
		{OrderID: "A-1", Quantity: "007", Status: "delivered", OrderSum: 12350.5},
		{OrderID: "A-2", Quantity: "1", Status: "returned"},
	}

	body, err := EncodeRows(rows)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(body), []byte("\n"))
	require.Len(t, lines, 2)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &decoded))
	// Quantity must stay a JSON string so "007" survives schema autodetect.
	assert.Equal(t, "007", decoded["quantity"])
	assert.Equal(t, "delivered", decoded["status"])
	assert.Equal(t, 12350.5, decoded["orderSum"])
}

func TestEncodeRows_Empty(t *testing.T) {
	body, err := EncodeRows(nil)
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&googleapi.Error{Code: 403}, "permission_or_quota"},
		{&googleapi.Error{Code: 404}, "missing_dataset_or_table"},
		{&googleapi.Error{Code: 400}, "schema_or_format"},
		{&googleapi.Error{Code: 500}, "unknown"},
		{errors.New("plain"), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyError(tt.err))
	}
}
