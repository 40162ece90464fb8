package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAttrs() map[string]string {
	return map[string]string{
		"project_id":        "acme-prod",
		"dataset_id":        "sales",
		"table_id":          "orders",
		"location":          "EU",
		"hostname":          "ftp.example.com",
		"user":              "loader",
		"password":          "secret",
		"write_disposition": "WRITE_APPEND",
		"source_format":     "CSV",
		"delimiter":         ";",
	}
}

func TestParseTrigger_NonSentinelSkipsValidation(t *testing.T) {
	// A non-matching command must never fail, even with no attributes at all.
	tr, err := ParseTrigger("refresh_cache", nil)
	require.NoError(t, err)
	assert.False(t, tr.Matches())
}

func TestParseTrigger_Valid(t *testing.T) {
	tr, err := ParseTrigger(CommandGetFTPData, validAttrs())
	require.NoError(t, err)
	require.True(t, tr.Matches())

	assert.Equal(t, "ftp.example.com", tr.FTP.Host)
	assert.Equal(t, 0, tr.FTP.Port)
	assert.Equal(t, "loader", tr.FTP.User)
	assert.Equal(t, "secret", tr.FTP.Password)

	assert.Equal(t, "acme-prod.sales.orders", tr.Target.TableRef())
	assert.Equal(t, "EU", tr.Target.Location)
	assert.Equal(t, FormatCSV, tr.Target.SourceFormat)
	assert.Equal(t, WriteAppend, tr.Target.WriteDisposition)
	assert.Equal(t, ";", tr.Target.Delimiter)
	assert.Equal(t, LoadModeFile, tr.Target.Mode)
}

func TestParseTrigger_UppercasesEnums(t *testing.T) {
	attrs := validAttrs()
	attrs["source_format"] = "csv"
	attrs["write_disposition"] = "write_truncate"

	tr, err := ParseTrigger(CommandGetFTPData, attrs)
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, tr.Target.SourceFormat)
	assert.Equal(t, WriteTruncate, tr.Target.WriteDisposition)
}

func TestParseTrigger_MissingAttributes(t *testing.T) {
	attrs := validAttrs()
	delete(attrs, "hostname")
	delete(attrs, "password")

	_, err := ParseTrigger(CommandGetFTPData, attrs)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
	assert.Contains(t, err.Error(), "hostname")
	assert.Contains(t, err.Error(), "password")
}

func TestParseTrigger_Port(t *testing.T) {
	attrs := validAttrs()
	attrs["port"] = "2121"
	tr, err := ParseTrigger(CommandGetFTPData, attrs)
	require.NoError(t, err)
	assert.Equal(t, 2121, tr.FTP.Port)

	for _, bad := range []string{"abc", "-1", "0", "70000"} {
		attrs["port"] = bad
		_, err := ParseTrigger(CommandGetFTPData, attrs)
		assert.Error(t, err, "port %q", bad)
	}
}

func TestParseTrigger_WriteDisposition(t *testing.T) {
	attrs := validAttrs()
	attrs["write_disposition"] = "WRITE_MAYBE"
	_, err := ParseTrigger(CommandGetFTPData, attrs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write_disposition")
}

func TestParseTrigger_LoadMode(t *testing.T) {
	attrs := validAttrs()
	attrs["load_mode"] = "table"
	tr, err := ParseTrigger(CommandGetFTPData, attrs)
	require.NoError(t, err)
	assert.Equal(t, LoadModeTable, tr.Target.Mode)

	attrs["load_mode"] = "stream"
	_, err = ParseTrigger(CommandGetFTPData, attrs)
	assert.Error(t, err)
}

func TestParseTrigger_TableModeRequiresCSV(t *testing.T) {
	attrs := validAttrs()
	attrs["load_mode"] = "table"
	attrs["source_format"] = "NEWLINE_DELIMITED_JSON"

	_, err := ParseTrigger(CommandGetFTPData, attrs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load_mode=table")
}

func TestParseTrigger_CSVFileModeRequiresDelimiter(t *testing.T) {
	attrs := validAttrs()
	delete(attrs, "delimiter")
	_, err := ParseTrigger(CommandGetFTPData, attrs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delimiter")

	// JSON file loads have no delimiter.
	attrs["source_format"] = "NEWLINE_DELIMITED_JSON"
	_, err = ParseTrigger(CommandGetFTPData, attrs)
	assert.NoError(t, err)
}
