package domain

import (
	"strconv"
	"strings"
)

// CommandGetFTPData is the sentinel command that gates all processing.
// Any other command is a no-op, not an error.
const CommandGetFTPData = "get_ftp_data"

// LoadMode selects how the fetched file reaches the warehouse.
type LoadMode string

const (
	// LoadModeFile submits the raw scratch file to the load job.
	LoadModeFile LoadMode = "file"
	// LoadModeTable parses the file into typed rows first and loads those.
	LoadModeTable LoadMode = "table"
)

// Write dispositions accepted on the trigger (BigQuery names).
const (
	WriteAppend   = "WRITE_APPEND"
	WriteTruncate = "WRITE_TRUNCATE"
	WriteEmpty    = "WRITE_EMPTY"
)

// Source formats accepted on the trigger.
const (
	FormatCSV  = "CSV"
	FormatJSON = "NEWLINE_DELIMITED_JSON"
)

// FTPConfig holds the remote endpoint and credentials taken from the trigger.
type FTPConfig struct {
	Host     string
	Port     int // 0 means the default FTP port
	User     string
	Password string
}

// LoadTarget identifies the warehouse table and the load job settings.
// Target identity comes from trigger attributes verbatim; nothing is guessed.
type LoadTarget struct {
	Project          string
	Dataset          string
	Table            string
	Location         string
	SourceFormat     string
	WriteDisposition string
	Delimiter        string // CSV only
	Mode             LoadMode
}

// TableRef returns the fully qualified table reference.
func (t LoadTarget) TableRef() string {
	return t.Project + "." + t.Dataset + "." + t.Table
}

// Trigger is one decoded trigger event: the command plus the validated
// per-invocation configuration derived from its attributes.
type Trigger struct {
	Command string
	FTP     FTPConfig
	Target  LoadTarget
}

// Matches reports whether the trigger carries the processing sentinel.
func (t *Trigger) Matches() bool { return t.Command == CommandGetFTPData }

// ParseTrigger builds a Trigger from a decoded command string and the
// attribute set of the event. Attributes are only validated when the command
// matches the sentinel. A non-matching command never fails; it is filtered
// upstream without side effects.
func ParseTrigger(command string, attrs map[string]string) (*Trigger, error) {
	tr := &Trigger{Command: command}
	if !tr.Matches() {
		return tr, nil
	}

	required := []string{
		"project_id", "dataset_id", "table_id", "location",
		"hostname", "user", "password", "write_disposition", "source_format",
	}
	var missing []string
	for _, k := range required {
		if attrs[k] == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, ErrValidation("trigger missing required attributes: %s", strings.Join(missing, ", "))
	}

	tr.FTP = FTPConfig{
		Host:     attrs["hostname"],
		User:     attrs["user"],
		Password: attrs["password"],
	}
	if v := attrs["port"]; v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return nil, ErrValidation("invalid port %q", v)
		}
		tr.FTP.Port = port
	}

	tr.Target = LoadTarget{
		Project:          attrs["project_id"],
		Dataset:          attrs["dataset_id"],
		Table:            attrs["table_id"],
		Location:         attrs["location"],
		SourceFormat:     strings.ToUpper(attrs["source_format"]),
		WriteDisposition: strings.ToUpper(attrs["write_disposition"]),
		Delimiter:        attrs["delimiter"],
		Mode:             LoadModeFile,
	}

	switch tr.Target.WriteDisposition {
	case WriteAppend, WriteTruncate, WriteEmpty:
	default:
		return nil, ErrValidation("invalid write_disposition %q", attrs["write_disposition"])
	}

	switch v := attrs["load_mode"]; v {
	case "", string(LoadModeFile):
	case string(LoadModeTable):
		tr.Target.Mode = LoadModeTable
	default:
		return nil, ErrValidation("invalid load_mode %q", v)
	}

	if tr.Target.Mode == LoadModeTable {
		// Table mode parses the export itself; the source is always the
		// semicolon-delimited CSV regardless of the source_format attribute.
		if tr.Target.SourceFormat != FormatCSV {
			return nil, ErrValidation("load_mode=table requires source_format CSV, got %q", attrs["source_format"])
		}
	} else if tr.Target.SourceFormat == FormatCSV && tr.Target.Delimiter == "" {
		return nil, ErrValidation("delimiter is required for CSV file loads")
	}

	return tr, nil
}
