package domain

import (
	"path"
	"time"
)

// exportDateLayout is the DD-MM-YYYY layout used in the daily export filename.
const exportDateLayout = "02-01-2006"

// RemoteFileRef addresses one dated export file on the FTP host.
type RemoteFileRef struct {
	Host string
	Path string
}

// URL renders the reference as an ftp:// URL for logs and the run record.
func (r RemoteFileRef) URL() string {
	return "ftp://" + r.Host + "/" + r.Path
}

// Basename returns the final path segment, used as the scratch filename.
func (r RemoteFileRef) Basename() string {
	return path.Base(r.Path)
}

// ExportFilename returns the export filename for the day before now,
// e.g. 31-12-2023.csv for any wall-clock instant on 2024-01-01.
func ExportFilename(now time.Time) string {
	return now.AddDate(0, 0, -1).Format(exportDateLayout) + ".csv"
}

// DeriveRemoteFile computes the one RemoteFileRef for this invocation.
// Only the hostname comes from the trigger; the path is template-derived.
func DeriveRemoteFile(ftp FTPConfig, now time.Time) RemoteFileRef {
	return RemoteFileRef{Host: ftp.Host, Path: ExportFilename(now)}
}
