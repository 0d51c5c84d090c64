package domain

import (
	"strings"
	"time"
)

type UploadedFile struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"originalName"`
	StoredName   string    `json:"filename"`
	SizeBytes    int64     `json:"size"`
	MimeType     string    `json:"mimetype"`
	AccessPath   string    `json:"fileUrl"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

type AggregateStats struct {
	TotalFiles     int64            `json:"totalFiles"`
	TotalSizeBytes int64            `json:"totalSize"`
	LastUploadAt   *time.Time       `json:"lastUpload"`
	FileTypeCounts map[string]int64 `json:"fileTypes"`
}

type DashboardData struct {
	TotalLogsToday int   `json:"totalLogsToday"`
	SuccessCount   int64 `json:"successCount"`
	ActiveServers  int   `json:"activeServers"`
	ActiveAlerts   int   `json:"activeAlerts"`
}

// ObjectInfo describes a stored object as reported by a storage backend.
type ObjectInfo struct {
	Name        string
	Size        int64
	ContentType string
	ModTime     time.Time
}

const (
	UnknownExtension  = "unknown"
	StoredNamePrefix  = "file-"
	PublicPathPrefix  = "/uploads/"
	ActiveServerCount = 1
)

const (
	DefaultMaxUploadSize = 10 << 20
	DefaultStorageDir    = "uploads"
)

// ExtensionKey returns the lowercased text after the last dot of name,
// or UnknownExtension when there is none.
func ExtensionKey(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return UnknownExtension
	}
	return strings.ToLower(name[i+1:])
}

// StartOfDay truncates t to midnight in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StoredExtension returns the extension of originalName, dot included, with
// everything but ASCII letters and digits removed. It returns "" when no
// such character is left, so stored names stay safe as URL path segments.
func StoredExtension(originalName string) string {
	i := strings.LastIndex(originalName, ".")
	if i < 0 {
		return ""
	}

	var b strings.Builder
	for _, c := range originalName[i+1:] {
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "." + b.String()
}

func AccessPathFor(storedName string) string {
	return PublicPathPrefix + storedName
}
