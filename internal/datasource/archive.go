package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

const archiveTimestampLayout = "200601021504"

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]`)

// ResponseArchive writes raw upstream bodies to disk for later inspection.
// Files are named <identifier><yyyyMMddHHmm>; a later write in the same minute replaces the earlier one.
type ResponseArchive struct {
	dir string
	now func() time.Time
}

// NewResponseArchive creates an archive rooted at dir
func NewResponseArchive(dir string) *ResponseArchive {
	return &ResponseArchive{dir: dir, now: time.Now}
}

// Save writes body under the sanitized identifier and returns the file path
func (a *ResponseArchive) Save(identifier string, body []byte) (string, error) {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	name := sanitizeSegment(identifier) + a.now().Format(archiveTimestampLayout)
	path := filepath.Join(a.dir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}
	return path, nil
}

func sanitizeSegment(value string) string {
	return nonAlphanumeric.ReplaceAllString(value, "")
}
