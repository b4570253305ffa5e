package document

import (
	"mime"
	"path/filepath"
	"strings"
)

// DefaultAllowedMimeTypes is the upload allow-list used when none is configured
var DefaultAllowedMimeTypes = []string{
	"application/pdf",
	"image/png",
	"image/jpeg",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"text/csv",
	"text/plain",
}

// refinedByContainer lists, per generic sniffed type, the extensions whose
// format is that container. Unidentified bytes are never refined.
var refinedByContainer = map[string]map[string]string{
	"application/zip": {
		".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	},
	"application/x-ole-storage": {
		".doc": "application/msword",
		".xls": "application/vnd.ms-excel",
	},
	"text/plain": {
		".csv": "text/csv",
	},
}

// ResolveMimeType picks the effective content type from the sniffed type and
// the file extension. Office formats sniff as zip or ole containers, and csv
// sniffs as plain text, so the extension refines those and nothing else.
func ResolveMimeType(sniffed, fileName string) string {
	base, _, err := mime.ParseMediaType(sniffed)
	if err != nil {
		base = strings.ToLower(strings.TrimSpace(sniffed))
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if t, ok := refinedByContainer[base][ext]; ok {
		return t
	}
	return base
}

// MimeAllowList checks content types against a configured allow-list
type MimeAllowList struct {
	allowed map[string]bool
}

// NewMimeAllowList builds an allow-list, falling back to the defaults
func NewMimeAllowList(types []string) MimeAllowList {
	if len(types) == 0 {
		types = DefaultAllowedMimeTypes
	}
	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[strings.ToLower(strings.TrimSpace(t))] = true
	}
	return MimeAllowList{allowed: allowed}
}

// Allows reports whether the content type may be uploaded
func (l MimeAllowList) Allows(contentType string) bool {
	return l.allowed[strings.ToLower(contentType)]
}
