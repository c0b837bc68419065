package constants

import "strings"

// AllowedExtensions holds the accepted upload extensions for tender documents.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

const (
	// MaxUploadBytes caps the accepted tender upload size.
	MaxUploadBytes int64 = 10 << 20 // 10 MiB

	// MinReadableText is the minimum number of extracted characters for a
	// document to count as text-based. Scanned/image-only PDFs fall below it.
	MinReadableText = 100

	// DocumentWindow and ClassifyExcerpt bound how much document text is sent
	// to the completion provider: prompts see the first DocumentWindow chars,
	// the guardrail classifier sees the first ClassifyExcerpt chars of that.
	DocumentWindow  = 8000
	ClassifyExcerpt = 3000
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether the (possibly dotted, mixed-case) extension is accepted.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
