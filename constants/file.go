package constants

import "strings"

// Document formats as declared by the extraction collaborator.
const (
	PDF     = "PDF"
	IMAGE   = "IMAGE"
	TXT     = "TXT"
	UNKNOWN = "UNKNOWN"
)

var imageExts = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"bmp":  {},
	"tiff": {},
	"heic": {},
}

var textExts = map[string]struct{}{
	"txt":  {},
	"md":   {},
	"csv":  {},
	"json": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// MapExtToFormat maps a normalized extension to a coarse document format.
func MapExtToFormat(ext string) string {
	ext = NormalizeExt(ext)
	switch {
	case ext == "pdf":
		return PDF
	case isImage(ext):
		return IMAGE
	case isText(ext):
		return TXT
	default:
		return UNKNOWN
	}
}

func isImage(ext string) bool { _, ok := imageExts[ext]; return ok }
func isText(ext string) bool  { _, ok := textExts[ext]; return ok }
