package util

import (
	"path"
	"strings"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".bmp": true, ".svg": true, ".tif": true, ".tiff": true, ".ico": true, ".avif": true,
}

var contentTypeToExt = map[string]string{
	"image/jpeg":               ".jpg",
	"image/jpg":                ".jpg",
	"image/pjpeg":              ".jpg",
	"image/png":                ".png",
	"image/gif":                ".gif",
	"image/webp":               ".webp",
	"image/bmp":                ".bmp",
	"image/x-ms-bmp":           ".bmp",
	"image/svg+xml":            ".svg",
	"image/tiff":               ".tiff",
	"image/x-icon":             ".ico",
	"image/vnd.microsoft.icon": ".ico",
	"image/avif":               ".avif",
}

// NormalizeContentType strips parameters and lowercases a Content-Type value
func NormalizeContentType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(strings.ToLower(contentType))
}

// IsImageContentType reports whether contentType is an image/* type
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(NormalizeContentType(contentType), "image/")
}

// HasImageExtension reports whether name ends in a recognised image extension
func HasImageExtension(name string) bool {
	return imageExtensions[strings.ToLower(path.Ext(name))]
}

// ExtensionFromContentType maps an image content type to a file extension, defaulting to .jpg
func ExtensionFromContentType(contentType string) string {
	if ext, ok := contentTypeToExt[NormalizeContentType(contentType)]; ok {
		return ext
	}
	return ".jpg"
}

// FileType returns the extension without the dot, for metrics labels
func FileType(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if ext == "" {
		return "unknown"
	}
	return ext
}

// ExtractContentType looks up the Content-Type header regardless of key casing
func ExtractContentType(headers map[string]string) string {
	for key, value := range headers {
		if strings.EqualFold(key, "Content-Type") {
			return value
		}
	}
	return ""
}
