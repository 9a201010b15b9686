package util

import (
	"net/url"
	"path"
	"strings"

	"github.com/kennygrant/sanitize"
)

// DeriveFilename picks the stored name for an image: the last segment of the
// URL path made filesystem-safe, or fallback when the path has none. A
// recognised image extension is kept; otherwise one is appended from the
// content type.
func DeriveFilename(rawURL, contentType, fallback string) string {
	base := ""
	if u, err := url.Parse(rawURL); err == nil && !strings.HasSuffix(u.Path, "/") {
		base = path.Base(u.Path)
	}

	switch base {
	case "", ".", "..", "/":
		return fallback
	}

	if HasImageExtension(base) {
		ext := path.Ext(base)
		stem := sanitize.BaseName(strings.TrimSuffix(base, ext))
		if stem == "" || strings.Trim(stem, "-.") == "" {
			return fallback
		}
		return stem + ext
	}

	name := sanitize.BaseName(base)
	if strings.Trim(name, "-.") == "" {
		return fallback
	}
	return name + ExtensionFromContentType(contentType)
}
