package container

import (
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// extensionContentTypes covers the image formats Word embeds.
var extensionContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"tif":  "image/tiff",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
}

const octetStream = "application/octet-stream"

// DetectMIME sniffs the media type of data. When the bytes are not
// recognised the extension of name decides.
func DetectMIME(name string, data []byte) string {
	if len(data) > 0 {
		if m := mimetype.Detect(data); m.String() != octetStream && !m.Is("text/plain") {
			return baseType(m.String())
		}
	}
	if ct, ok := extensionContentTypes[strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))]; ok {
		return ct
	}
	return octetStream
}

// ExtensionFor returns a file extension (with dot) for a media type.
func ExtensionFor(mimeType string) string {
	if m := mimetype.Lookup(mimeType); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	for ext, ct := range extensionContentTypes {
		if ct == mimeType && ext != "jpeg" && ext != "tif" {
			return "." + ext
		}
	}
	return ".bin"
}

// baseType strips parameters such as "; charset=utf-8".
func baseType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		return strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}

// isMediaPath reports whether a package path is under a media folder.
func isMediaPath(name string) bool {
	return strings.Contains(name, "/media/")
}
