package pathx

import "strings"

// mimeTypes maps lower-case extensions to IANA media types.
var mimeTypes = map[string]string{
	// text
	"txt":      "text/plain",
	"text":     "text/plain",
	"conf":     "text/plain",
	"log":      "text/plain",
	"ini":      "text/plain",
	"html":     "text/html",
	"htm":      "text/html",
	"css":      "text/css",
	"csv":      "text/csv",
	"tsv":      "text/tab-separated-values",
	"md":       "text/markdown",
	"markdown": "text/markdown",
	"xml":      "application/xml",
	"yaml":     "text/yaml",
	"yml":      "text/yaml",
	"ics":      "text/calendar",
	"vtt":      "text/vtt",

	// code and data
	"js":     "application/javascript",
	"mjs":    "application/javascript",
	"json":   "application/json",
	"map":    "application/json",
	"jsonld": "application/ld+json",
	"wasm":   "application/wasm",
	"toml":   "application/toml",
	"sh":     "application/x-sh",
	"sql":    "application/sql",

	// documents
	"pdf":  "application/pdf",
	"rtf":  "application/rtf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"odt":  "application/vnd.oasis.opendocument.text",
	"epub": "application/epub+zip",

	// archives
	"zip": "application/zip",
	"gz":  "application/gzip",
	"tar": "application/x-tar",
	"bz2": "application/x-bzip2",
	"7z":  "application/x-7z-compressed",
	"rar": "application/vnd.rar",

	// images
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
	"ico":  "image/x-icon",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"avif": "image/avif",

	// audio and video
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
	"flac": "audio/flac",
	"m4a":  "audio/mp4",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"mov":  "video/quicktime",
	"avi":  "video/x-msvideo",
	"mkv":  "video/x-matroska",

	// fonts
	"woff":  "font/woff",
	"woff2": "font/woff2",
	"ttf":   "font/ttf",
	"otf":   "font/otf",

	"bin": "application/octet-stream",
	"exe": "application/octet-stream",
}

// LookupMimeType returns the media type for an extension ("txt", ".txt")
// or a full path ("/a/b.txt"). The second result is false when the
// extension is unknown or missing.
func LookupMimeType(p string) (string, bool) {
	if p == "" {
		return "", false
	}
	// "x." makes a bare extension look like a file name.
	ext := strings.ToLower(extname("x." + p))
	if ext == "" {
		return "", false
	}
	mt, ok := mimeTypes[ext]
	return mt, ok
}

// ContentType is LookupMimeType with a binary fallback, for storage
// backends that always need a value.
func ContentType(p string) string {
	if mt, ok := LookupMimeType(p); ok {
		return mt
	}
	return "application/octet-stream"
}
