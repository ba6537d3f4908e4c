package domain

import (
	"path"
	"strings"
)

const (
	// DefaultContentMimeType is served for content whose extension is unknown.
	DefaultContentMimeType = "application/octet-stream"

	// DefaultMetadataMimeType is reported by metadata endpoints for unknown extensions.
	DefaultMetadataMimeType = "application/pdf"
)

// mimeTypes maps lowercase file extensions to MIME types. Client supplied content
// types are never trusted.
var mimeTypes = map[string]string{
	".txt":  "text/plain",
	".csv":  "text/csv",
	".htm":  "text/html",
	".html": "text/html",
	".css":  "text/css",
	".md":   "text/markdown",
	".xml":  "application/xml",
	".json": "application/json",
	".js":   "text/javascript",
	".pdf":  "application/pdf",
	".rtf":  "application/rtf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".odt":  "application/vnd.oasis.opendocument.text",
	".ods":  "application/vnd.oasis.opendocument.spreadsheet",
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".tar":  "application/x-tar",
	".7z":   "application/x-7z-compressed",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".bmp":  "image/bmp",
	".ico":  "image/vnd.microsoft.icon",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
}

// MimeTypeFor looks up the MIME type of fileName by extension, returning fallback when unknown.
func MimeTypeFor(fileName, fallback string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if mimeType, ok := mimeTypes[ext]; ok {
		return mimeType
	}
	return fallback
}
