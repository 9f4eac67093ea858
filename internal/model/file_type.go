package model

import (
	"path/filepath"
	"strings"
)

// FileType is one of the document formats the service accepts and extracts.
type FileType string

const (
	FileTypeTXT  FileType = "txt"
	FileTypeRTF  FileType = "rtf"
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
	FileTypeEPUB FileType = "epub"
	FileTypeHTML FileType = "html"
)

// AllowedFileTypes lists every accepted format in display order.
var AllowedFileTypes = []FileType{
	FileTypeTXT,
	FileTypeRTF,
	FileTypePDF,
	FileTypeDOCX,
	FileTypeEPUB,
	FileTypeHTML,
}

// Valid reports whether t is one of the accepted formats.
func (t FileType) Valid() bool {
	for _, a := range AllowedFileTypes {
		if t == a {
			return true
		}
	}
	return false
}

func (t FileType) String() string { return string(t) }

// FileTypeFromFilename derives the file type from the extension of a
// client supplied filename, case-insensitively. The second result is false
// when the extension is missing or not accepted.
func FileTypeFromFilename(name string) (FileType, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return "", false
	}
	t := FileType(ext)
	return t, t.Valid()
}
