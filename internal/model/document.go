package model

import "time"

// Document is the metadata record of one uploaded file.
// This is a pure domain model with no database-specific dependencies or tags.
// ID is the numeric key used for relations; GUID is the opaque external
// identifier that also names the stored file.
type Document struct {
	ID               int64     `json:"id"`
	GUID             string    `json:"guid"`
	Title            string    `json:"title"`
	Author           string    `json:"author"`
	ISBN             string    `json:"isbn"`
	FilePath         string    `json:"file_path"`
	FileType         FileType  `json:"file_type"`
	SizeKB           int64     `json:"size_kb"`
	OriginalFilename string    `json:"original_filename"`
	UploadedAt       time.Time `json:"uploaded_at"`
	UploadedBy       int64     `json:"uploaded_by"`
	UpdatedAt        time.Time `json:"updated_at"`
	UpdatedBy        int64     `json:"updated_by"`
}

// Content is the extracted plain text of a document. It only exists when
// extraction produced non-empty text.
type Content struct {
	DocumentID int64  `json:"document_id"`
	Text       string `json:"text"`
}

// DocumentSummary is the projection returned by listings and search.
type DocumentSummary struct {
	ID               int64     `json:"id"`
	GUID             string    `json:"guid"`
	Title            string    `json:"title"`
	Author           string    `json:"author"`
	FilePath         string    `json:"file_path"`
	FileType         FileType  `json:"file_type"`
	OriginalFilename string    `json:"original_filename"`
	UploadedAt       time.Time `json:"uploaded_at"`
	UploadedBy       int64     `json:"uploaded_by"`
}

// Summary returns the listing projection of d.
func (d *Document) Summary() DocumentSummary {
	return DocumentSummary{
		ID:               d.ID,
		GUID:             d.GUID,
		Title:            d.Title,
		Author:           d.Author,
		FilePath:         d.FilePath,
		FileType:         d.FileType,
		OriginalFilename: d.OriginalFilename,
		UploadedAt:       d.UploadedAt,
		UploadedBy:       d.UploadedBy,
	}
}

// SizeInKB converts a byte count to kilobytes, rounding up.
func SizeInKB(n int64) int64 {
	if n <= 0 {
		return 0
	}
	return (n + 1023) / 1024
}
