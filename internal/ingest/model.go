package ingest

import (
	"time"

	"loanfile-backend/internal/documents"
)

// Status is the lifecycle state of a queued upload item.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusComplete  Status = "complete"
	StatusError     Status = "error"
)

// Item is one file moving through the ingestion pipeline. The queue holds the
// authoritative copy; accessors hand out value copies.
type Item struct {
	ID          string
	FileName    string
	MimeType    string
	SizeBytes   int64
	LoanID      string
	ConditionID string
	CreatedBy   string

	Status   Status
	Progress int
	Error    string
	Document *documents.Document

	EnqueuedAt time.Time

	data []byte
}
