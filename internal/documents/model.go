package documents

import "time"

// Review status values for a document. Ingestion always creates records as
// StatusNeedReview; review workflows advance them later.
const (
	StatusNeedReview = "Need to Review"
	StatusReviewed   = "Reviewed"
	StatusApproved   = "Approved"
)

// Document is the persisted metadata record for an ingested loan document.
type Document struct {
	ID               string
	LoanID           string
	Name             string
	DocType          *string
	Description      *string
	OriginalFilename string
	MimeType         string
	SizeBytes        int64
	PageCount        int
	FileURL          string
	FileKey          string
	ThumbnailURL     *string
	ThumbnailKey     *string
	Status           string
	CreatedBy        *string
	CreatedAt        time.Time
	ExpirationDate   *time.Time
}
