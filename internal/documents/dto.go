package documents

import "time"

// DocumentResponse is the JSON shape of a document record.
type DocumentResponse struct {
	DocumentID       string     `json:"documentId"`
	LoanID           string     `json:"loanId"`
	Name             string     `json:"name"`
	DocType          *string    `json:"docType"`
	Description      *string    `json:"description"`
	OriginalFilename string     `json:"originalFilename"`
	MimeType         string     `json:"mimeType"`
	SizeBytes        int64      `json:"sizeBytes"`
	PageCount        int        `json:"pageCount"`
	FileURL          string     `json:"fileUrl"`
	ThumbnailURL     *string    `json:"thumbnailUrl"`
	Status           string     `json:"status"`
	CreatedBy        *string    `json:"createdBy"`
	CreatedAt        time.Time  `json:"createdAt"`
	ExpirationDate   *time.Time `json:"expirationDate"`
}

// ToResponse maps a document to its JSON shape.
func ToResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:       doc.ID,
		LoanID:           doc.LoanID,
		Name:             doc.Name,
		DocType:          doc.DocType,
		Description:      doc.Description,
		OriginalFilename: doc.OriginalFilename,
		MimeType:         doc.MimeType,
		SizeBytes:        doc.SizeBytes,
		PageCount:        doc.PageCount,
		FileURL:          doc.FileURL,
		ThumbnailURL:     doc.ThumbnailURL,
		Status:           doc.Status,
		CreatedBy:        doc.CreatedBy,
		CreatedAt:        doc.CreatedAt,
		ExpirationDate:   doc.ExpirationDate,
	}
}
