package ingest

import (
	"time"

	"loanfile-backend/internal/documents"
)

type itemResponse struct {
	ID          string                      `json:"id"`
	FileName    string                      `json:"fileName"`
	MimeType    string                      `json:"mimeType"`
	SizeBytes   int64                       `json:"sizeBytes"`
	LoanID      string                      `json:"loanId"`
	ConditionID string                      `json:"conditionId,omitempty"`
	Status      string                      `json:"status"`
	Progress    int                         `json:"progress"`
	Error       string                      `json:"error,omitempty"`
	Document    *documents.DocumentResponse `json:"document,omitempty"`
	EnqueuedAt  time.Time                   `json:"enqueuedAt"`
}

func toItemResponse(item Item) itemResponse {
	resp := itemResponse{
		ID:          item.ID,
		FileName:    item.FileName,
		MimeType:    item.MimeType,
		SizeBytes:   item.SizeBytes,
		LoanID:      item.LoanID,
		ConditionID: item.ConditionID,
		Status:      string(item.Status),
		Progress:    item.Progress,
		Error:       item.Error,
		EnqueuedAt:  item.EnqueuedAt,
	}
	if item.Document != nil {
		doc := documents.ToResponse(*item.Document)
		resp.Document = &doc
	}
	return resp
}

func toItemResponses(items []Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out
}
