package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"loanfile-backend/internal/shared/metrics"
	"loanfile-backend/internal/shared/storage/object"
	"loanfile-backend/internal/shared/telemetry"
)

// Service contains business logic for document metadata and deletion.
type Service struct {
	Repo       Repo
	Documents  object.Store
	Thumbnails object.Store
}

// RecordInput carries everything the pipeline knows about a stored asset.
type RecordInput struct {
	LoanID           string
	ConditionID      string
	Name             string
	OriginalFilename string
	MimeType         string
	SizeBytes        int64
	PageCount        int
	FileURL          string
	FileKey          string
	ThumbnailURL     string
	ThumbnailKey     string
	CreatedBy        string
}

// Record creates exactly one document record and, for condition-scoped
// uploads, exactly one association. The record is only created after the
// primary asset is durably stored; an association failure is reported but the
// record is not rolled back.
func (s *Service) Record(ctx context.Context, in RecordInput) (Document, error) {
	if in.LoanID == "" || in.Name == "" || in.FileURL == "" || in.FileKey == "" {
		return Document{}, ErrInvalidInput
	}
	pageCount := in.PageCount
	if pageCount < 1 {
		pageCount = 1
	}

	doc := Document{
		ID:               uuid.NewString(),
		LoanID:           in.LoanID,
		Name:             in.Name,
		OriginalFilename: in.OriginalFilename,
		MimeType:         in.MimeType,
		SizeBytes:        in.SizeBytes,
		PageCount:        pageCount,
		FileURL:          in.FileURL,
		FileKey:          in.FileKey,
		Status:           StatusNeedReview,
		CreatedAt:        time.Now().UTC(),
	}
	if in.ThumbnailURL != "" {
		doc.ThumbnailURL = &in.ThumbnailURL
	}
	if in.ThumbnailKey != "" {
		doc.ThumbnailKey = &in.ThumbnailKey
	}
	if in.CreatedBy != "" {
		doc.CreatedBy = &in.CreatedBy
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, fmt.Errorf("create document record: %w", err)
	}

	if in.ConditionID != "" {
		if err := s.Repo.CreateAssociation(ctx, doc.ID, in.ConditionID); err != nil {
			return doc, fmt.Errorf("link document to condition %s: %w", in.ConditionID, err)
		}
	}

	return doc, nil
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, documentID string) (Document, error) {
	if documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, documentID)
}

// ListByLoan returns a loan's documents.
func (s *Service) ListByLoan(ctx context.Context, loanID string) ([]Document, error) {
	if loanID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByLoan(ctx, loanID)
}

// Delete removes a document's stored objects, its association rows, and its
// metadata row, in that order. Object removals are best-effort; only a
// failure to delete the metadata row fails the operation.
func (s *Service) Delete(ctx context.Context, documentID string) error {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.Documents.Delete(ctx, doc.FileKey); err != nil {
		telemetry.Warn("documents.delete.asset_failed", map[string]any{
			"document_id": doc.ID,
			"key":         doc.FileKey,
			"err":         err.Error(),
		})
	}
	if doc.ThumbnailKey != nil {
		if err := s.Thumbnails.Delete(ctx, *doc.ThumbnailKey); err != nil {
			telemetry.Warn("documents.delete.thumbnail_failed", map[string]any{
				"document_id": doc.ID,
				"key":         *doc.ThumbnailKey,
				"err":         err.Error(),
			})
		}
	}

	if err := s.Repo.DeleteAssociations(ctx, doc.ID); err != nil {
		telemetry.Warn("documents.delete.associations_failed", map[string]any{
			"document_id": doc.ID,
			"err":         err.Error(),
		})
	}

	if err := s.Repo.Delete(ctx, doc.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete document record: %w", err)
	}

	metrics.IncDocumentsDeleted()
	telemetry.Info("documents.deleted", map[string]any{
		"document_id": doc.ID,
		"loan_id":     doc.LoanID,
	})
	return nil
}
