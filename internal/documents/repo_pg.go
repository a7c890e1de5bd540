package documents

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    loan_id,
    name,
    doc_type,
    description,
    original_filename,
    mime_type,
    size_bytes,
    page_count,
    file_url,
    file_key,
    thumbnail_url,
    thumbnail_key,
    status,
    created_by,
    created_at,
    expiration_date
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	status := doc.Status
	if status == "" {
		status = StatusNeedReview
	}
	pageCount := doc.PageCount
	if pageCount < 1 {
		pageCount = 1
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.LoanID,
		doc.Name,
		nullString(doc.DocType),
		nullString(doc.Description),
		doc.OriginalFilename,
		doc.MimeType,
		doc.SizeBytes,
		pageCount,
		doc.FileURL,
		doc.FileKey,
		nullString(doc.ThumbnailURL),
		nullString(doc.ThumbnailKey),
		status,
		nullString(doc.CreatedBy),
		doc.CreatedAt,
		nullTime(doc.ExpirationDate),
	)
	return err
}

const selectColumns = `
SELECT id, loan_id, name, doc_type, description, original_filename, mime_type,
       size_bytes, page_count, file_url, file_key, thumbnail_url, thumbnail_key,
       status, created_by, created_at, expiration_date
FROM documents`

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	query := selectColumns + `
WHERE id = $1
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByLoan lists a loan's documents, newest first.
func (r *PGRepo) ListByLoan(ctx context.Context, loanID string) ([]Document, error) {
	query := selectColumns + `
WHERE loan_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Delete removes a document row.
func (r *PGRepo) Delete(ctx context.Context, documentID string) error {
	const query = `DELETE FROM documents WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, documentID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAssociation links a document to a condition.
func (r *PGRepo) CreateAssociation(ctx context.Context, documentID, conditionID string) error {
	const query = `
INSERT INTO condition_documents (document_id, condition_id)
VALUES ($1, $2)`
	_, err := r.DB.ExecContext(ctx, query, documentID, conditionID)
	return err
}

// DeleteAssociations removes all association rows referencing a document.
func (r *PGRepo) DeleteAssociations(ctx context.Context, documentID string) error {
	const query = `DELETE FROM condition_documents WHERE document_id = $1`
	_, err := r.DB.ExecContext(ctx, query, documentID)
	return err
}

// ListAssociations returns the condition ids linked to a document.
func (r *PGRepo) ListAssociations(ctx context.Context, documentID string) ([]string, error) {
	const query = `
SELECT condition_id
FROM condition_documents
WHERE document_id = $1
ORDER BY condition_id`

	rows, err := r.DB.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var docType, description, thumbURL, thumbKey, createdBy sql.NullString
	var expiration sql.NullTime
	err := row.Scan(
		&doc.ID,
		&doc.LoanID,
		&doc.Name,
		&docType,
		&description,
		&doc.OriginalFilename,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.PageCount,
		&doc.FileURL,
		&doc.FileKey,
		&thumbURL,
		&thumbKey,
		&doc.Status,
		&createdBy,
		&doc.CreatedAt,
		&expiration,
	)
	if err != nil {
		return Document{}, err
	}
	doc.DocType = stringPtr(docType)
	doc.Description = stringPtr(description)
	doc.ThumbnailURL = stringPtr(thumbURL)
	doc.ThumbnailKey = stringPtr(thumbKey)
	doc.CreatedBy = stringPtr(createdBy)
	if expiration.Valid {
		t := expiration.Time
		doc.ExpirationDate = &t
	}
	return doc, nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

var _ Repo = (*PGRepo)(nil)
