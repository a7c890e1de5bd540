package documents

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo, used in dev mode and
// tests when no database is configured.
type MemoryRepo struct {
	mu           sync.RWMutex
	docs         map[string]Document
	associations map[string][]string // documentID -> condition ids
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		docs:         make(map[string]Document),
		associations: make(map[string][]string),
	}
}

// Create stores a document.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.Status == "" {
		doc.Status = StatusNeedReview
	}
	if doc.PageCount < 1 {
		doc.PageCount = 1
	}
	r.docs[doc.ID] = doc
	return nil
}

// GetByID returns a document by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[documentID]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// ListByLoan returns a loan's documents, newest first.
func (r *MemoryRepo) ListByLoan(ctx context.Context, loanID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Document{}
	for _, doc := range r.docs {
		if doc.LoanID == loanID {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a document.
func (r *MemoryRepo) Delete(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[documentID]; !ok {
		return ErrNotFound
	}
	delete(r.docs, documentID)
	return nil
}

// CreateAssociation links a document to a condition.
func (r *MemoryRepo) CreateAssociation(ctx context.Context, documentID, conditionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.associations[documentID] = append(r.associations[documentID], conditionID)
	return nil
}

// DeleteAssociations removes all association rows for a document.
func (r *MemoryRepo) DeleteAssociations(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.associations, documentID)
	return nil
}

// ListAssociations returns the condition ids linked to a document.
func (r *MemoryRepo) ListAssociations(ctx context.Context, documentID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]string(nil), r.associations[documentID]...)
	sort.Strings(out)
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
