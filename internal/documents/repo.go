package documents

import "context"

// Repo defines persistence operations for documents and their condition
// associations.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	ListByLoan(ctx context.Context, loanID string) ([]Document, error)
	Delete(ctx context.Context, documentID string) error

	CreateAssociation(ctx context.Context, documentID, conditionID string) error
	DeleteAssociations(ctx context.Context, documentID string) error
	ListAssociations(ctx context.Context, documentID string) ([]string, error)
}
