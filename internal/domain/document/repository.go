package document

import (
	"context"
)

type Repository interface {
	CreateDocument(ctx context.Context, req *Document) (*Document, error)
	FetchDocument(ctx context.Context, uuid, ownerUUID UUID) (*Document, error)
	FetchDocuments(ctx context.Context, ownerUUID UUID) (Documents, error)
	FilterDocuments(ctx context.Context, f Filter) (Documents, error)
	UpdateMetadata(ctx context.Context, uuid, ownerUUID UUID, p MetadataPatch) (*Document, error)
	// UpdateStatus moves a started document to a terminal status; it returns nil when the row
	// is missing or no longer INICIADA.
	UpdateStatus(ctx context.Context, uuid UUID, status Status) (*Document, error)
	DeleteDocument(ctx context.Context, uuid, ownerUUID UUID) error
}
