package ports

import (
	"context"
	"mime/multipart"

	"preservation-api/internal/domain/document"
	"preservation-api/internal/domain/transfer"
	"preservation-api/internal/domain/user"
)

type (
	// DocumentDetails is a document enriched with the live pipeline status, when fetched.
	DocumentDetails struct {
		Document *document.Document
		Remote   *transfer.Status
	}

	DocumentService interface {
		CreateDocument(ctx context.Context, ownerUUID user.UUID, m document.Metadata, fh *multipart.FileHeader) (*document.Document, error)
		AttachMetadata(ctx context.Context, uuid, ownerUUID document.UUID, m document.Descriptive) error
		FindDocuments(ctx context.Context, ownerUUID user.UUID) (document.Documents, error)
		FilterDocuments(ctx context.Context, f document.Filter) (document.Documents, error)
		FindDocument(ctx context.Context, uuid, ownerUUID document.UUID) (*DocumentDetails, error)
		DocumentStatus(ctx context.Context, uuid, ownerUUID document.UUID) (*DocumentDetails, error)
		UpdateDocument(ctx context.Context, uuid, ownerUUID document.UUID, p document.MetadataPatch) (*document.Document, error)
		DownloadDocument(ctx context.Context, uuid, ownerUUID document.UUID) ([]byte, *document.Document, error)
		DeleteDocument(ctx context.Context, uuid, ownerUUID document.UUID) error
	}
)
