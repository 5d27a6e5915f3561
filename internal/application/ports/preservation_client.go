package ports

import (
	"context"

	"preservation-api/internal/domain/transfer"
)

type PreservationClient interface {
	StartTransfer(ctx context.Context, req transfer.Request) (string, error)
	ApproveTransfer(ctx context.Context, directory, typ string) (transfer.Payload, error)
	AttachMetadata(ctx context.Context, sipID, sourceLocationID, content string) (transfer.Payload, error)
	GetTransferStatus(ctx context.Context, transferID string) (*transfer.Status, error)
	GetIngestStatus(ctx context.Context, id string) (*transfer.Status, error)
	DownloadArtifact(ctx context.Context, transferID string) ([]byte, error)
	ProcessArtifact(ctx context.Context, transferID, processingConfig string) (transfer.Payload, error)
	ListUnapproved(ctx context.Context) (*string, error)
	ListCompleted(ctx context.Context) (*string, error)
	RemoveTransfer(ctx context.Context, transferID string) (string, error)
}
