package ports

import (
	"context"

	"preservation-api/internal/domain/transfer"
)

type TransferService interface {
	Start(ctx context.Context, req transfer.Request) (string, error)
	WaitForSIP(ctx context.Context, transferID string) (string, error)
	Monitor(ctx context.Context, transferID string) <-chan transfer.Result
	Approve(ctx context.Context, directory, typ string) (transfer.Payload, error)
	Status(ctx context.Context, transferID string) (*transfer.Status, error)
	Process(ctx context.Context, transferID, processingConfig string) (transfer.Payload, error)
	Download(ctx context.Context, transferID string) ([]byte, error)
	AttachMetadata(ctx context.Context, sipID, content string) (transfer.Payload, error)
	Remove(ctx context.Context, transferID string) (string, error)
	ListUnapproved(ctx context.Context) (*string, error)
	ListCompleted(ctx context.Context) (*string, error)
}
