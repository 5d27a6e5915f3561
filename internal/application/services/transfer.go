package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"preservation-api/config"
	"preservation-api/internal/application/ports"
	"preservation-api/internal/domain/document"
	"preservation-api/internal/domain/transfer"
)

var ErrSourceLocationMissing = errors.New("metadata source location is not configured")

type TransferService struct {
	client           ports.PreservationClient
	logger           *zap.Logger
	sourceLocationID string
	sipPollInterval  time.Duration
	sipMaxAttempts   int
	monitorInterval  time.Duration
	mCounter         *prometheus.CounterVec
	mMonitors        prometheus.Gauge
}

func NewTransferService(
	client ports.PreservationClient,
	cfg config.Transfer,
	sourceLocationID string,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
	mMonitors prometheus.Gauge,
) ports.TransferService {
	return &TransferService{
		client:           client,
		logger:           logger.With(zap.String("component", "transfer_service")),
		sourceLocationID: sourceLocationID,
		sipPollInterval:  cfg.SIPPollInterval,
		sipMaxAttempts:   cfg.SIPMaxAttempts,
		monitorInterval:  cfg.MonitorInterval,
		mCounter:         mCounter,
		mMonitors:        mMonitors,
	}
}

func (ts *TransferService) Start(ctx context.Context, req transfer.Request) (string, error) {
	id, err := ts.client.StartTransfer(ctx, req)
	if err != nil {
		ts.inc("transfer_start_failed_total")
		return "", err
	}

	ts.inc("transfer_started_total")
	ts.logger.Info("transfer started", zap.String("transfer_id", id), zap.String("name", req.Name))

	return id, nil
}

// WaitForSIP polls the ingest status until the pipeline reports a settled SIP id.
// Polling errors count as "not yet available"; only the attempt ceiling ends the wait.
func (ts *TransferService) WaitForSIP(ctx context.Context, transferID string) (string, error) {
	for attempt := 1; attempt <= ts.sipMaxAttempts; attempt++ {
		st, err := ts.client.GetIngestStatus(ctx, transferID)
		switch {
		case err != nil:
			ts.logger.Warn("SIP not available yet",
				zap.String("transfer_id", transferID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		case st.SIPReady():
			ts.logger.Info("SIP found", zap.String("transfer_id", transferID), zap.String("sip_uuid", st.UUID))
			return st.UUID, nil
		}

		if attempt == ts.sipMaxAttempts {
			break
		}
		if err = sleepCtx(ctx, ts.sipPollInterval); err != nil {
			return "", fmt.Errorf("wait for SIP %s: %w", transferID, err)
		}
	}

	ts.inc("sip_wait_timeout_total")
	ts.logger.Error("SIP wait timed out", zap.String("transfer_id", transferID), zap.Int("attempts", ts.sipMaxAttempts))

	return "", transfer.ErrTimeout
}

// Monitor checks the transfer status until it settles and delivers exactly one result.
// A transport error ends the run with a failed result. When ctx is cancelled the channel
// closes without a result.
func (ts *TransferService) Monitor(ctx context.Context, transferID string) <-chan transfer.Result {
	out := make(chan transfer.Result, 1)

	go func() {
		defer close(out)
		if ts.mMonitors != nil {
			ts.mMonitors.Inc()
			defer ts.mMonitors.Dec()
		}

		for {
			st, err := ts.client.GetTransferStatus(ctx, transferID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				ts.logger.Error("transfer monitoring aborted", zap.String("transfer_id", transferID), zap.Error(err))
				out <- transfer.Result{TransferID: transferID, Err: err}
				return
			}

			if lc, ok := st.Lifecycle(); ok {
				switch lc {
				case document.StatusPreserved:
					out <- transfer.Result{TransferID: transferID, Success: true, Status: st}
					return
				case document.StatusFailed:
					out <- transfer.Result{TransferID: transferID, Status: st}
					return
				case document.StatusStarted:
				}
			}

			if err = sleepCtx(ctx, ts.monitorInterval); err != nil {
				ts.logger.Info("transfer monitoring abandoned", zap.String("transfer_id", transferID))
				return
			}
		}
	}()

	return out
}

func (ts *TransferService) Approve(ctx context.Context, directory, typ string) (transfer.Payload, error) {
	return ts.client.ApproveTransfer(ctx, directory, typ)
}

func (ts *TransferService) Status(ctx context.Context, transferID string) (*transfer.Status, error) {
	return ts.client.GetTransferStatus(ctx, transferID)
}

func (ts *TransferService) Process(ctx context.Context, transferID, processingConfig string) (transfer.Payload, error) {
	return ts.client.ProcessArtifact(ctx, transferID, processingConfig)
}

func (ts *TransferService) Download(ctx context.Context, transferID string) ([]byte, error) {
	return ts.client.DownloadArtifact(ctx, transferID)
}

func (ts *TransferService) AttachMetadata(ctx context.Context, sipID, content string) (transfer.Payload, error) {
	if ts.sourceLocationID == "" {
		return nil, ErrSourceLocationMissing
	}
	return ts.client.AttachMetadata(ctx, sipID, ts.sourceLocationID, content)
}

func (ts *TransferService) Remove(ctx context.Context, transferID string) (string, error) {
	msg, err := ts.client.RemoveTransfer(ctx, transferID)
	if err != nil {
		return "", err
	}

	ts.inc("transfer_removed_total")

	return msg, nil
}

func (ts *TransferService) ListUnapproved(ctx context.Context) (*string, error) {
	return ts.client.ListUnapproved(ctx)
}

func (ts *TransferService) ListCompleted(ctx context.Context) (*string, error) {
	return ts.client.ListCompleted(ctx)
}

func (ts *TransferService) inc(label string) {
	if ts.mCounter != nil {
		ts.mCounter.WithLabelValues(label).Inc()
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
