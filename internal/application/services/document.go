package services

import (
	"context"
	"encoding/xml"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"preservation-api/config"
	"preservation-api/internal/application/ports"
	"preservation-api/internal/domain/document"
	"preservation-api/internal/domain/transfer"
	"preservation-api/internal/domain/user"
	"preservation-api/internal/infrastructure/mq"
	dto "preservation-api/internal/interface/api/rest/dto/document"
)

const settleTimeout = 10 * time.Second

type DocumentService struct {
	// bgCtx outlives requests; monitors stop when it is cancelled.
	bgCtx     context.Context
	transfers ports.TransferService
	repo      document.Repository
	storage   ports.TransferStorage
	mq        ports.RabbitMQ
	statuses  *expirable.LRU[string, *transfer.Status]
	logger    *zap.Logger
	mCounter  *prometheus.CounterVec
	now       func() time.Time
}

func NewDocumentService(
	bgCtx context.Context,
	transfers ports.TransferService,
	repo document.Repository,
	storage ports.TransferStorage,
	mq ports.RabbitMQ,
	cfg config.Transfer,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.DocumentService {
	size := cfg.StatusCacheEntries
	if size <= 0 {
		size = 1
	}

	return &DocumentService{
		bgCtx:     bgCtx,
		transfers: transfers,
		repo:      repo,
		storage:   storage,
		mq:        mq,
		statuses:  expirable.NewLRU[string, *transfer.Status](size, nil, cfg.StatusCacheTTL),
		logger:    logger.With(zap.String("component", "document_service")),
		mCounter:  mCounter,
		now:       time.Now,
	}
}

// CreateDocument stores the upload in the watched directory, starts the transfer, waits for
// its SIP and only then persists the row. Any failure is returned as a transfer.CreationError.
func (ds *DocumentService) CreateDocument(
	ctx context.Context,
	ownerUUID user.UUID,
	m document.Metadata,
	fh *multipart.FileHeader,
) (*document.Document, error) {
	d, err := ds.create(ctx, ownerUUID, m, fh)
	if err != nil {
		ds.inc("document_create_failed_total")
		ds.logger.Error("document creation failed", zap.String("name", m.Name), zap.Error(err))
		return nil, &transfer.CreationError{Err: err}
	}

	ds.inc("document_created_total")
	ds.publish(ctx, mq.RoutingDocumentCreated, d)
	ds.watch(d)

	return d, nil
}

func (ds *DocumentService) create(
	ctx context.Context,
	ownerUUID user.UUID,
	m document.Metadata,
	fh *multipart.FileHeader,
) (*document.Document, error) {
	if fh == nil {
		return nil, transfer.ErrValidation
	}

	now := ds.now()
	name := transferName(m.Name, now)
	fileName := sanitizeFileName(fh.Filename)

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	absPath, err := ds.storage.Save(name, fileName, f)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	stored := false
	defer func() {
		if !stored {
			ds.discard(name)
		}
	}()

	relPath, err := ds.storage.Relative(absPath)
	if err != nil {
		return nil, fmt.Errorf("resolve upload path: %w", err)
	}

	transferID, err := ds.transfers.Start(ctx, transfer.Request{
		Name:      name,
		Type:      transfer.TypeStandard,
		Accession: strconv.FormatInt(now.UnixMilli(), 10),
		Paths:     []string{absPath},
		RowIDs:    []string{""},
	})
	if err != nil {
		return nil, err
	}

	sipID, err := ds.transfers.WaitForSIP(ctx, transferID)
	if err != nil {
		return nil, err
	}

	d, err := ds.repo.CreateDocument(ctx, &document.Document{
		OwnerUUID:       ownerUUID,
		Name:            m.Name,
		Keyword:         m.Keyword,
		Category:        m.Category,
		Description:     m.Description,
		Author:          m.Author,
		UploadDate:      now,
		FilePath:        relPath,
		Status:          document.StatusStarted,
		ArchivematicaID: &transferID,
		SIPUUID:         &sipID,
	})
	if err != nil {
		return nil, err
	}
	stored = true

	return d, nil
}

// discard drops an upload the pipeline will never ingest.
func (ds *DocumentService) discard(name string) {
	if err := ds.storage.Discard(name); err != nil {
		ds.logger.Warn("discard upload failed", zap.String("transfer", name), zap.Error(err))
	}
}

// watch follows the transfer in the background and applies its single terminal result.
func (ds *DocumentService) watch(d *document.Document) {
	if d.ArchivematicaID == nil {
		return
	}
	results := ds.transfers.Monitor(ds.bgCtx, *d.ArchivematicaID)

	go func() {
		res, ok := <-results
		if !ok {
			return
		}
		ds.settle(d.UUID, res)
	}()
}

func (ds *DocumentService) settle(id document.UUID, res transfer.Result) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ds.bgCtx), settleTimeout)
	defer cancel()

	next := res.Outcome()
	if res.Err != nil {
		ds.logger.Warn("transfer monitoring failed, marking document",
			zap.String("document_uuid", id.String()),
			zap.String("status", next.String()),
			zap.Error(res.Err),
		)
	}

	d, err := ds.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		ds.logger.Error("update document status", zap.String("document_uuid", id.String()), zap.Error(err))
		return
	}
	if d == nil {
		ds.logger.Info("document no longer awaiting transfer result", zap.String("document_uuid", id.String()))
		return
	}

	ds.statuses.Remove(res.TransferID)
	ds.inc("document_" + strings.ToLower(d.Status.String()) + "_total")
	ds.publish(ctx, mq.RoutingDocumentStatusChanged, d)
}

func (ds *DocumentService) AttachMetadata(ctx context.Context, uuid, ownerUUID document.UUID, m document.Descriptive) error {
	d, err := ds.fetch(ctx, uuid, ownerUUID)
	if err != nil {
		return err
	}

	target := d.MetadataTarget()
	if target == "" {
		return transfer.ErrNotReady
	}

	content, err := metadataXML(m)
	if err != nil {
		return err
	}

	if _, err = ds.transfers.AttachMetadata(ctx, target, content); err != nil {
		ds.logger.Error("attach metadata",
			zap.String("document_uuid", uuid.String()),
			zap.String("target", target),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (ds *DocumentService) FindDocuments(ctx context.Context, ownerUUID user.UUID) (document.Documents, error) {
	return ds.repo.FetchDocuments(ctx, ownerUUID)
}

func (ds *DocumentService) FilterDocuments(ctx context.Context, f document.Filter) (document.Documents, error) {
	return ds.repo.FilterDocuments(ctx, f)
}

func (ds *DocumentService) FindDocument(ctx context.Context, uuid, ownerUUID document.UUID) (*ports.DocumentDetails, error) {
	d, err := ds.fetch(ctx, uuid, ownerUUID)
	if err != nil {
		return nil, err
	}

	return ds.details(ctx, d)
}

func (ds *DocumentService) DocumentStatus(ctx context.Context, uuid, ownerUUID document.UUID) (*ports.DocumentDetails, error) {
	d, err := ds.fetch(ctx, uuid, ownerUUID)
	if err != nil {
		return nil, err
	}

	return ds.details(ctx, d)
}

// details asks the pipeline only for preserved documents.
func (ds *DocumentService) details(ctx context.Context, d *document.Document) (*ports.DocumentDetails, error) {
	switch d.Status {
	case document.StatusPreserved:
		if d.ArchivematicaID == nil {
			return &ports.DocumentDetails{Document: d}, nil
		}
		st, err := ds.remoteStatus(ctx, *d.ArchivematicaID)
		if err != nil {
			return nil, err
		}
		return &ports.DocumentDetails{Document: d, Remote: st}, nil
	case document.StatusStarted, document.StatusFailed:
		return &ports.DocumentDetails{Document: d}, nil
	default:
		return nil, fmt.Errorf("%w: %d", document.ErrUnknownStatus, d.Status)
	}
}

func (ds *DocumentService) remoteStatus(ctx context.Context, transferID string) (*transfer.Status, error) {
	if st, ok := ds.statuses.Get(transferID); ok {
		return st, nil
	}

	st, err := ds.transfers.Status(ctx, transferID)
	if err != nil {
		return nil, err
	}
	ds.statuses.Add(transferID, st)

	return st, nil
}

func (ds *DocumentService) UpdateDocument(
	ctx context.Context,
	uuid, ownerUUID document.UUID,
	p document.MetadataPatch,
) (*document.Document, error) {
	d, err := ds.repo.UpdateMetadata(ctx, uuid, ownerUUID, p)
	if err != nil {
		ds.logger.Error("update document", zap.String("document_uuid", uuid.String()), zap.Error(err))
		return nil, transfer.ErrDocumentNotFound
	}
	if d == nil {
		return nil, transfer.ErrDocumentNotFound
	}

	return d, nil
}

func (ds *DocumentService) DownloadDocument(ctx context.Context, uuid, ownerUUID document.UUID) ([]byte, *document.Document, error) {
	d, err := ds.fetch(ctx, uuid, ownerUUID)
	if err != nil {
		return nil, nil, err
	}
	if !d.Downloadable() {
		return nil, nil, transfer.ErrNotReady
	}

	b, err := ds.transfers.Download(ctx, *d.ArchivematicaID)
	if err != nil {
		return nil, nil, err
	}

	return b, d, nil
}

// DeleteDocument removes the remote transfer first; the row stays when that fails.
func (ds *DocumentService) DeleteDocument(ctx context.Context, uuid, ownerUUID document.UUID) error {
	d, err := ds.fetch(ctx, uuid, ownerUUID)
	if err != nil {
		return err
	}

	if d.ArchivematicaID != nil && *d.ArchivematicaID != "" {
		if _, err = ds.transfers.Remove(ctx, *d.ArchivematicaID); err != nil {
			ds.logger.Warn("remote transfer removal failed, keeping document",
				zap.String("document_uuid", uuid.String()),
				zap.String("transfer_id", *d.ArchivematicaID),
				zap.Error(err),
			)
			return err
		}
		ds.statuses.Remove(*d.ArchivematicaID)
	}

	if err = ds.repo.DeleteDocument(ctx, uuid, ownerUUID); err != nil {
		ds.logger.Error("delete document", zap.String("document_uuid", uuid.String()), zap.Error(err))
		return transfer.ErrDocumentNotFound
	}

	ds.inc("document_deleted_total")
	ds.publish(ctx, mq.RoutingDocumentDeleted, d)

	return nil
}

// fetch maps both a missing row and a failed lookup to ErrDocumentNotFound.
func (ds *DocumentService) fetch(ctx context.Context, uuid, ownerUUID document.UUID) (*document.Document, error) {
	d, err := ds.repo.FetchDocument(ctx, uuid, ownerUUID)
	if err != nil {
		ds.logger.Error("fetch document", zap.String("document_uuid", uuid.String()), zap.Error(err))
		return nil, transfer.ErrDocumentNotFound
	}
	if d == nil {
		return nil, transfer.ErrDocumentNotFound
	}

	return d, nil
}

func (ds *DocumentService) publish(ctx context.Context, routingKey string, d *document.Document) {
	if ds.mq == nil {
		return
	}

	select {
	case ds.mq.GetInputChan() <- mq.NewEvent(routingKey, dto.ToResponseDocument(*d)):
	case <-ctx.Done():
		ds.logger.Warn("document event dropped", zap.String("routing_key", routingKey), zap.String("document_uuid", d.UUID.String()))
	}
}

func (ds *DocumentService) inc(label string) {
	if ds.mCounter != nil {
		ds.mCounter.WithLabelValues(label).Inc()
	}
}

type metadataDoc struct {
	XMLName     xml.Name `xml:"metadata"`
	Author      string   `xml:"author"`
	Description string   `xml:"description"`
	Keyword     string   `xml:"keyword"`
	Category    string   `xml:"category"`
}

func metadataXML(m document.Descriptive) (string, error) {
	b, err := xml.MarshalIndent(metadataDoc{
		Author:      m.Author,
		Description: m.Description,
		Keyword:     m.Keywords,
		Category:    m.Category,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	return xml.Header + string(b), nil
}
