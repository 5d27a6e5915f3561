package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"preservation-api/internal/domain/document"
	"preservation-api/internal/domain/transfer"
)

var errNotUsed = errors.New("not used")

type FakePreservationClient struct {
	StartTransferFunc     func(ctx context.Context, req transfer.Request) (string, error)
	ApproveTransferFunc   func(ctx context.Context, directory, typ string) (transfer.Payload, error)
	AttachMetadataFunc    func(ctx context.Context, sipID, sourceLocationID, content string) (transfer.Payload, error)
	GetTransferStatusFunc func(ctx context.Context, transferID string) (*transfer.Status, error)
	GetIngestStatusFunc   func(ctx context.Context, id string) (*transfer.Status, error)
	DownloadArtifactFunc  func(ctx context.Context, transferID string) ([]byte, error)
	ProcessArtifactFunc   func(ctx context.Context, transferID, processingConfig string) (transfer.Payload, error)
	ListUnapprovedFunc    func(ctx context.Context) (*string, error)
	ListCompletedFunc     func(ctx context.Context) (*string, error)
	RemoveTransferFunc    func(ctx context.Context, transferID string) (string, error)
}

func (f *FakePreservationClient) StartTransfer(ctx context.Context, req transfer.Request) (string, error) {
	if f.StartTransferFunc == nil {
		return "", errNotUsed
	}
	return f.StartTransferFunc(ctx, req)
}
func (f *FakePreservationClient) ApproveTransfer(ctx context.Context, directory, typ string) (transfer.Payload, error) {
	if f.ApproveTransferFunc == nil {
		return nil, errNotUsed
	}
	return f.ApproveTransferFunc(ctx, directory, typ)
}
func (f *FakePreservationClient) AttachMetadata(ctx context.Context, sipID, sourceLocationID, content string) (transfer.Payload, error) {
	if f.AttachMetadataFunc == nil {
		return nil, errNotUsed
	}
	return f.AttachMetadataFunc(ctx, sipID, sourceLocationID, content)
}
func (f *FakePreservationClient) GetTransferStatus(ctx context.Context, transferID string) (*transfer.Status, error) {
	if f.GetTransferStatusFunc == nil {
		return nil, errNotUsed
	}
	return f.GetTransferStatusFunc(ctx, transferID)
}
func (f *FakePreservationClient) GetIngestStatus(ctx context.Context, id string) (*transfer.Status, error) {
	if f.GetIngestStatusFunc == nil {
		return nil, errNotUsed
	}
	return f.GetIngestStatusFunc(ctx, id)
}
func (f *FakePreservationClient) DownloadArtifact(ctx context.Context, transferID string) ([]byte, error) {
	if f.DownloadArtifactFunc == nil {
		return nil, errNotUsed
	}
	return f.DownloadArtifactFunc(ctx, transferID)
}
func (f *FakePreservationClient) ProcessArtifact(ctx context.Context, transferID, processingConfig string) (transfer.Payload, error) {
	if f.ProcessArtifactFunc == nil {
		return nil, errNotUsed
	}
	return f.ProcessArtifactFunc(ctx, transferID, processingConfig)
}
func (f *FakePreservationClient) ListUnapproved(ctx context.Context) (*string, error) {
	if f.ListUnapprovedFunc == nil {
		return nil, errNotUsed
	}
	return f.ListUnapprovedFunc(ctx)
}
func (f *FakePreservationClient) ListCompleted(ctx context.Context) (*string, error) {
	if f.ListCompletedFunc == nil {
		return nil, errNotUsed
	}
	return f.ListCompletedFunc(ctx)
}
func (f *FakePreservationClient) RemoveTransfer(ctx context.Context, transferID string) (string, error) {
	if f.RemoveTransferFunc == nil {
		return "", errNotUsed
	}
	return f.RemoveTransferFunc(ctx, transferID)
}

// memDocuments is an in-memory document.Repository.
type memDocuments struct {
	mu      sync.Mutex
	docs    map[document.UUID]*document.Document
	deleted []document.UUID
	// failUpdate makes UpdateStatus return an error.
	failUpdate error
	updates    chan document.Status
}

func newMemDocuments() *memDocuments {
	return &memDocuments{
		docs:    make(map[document.UUID]*document.Document),
		updates: make(chan document.Status, 8),
	}
}

func (m *memDocuments) put(d *document.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	m.docs[d.UUID] = &cp
}

func (m *memDocuments) get(id document.UUID) *document.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return nil
	}
	cp := *d
	return &cp
}

func (m *memDocuments) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

func (m *memDocuments) CreateDocument(ctx context.Context, req *document.Document) (*document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *req
	cp.UUID = document.UUID{byte(len(m.docs) + 1)}
	m.docs[cp.UUID] = &cp
	out := cp
	return &out, nil
}

func (m *memDocuments) FetchDocument(ctx context.Context, id, owner document.UUID) (*document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok || d.OwnerUUID != owner {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (m *memDocuments) FetchDocuments(ctx context.Context, owner document.UUID) (document.Documents, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out document.Documents
	for _, d := range m.docs {
		if d.OwnerUUID == owner {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memDocuments) FilterDocuments(ctx context.Context, f document.Filter) (document.Documents, error) {
	return m.FetchDocuments(ctx, f.OwnerUUID)
}

func (m *memDocuments) UpdateMetadata(ctx context.Context, id, owner document.UUID, p document.MetadataPatch) (*document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok || d.OwnerUUID != owner {
		return nil, nil
	}
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	cp := *d
	return &cp, nil
}

func (m *memDocuments) UpdateStatus(ctx context.Context, id document.UUID, st document.Status) (*document.Document, error) {
	if m.failUpdate != nil {
		return nil, m.failUpdate
	}
	m.mu.Lock()
	d, ok := m.docs[id]
	if !ok || !d.Status.CanTransition(st) {
		m.mu.Unlock()
		return nil, nil
	}
	d.Status = st
	cp := *d
	m.mu.Unlock()

	m.updates <- st
	return &cp, nil
}

func (m *memDocuments) DeleteDocument(ctx context.Context, id, owner document.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// dirStorage writes into a temp directory the way the shared watched directory does.
type dirStorage struct {
	root    string
	watched string
}

func (s *dirStorage) Save(transferName, fileName string, r io.Reader) (string, error) {
	dir := filepath.Join(s.watched, transferName)
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	p := filepath.Join(dir, fileName)
	return p, os.WriteFile(p, buf.Bytes(), 0o666)
}

func (s *dirStorage) Discard(transferName string) error {
	return os.RemoveAll(filepath.Join(s.watched, transferName))
}

func (s *dirStorage) Relative(absPath string) (string, error) {
	return filepath.Rel(s.root, absPath)
}
