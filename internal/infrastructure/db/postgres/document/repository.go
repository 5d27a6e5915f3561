package document

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"preservation-api/internal/domain/document"
	"preservation-api/internal/infrastructure/db/postgres"
)

var ErrDocumentNotFound = errors.New("document not found")

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) document.Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateDocument(ctx context.Context, req *document.Document) (*document.Document, error) {
	d, err := r.one(r.db.QueryRow(
		ctx,
		InsertDocument,
		req.OwnerUUID, req.Name, req.Keyword, req.Category, req.Description, req.Author,
		req.UploadDate, req.FilePath, req.Status.String(), req.ArchivematicaID, req.SIPUUID,
	))
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("insert document: %w", pgx.ErrNoRows)
	}

	return d, nil
}

func (r *Repository) FetchDocument(ctx context.Context, uuid, ownerUUID document.UUID) (*document.Document, error) {
	return r.one(r.db.QueryRow(ctx, SelectDocument, uuid, ownerUUID))
}

func (r *Repository) FetchDocuments(ctx context.Context, ownerUUID document.UUID) (document.Documents, error) {
	return r.many(ctx, SelectDocumentsByOwner, ownerUUID)
}

func (r *Repository) FilterDocuments(ctx context.Context, f document.Filter) (document.Documents, error) {
	q, args := filterQuery(f)
	return r.many(ctx, q, args...)
}

func (r *Repository) UpdateMetadata(ctx context.Context, uuid, ownerUUID document.UUID, p document.MetadataPatch) (*document.Document, error) {
	return r.one(r.db.QueryRow(ctx, UpdateDocumentMetadata,
		p.Name, p.Keyword, p.Category, p.Description, p.Author, uuid, ownerUUID,
	))
}

func (r *Repository) UpdateStatus(ctx context.Context, uuid document.UUID, status document.Status) (*document.Document, error) {
	if !document.StatusStarted.CanTransition(status) {
		return nil, fmt.Errorf("%w: to %s", document.ErrInvalidTransition, status)
	}

	return r.one(r.db.QueryRow(ctx, UpdateDocumentStatus, status.String(), uuid))
}

func (r *Repository) DeleteDocument(ctx context.Context, uuid, ownerUUID document.UUID) error {
	tag, err := r.db.Exec(ctx, DeleteDocument, uuid, ownerUUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}

	return nil
}

// filterQuery scopes to the owner; text fields match case-insensitive substrings,
// category and status match exactly and the upload range applies only with both bounds.
func filterQuery(f document.Filter) (string, []any) {
	var b strings.Builder
	b.WriteString(SelectDocumentsFiltered)
	args := []any{f.OwnerUUID}

	add := func(cond string, v any) {
		args = append(args, v)
		fmt.Fprintf(&b, "\n\t\tAND "+cond, len(args))
	}

	if f.Name != "" {
		add("name ILIKE $%d", likePattern(f.Name))
	}
	if f.Keyword != "" {
		add("keyword ILIKE $%d", likePattern(f.Keyword))
	}
	if f.Description != "" {
		add("description ILIKE $%d", likePattern(f.Description))
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Status != nil {
		add("status = $%d", f.Status.String())
	}
	if f.StartDate != nil && f.EndDate != nil {
		add("upload_date >= $%d", *f.StartDate)
		add("upload_date <= $%d", *f.EndDate)
	}
	b.WriteString("\n\t\tORDER BY upload_date DESC")

	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func (r *Repository) many(ctx context.Context, q string, args ...any) (document.Documents, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ds := Documents{}
	for rows.Next() {
		d := new(Document)
		if err = rows.Scan(d.scanTargets()...); err != nil {
			return nil, err
		}

		ds = append(ds, d)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&ds)
}

// one scans a single row; a missing row is (nil, nil).
func (r *Repository) one(row pgx.Row) (*document.Document, error) {
	d := new(Document)
	if err := row.Scan(d.scanTargets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(d)
}
