package document

import (
	"time"

	"github.com/google/uuid"
)

type (
	Document struct {
		UUID            uuid.UUID
		OwnerUUID       uuid.UUID
		Name            string
		Keyword         string
		Category        string
		Description     string
		Author          string
		UploadDate      time.Time
		FilePath        string
		Status          string
		ArchivematicaID *string
		SIPUUID         *string

		UpdatedAt time.Time
	}
	Documents []*Document
)

func (d *Document) scanTargets() []any {
	return []any{
		&d.UUID,
		&d.OwnerUUID,
		&d.Name,
		&d.Keyword,
		&d.Category,
		&d.Description,
		&d.Author,
		&d.UploadDate,
		&d.FilePath,
		&d.Status,
		&d.ArchivematicaID,
		&d.SIPUUID,

		&d.UpdatedAt,
	}
}
