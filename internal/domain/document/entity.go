package document

import (
	"time"

	"github.com/google/uuid"
)

type (
	UUID     = uuid.UUID
	Document struct {
		UUID        UUID
		OwnerUUID   UUID
		Name        string
		Keyword     string
		Category    string
		Description string
		Author      string
		UploadDate  time.Time
		// FilePath is relative to the shared directory root.
		FilePath        string
		Status          Status
		ArchivematicaID *string
		SIPUUID         *string

		UpdatedAt time.Time
	}
	Documents []*Document

	// Metadata is the descriptive part of a document, editable after upload.
	Metadata struct {
		Name        string
		Keyword     string
		Category    string
		Description string
		Author      string
	}

	// MetadataPatch carries only the fields being changed.
	MetadataPatch struct {
		Name        *string
		Keyword     *string
		Category    *string
		Description *string
		Author      *string
	}

	// Descriptive is what gets serialized and attached to the remote package.
	Descriptive struct {
		Author      string
		Description string
		Keywords    string
		Category    string
	}

	Filter struct {
		OwnerUUID   UUID
		Name        string
		Category    string
		Keyword     string
		Description string
		StartDate   *time.Time
		EndDate     *time.Time
		Status      *Status
	}
)

// Downloadable holds only once the pipeline preserved the transfer.
func (d *Document) Downloadable() bool {
	return d.Status == StatusPreserved && d.ArchivematicaID != nil && *d.ArchivematicaID != ""
}

// MetadataTarget is the remote package metadata is attached to.
func (d *Document) MetadataTarget() string {
	if d.SIPUUID != nil && *d.SIPUUID != "" {
		return *d.SIPUUID
	}
	if d.ArchivematicaID != nil {
		return *d.ArchivematicaID
	}
	return ""
}
