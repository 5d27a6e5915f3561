package document

import (
	"time"

	"github.com/google/uuid"

	"preservation-api/internal/domain/transfer"
)

type (
	Document struct {
		UUID            uuid.UUID `json:"uuid"`
		OwnerUUID       uuid.UUID `json:"owner_uuid"`
		Name            string    `json:"name"`
		Keyword         string    `json:"keyword"`
		Category        string    `json:"category"`
		Description     string    `json:"description"`
		Author          string    `json:"author"`
		UploadDate      time.Time `json:"upload_date"`
		FilePath        string    `json:"file_path"`
		Status          string    `json:"status"`
		ArchivematicaID *string   `json:"archivematica_id"`
		SIPUUID         *string   `json:"sip_uuid,omitempty"`
	}
	Documents    []Document
	ResponseData struct {
		Data Documents `json:"data"`
	}

	Details struct {
		Document
		InfoDocument *transfer.Status `json:"info_document,omitempty"`
	}

	StatusResponse struct {
		Status              string           `json:"status"`
		ArchivematicaStatus *transfer.Status `json:"archivematica_status"`
	}
)
