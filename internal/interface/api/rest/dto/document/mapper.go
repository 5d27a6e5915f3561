package document

import (
	"preservation-api/internal/domain/document"
	"preservation-api/internal/domain/transfer"
)

func ToResponseDocument(d document.Document) Document {
	return Document{
		UUID:            d.UUID,
		OwnerUUID:       d.OwnerUUID,
		Name:            d.Name,
		Keyword:         d.Keyword,
		Category:        d.Category,
		Description:     d.Description,
		Author:          d.Author,
		UploadDate:      d.UploadDate,
		FilePath:        d.FilePath,
		Status:          d.Status.String(),
		ArchivematicaID: d.ArchivematicaID,
		SIPUUID:         d.SIPUUID,
	}
}

func ToResponseDocuments(ds document.Documents) Documents {
	out := make(Documents, len(ds))
	for idx, d := range ds {
		out[idx] = ToResponseDocument(*d)
	}

	return out
}

func ToResponseDetails(d document.Document, remote *transfer.Status) Details {
	return Details{
		Document:     ToResponseDocument(d),
		InfoDocument: remote,
	}
}

func ToStatusResponse(d document.Document, remote *transfer.Status) StatusResponse {
	return StatusResponse{
		Status:              d.Status.String(),
		ArchivematicaStatus: remote,
	}
}

func ToDomainMetadata(r Request) document.Metadata {
	return document.Metadata{
		Name:        r.Name,
		Keyword:     r.Keyword,
		Category:    r.Category,
		Description: r.Description,
		Author:      r.Author,
	}
}

func ToDomainPatch(r UpdateRequest) document.MetadataPatch {
	return document.MetadataPatch{
		Name:        r.Name,
		Keyword:     r.Keyword,
		Category:    r.Category,
		Description: r.Description,
		Author:      r.Author,
	}
}

func ToDescriptiveMetadata(r MetadataRequest) document.Descriptive {
	return document.Descriptive{
		Author:      r.Author,
		Description: r.Description,
		Keywords:    r.Keywords,
		Category:    r.Category,
	}
}
