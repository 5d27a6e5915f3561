package transfer

import (
	"strings"

	"preservation-api/internal/domain/transfer"
)

func ToDomainRequest(r StartRequest) transfer.Request {
	return transfer.Request{
		Name:      strings.TrimSpace(r.Name),
		Type:      r.Type,
		Accession: r.Accession,
		Paths:     r.Paths,
		RowIDs:    r.RowIDs,
	}
}
