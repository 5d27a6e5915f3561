package transfer

import (
	"preservation-api/internal/domain/document"
)

const (
	TypeStandard = "standard"
	TypeZipped   = "zipped"
	TypeUnzipped = "unzipped"
	TypeDSpace   = "dspace"

	DefaultProcessingConfig = "default"

	// StatusProcessing is the transient ingest marker reported before a SIP settles.
	StatusProcessing = "PROCESSING"
)

type (
	// Request describes a transfer to start on the pipeline.
	Request struct {
		Name      string   `json:"name"`
		Type      string   `json:"type"`
		Accession string   `json:"accession,omitempty"`
		Paths     []string `json:"paths"`
		RowIDs    []string `json:"row_ids,omitempty"`
	}

	// Status is the pipeline's view of a transfer or ingest.
	Status struct {
		Status       string `json:"status"`
		Name         string `json:"name"`
		SIPUUID      string `json:"sip_uuid,omitempty"`
		Microservice string `json:"microservice"`
		Directory    string `json:"directory"`
		Path         string `json:"path"`
		Message      string `json:"message"`
		Type         string `json:"type"`
		UUID         string `json:"uuid"`
	}

	// Payload is an opaque remote response passed through to callers.
	Payload map[string]any

	// Result is the single terminal outcome of a monitoring run.
	Result struct {
		TransferID string
		Success    bool
		Status     *Status
		Err        error
	}
)

func IsValidType(t string) bool {
	switch t {
	case TypeStandard, TypeZipped, TypeUnzipped, TypeDSpace:
		return true
	default:
		return false
	}
}

// Lifecycle maps the remote status onto the document lifecycle.
func (s *Status) Lifecycle() (document.Status, bool) {
	if s == nil {
		return 0, false
	}
	st, err := document.ParseStatus(s.Status)
	if err != nil {
		return 0, false
	}
	return st, true
}

// SIPReady reports whether an ingest status carries a settled SIP identifier.
func (s *Status) SIPReady() bool {
	return s != nil && s.UUID != "" && s.Status != StatusProcessing
}

// Outcome is the document status a monitoring result settles on.
func (r Result) Outcome() document.Status {
	if r.Success {
		return document.StatusPreserved
	}
	return document.StatusFailed
}
