package transfer

type (
	StartRequest struct {
		Name      string   `json:"name"`
		Type      string   `json:"type"`
		Accession string   `json:"accession"`
		Paths     []string `json:"paths"`
		RowIDs    []string `json:"row_ids"`
	}
	ProcessRequest struct {
		ProcessingConfig string `json:"processing_config"`
	}
)
