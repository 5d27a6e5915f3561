package transfer

type (
	StartResponse struct {
		UUID string `json:"uuid"`
	}
	// ListResponse carries the aggregate pipeline status, null when it did not match.
	ListResponse struct {
		Status *string `json:"status"`
	}
	RemoveResponse struct {
		Message string `json:"message"`
	}
)
