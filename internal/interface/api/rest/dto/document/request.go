package document

type (
	// Request arrives as multipart form fields next to the uploaded file.
	Request struct {
		Name        string `form:"name" json:"name"`
		Keyword     string `form:"keyword" json:"keyword"`
		Category    string `form:"category" json:"category"`
		Description string `form:"description" json:"description"`
		Author      string `form:"author" json:"author"`
	}

	UpdateRequest struct {
		Name        *string `json:"name"`
		Keyword     *string `json:"keyword"`
		Category    *string `json:"category"`
		Description *string `json:"description"`
		Author      *string `json:"author"`
	}

	MetadataRequest struct {
		Author      string `json:"author"`
		Description string `json:"description"`
		Keywords    string `json:"keywords"`
		Category    string `json:"category"`
	}

	FilterRequest struct {
		Name        string `form:"name"`
		Category    string `form:"category"`
		Keywords    string `form:"keywords"`
		Description string `form:"description"`
		StartDate   string `form:"startDate"`
		EndDate     string `form:"endDate"`
		Status      string `form:"status"`
	}
)
