package dto

// LiveListResponse is the body of GET /api/lists/{resource}, consumed by the
// live search box. The browser drops responses whose Search no longer matches
// the input and carries View into its next request.
type LiveListResponse struct {
	Resource   string        `json:"resource"`
	View       string        `json:"view"`
	Search     string        `json:"search"`
	Page       int           `json:"page"`
	Pages      int           `json:"pages"`
	Total      int           `json:"total"`
	Summary    string        `json:"summary"`
	PrevURL    string        `json:"prev_url,omitempty"`
	NextURL    string        `json:"next_url,omitempty"`
	Generation uint64        `json:"generation"`
	Status     string        `json:"status"`
	Columns    []string      `json:"columns"`
	Rows       []LiveListRow `json:"rows"`
	Error      string        `json:"error,omitempty"`
}

// LiveListRow is one rendered table row with its action links. Classes runs
// parallel to Cells.
type LiveListRow struct {
	ID        string   `json:"id"`
	Cells     []string `json:"cells"`
	Classes   []string `json:"classes,omitempty"`
	ViewURL   string   `json:"view_url,omitempty"`
	EditURL   string   `json:"edit_url,omitempty"`
	DeleteURL string   `json:"delete_url,omitempty"`
}

// FieldValidationResponse is the body of POST /api/forms/{form}/validate.
type FieldValidationResponse struct {
	Field string `json:"field"`
	Error string `json:"error,omitempty"`
}
