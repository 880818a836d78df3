package http

import "github.com/kiranfashion/console/internal/application/forms"

// Cell is one table cell. Class styles profit/loss chips.
type Cell struct {
	Text  string
	Class string
}

// Row is one table row with its actions.
type Row struct {
	ID        string
	Cells     []Cell
	ViewURL   string
	EditURL   string
	DeleteURL string // opens the confirmation dialog
}

// Stat is one summary card.
type Stat struct {
	Label string
	Value string
}

// DeleteDialog is the confirmation dialog of a list page.
type DeleteDialog struct {
	Label      string
	ConfirmURL string
	CancelURL  string
}

// ListView is the body of the list page.
type ListView struct {
	Resource   string
	Title      string
	ViewID     string // keys the live search controller of this page
	Columns    []string
	Rows       []Row
	Search     string
	Date       string
	DateFilter bool
	Page       int
	Pages      int
	Total      int
	PrevURL    string
	NextURL    string
	Loading    bool
	Error      string
	RetryURL   string
	Stats      []Stat
	AddURL     string
	ReportURL  string
	Delete     *DeleteDialog
}

// Option is one select choice.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// FormField is one input with its current value and first error.
type FormField struct {
	Name     string
	Label    string
	Type     string // text, email, password, number, tel, textarea, select, hidden
	Value    string
	Error    string
	Required bool
	Options  []Option
}

// FormView is the body of the create/edit page.
type FormView struct {
	Title      string
	Form       string // schema name for blur validation
	Action     string
	Submit     string
	CancelURL  string
	Back       string
	Fields     []FormField
	SelectName string // set on the sale form: submit name that applies a product pick
	SaveAndAdd bool
}

// DetailItem is one label/value line.
type DetailItem struct {
	Label string
	Value string
	Class string
}

// Link is a secondary action.
type Link struct {
	Label string
	URL   string
}

// DetailView is the body of the detail page.
type DetailView struct {
	Title   string
	Items   []DetailItem
	EditURL string
	BackURL string
	Links   []Link
}

// LoginView is the body of the login page.
type LoginView struct {
	Email  string
	Errors forms.Errors
}

// ErrorView is the body of the error pages.
type ErrorView struct {
	Status int
	Text   string
	Path   string
}

// field builds a FormField from the submitted values and errors.
func field(name, label, typ string, required bool, v forms.Values, errs forms.Errors) FormField {
	return FormField{
		Name:     name,
		Label:    label,
		Type:     typ,
		Value:    v[name],
		Error:    errs[name],
		Required: required,
	}
}
