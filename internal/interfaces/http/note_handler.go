package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/application/forms"
	"github.com/kiranfashion/console/internal/application/listview"
	"github.com/kiranfashion/console/internal/application/usecase"
	"github.com/kiranfashion/console/internal/domain/entity"
	"github.com/kiranfashion/console/pkg/format"
)

// NoteHandler serves the note pages.
type NoteHandler struct {
	uc    *usecase.NoteUseCase
	views *Views
	*ListHandler[entity.Note]
}

// NewNoteHandler builds the handler.
func NewNoteHandler(uc *usecase.NoteUseCase, views *Views, opts listview.Options) *NoteHandler {
	spec := ListSpec[entity.Note]{
		Resource: "notes",
		Title:    "Notes",
		Columns:  []string{"Title", "Description", "Created"},
		Row: func(n entity.Note) dto.LiveListRow {
			return dto.LiveListRow{ID: n.ID, Cells: []string{n.Title, truncate(n.Description, 80), format.Date(n.CreatedAt)}}
		},
	}
	return &NoteHandler{uc: uc, views: views, ListHandler: NewListHandler(spec, uc, views, opts)}
}

// Detail renders GET /notes/:id.
func (h *NoteHandler) Detail(c *fiber.Ctx) error {
	n, err := h.uc.Get(c.UserContext(), pathID(c))
	if err != nil {
		return err
	}
	body := DetailView{
		Title: n.Title,
		Items: []DetailItem{
			{Label: "Title", Value: n.Title},
			{Label: "Description", Value: n.Description},
			{Label: "Created", Value: format.Date(n.CreatedAt)},
		},
		EditURL: "/notes/edit/" + url.PathEscape(n.ID),
		BackURL: "/notes",
	}
	return h.views.Render(c, fiber.StatusOK, pageDetail, h.views.Page(c, n.Title, body))
}

// New renders the blank form, GET /notes/add.
func (h *NoteHandler) New(c *fiber.Ctx) error {
	return h.renderForm(c, fiber.StatusOK, "", forms.Values{}, nil, "")
}

// Edit renders GET /notes/edit/:id.
func (h *NoteHandler) Edit(c *fiber.Ctx) error {
	id := pathID(c)
	n, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return h.renderForm(c, fiber.StatusOK, id, forms.NoteValues(*n), nil, backFrom(c, "/notes"))
}

// Create handles POST /notes.
func (h *NoteHandler) Create(c *fiber.Ctx) error { return h.submit(c, "") }

// Update handles POST /notes/edit/:id.
func (h *NoteHandler) Update(c *fiber.Ctx) error { return h.submit(c, pathID(c)) }

func (h *NoteHandler) submit(c *fiber.Ctx, id string) error {
	v := formValues(c)
	back := localPath(v.Get("back"), "/notes")
	if errs := forms.NoteSchema.Validate(v); !errs.OK() {
		return h.renderForm(c, fiber.StatusUnprocessableEntity, id, v, errs, back)
	}
	msg, err := h.uc.Save(c.UserContext(), id, forms.ParseNote(v))
	if err != nil {
		if err := mutationFailed(c, err); err != nil {
			return err
		}
		return h.renderForm(c, fiber.StatusUnprocessableEntity, id, v, nil, back)
	}
	if id == "" {
		return saved(c, msg, "/notes", "notes")
	}
	return saved(c, msg, back, "notes")
}

func (h *NoteHandler) renderForm(c *fiber.Ctx, status int, id string, v forms.Values, errs forms.Errors, back string) error {
	body := FormView{
		Title:     "Add Note",
		Form:      forms.FormNote,
		Action:    "/notes",
		Submit:    "Create",
		CancelURL: "/notes",
		Fields: []FormField{
			field("title", "Title", "text", true, v, errs),
			field("description", "Description", "textarea", true, v, errs),
		},
	}
	if id != "" {
		body.Title = "Edit Note"
		body.Action = "/notes/edit/" + url.PathEscape(id)
		body.Submit = "Update"
		body.Back = back
		body.CancelURL = back
	}
	return h.views.Render(c, status, pageForm, h.views.Page(c, body.Title, body))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
