package http

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/application/listview"
	"github.com/kiranfashion/console/internal/application/session"
	"github.com/kiranfashion/console/internal/application/usecase"
	"github.com/kiranfashion/console/internal/domain"
	"github.com/kiranfashion/console/pkg/format"
)

// listWait bounds how long a page request waits for its fetch; past it the
// page renders the previous rows with a loading marker.
const listWait = 10 * time.Second

// lister is the part of a use case a list page needs.
type lister[T any] interface {
	List(ctx context.Context, q dto.ListQuery) (dto.Page[T], error)
	Delete(ctx context.Context, id string) (string, error)
}

// invalidator is implemented by every list controller.
type invalidator interface{ Invalidate() }

// ListSpec describes one resource table.
type ListSpec[T any] struct {
	Resource   string // URL segment and backend collection
	Title      string
	Columns    []string
	Row        func(T) dto.LiveListRow
	DateFilter bool
	Stats      func(dto.Page[T]) []Stat
	Report     bool
	// ProfitColumn is the 1-based column rendered as a profit/loss chip, 0 for none.
	ProfitColumn int
}

// ListHandler serves the list page, live search and delete dialog of one
// resource. Each rendered page carries a view id; the live search of that page
// drives its own listview.Controller, so two tabs never share one.
type ListHandler[T any] struct {
	spec  ListSpec[T]
	uc    lister[T]
	views *Views
	opts  listview.Options
	now   func() time.Time
}

// NewListHandler builds the handler.
func NewListHandler[T any](spec ListSpec[T], uc lister[T], views *Views, opts listview.Options) *ListHandler[T] {
	return &ListHandler[T]{spec: spec, uc: uc, views: views, opts: opts, now: time.Now}
}

func listViewPrefix(resource string) string { return "list:" + resource + ":" }

// invalidateLists marks every list view of resource stale except keep.
func invalidateLists(sess *session.Session, resource string, keep any) {
	if sess == nil {
		return
	}
	for _, v := range sess.ViewsWithPrefix(listViewPrefix(resource)) {
		if v == keep {
			continue
		}
		if inv, ok := v.(invalidator); ok {
			inv.Invalidate()
		}
	}
}

// viewID returns the ?view= id of the request when it is well formed.
func viewID(c *fiber.Ctx) (string, bool) {
	id, err := uuid.Parse(c.Query("view"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// lookup returns the controller of the request's view without creating one.
func (h *ListHandler[T]) lookup(c *fiber.Ctx) (string, *listview.Controller[T], bool) {
	id, ok := viewID(c)
	if !ok {
		return "", nil, false
	}
	v, ok := SessionOf(c).LookupView(listViewPrefix(h.spec.Resource) + id)
	if !ok {
		return "", nil, false
	}
	ctrl, ok := v.(*listview.Controller[T])
	return id, ctrl, ok
}

// view returns the controller of the request's view, starting a new view when
// the id is missing or malformed.
func (h *ListHandler[T]) view(c *fiber.Ctx) (string, *listview.Controller[T]) {
	id, ok := viewID(c)
	if !ok {
		id = uuid.NewString()
	}
	sess := SessionOf(c)
	v := sess.View(listViewPrefix(h.spec.Resource)+id, func() any {
		return listview.New[T](sess.Bind(context.Background()), h.uc.List, h.opts)
	})
	return id, v.(*listview.Controller[T])
}

// queryFrom reads page, search and (sales) date; the date defaults to today.
// Strings are copied because controllers keep them past the request.
func (h *ListHandler[T]) queryFrom(c *fiber.Ctx) listview.Query {
	q := listview.Query{
		Page:   c.QueryInt("page", 1),
		Search: utils.CopyString(strings.TrimSpace(c.Query("search"))),
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if h.spec.DateFilter {
		q.Date = utils.CopyString(c.Query("date"))
		if _, err := time.Parse(format.ISODate, q.Date); err != nil {
			q.Date = h.now().Format(format.ISODate)
		}
	}
	return q
}

func (h *ListHandler[T]) wait(c *fiber.Ctx, ctrl *listview.Controller[T]) (listview.Snapshot[T], error) {
	ctx, cancel := context.WithTimeout(c.UserContext(), listWait)
	defer cancel()
	snap, err := ctrl.Wait(ctx)
	if sess := SessionOf(c); sess != nil && !sess.HasToken() {
		// The token was rejected while fetching.
		return snap, domain.ErrUnauthenticated
	}
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return snap, err
	}
	if errors.Is(snap.Err, domain.ErrUnauthenticated) {
		return snap, snap.Err
	}
	return snap, nil
}

// Page renders the list for the request's own query. ?delete=<id> opens the
// confirmation dialog.
func (h *ListHandler[T]) Page(c *fiber.Ctx) error {
	q := h.queryFrom(c)
	id, ctrl := h.view(c)
	ctrl.Apply(q)
	if del := c.Query("delete"); del != "" {
		ctrl.OpenDelete(utils.CopyString(del))
	} else {
		ctrl.CancelDelete()
	}

	snap, err := h.wait(c, ctrl)
	if err != nil {
		return err
	}
	if snap.Query != q {
		// Another request of the same view moved it meanwhile.
		page, err := h.uc.List(c.UserContext(), q.ListQuery())
		if errors.Is(err, domain.ErrUnauthenticated) {
			return err
		}
		snap = settledSnapshot(q, page, err, snap.DeleteID)
	}
	return h.views.Render(c, fiber.StatusOK, pageList, h.views.Page(c, h.spec.Title, h.listView(id, snap)))
}

func settledSnapshot[T any](q listview.Query, page dto.Page[T], err error, deleteID string) listview.Snapshot[T] {
	snap := listview.Snapshot[T]{Status: listview.Success, Query: q, Input: q.Search, DeleteID: deleteID}
	if err != nil {
		snap.Status, snap.Err = listview.Failed, err
		return snap
	}
	snap.Page, snap.HasData = page, true
	return snap
}

// Live godoc
// @Summary      Live list search
// @Description  Debounced search over one list view. Concurrent calls for the same view settle on the latest term. A missing or unknown view starts a new one.
// @Tags         lists
// @Produce      json
// @Param        resource  path   string  true   "users, products, sales or notes"
// @Param        view      query  string  false  "View id rendered into the list page"
// @Param        search    query  string  false  "Search term"
// @Param        page      query  int     false  "Page (1-based)"
// @Param        date      query  string  false  "Sales day, YYYY-MM-DD"
// @Success      200  {object}  dto.LiveListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/lists/{resource} [get]
func (h *ListHandler[T]) Live(c *fiber.Ctx) error {
	id, ctrl, known := h.lookup(c)
	if !known {
		id, ctrl = h.view(c)
		ctrl.Apply(h.queryFrom(c))
	} else {
		cur := ctrl.Snapshot()
		search := strings.TrimSpace(c.Query("search"))
		switch {
		case search != cur.Input:
			ctrl.SetSearch(utils.CopyString(search))
		case c.Query("page") != "" || c.Query("date") != "":
			q := h.queryFrom(c)
			if c.Query("date") == "" {
				q.Date = cur.Query.Date
			}
			ctrl.Apply(q)
		case cur.Status == listview.Idle:
			ctrl.Apply(h.queryFrom(c))
		}
	}

	snap, err := h.wait(c, ctrl)
	if err != nil {
		return err
	}
	lv := h.listView(id, snap)
	out := dto.LiveListResponse{
		Resource:   h.spec.Resource,
		View:       id,
		Search:     snap.Query.Search,
		Page:       snap.Query.Page,
		Pages:      lv.Pages,
		Total:      lv.Total,
		Summary:    pagerSummary(lv),
		PrevURL:    lv.PrevURL,
		NextURL:    lv.NextURL,
		Generation: snap.Generation,
		Status:     snap.Status.String(),
		Columns:    h.spec.Columns,
		Rows:       make([]dto.LiveListRow, 0, len(lv.Rows)),
		Error:      lv.Error,
	}
	for _, row := range lv.Rows {
		r := dto.LiveListRow{
			ID:        row.ID,
			ViewURL:   row.ViewURL,
			EditURL:   row.EditURL,
			DeleteURL: row.DeleteURL,
		}
		for _, cell := range row.Cells {
			r.Cells = append(r.Cells, cell.Text)
			r.Classes = append(r.Classes, cell.Class)
		}
		out.Rows = append(out.Rows, r)
	}
	return c.JSON(out)
}

// Delete confirms the dialog for :id: deletes, refetches the view once and
// closes the dialog. On failure the dialog stays open with the error shown.
func (h *ListHandler[T]) Delete(c *fiber.Ctx) error {
	sess := SessionOf(c)
	id := utils.CopyString(pathID(c))

	var (
		msg string
		err error
		q   listview.Query
	)
	view, ctrl, known := h.lookup(c)
	if known {
		ctrl.OpenDelete(id)
		msg, err = ctrl.ConfirmDelete(c.UserContext(), h.uc.Delete)
		q = ctrl.Snapshot().Query
	} else {
		msg, err = h.uc.Delete(c.UserContext(), id)
		q = h.queryFrom(c)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) || !sess.HasToken() {
			return domain.ErrUnauthenticated
		}
		sess.AddFlash(session.FlashError, usecase.ErrorText(err))
		return c.Redirect(h.url(q, view, url.Values{"delete": {id}}), fiber.StatusSeeOther)
	}
	if known {
		invalidateLists(sess, h.spec.Resource, ctrl)
	} else {
		invalidateLists(sess, h.spec.Resource, nil)
	}
	sess.AddFlash(session.FlashSuccess, usecase.SuccessText(msg))
	return c.Redirect(h.url(q, view, nil), fiber.StatusSeeOther)
}

func (h *ListHandler[T]) listView(view string, snap listview.Snapshot[T]) ListView {
	q := snap.Query
	lv := ListView{
		Resource:   h.spec.Resource,
		Title:      h.spec.Title,
		ViewID:     view,
		Columns:    h.spec.Columns,
		Search:     snap.Input,
		Date:       q.Date,
		DateFilter: h.spec.DateFilter,
		Page:       q.Page,
		Pages:      snap.Pages(),
		Total:      snap.Page.Total,
		Loading:    snap.Status == listview.Fetching || snap.Status == listview.Debouncing,
		AddURL:     "/" + h.spec.Resource + "/add",
	}
	if snap.Status == listview.Failed {
		lv.Error = usecase.ErrorText(snap.Err)
		lv.RetryURL = h.url(q, view, nil)
	}
	if q.Page > 1 {
		lv.PrevURL = h.url(listview.Query{Page: q.Page - 1, Search: q.Search, Date: q.Date}, view, nil)
	}
	if q.Page < lv.Pages {
		lv.NextURL = h.url(listview.Query{Page: q.Page + 1, Search: q.Search, Date: q.Date}, view, nil)
	}
	if h.spec.Stats != nil && snap.HasData {
		lv.Stats = h.spec.Stats(snap.Page)
	}
	if h.spec.Report {
		lv.ReportURL = "/" + h.spec.Resource + "/report.pdf?date=" + url.QueryEscape(q.Date)
	}

	for _, item := range snap.Page.Results {
		r := h.spec.Row(item)
		row := Row{
			ID:        r.ID,
			ViewURL:   "/" + h.spec.Resource + "/" + url.PathEscape(r.ID),
			EditURL:   "/" + h.spec.Resource + "/edit/" + url.PathEscape(r.ID),
			DeleteURL: h.url(q, view, url.Values{"delete": {r.ID}}),
		}
		for i, text := range r.Cells {
			cell := Cell{Text: text}
			if i+1 == h.spec.ProfitColumn {
				cell.Class = profitClass(text)
			}
			row.Cells = append(row.Cells, cell)
		}
		lv.Rows = append(lv.Rows, row)
		if r.ID == snap.DeleteID {
			lv.Delete = h.deleteDialog(q, view, r.ID, strings.TrimSpace(firstCell(r)))
		}
	}
	if lv.Delete == nil && snap.DeleteID != "" {
		lv.Delete = h.deleteDialog(q, view, snap.DeleteID, "this record")
	}
	return lv
}

func (h *ListHandler[T]) deleteDialog(q listview.Query, view, id, label string) *DeleteDialog {
	confirm := h.url(q, view, nil)
	confirm = "/" + h.spec.Resource + "/" + url.PathEscape(id) + "/delete" + strings.TrimPrefix(confirm, "/"+h.spec.Resource)
	return &DeleteDialog{
		Label:      label,
		ConfirmURL: confirm,
		CancelURL:  h.url(q, view, nil),
	}
}

// url builds the list URL for q within view plus extra parameters.
func (h *ListHandler[T]) url(q listview.Query, view string, extra url.Values) string {
	v := url.Values{}
	if view != "" {
		v.Set("view", view)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Date != "" {
		v.Set("date", q.Date)
	}
	for k, vals := range extra {
		v[k] = vals
	}
	u := "/" + h.spec.Resource
	if len(v) > 0 {
		u += "?" + v.Encode()
	}
	return u
}

// pagerSummary is the text under the table, e.g. "Page 2 of 3 · 25 records".
func pagerSummary(lv ListView) string {
	return fmt.Sprintf("Page %d of %d · %s records", lv.Page, lv.Pages, format.Count(lv.Total))
}

func firstCell(r dto.LiveListRow) string {
	if len(r.Cells) == 0 {
		return r.ID
	}
	return r.Cells[0]
}

func profitClass(text string) string {
	if strings.HasPrefix(text, "-") {
		return "chip-loss"
	}
	return "chip-profit"
}
