package backend

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/domain"
)

var recordID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Resource speaks CRUD to one backend collection. W is the private wire shape.
type Resource[T any, In any, W any] struct {
	c       *Client
	path    string
	convert func(W) T
}

func (r *Resource[T, In, W]) itemPath(id string) (string, error) {
	if !recordID.MatchString(id) {
		return "", fmt.Errorf("backend: malformed id %q: %w", id, domain.ErrNotFound)
	}
	return r.path + "/" + id, nil
}

// List calls GET /{resource}?page&rows&search&start_date&end_date.
func (r *Resource[T, In, W]) List(ctx context.Context, q dto.ListQuery) (dto.Page[T], error) {
	var body wireList[W]
	if _, err := r.c.do(ctx, call{method: http.MethodGet, path: r.path, query: q.Values()}, &body); err != nil {
		return dto.Page[T]{}, err
	}
	page := dto.Page[T]{
		Results: make([]T, 0, len(body.Results)),
		Total:   body.total(),
	}
	for _, w := range body.Results {
		page.Results = append(page.Results, r.convert(w))
	}
	if body.TotalProducts != nil || body.TotalSales != nil || body.TotalProfit != nil {
		totals := &dto.SalesTotals{}
		if body.TotalProducts != nil {
			totals.TotalProducts = *body.TotalProducts
		}
		if body.TotalSales != nil {
			totals.TotalSales = *body.TotalSales
		}
		if body.TotalProfit != nil {
			totals.TotalProfit = *body.TotalProfit
		}
		page.Totals = totals
	}
	return page, nil
}

// Get calls GET /{resource}/{id}.
func (r *Resource[T, In, W]) Get(ctx context.Context, id string) (*T, error) {
	p, err := r.itemPath(id)
	if err != nil {
		return nil, err
	}
	var w *W
	if _, err := r.c.do(ctx, call{method: http.MethodGet, path: p}, &w); err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("backend: %s: %w", p, domain.ErrNotFound)
	}
	out := r.convert(*w)
	return &out, nil
}

// Create calls POST /{resource}.
func (r *Resource[T, In, W]) Create(ctx context.Context, in In) (string, error) {
	return r.c.do(ctx, call{method: http.MethodPost, path: r.path, body: in}, nil)
}

// Update calls PUT /{resource}/{id}.
func (r *Resource[T, In, W]) Update(ctx context.Context, id string, in In) (string, error) {
	p, err := r.itemPath(id)
	if err != nil {
		return "", err
	}
	return r.c.do(ctx, call{method: http.MethodPut, path: p, body: in}, nil)
}

// Delete calls DELETE /{resource}/{id}.
func (r *Resource[T, In, W]) Delete(ctx context.Context, id string) (string, error) {
	p, err := r.itemPath(id)
	if err != nil {
		return "", err
	}
	return r.c.do(ctx, call{method: http.MethodDelete, path: p}, nil)
}
