package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/application/ports"
	"github.com/kiranfashion/console/internal/domain/entity"
)

type gatewayCall struct {
	op    string
	id    string
	query dto.ListQuery
}

type fakeGateway[T any, In any] struct {
	mu    sync.Mutex
	calls []gatewayCall
	pages map[int]dto.Page[T]
	msg   string
	err   error
	item  *T
	last  In
}

func (g *fakeGateway[T, In]) record(c gatewayCall) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, c)
}

func (g *fakeGateway[T, In]) List(_ context.Context, q dto.ListQuery) (dto.Page[T], error) {
	g.record(gatewayCall{op: "list", query: q})
	if g.err != nil {
		return dto.Page[T]{}, g.err
	}
	return g.pages[q.Page], nil
}

func (g *fakeGateway[T, In]) Get(_ context.Context, id string) (*T, error) {
	g.record(gatewayCall{op: "get", id: id})
	return g.item, g.err
}

func (g *fakeGateway[T, In]) Create(_ context.Context, in In) (string, error) {
	g.record(gatewayCall{op: "create"})
	g.last = in
	return g.msg, g.err
}

func (g *fakeGateway[T, In]) Update(_ context.Context, id string, in In) (string, error) {
	g.record(gatewayCall{op: "update", id: id})
	g.last = in
	return g.msg, g.err
}

func (g *fakeGateway[T, In]) Delete(_ context.Context, id string) (string, error) {
	g.record(gatewayCall{op: "delete", id: id})
	return g.msg, g.err
}

type fakeBackend struct {
	token     string
	loginErr  error
	me        *entity.SessionUser
	meErr     error
	dashboard *entity.Dashboard
	ranges    []dto.DateRange
	pwMsg     string

	users    *fakeGateway[entity.User, dto.UserInput]
	products *fakeGateway[entity.Product, dto.ProductInput]
	sales    *fakeGateway[entity.Sale, dto.SaleInput]
	notes    *fakeGateway[entity.Note, dto.NoteInput]
}

var _ ports.Backend = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:    &fakeGateway[entity.User, dto.UserInput]{},
		products: &fakeGateway[entity.Product, dto.ProductInput]{},
		sales:    &fakeGateway[entity.Sale, dto.SaleInput]{},
		notes:    &fakeGateway[entity.Note, dto.NoteInput]{},
	}
}

func (f *fakeBackend) Login(context.Context, dto.LoginRequest) (string, error) {
	return f.token, f.loginErr
}

func (f *fakeBackend) Me(context.Context) (*entity.SessionUser, error) { return f.me, f.meErr }

func (f *fakeBackend) Dashboard(_ context.Context, r dto.DateRange) (*entity.Dashboard, error) {
	f.ranges = append(f.ranges, r)
	return f.dashboard, nil
}

func (f *fakeBackend) ChangePassword(context.Context, dto.ChangePasswordRequest) (string, error) {
	return f.pwMsg, nil
}

func (f *fakeBackend) Users() ports.ResourceGateway[entity.User, dto.UserInput]          { return f.users }
func (f *fakeBackend) Products() ports.ResourceGateway[entity.Product, dto.ProductInput] { return f.products }
func (f *fakeBackend) Sales() ports.ResourceGateway[entity.Sale, dto.SaleInput]          { return f.sales }
func (f *fakeBackend) Notes() ports.ResourceGateway[entity.Note, dto.NoteInput]          { return f.notes }

type fakeReport struct {
	day    time.Time
	sales  []entity.Sale
	totals dto.SalesTotals
}

func (r *fakeReport) GenerateSalesReport(_ context.Context, day time.Time, sales []entity.Sale, totals dto.SalesTotals) ([]byte, error) {
	r.day, r.sales, r.totals = day, sales, totals
	return []byte("%PDF-1.4"), nil
}
