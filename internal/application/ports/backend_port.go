package ports

import (
	"context"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/domain/entity"
)

// ResourceGateway is the CRUD contract of one backend collection (users, products, sales, notes).
// Mutations return the backend's human-readable message.
type ResourceGateway[T any, In any] interface {
	List(ctx context.Context, q dto.ListQuery) (dto.Page[T], error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, in In) (string, error)
	Update(ctx context.Context, id string, in In) (string, error)
	Delete(ctx context.Context, id string) (string, error)
}

// Backend is the REST API the console consumes. The bearer token is taken from
// the session carried by ctx at call time.
type Backend interface {
	Login(ctx context.Context, in dto.LoginRequest) (string, error)
	Me(ctx context.Context) (*entity.SessionUser, error)
	Dashboard(ctx context.Context, r dto.DateRange) (*entity.Dashboard, error)
	ChangePassword(ctx context.Context, in dto.ChangePasswordRequest) (string, error)

	Users() ResourceGateway[entity.User, dto.UserInput]
	Products() ResourceGateway[entity.Product, dto.ProductInput]
	Sales() ResourceGateway[entity.Sale, dto.SaleInput]
	Notes() ResourceGateway[entity.Note, dto.NoteInput]
}
