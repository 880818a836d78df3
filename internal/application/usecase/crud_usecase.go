package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/application/ports"
)

// DefaultSuccessText is shown when the backend returns no message.
const DefaultSuccessText = "Success!"

// DefaultErrorText is shown for errors without a readable message.
const DefaultErrorText = "Something went wrong."

// SuccessText returns msg, or the default when blank.
func SuccessText(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return DefaultSuccessText
	}
	return msg
}

// ErrorText returns the human-readable text for err. Backend errors carry their own text.
func ErrorText(err error) string {
	var t interface{ Text() string }
	if errors.As(err, &t) {
		return t.Text()
	}
	return DefaultErrorText
}

// CrudUseCase lists, loads, saves and deletes records of one backend collection.
type CrudUseCase[T any, In any] struct {
	gw ports.ResourceGateway[T, In]
}

// NewCrudUseCase builds the use case over gw.
func NewCrudUseCase[T any, In any](gw ports.ResourceGateway[T, In]) *CrudUseCase[T, In] {
	return &CrudUseCase[T, In]{gw: gw}
}

// List fetches one page.
func (uc *CrudUseCase[T, In]) List(ctx context.Context, q dto.ListQuery) (dto.Page[T], error) {
	if q.Rows == 0 {
		q.Rows = dto.PageSize
	}
	return uc.gw.List(ctx, q)
}

// Get fetches one record.
func (uc *CrudUseCase[T, In]) Get(ctx context.Context, id string) (*T, error) {
	return uc.gw.Get(ctx, id)
}

// Save creates when id is empty and updates otherwise. It returns the success text.
func (uc *CrudUseCase[T, In]) Save(ctx context.Context, id string, in In) (string, error) {
	var (
		msg string
		err error
	)
	if id == "" {
		msg, err = uc.gw.Create(ctx, in)
	} else {
		msg, err = uc.gw.Update(ctx, id, in)
	}
	if err != nil {
		return "", err
	}
	return SuccessText(msg), nil
}

// Delete removes id and returns the success text.
func (uc *CrudUseCase[T, In]) Delete(ctx context.Context, id string) (string, error) {
	msg, err := uc.gw.Delete(ctx, id)
	if err != nil {
		return "", err
	}
	return SuccessText(msg), nil
}
