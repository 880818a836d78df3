package usecase

import (
	"context"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/application/ports"
	"github.com/kiranfashion/console/internal/domain/entity"
)

// UserUseCase manages users and their passwords. Admin only.
type UserUseCase struct {
	*CrudUseCase[entity.User, dto.UserInput]
	backend ports.Backend
}

// NewUserUseCase builds the use case.
func NewUserUseCase(backend ports.Backend) *UserUseCase {
	return &UserUseCase{CrudUseCase: NewCrudUseCase(backend.Users()), backend: backend}
}

// ChangePassword sets a new password for in.UserID.
func (uc *UserUseCase) ChangePassword(ctx context.Context, in dto.ChangePasswordRequest) (string, error) {
	msg, err := uc.backend.ChangePassword(ctx, in)
	if err != nil {
		return "", err
	}
	return SuccessText(msg), nil
}
