package usecase

import (
	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/application/ports"
	"github.com/kiranfashion/console/internal/domain/entity"
)

// ProductUseCase manages the product catalogue.
type ProductUseCase struct {
	*CrudUseCase[entity.Product, dto.ProductInput]
}

// NewProductUseCase builds the use case.
func NewProductUseCase(backend ports.Backend) *ProductUseCase {
	return &ProductUseCase{CrudUseCase: NewCrudUseCase(backend.Products())}
}
