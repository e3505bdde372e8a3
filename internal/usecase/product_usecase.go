package usecase

//go:generate mockgen -source=product_usecase.go -destination=../adapter/http/handlers/mocks/mock_product_usecase.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"shama_quotations/internal/domain/entities"
	"shama_quotations/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrInvalidProductID       = errors.New("invalid product id")
	ErrInvalidStockAdjustment = errors.New("invalid stock adjustment")
	ErrInvalidProduct         = entities.ErrInvalidProduct
)

// IProductUseCase is the inventory-side product surface. GetProduct is also
// what the sales product lookup reads.
type IProductUseCase interface {
	CreateProduct(ctx context.Context, p entities.Product) (entities.Product, error)
	GetProduct(ctx context.Context, id string) (entities.Product, error)
	AdjustStock(ctx context.Context, id string, adjustment int) (entities.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]entities.Product, error)
}

type ProductUseCase struct {
	repo interfaces.IProductRepository
}

var _ IProductUseCase = (*ProductUseCase)(nil)

func NewProductUseCase(repo interfaces.IProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

func (u *ProductUseCase) CreateProduct(ctx context.Context, p entities.Product) (entities.Product, error) {
	p.SKU = strings.TrimSpace(p.SKU)
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return entities.Product{}, err
	}

	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	return u.repo.Create(ctx, p)
}

func (u *ProductUseCase) GetProduct(ctx context.Context, id string) (entities.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Product{}, ErrInvalidProductID
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Product{}, err
	}
	if p.ID == "" {
		return entities.Product{}, ErrProductNotFound
	}
	return p, nil
}

// AdjustStock adds adjustment to the product's stock. Decrements that would
// take stock below zero fail with entities.ErrInsufficientStock.
func (u *ProductUseCase) AdjustStock(ctx context.Context, id string, adjustment int) (entities.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Product{}, ErrInvalidProductID
	}
	if adjustment == 0 {
		return entities.Product{}, fmt.Errorf("%w: adjustment must not be zero", ErrInvalidStockAdjustment)
	}

	p, err := u.repo.AdjustStock(ctx, id, adjustment, time.Now().UTC())
	if err != nil {
		return entities.Product{}, err
	}
	log.Printf("[product][usecase] stock adjusted product_id=%s adjustment=%d stock=%d", id, adjustment, p.Stock)
	return p, nil
}

func (u *ProductUseCase) ListProducts(ctx context.Context, limit, offset int) ([]entities.Product, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", ErrInvalidListFilter)
	}
	if limit < 0 || limit > MaxListLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidListFilter, MaxListLimit)
	}
	if limit == 0 {
		limit = DefaultListLimit
	}
	return u.repo.List(ctx, limit, offset)
}
