package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"shama_quotations/internal/domain/entities"
	mock_interfaces "shama_quotations/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func TestProductUseCase_CreateProduct(t *testing.T) {
	t.Run("invalid product", func(t *testing.T) {
		uc := NewProductUseCase(nil)
		_, err := uc.CreateProduct(context.Background(), entities.Product{SKU: " ", Name: "Widget"})
		if !errors.Is(err, ErrInvalidProduct) {
			t.Fatalf("expected ErrInvalidProduct, got %v", err)
		}
	})

	t.Run("negative stock", func(t *testing.T) {
		uc := NewProductUseCase(nil)
		_, err := uc.CreateProduct(context.Background(), entities.Product{SKU: "W-1", Name: "Widget", Stock: -1})
		if !errors.Is(err, ErrInvalidProduct) {
			t.Fatalf("expected ErrInvalidProduct, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProductRepository(ctrl)
		uc := NewProductUseCase(repo)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p entities.Product) (entities.Product, error) {
				if p.ID == "" || p.CreatedAt.IsZero() {
					t.Fatalf("expected id and timestamps to be set: %+v", p)
				}
				return p, nil
			})

		p, err := uc.CreateProduct(context.Background(), entities.Product{SKU: " W-1 ", Name: "Widget", Price: decimal.NewFromInt(50), Stock: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.SKU != "W-1" {
			t.Fatalf("expected trimmed sku, got %q", p.SKU)
		}
	})
}

func TestProductUseCase_GetProduct(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		uc := NewProductUseCase(nil)
		_, err := uc.GetProduct(context.Background(), "  ")
		if !errors.Is(err, ErrInvalidProductID) {
			t.Fatalf("expected ErrInvalidProductID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProductRepository(ctrl)
		uc := NewProductUseCase(repo)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(entities.Product{}, nil)

		_, err := uc.GetProduct(context.Background(), "p-1")
		if !errors.Is(err, ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProductRepository(ctrl)
		uc := NewProductUseCase(repo)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(entities.Product{ID: "p-1", Name: "Widget"}, nil)

		p, err := uc.GetProduct(context.Background(), "p-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Name != "Widget" {
			t.Fatalf("unexpected product %+v", p)
		}
	})
}

func TestProductUseCase_AdjustStock(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects blank id and zero adjustment", func(t *testing.T) {
		uc := NewProductUseCase(nil)
		if _, err := uc.AdjustStock(ctx, " ", 1); !errors.Is(err, ErrInvalidProductID) {
			t.Fatalf("expected ErrInvalidProductID, got %v", err)
		}
		if _, err := uc.AdjustStock(ctx, "p-1", 0); !errors.Is(err, ErrInvalidStockAdjustment) {
			t.Fatalf("expected ErrInvalidStockAdjustment, got %v", err)
		}
	})

	t.Run("passes the delta to the conditional update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProductRepository(ctrl)
		uc := NewProductUseCase(repo)

		repo.EXPECT().AdjustStock(gomock.Any(), "p-1", -2, gomock.Any()).
			DoAndReturn(func(_ context.Context, id string, delta int, now time.Time) (entities.Product, error) {
				if now.IsZero() || now.Location() != time.UTC {
					t.Fatalf("unexpected timestamp %v", now)
				}
				return entities.Product{ID: id, Stock: 3}, nil
			})

		p, err := uc.AdjustStock(ctx, " p-1 ", -2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Stock != 3 {
			t.Fatalf("expected stock 3, got %d", p.Stock)
		}
	})

	t.Run("insufficient stock is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProductRepository(ctrl)
		uc := NewProductUseCase(repo)

		repo.EXPECT().AdjustStock(gomock.Any(), "p-1", -9, gomock.Any()).Return(entities.Product{}, entities.ErrInsufficientStock)

		if _, err := uc.AdjustStock(ctx, "p-1", -9); !errors.Is(err, entities.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
	})
}

func TestProductUseCase_ListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid paging", func(t *testing.T) {
		uc := NewProductUseCase(nil)
		if _, err := uc.ListProducts(ctx, 0, -1); !errors.Is(err, ErrInvalidListFilter) {
			t.Fatalf("expected ErrInvalidListFilter, got %v", err)
		}
		if _, err := uc.ListProducts(ctx, MaxListLimit+1, 0); !errors.Is(err, ErrInvalidListFilter) {
			t.Fatalf("expected ErrInvalidListFilter, got %v", err)
		}
	})

	t.Run("default limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProductRepository(ctrl)
		uc := NewProductUseCase(repo)

		repo.EXPECT().List(gomock.Any(), DefaultListLimit, 5).Return([]entities.Product{{ID: "p-1"}}, nil)

		out, err := uc.ListProducts(ctx, 0, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 1 {
			t.Fatalf("expected 1 product, got %d", len(out))
		}
	})
}
