package usecase

import (
	"context"
	"errors"

	"github.com/example/storefront-service/internal/domain"
)

// GetProduct — получить товар из кэша по идентификатору, при промахе читать из репозитория.
type GetProduct struct {
	Cache domain.ProductCache
	Repo  domain.ProductRepository
}

func (uc GetProduct) Execute(ctx context.Context, id int64) (domain.Product, error) {
	if p, ok := uc.Cache.Get(ctx, id); ok {
		return p, nil
	}
	if uc.Repo == nil {
		return domain.Product{}, domain.ErrNotFound
	}
	p, err := uc.Repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	uc.Cache.Set(ctx, p)
	return p, nil
}

// ListProducts returns the whole catalog and refreshes the cache with it.
type ListProducts struct {
	Repo  domain.ProductRepository
	Cache domain.ProductCache
}

func (uc ListProducts) Execute(ctx context.Context) ([]domain.Product, error) {
	products, err := uc.Repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if uc.Cache != nil {
		for _, p := range products {
			uc.Cache.Set(ctx, p)
		}
	}
	return products, nil
}

// LoadCatalog — загрузить весь каталог в кэш при старте.
type LoadCatalog struct {
	Repo  domain.ProductRepository
	Cache domain.ProductCache
}

func (uc LoadCatalog) Execute(ctx context.Context) (int, error) {
	products, err := uc.Repo.ListProducts(ctx)
	if err != nil {
		return 0, err
	}
	for _, p := range products {
		uc.Cache.Set(ctx, p)
	}
	return len(products), nil
}

// IsNotFound is shorthand for errors.Is(err, domain.ErrNotFound).
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
