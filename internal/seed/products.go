package seed

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/qr_cart/internal/models"
	"github.com/Skotchmaster/qr_cart/internal/repo"
)

const maxStock = 25

// Products inserts n products with fake names, prices and stock in one
// transaction.
func Products(ctx context.Context, r *repo.GormRepo, faker *gofakeit.Faker, n int) ([]models.Product, error) {
	products := make([]models.Product, 0, n)
	err := r.Transaction(ctx, func(tx *repo.GormRepo) error {
		for i := 0; i < n; i++ {
			p := models.Product{
				Name:        faker.ProductName(),
				Description: faker.ProductDescription(),
				Price:       decimal.NewFromFloat(faker.Price(10, 5000)).Round(2),
				Stock:       faker.IntRange(0, maxStock),
			}
			if err := tx.CreateProduct(ctx, &p); err != nil {
				return fmt.Errorf("create product %q: %w", p.Name, err)
			}
			products = append(products, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}
