// Package repotest provides an in-memory SQLite store for tests.
package repotest

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/qr_cart/internal/models"
	"github.com/Skotchmaster/qr_cart/internal/repo"
)

// NewDB opens a private in-memory database with the schema migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect to in-memory db")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repo.Migrate(db), "failed to migrate tables")

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func NewRepo(t testing.TB) *repo.GormRepo {
	t.Helper()
	return &repo.GormRepo{DB: NewDB(t)}
}

// SeedProduct stores a product with random display fields and the given stock.
func SeedProduct(t testing.TB, r *repo.GormRepo, stock int) *models.Product {
	t.Helper()

	p := &models.Product{
		Name:        gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
		Price:       decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
		Stock:       stock,
	}
	require.NoError(t, r.CreateProduct(context.Background(), p))
	return p
}

// Stock reads the current stock of a product straight from the table.
func Stock(t testing.TB, r *repo.GormRepo, id uuid.UUID) int {
	t.Helper()

	p, err := r.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}
