package seed

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/qr_cart/internal/models"
	"github.com/Skotchmaster/qr_cart/internal/repo/repotest"
)

func TestProducts(t *testing.T) {
	r := repotest.NewRepo(t)
	ctx := context.Background()

	got, err := Products(ctx, r, gofakeit.New(42), 5)
	require.NoError(t, err)
	require.Len(t, got, 5)

	for _, p := range got {
		assert.NotEmpty(t, p.Name)
		assert.True(t, p.Price.IsPositive())
		assert.GreaterOrEqual(t, p.Stock, 0)
		assert.LessOrEqual(t, p.Stock, maxStock)

		stored, err := r.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Stock, stored.Stock)
	}

	var count int64
	require.NoError(t, r.DB.Model(&models.Product{}).Count(&count).Error)
	assert.EqualValues(t, 5, count)
}
