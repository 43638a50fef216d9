package repo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/qr_cart/internal/models"
	"github.com/Skotchmaster/qr_cart/internal/repo"
	"github.com/Skotchmaster/qr_cart/internal/repo/repotest"
)

func TestGormRepo_ListCartLines_JoinsProducts(t *testing.T) {
	r := repotest.NewRepo(t)
	ctx := context.Background()

	p1 := repotest.SeedProduct(t, r, 3)
	p2 := repotest.SeedProduct(t, r, 7)

	item1 := &models.CartItem{ProductID: p1.ID, Count: 2}
	item2 := &models.CartItem{ProductID: p2.ID, Count: 1}
	require.NoError(t, r.CreateCartItem(ctx, item1))
	require.NoError(t, r.CreateCartItem(ctx, item2))

	lines, err := r.ListCartLines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	byItem := map[uuid.UUID]models.CartLine{}
	for _, l := range lines {
		byItem[l.ID] = l
	}

	got := byItem[item1.ID]
	assert.Equal(t, uint(2), got.Count)
	diff := cmp.Diff(*p1, got.Product)
	assert.Empty(t, diff)
	assert.Equal(t, p2.ID, byItem[item2.ID].Product.ID)
	assert.Equal(t, p2.Name, byItem[item2.ID].Product.Name)
}

func TestGormRepo_ListCartLines_DropsOrphans(t *testing.T) {
	r := repotest.NewRepo(t)
	ctx := context.Background()

	p := repotest.SeedProduct(t, r, 1)
	require.NoError(t, r.CreateCartItem(ctx, &models.CartItem{ProductID: p.ID, Count: 1}))
	require.NoError(t, r.CreateCartItem(ctx, &models.CartItem{ProductID: uuid.New(), Count: 4}))

	lines, err := r.ListCartLines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, p.ID, lines[0].ProductID)

	total, err := r.CountCartItems(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestGormRepo_ListCartLines_Empty(t *testing.T) {
	r := repotest.NewRepo(t)

	lines, err := r.ListCartLines(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestGormRepo_IncrementAndAdjust(t *testing.T) {
	r := repotest.NewRepo(t)
	ctx := context.Background()

	p := repotest.SeedProduct(t, r, 5)
	item := &models.CartItem{ProductID: p.ID, Count: 1}
	require.NoError(t, r.CreateCartItem(ctx, item))

	require.NoError(t, r.IncrementCartItem(ctx, item))
	assert.Equal(t, uint(2), item.Count)

	require.NoError(t, r.AdjustStock(ctx, p, -2))
	assert.Equal(t, 3, p.Stock)

	found, err := r.FindCartItemByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
	assert.Equal(t, uint(2), found.Count)
}

func TestGormRepo_MissingRows(t *testing.T) {
	r := repotest.NewRepo(t)
	ctx := context.Background()

	_, err := r.GetProduct(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = r.GetCartItemForUpdate(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = r.DeleteCartItem(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = r.AdjustStock(ctx, &models.Product{ID: uuid.New()}, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGormRepo_Transaction_RollsBack(t *testing.T) {
	r := repotest.NewRepo(t)
	ctx := context.Background()

	p := repotest.SeedProduct(t, r, 4)
	boom := errors.New("boom")

	err := r.Transaction(ctx, func(tx *repo.GormRepo) error {
		if err := tx.AdjustStock(ctx, p, -1); err != nil {
			return err
		}
		if err := tx.CreateCartItem(ctx, &models.CartItem{ProductID: p.ID, Count: 1}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 4, repotest.Stock(t, r, p.ID))
	total, err := r.CountCartItems(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestGormRepo_UniqueProductPerCart(t *testing.T) {
	r := repotest.NewRepo(t)
	ctx := context.Background()

	p := repotest.SeedProduct(t, r, 2)
	require.NoError(t, r.CreateCartItem(ctx, &models.CartItem{ProductID: p.ID, Count: 1}))
	assert.Error(t, r.CreateCartItem(ctx, &models.CartItem{ProductID: p.ID, Count: 1}))
}
