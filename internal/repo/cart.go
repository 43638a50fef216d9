package repo

import (
	"context"

	"github.com/Skotchmaster/qr_cart/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *GormRepo) GetCartItemForUpdate(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.forUpdate(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) FindCartItemByProduct(ctx context.Context, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.forUpdate(ctx).Where("product_id = ?", productID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) IncrementCartItem(ctx context.Context, item *models.CartItem) error {
	res := r.DB.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", item.ID).
		Update("count", gorm.Expr("count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return r.DB.WithContext(ctx).Where("id = ?", item.ID).First(item).Error
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListCartLines returns cart items joined with their products, oldest first.
// Items whose product no longer exists are left out.
func (r *GormRepo) ListCartLines(ctx context.Context) ([]models.CartLine, error) {
	lines := make([]models.CartLine, 0)
	if err := r.DB.WithContext(ctx).
		InnerJoins("Product").
		Order("cart_items.created_at ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *GormRepo) CountCartItems(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.CartItem{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
