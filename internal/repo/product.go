package repo

import (
	"context"

	"github.com/Skotchmaster/qr_cart/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProductForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.forUpdate(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Create(product).Error
}

// AdjustStock adds delta to the product's stock and reloads it.
func (r *GormRepo) AdjustStock(ctx context.Context, product *models.Product, delta int) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return r.DB.WithContext(ctx).Where("id = ?", product.ID).First(product).Error
}
