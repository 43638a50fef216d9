package repo

import (
	"context"

	"github.com/Skotchmaster/qr_cart/internal/models"
	pkgdb "github.com/Skotchmaster/qr_cart/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormRepo struct {
	DB *gorm.DB
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{}, &models.CartItem{})
}

// Transaction runs fn against a repo bound to one database transaction.
// The transaction is rolled back if fn returns an error.
func (r *GormRepo) Transaction(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func (r *GormRepo) Ping(ctx context.Context) error {
	return pkgdb.Ping(ctx, r.DB)
}

// forUpdate takes row locks where the dialect has them. SQLite serializes
// writers on its own.
func (r *GormRepo) forUpdate(ctx context.Context) *gorm.DB {
	q := r.DB.WithContext(ctx)
	if r.DB.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}
