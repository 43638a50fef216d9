package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product stock counts unreserved units. It is signed: the first add of an
// out-of-stock product is not refused and drives it below zero.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	Name        string          `gorm:"not null"                    json:"name"`
	Description string          `gorm:"not null"                    json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0"          json:"stock"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Product) TableName() string {
	return "products"
}

// CartItem reserves Count units of one product.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"             json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"   json:"productId"`
	Count     uint      `gorm:"not null;default:1;check:count>0" json:"count"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

// CartLine is a cart item joined with its product.
type CartLine struct {
	CartItem
	Product Product `gorm:"foreignKey:ProductID" json:"productDetails"`
}

func (CartLine) TableName() string {
	return "cart_items"
}
