package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/Skotchmaster/qr_cart/internal/events"
	"github.com/Skotchmaster/qr_cart/internal/metrics"
	"github.com/Skotchmaster/qr_cart/internal/models"
	"github.com/Skotchmaster/qr_cart/internal/repo"
	"github.com/Skotchmaster/qr_cart/pkg/logging"
)

var (
	ErrNotFound   = errors.New("not found")    // 404
	ErrOutOfStock = errors.New("out of stock") // 400
)

var tracer = otel.Tracer("github.com/Skotchmaster/qr_cart/internal/service")

type CartService struct {
	Repo    *repo.GormRepo
	Events  events.Publisher
	Metrics *metrics.Metrics
}

// AddResult is the outcome of AddToCart. Created reports whether a new cart
// item was inserted rather than an existing one incremented.
type AddResult struct {
	Created bool
	Item    *models.CartItem
	Product *models.Product
}

// AddToCart reserves one unit of productID. A repeat add is refused when the
// product has no stock left; the first add is not checked.
func (s *CartService) AddToCart(ctx context.Context, productID uuid.UUID) (*AddResult, error) {
	ctx, span := tracer.Start(ctx, "cart.add", trace.WithAttributes(attribute.String("product.id", productID.String())))
	defer span.End()

	var res AddResult
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		product, err := tx.GetProductForUpdate(ctx, productID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}

		item, err := tx.FindCartItemByProduct(ctx, productID)
		switch {
		case err == nil:
			if product.Stock <= 0 {
				return fmt.Errorf("product %s: %w", productID, ErrOutOfStock)
			}
			if err := tx.IncrementCartItem(ctx, item); err != nil {
				return fmt.Errorf("increment cart item: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = &models.CartItem{ProductID: productID, Count: 1}
			if err := tx.CreateCartItem(ctx, item); err != nil {
				return fmt.Errorf("create cart item: %w", err)
			}
			res.Created = true
		default:
			return fmt.Errorf("find cart item: %w", err)
		}

		if err := tx.AdjustStock(ctx, product, -1); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}

		res.Item = item
		res.Product = product
		return nil
	})
	if err != nil {
		s.fail(span, "add", err)
		return nil, err
	}
	s.Metrics.CartOp("add", "ok")

	eventType := "cart_item_incremented"
	if res.Created {
		eventType = "cart_item_added"
	}
	s.publish(ctx, res.Item.ID.String(), map[string]any{
		"type":       eventType,
		"cartItemID": res.Item.ID,
		"productID":  productID,
		"count":      res.Item.Count,
		"stock":      res.Product.Stock,
	})
	return &res, nil
}

// DeleteFromCart removes the cart item and returns its reserved units to the
// product's stock.
func (s *CartService) DeleteFromCart(ctx context.Context, cartItemID uuid.UUID) (*models.CartItem, error) {
	ctx, span := tracer.Start(ctx, "cart.delete", trace.WithAttributes(attribute.String("cart_item.id", cartItemID.String())))
	defer span.End()

	var (
		deleted *models.CartItem
		product *models.Product
	)
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		item, err := tx.GetCartItemForUpdate(ctx, cartItemID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cart item %s: %w", cartItemID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get cart item: %w", err)
		}

		product, err = tx.GetProductForUpdate(ctx, item.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %s: %w", item.ProductID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}

		if err := tx.AdjustStock(ctx, product, int(item.Count)); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		if err := tx.DeleteCartItem(ctx, item.ID); err != nil {
			return fmt.Errorf("delete cart item: %w", err)
		}

		deleted = item
		return nil
	})
	if err != nil {
		s.fail(span, "delete", err)
		return nil, err
	}
	s.Metrics.CartOp("delete", "ok")

	s.publish(ctx, deleted.ID.String(), map[string]any{
		"type":       "cart_item_deleted",
		"cartItemID": deleted.ID,
		"productID":  deleted.ProductID,
		"count":      deleted.Count,
		"stock":      product.Stock,
	})
	return deleted, nil
}

func (s *CartService) ListCartItems(ctx context.Context) ([]models.CartLine, error) {
	ctx, span := tracer.Start(ctx, "cart.list")
	defer span.End()

	lines, err := s.Repo.ListCartLines(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list cart")
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return lines, nil
}

// CountCartItems returns the number of cart items. An empty cart is zero,
// not an error.
func (s *CartService) CountCartItems(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "cart.count")
	defer span.End()

	total, err := s.Repo.CountCartItems(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count cart")
		return 0, fmt.Errorf("count cart: %w", err)
	}
	return total, nil
}

func (s *CartService) fail(span trace.Span, op string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, op)

	switch {
	case errors.Is(err, ErrNotFound):
		s.Metrics.CartOp(op, "not_found")
	case errors.Is(err, ErrOutOfStock):
		s.Metrics.CartOp(op, "out_of_stock")
	default:
		s.Metrics.CartOp(op, "error")
	}
}

func (s *CartService) publish(ctx context.Context, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishEvent(ctx, events.TopicCart, key, event); err != nil {
		logging.FromContext(ctx).Error("cart_event_publish_error", "type", event["type"], "error", err)
	}
}
