package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/qr_cart/internal/models"
)

// AddToCartCreated is returned when a product enters the cart for the first
// time.
type AddToCartCreated struct {
	AddedToCart    *models.CartItem `json:"addedToCart"`
	UpdatedProduct *models.Product  `json:"updatedProduct"`
}

type InitiatePaymentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Remarks1 string          `json:"remarks1"`
	Remarks2 string          `json:"remarks2"`
}

type InitiatePaymentResponse struct {
	QRMessage string `json:"qrMessage"`
	WSURL     string `json:"wsUrl"`
	PRN       int64  `json:"prn"`
}

type ListenRequest struct {
	WSURL string `json:"wsUrl"`
}
