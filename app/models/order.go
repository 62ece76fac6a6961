package models

import "gorm.io/gorm"

// OrderStatus is the order state machine. Gateway orders start at
// AwaitingGateway and may only move to Confirmed or Failed from there;
// COD orders are Created immediately.
type OrderStatus string

const (
	OrderCreated         OrderStatus = "created"
	OrderAwaitingGateway OrderStatus = "awaiting_gateway"
	OrderConfirmed       OrderStatus = "confirmed"
	OrderFailed          OrderStatus = "failed"
	OrderCanceled        OrderStatus = "canceled"
)

// CanTransition reports whether the status may move to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	switch s {
	case OrderAwaitingGateway:
		return next == OrderConfirmed || next == OrderFailed
	case OrderCreated:
		return next == OrderCanceled
	default:
		return false
	}
}

// Terminal reports whether no further transitions are allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderConfirmed || s == OrderFailed || s == OrderCanceled
}

// Order is one checkout, COD or gateway-mediated.
// TransactionID is set only on the gateway path and correlates the
// success/fail callbacks with the pending order.
type Order struct {
	gorm.Model
	BuyerID       uint        `gorm:"not null;index"            json:"buyer_id"`
	Buyer         *User       `json:"buyer,omitempty"`
	TotalPrice    float64     `gorm:"not null"                  json:"total_price"`
	Payment       bool        `gorm:"not null;default:false"    json:"payment"`
	TransactionID string      `gorm:"size:64;index"             json:"transaction_id,omitempty"`
	Status        OrderStatus `gorm:"size:32;not null;default:created" json:"status"`
	Items         []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem is one product line on an order. Price is the unit price at
// checkout time, frozen against later catalog edits.
type OrderItem struct {
	ID        uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint     `gorm:"not null;index"           json:"-"`
	ProductID uint     `gorm:"not null;index"           json:"product_id"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `gorm:"not null;default:1"       json:"quantity"`
	Price     float64  `gorm:"not null"                 json:"price"`
}
