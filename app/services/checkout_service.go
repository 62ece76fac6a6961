package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/gateway"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/apperr"
	"github.com/shashiranjanraj/bazaar/pkg/collection"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
)

// CheckoutItem is one cart line.
type CheckoutItem struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"required,gte=1"`
}

// CheckoutInput is the body of both checkout endpoints.
type CheckoutInput struct {
	Items    []CheckoutItem   `json:"cart"`
	Customer gateway.Customer `json:"customer"` // gateway path only
}

// CheckoutService creates orders, either immediately on the COD path or via
// a payment-gateway session, and resolves the gateway callbacks.
type CheckoutService struct {
	orders   *repositories.OrderRepository
	products *repositories.ProductRepository
	gateway  *gateway.Client
	client   string // storefront base URL for post-payment redirects
}

func NewCheckoutService(gw *gateway.Client, clientURL string) *CheckoutService {
	return &CheckoutService{
		orders:   repositories.NewOrderRepository(),
		products: repositories.NewProductRepository(),
		gateway:  gw,
		client:   clientURL,
	}
}

// NewCheckoutServiceWith wires explicit collaborators for tests.
func NewCheckoutServiceWith(o *repositories.OrderRepository, p *repositories.ProductRepository, gw *gateway.Client, clientURL string) *CheckoutService {
	return &CheckoutService{orders: o, products: p, gateway: gw, client: clientURL}
}

// buildOrder resolves the cart against the catalog, freezing unit prices at
// checkout time, and totals the order.
func (s *CheckoutService) buildOrder(buyerID uint, in CheckoutInput) (models.Order, error) {
	if len(in.Items) == 0 {
		return models.Order{}, apperr.Invalid("cart is empty", map[string]string{"cart": "cart is empty"})
	}

	var items []models.OrderItem
	for _, line := range in.Items {
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		p, err := s.products.FindByID(line.ProductID)
		if err != nil {
			return models.Order{}, notFoundOr(err, "product not found")
		}
		items = append(items, models.OrderItem{
			ProductID: p.ID,
			Quantity:  line.Quantity,
			Price:     p.Price,
		})
	}

	total := collection.Sum(items, func(it models.OrderItem) float64 {
		return it.Price * float64(it.Quantity)
	})

	return models.Order{
		BuyerID:    buyerID,
		TotalPrice: total,
		Items:      items,
	}, nil
}

// CheckoutCOD creates a cash-on-delivery order: payment stays false and no
// transaction id is assigned.
func (s *CheckoutService) CheckoutCOD(ctx context.Context, buyerID uint, in CheckoutInput) (models.Order, error) {
	o, err := s.buildOrder(buyerID, in)
	if err != nil {
		return models.Order{}, err
	}
	o.Payment = false
	o.Status = models.OrderCreated

	if err := s.orders.Create(&o); err != nil {
		metrics.OrdersPlaced.WithLabelValues("cod", "failed").Inc()
		return models.Order{}, apperr.Wrap(apperr.Persistence, "could not save order", err)
	}

	metrics.OrdersPlaced.WithLabelValues("cod", "pending").Inc()
	return o, nil
}

// InitiateGateway opens a payment session for the cart and persists the
// pending order under the session's transaction id. The returned redirect
// URL is the hosted payment page.
func (s *CheckoutService) InitiateGateway(ctx context.Context, buyerID uint, in CheckoutInput) (gateway.Session, error) {
	o, err := s.buildOrder(buyerID, in)
	if err != nil {
		return gateway.Session{}, err
	}

	sess, err := s.gateway.InitiateSession(ctx, gateway.SessionRequest{
		Amount:      o.TotalPrice,
		ProductName: "bazaar order",
		Customer:    in.Customer,
	})
	if err != nil {
		metrics.OrdersPlaced.WithLabelValues("gateway", "failed").Inc()
		return gateway.Session{}, err
	}

	o.Payment = false
	o.Status = models.OrderAwaitingGateway
	o.TransactionID = sess.TransactionID

	if err := s.orders.Create(&o); err != nil {
		metrics.OrdersPlaced.WithLabelValues("gateway", "failed").Inc()
		return gateway.Session{}, apperr.Wrap(apperr.Persistence, "could not save order", err)
	}

	metrics.OrdersPlaced.WithLabelValues("gateway", "pending").Inc()
	return sess, nil
}

// ConfirmPayment handles the gateway success callback: the pending order is
// marked paid and the caller is redirected to the storefront's success
// page. An unknown transaction id is a no-op, but the redirect still
// happens so the buyer never lands on an error page from the gateway.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, trxID string) (string, error) {
	dest := s.client + "/payment/success"

	o, err := s.orders.FindByTransactionID(trxID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithCtx(ctx).Warn("checkout: success callback for unknown transaction", "trx_id", trxID)
			return dest, nil
		}
		return dest, apperr.Wrap(apperr.Persistence, "could not load order", err)
	}

	if !o.Status.CanTransition(models.OrderConfirmed) {
		logger.WithCtx(ctx).Warn("checkout: success callback on settled order", "trx_id", trxID, "status", o.Status)
		return dest, nil
	}

	o.Payment = true
	o.Status = models.OrderConfirmed
	o.Items = nil // item rows are untouched by the status flip
	if err := s.orders.Save(&o); err != nil {
		return dest, apperr.Wrap(apperr.Persistence, "could not confirm order", err)
	}

	metrics.OrdersPlaced.WithLabelValues("gateway", "confirmed").Inc()
	return dest, nil
}

// FailPayment handles the gateway failure/cancel callback: the pending
// order is removed — no failed record is kept — and the caller is
// redirected to the storefront's failure page.
func (s *CheckoutService) FailPayment(ctx context.Context, trxID string) (string, error) {
	dest := s.client + "/payment/fail"

	o, err := s.orders.FindByTransactionID(trxID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dest, nil
		}
		return dest, apperr.Wrap(apperr.Persistence, "could not load order", err)
	}

	if !o.Status.CanTransition(models.OrderFailed) {
		logger.WithCtx(ctx).Warn("checkout: fail callback on settled order", "trx_id", trxID, "status", o.Status)
		return dest, nil
	}

	if err := s.orders.Delete(&o); err != nil {
		return dest, apperr.Wrap(apperr.Persistence, "could not remove order", err)
	}

	metrics.OrdersPlaced.WithLabelValues("gateway", "failed").Inc()
	return dest, nil
}

// Cancel removes an order by id. A missing order reports NotFound rather
// than silently succeeding.
func (s *CheckoutService) Cancel(ctx context.Context, orderID uint) error {
	o, err := s.orders.FindByID(orderID)
	if err != nil {
		return notFoundOr(err, "order not found")
	}

	if err := s.orders.Delete(&o); err != nil {
		return apperr.Wrap(apperr.Persistence, "could not cancel order", err)
	}

	metrics.OrdersPlaced.WithLabelValues(orderMode(o), "canceled").Inc()
	return nil
}

// Order fetches one order with its items.
func (s *CheckoutService) Order(id uint) (models.Order, error) {
	o, err := s.orders.FindByID(id)
	if err != nil {
		return models.Order{}, notFoundOr(err, "order not found")
	}
	return o, nil
}

// OrdersFor lists a buyer's orders, newest first.
func (s *CheckoutService) OrdersFor(buyerID uint) ([]models.Order, error) {
	out, err := s.orders.ByBuyer(buyerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "could not list orders", err)
	}
	return out, nil
}

func orderMode(o models.Order) string {
	if o.TransactionID != "" {
		return "gateway"
	}
	return "cod"
}
