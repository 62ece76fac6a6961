package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/bind"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// CheckoutController serves the order routes: both checkout paths, the
// gateway callbacks, and cancellation.
type CheckoutController struct {
	service *services.CheckoutService
}

func NewCheckoutController(service *services.CheckoutService) *CheckoutController {
	return &CheckoutController{service: service}
}

// CheckoutCOD handles POST /product/order-checkout-without-payment.
func (c *CheckoutController) CheckoutCOD(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w)
		return
	}

	var in services.CheckoutInput
	if _, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, "could not read request body")
		return
	}

	order, err := c.service.CheckoutCOD(r.Context(), claims.UserID, in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, "Order placed successfully", response.Payload{"order": order})
}

// Checkout handles POST /product/order-checkout: the gateway path. The
// answer carries the payment-page URL for the storefront to redirect to.
func (c *CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w)
		return
	}

	var in services.CheckoutInput
	if _, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, "could not read request body")
		return
	}

	sess, err := c.service.InitiateGateway(r.Context(), claims.UserID, in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, "Payment session created", response.Payload{
		"url":            sess.RedirectURL,
		"transaction_id": sess.TransactionID,
	})
}

// PaymentSuccess handles POST /product/payment/success/{trx_id}.
func (c *CheckoutController) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	dest, err := c.service.ConfirmPayment(r.Context(), chi.URLParam(r, "trx_id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Redirect(w, r, dest)
}

// PaymentFail handles POST /product/payment/fail/{trx_id}.
func (c *CheckoutController) PaymentFail(w http.ResponseWriter, r *http.Request) {
	dest, err := c.service.FailPayment(r.Context(), chi.URLParam(r, "trx_id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Redirect(w, r, dest)
}

// CancelOrder handles DELETE /product/cancel-order/{oid}.
func (c *CheckoutController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "oid")
	if !ok {
		response.Fail(w, http.StatusBadRequest, "invalid order id")
		return
	}
	if err := c.service.Cancel(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, "Order canceled", nil)
}

// Orders handles GET /product/orders: the caller's own orders.
func (c *CheckoutController) Orders(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w)
		return
	}

	orders, err := c.service.OrdersFor(claims.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, "Your orders", response.Payload{"orders": orders})
}
