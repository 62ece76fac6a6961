// Package gateway talks to the hosted payment gateway. A checkout session
// is created with the order details and the customer's contact fields; the
// gateway answers with a payment-page URL the storefront redirects to. The
// gateway later calls back on the success/fail/cancel URLs, correlated by
// the transaction id we generated.
package gateway

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/apperr"
	"github.com/shashiranjanraj/bazaar/pkg/httpclient"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
)

const (
	sandboxURL = "https://sandbox.sslcommerz.com/gwprocess/v4/api.php"
	liveURL    = "https://securepay.sslcommerz.com/gwprocess/v4/api.php"

	defaultCurrency = "BDT"
)

// RouteSuccess and RouteFail name the callback routes the gateway posts back
// to. The route table registers its handlers under these names and
// InitiateSession reverses them into the callback URLs.
const (
	RouteSuccess = "payment.success"
	RouteFail    = "payment.fail"
)

// Customer carries the contact and shipping fields the gateway requires on
// session creation.
type Customer struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	City     string
	PostCode string
	Country  string
}

// SessionRequest describes one checkout to initiate.
type SessionRequest struct {
	Amount      float64
	Currency    string // defaults to BDT
	ProductName string
	Customer    Customer
}

// Session is the gateway's answer: the transaction id we tagged the order
// with and the payment page to redirect the buyer to.
type Session struct {
	TransactionID string
	RedirectURL   string
}

// Client is the payment-gateway client. Construct once at startup with the
// process configuration; it holds no per-request state.
type Client struct {
	cfg      config.GatewayConfig
	endpoint string
	pathFor  func(name string, params map[string]string) (string, error)
}

// NewClient builds a Client from the gateway configuration.
func NewClient(cfg config.GatewayConfig) *Client {
	endpoint := sandboxURL
	if cfg.Live {
		endpoint = liveURL
	}
	return &Client{cfg: cfg, endpoint: endpoint}
}

// SetEndpoint overrides the gateway URL. Tests point this at an httptest
// server.
func (c *Client) SetEndpoint(url string) { c.endpoint = url }

// UseRoutes wires callback-URL construction to the router's named routes
// (router.URL), so session requests always target the registered paths.
// Without it the client falls back to the default path layout.
func (c *Client) UseRoutes(pathFor func(name string, params map[string]string) (string, error)) {
	c.pathFor = pathFor
}

func (c *Client) callbackURL(route, fallbackPath, trxID string) string {
	if c.pathFor != nil {
		if p, err := c.pathFor(route, map[string]string{"trx_id": trxID}); err == nil {
			return c.apiBase() + p
		}
		logger.Warn("gateway: named route not reversible, using default path", "route", route)
	}
	return c.cfg.APIURL + fallbackPath + trxID
}

// apiBase strips APIURL down to scheme://host; reversed route paths already
// carry the full mount prefix.
func (c *Client) apiBase() string {
	if u, err := url.Parse(c.cfg.APIURL); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Scheme + "://" + u.Host
	}
	return c.cfg.APIURL
}

// NewTransactionID generates the id that correlates an order with its
// gateway callbacks.
func NewTransactionID() string {
	return "trx-" + uuid.NewString()
}

// initResponse is the wire shape of the session-create answer.
type initResponse struct {
	Status         string `json:"status"` // "SUCCESS" | "FAILED"
	FailedReason   string `json:"failedreason"`
	GatewayPageURL string `json:"GatewayPageURL"`
	SessionKey     string `json:"sessionkey"`
}

// InitiateSession creates a checkout session. The returned Session carries
// a fresh transaction id; the caller persists the pending order under it
// before answering the storefront.
func (c *Client) InitiateSession(ctx context.Context, req SessionRequest) (Session, error) {
	trxID := NewTransactionID()

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	successURL := c.callbackURL(RouteSuccess, "/product/payment/success/", trxID)
	failURL := c.callbackURL(RouteFail, "/product/payment/fail/", trxID)

	fields := map[string]string{
		"store_id":     c.cfg.StoreID,
		"store_passwd": c.cfg.StorePassword,
		"total_amount": formatAmount(req.Amount),
		"currency":     currency,
		"tran_id":      trxID,

		"success_url": successURL,
		"fail_url":    failURL,
		"cancel_url":  failURL,
		"ipn_url":     c.cfg.APIURL + "/product/payment/ipn",

		"shipping_method":  "Courier",
		"product_name":     req.ProductName,
		"product_category": "General",
		"product_profile":  "general",

		"cus_name":     req.Customer.Name,
		"cus_email":    req.Customer.Email,
		"cus_add1":     req.Customer.Address,
		"cus_city":     req.Customer.City,
		"cus_postcode": req.Customer.PostCode,
		"cus_country":  req.Customer.Country,
		"cus_phone":    req.Customer.Phone,

		"ship_name":     req.Customer.Name,
		"ship_add1":     req.Customer.Address,
		"ship_city":     req.Customer.City,
		"ship_postcode": req.Customer.PostCode,
		"ship_country":  req.Customer.Country,
	}

	resp, err := httpclient.Post(c.endpoint).
		Form(fields).
		Timeout(15 * time.Second).
		Retry(2, time.Second).
		WithContext(ctx).
		Send()
	if err != nil {
		metrics.GatewayRequests.WithLabelValues("failed").Inc()
		return Session{}, apperr.Wrap(apperr.External, "payment gateway unreachable", err)
	}
	if err := resp.Throw(); err != nil {
		metrics.GatewayRequests.WithLabelValues("failed").Inc()
		return Session{}, apperr.Wrap(apperr.External, "payment gateway rejected the session", err)
	}

	var out initResponse
	if err := resp.JSON(&out); err != nil {
		metrics.GatewayRequests.WithLabelValues("failed").Inc()
		return Session{}, apperr.Wrap(apperr.External, "unreadable gateway response", err)
	}
	if out.Status != "SUCCESS" || out.GatewayPageURL == "" {
		metrics.GatewayRequests.WithLabelValues("failed").Inc()
		logger.WithCtx(ctx).Warn("gateway: session refused", "status", out.Status, "reason", out.FailedReason)
		return Session{}, apperr.New(apperr.External, "payment session was refused")
	}

	metrics.GatewayRequests.WithLabelValues("success").Inc()
	return Session{TransactionID: trxID, RedirectURL: out.GatewayPageURL}, nil
}

// formatAmount renders amounts the way the gateway wants them: plain
// decimal, two places.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
