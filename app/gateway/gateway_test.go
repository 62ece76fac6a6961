package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/apperr"
	"github.com/shashiranjanraj/bazaar/pkg/router"
)

func testConfig() config.GatewayConfig {
	return config.GatewayConfig{
		StoreID:       "teststore",
		StorePassword: "secret",
		APIURL:        "https://api.test/api",
		ClientURL:     "https://shop.test",
	}
}

func TestInitiateSessionSendsGatewayFields(t *testing.T) {
	var got map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		got = map[string]string{}
		for k := range r.PostForm {
			got[k] = r.PostFormValue(k)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"SUCCESS","GatewayPageURL":"https://pay.test/s/1"}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig())
	c.SetEndpoint(srv.URL)

	sess, err := c.InitiateSession(context.Background(), SessionRequest{
		Amount:      123.4,
		ProductName: "bazaar order",
		Customer: Customer{
			Name: "Ada", Email: "ada@test", Phone: "0123",
			Address: "1 Lane", City: "Dhaka", PostCode: "1000", Country: "Bangladesh",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://pay.test/s/1", sess.RedirectURL)
	assert.True(t, strings.HasPrefix(sess.TransactionID, "trx-"))

	assert.Equal(t, "teststore", got["store_id"])
	assert.Equal(t, "secret", got["store_passwd"])
	assert.Equal(t, "123.40", got["total_amount"])
	assert.Equal(t, "BDT", got["currency"], "currency defaults to BDT")
	assert.Equal(t, sess.TransactionID, got["tran_id"])
	assert.Equal(t, "https://api.test/api/product/payment/success/"+sess.TransactionID, got["success_url"])
	assert.Equal(t, "https://api.test/api/product/payment/fail/"+sess.TransactionID, got["fail_url"])
	assert.Equal(t, "Ada", got["cus_name"])
	assert.Equal(t, "Dhaka", got["ship_city"])
}

func TestInitiateSessionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"FAILED","failedreason":"store credentials"}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig())
	c.SetEndpoint(srv.URL)

	_, err := c.InitiateSession(context.Background(), SessionRequest{Amount: 10})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.External))
}

func TestCallbackURLsFollowNamedRoutes(t *testing.T) {
	var got map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = map[string]string{}
		for k := range r.PostForm {
			got[k] = r.PostFormValue(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"SUCCESS","GatewayPageURL":"https://pay.test/s/1"}`))
	}))
	defer srv.Close()

	// Callbacks registered under a layout the default paths do not match:
	// the session request must follow the route table, not literals.
	noop := func(http.ResponseWriter, *http.Request) {}
	rt := router.New()
	api := rt.Group("/api/v2/pay")
	api.Post("/done/{trx_id}", RouteSuccess, noop)
	api.Post("/broke/{trx_id}", RouteFail, noop)

	c := NewClient(testConfig())
	c.SetEndpoint(srv.URL)
	c.UseRoutes(rt.URL)

	sess, err := c.InitiateSession(context.Background(), SessionRequest{Amount: 10})
	require.NoError(t, err)

	assert.Equal(t, "https://api.test/api/v2/pay/done/"+sess.TransactionID, got["success_url"])
	assert.Equal(t, "https://api.test/api/v2/pay/broke/"+sess.TransactionID, got["fail_url"])
	assert.Equal(t, got["fail_url"], got["cancel_url"])
}

func TestNewTransactionIDsAreUnique(t *testing.T) {
	a, b := NewTransactionID(), NewTransactionID()
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "trx-"))
}

func TestLiveFlagPicksEndpoint(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, sandboxURL, NewClient(cfg).endpoint)

	cfg.Live = true
	assert.Equal(t, liveURL, NewClient(cfg).endpoint)
}
