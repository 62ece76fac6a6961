package routes

import (
	"net/http"

	"github.com/shashiranjanraj/bazaar/app/controllers"
	"github.com/shashiranjanraj/bazaar/app/gateway"
	"github.com/shashiranjanraj/bazaar/app/media"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/response"
	"github.com/shashiranjanraj/bazaar/pkg/router"
)

// RegisterAPI mounts every route. The media store and gateway client are
// built once at boot and threaded through here.
func RegisterAPI(r *router.Router, store media.Store, gw *gateway.Client) {
	productC := controllers.NewProductController(services.NewProductService(store))
	checkoutC := controllers.NewCheckoutController(services.NewCheckoutService(gw, config.ClientURL()))
	uploadC := controllers.NewUploadController(services.NewUploadService(store))
	authC := controllers.NewAuthController(services.NewAuthService())

	r.Get("/", "welcome", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, "Welcome to bazaar", nil)
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	// Standalone scratch upload collection; unrelated to the catalog.
	r.Post("/create-img", "upload.create", uploadC.Create)
	r.Get("/get-img", "upload.list", uploadC.List)

	api := r.Group("/api")

	api.Post("/auth/register", "auth.register", authC.Register)
	api.Post("/auth/login", "auth.login", authC.Login)

	product := api.Group("/product")

	// Catalog writes need a token; reads are public.
	product.Post("/create", "product.create", productC.Create, middleware.Auth)
	product.Put("/update/{pid}", "product.update", productC.Update, middleware.Auth)
	product.Delete("/delete/{pid}", "product.delete", productC.Delete, middleware.Auth)

	product.Get("/get-all", "product.all", productC.GetAll)
	product.Get("/get-single/{slug}", "product.single", productC.GetSingle)
	product.Post("/product-filters", "product.filters", productC.Filters)
	product.Get("/product-count", "product.count", productC.Count)
	product.Get("/product-list/{page}", "product.list", productC.List)
	product.Get("/search/{keyword}", "product.search", productC.Search)
	product.Get("/related-product/{pid}/{cid}", "product.related", productC.Related)
	product.Get("/product-category/{slug}", "product.category", productC.CategoryProducts)

	product.Post("/order-checkout", "order.checkout", checkoutC.Checkout, middleware.Auth)
	product.Post("/order-checkout-without-payment", "order.cod", checkoutC.CheckoutCOD, middleware.Auth)
	product.Get("/orders", "order.mine", checkoutC.Orders, middleware.Auth)
	product.Delete("/cancel-order/{oid}", "order.cancel", checkoutC.CancelOrder)

	// Gateway callbacks; the gateway posts here, so no auth.
	product.Post("/payment/success/{trx_id}", gateway.RouteSuccess, checkoutC.PaymentSuccess)
	product.Post("/payment/fail/{trx_id}", gateway.RouteFail, checkoutC.PaymentFail)
}
