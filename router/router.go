package router

import (
	"net/http"

	"github.com/devleo10/dishly/config"
	"github.com/devleo10/dishly/controllers"
	"github.com/devleo10/dishly/kds"
	"github.com/devleo10/dishly/middlewares"
	"github.com/devleo10/dishly/models"
	"github.com/devleo10/dishly/services"
	"github.com/devleo10/dishly/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const APIVersion = "1.0.0"

// Dependencies is everything the route table needs. A nil Hub gets a fresh
// one and a nil Events publishes to the hub only.
type Dependencies struct {
	Config *config.Config
	DB     *gorm.DB
	Tokens *utils.TokenManager
	Hub    *kds.Hub
	Events kds.Publisher
}

func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if deps.Hub == nil {
		deps.Hub = kds.NewHub()
	}
	events := deps.Events
	if events == nil {
		events = deps.Hub
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders(cfg.IsProduction()))
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigins))

	if cfg.FrontendDir != "" {
		r.Static("/app", cfg.FrontendDir)
	}

	authCtrl := controllers.NewAuthController(services.NewAuthService(deps.DB, deps.Tokens, cfg.BcryptCost))
	userCtrl := controllers.NewUserController(services.NewUserService(deps.DB))
	catalogCtrl := controllers.NewCatalogController(services.NewCatalogService(deps.DB))
	orderCtrl := controllers.NewOrderController(services.NewOrderService(deps.DB, events))
	checkoutCtrl := controllers.NewCheckoutController(services.NewCheckoutService(deps.DB, events))
	paymentCtrl := controllers.NewPaymentMethodController(services.NewPaymentMethodService(deps.DB))
	kdsCtrl := controllers.NewKDSController(deps.Hub, cfg.CORSOrigins)

	requireAuth := middlewares.AuthMiddleware(deps.Tokens)
	staffOnly := func(action string) gin.HandlerFunc {
		return middlewares.RequireRoles(action, models.RoleAdmin, models.RoleManager)
	}
	adminOnly := func(action string) gin.HandlerFunc {
		return middlewares.RequireRoles(action, models.RoleAdmin)
	}

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Dishly API", "version": APIVersion})
	})
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	limiter := middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	auth := r.Group("/auth")
	auth.Use(limiter.RateLimit())
	{
		auth.POST("/register", authCtrl.Register)
		auth.POST("/login", authCtrl.Login)
		auth.GET("/profile", requireAuth, authCtrl.Profile)
	}

	r.GET("/restaurants", catalogCtrl.ListRestaurants)
	r.GET("/restaurants/:id", catalogCtrl.GetRestaurant)
	r.GET("/restaurants/:id/menu-items", catalogCtrl.ListMenuItems)
	r.GET("/menu-items/:id", catalogCtrl.GetMenuItem)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	// Role guards run before the id is parsed, so a member sending a
	// malformed id to a staff route still gets 403.
	users := r.Group("/users", requireAuth, adminOnly("view users"))
	{
		users.GET("", userCtrl.ListUsers)
		users.GET("/:id", userCtrl.GetUser)
	}

	orders := r.Group("/orders", requireAuth)
	{
		orders.GET("", orderCtrl.ListOrders)
		orders.POST("", orderCtrl.CreateOrder)
		orders.GET("/:id", orderCtrl.GetOrder)
		orders.PATCH("/:id/cancel", staffOnly("cancel orders"), orderCtrl.CancelOrder)
	}

	r.POST("/checkout", requireAuth, staffOnly("checkout"), checkoutCtrl.Checkout)

	payments := r.Group("/payment-methods", requireAuth)
	{
		payments.GET("", paymentCtrl.ListPaymentMethods)
		payments.GET("/:id", paymentCtrl.GetPaymentMethod)
		payments.POST("", adminOnly("add payment methods"), paymentCtrl.CreatePaymentMethod)
		payments.PATCH("/:id", adminOnly("update payment methods"), paymentCtrl.UpdatePaymentMethod)
		payments.DELETE("/:id", adminOnly("delete payment methods"), paymentCtrl.DeletePaymentMethod)
	}

	// WebSocket endpoint with token in the query string
	ws := r.Group("/ws", middlewares.WebSocketAuthMiddleware(deps.Tokens))
	{
		ws.GET("/orders", staffOnly("watch the order stream"), kdsCtrl.Stream)
	}

	return r
}
