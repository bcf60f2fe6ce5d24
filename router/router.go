package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/steakz-restaurant/config"
	"github.com/yeremiapane/steakz-restaurant/controllers"
	"github.com/yeremiapane/steakz-restaurant/kds"
	"github.com/yeremiapane/steakz-restaurant/middlewares"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/services"
	"github.com/yeremiapane/steakz-restaurant/utils"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type Options struct {
	DB     *gorm.DB
	Config *config.Config
	Hub    *kds.Hub
	Tokens *utils.TokenIssuer
	// Limiters are created from Config when nil.
	APILimiter  *middlewares.RateLimiter
	AuthLimiter *middlewares.RateLimiter
}

func SetupRouter(opts Options) *gin.Engine {
	cfg := opts.Config
	if opts.APILimiter == nil {
		opts.APILimiter = middlewares.NewRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	}
	if opts.AuthLimiter == nil {
		opts.AuthLimiter = middlewares.NewStrictRateLimiter(cfg.RateLimit.AuthPerMinute)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORS.AllowedOrigins))
	r.Use(opts.APILimiter.RateLimit())
	r.NoRoute(utils.NotFound)

	restaurant := models.RestaurantInfo{
		Name:    cfg.Restaurant.Name,
		Address: cfg.Restaurant.Address,
		Phone:   cfg.Restaurant.Phone,
	}
	orderSvc := services.NewOrderService(opts.DB)
	cartSvc := services.NewCartService(opts.DB, orderSvc)
	paymentSvc := services.NewPaymentService(orderSvc)
	receiptSvc := services.NewReceiptService(orderSvc, restaurant)
	reservationSvc := services.NewReservationService(opts.DB)
	analyticsSvc := services.NewAnalyticsService(opts.DB)

	userCtrl := controllers.NewUserController(opts.DB, opts.Tokens)
	menuCtrl := controllers.NewMenuController(opts.DB)
	branchCtrl := controllers.NewBranchController(opts.DB)
	cartCtrl := controllers.NewCartController(cartSvc)
	orderCtrl := controllers.NewOrderController(orderSvc, paymentSvc)
	receiptCtrl := controllers.NewReceiptController(receiptSvc)
	reservationCtrl := controllers.NewReservationController(reservationSvc)
	adminCtrl := controllers.NewAdminController(analyticsSvc)
	kdsCtrl := controllers.NewKDSController(opts.Hub, cfg.CORS.AllowedOrigins)

	auth := middlewares.AuthMiddleware(opts.Tokens)
	managers := []models.Role{models.RoleAdmin, models.RoleHeadquarterManager}

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	public := r.Group("/auth")
	{
		public.POST("/signup", opts.AuthLimiter.RateLimit(), userCtrl.Signup)
		public.POST("/login", opts.AuthLimiter.RateLimit(), userCtrl.Login)
		public.POST("/logout", auth, userCtrl.Logout)
	}

	r.GET("/ws/orders", middlewares.WebSocketAuthMiddleware(opts.Tokens), kdsCtrl.OrdersSocket)

	api := r.Group("/api")
	api.GET("/menu", menuCtrl.GetMenu)
	api.GET("/menu/category/:category", menuCtrl.GetMenuByCategory)
	api.GET("/menu/:id", menuCtrl.GetMenuItem)
	api.GET("/branches", branchCtrl.GetBranches)
	api.GET("/branches/:id", branchCtrl.GetBranch)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	authed := api.Group("")
	authed.Use(auth)

	authed.GET("/users/me", userCtrl.Me)

	// MENU and BRANCH management
	authed.POST("/menu", middlewares.RequireRoles(managers...), menuCtrl.CreateMenuItem)
	authed.PUT("/menu/:id", middlewares.RequireRoles(managers...), menuCtrl.UpdateMenuItem)
	authed.DELETE("/menu/:id", middlewares.RequireRoles(managers...), menuCtrl.DeleteMenuItem)
	authed.POST("/branches", middlewares.RequireRoles(models.RoleAdmin), branchCtrl.CreateBranch)

	// CART
	cart := authed.Group("/cart")
	{
		cart.GET("", cartCtrl.GetCart)
		cart.POST("/add", cartCtrl.AddItem)
		cart.PUT("/items/:id", cartCtrl.UpdateItem)
		cart.DELETE("/items/:id", cartCtrl.RemoveItem)
		cart.DELETE("/clear", cartCtrl.Clear)
		cart.POST("/checkout", cartCtrl.Checkout)
	}

	// ORDERS
	orders := authed.Group("/orders")
	{
		orders.POST("", orderCtrl.CreateOrder)
		orders.GET("", middlewares.RequireStaff(), orderCtrl.GetOrders)
		orders.GET("/my", orderCtrl.GetMyOrders)
		orders.GET("/events", orderCtrl.GetEvents)
		orders.GET("/status/:status", middlewares.RequireStaff(), orderCtrl.GetOrdersByStatus)
		orders.GET("/:id", orderCtrl.GetOrderByID)
		orders.PATCH("/:id/status", middlewares.RequireStaff(), orderCtrl.UpdateOrderStatus)
		orders.PATCH("/:id/cancel", orderCtrl.CancelOrder)
		orders.PATCH("/:id/payment-completed", middlewares.RequireStaff(), orderCtrl.MarkPaymentCompleted)
		orders.POST("/:id/receipt", middlewares.ReceiptLogger(), receiptCtrl.GenerateReceipt)
		orders.GET("/:id/receipt.pdf", middlewares.ReceiptLogger(), receiptCtrl.DownloadPDF)
	}

	// RESERVATIONS
	reservations := authed.Group("/reservations")
	{
		reservations.POST("", reservationCtrl.CreateReservation)
		reservations.GET("/my", reservationCtrl.GetMyReservations)
		reservations.GET("", middlewares.RequireStaff(), reservationCtrl.GetReservations)
		reservations.PATCH("/:id/status", middlewares.RequireStaff(), reservationCtrl.UpdateReservationStatus)
		reservations.PATCH("/:id/cancel", reservationCtrl.CancelReservation)
	}
	authed.GET("/branch/:id/orders-and-reservations", middlewares.RequireStaff(), reservationCtrl.GetBranchOverview)

	// ANALYTICS
	analytics := authed.Group("/analytics")
	analytics.Use(middlewares.RequireRoles(models.RoleAdmin, models.RoleHeadquarterManager, models.RoleBranchManager))
	{
		analytics.GET("", adminCtrl.GetAnalytics)
		analytics.GET("/revenue.png", adminCtrl.GetRevenueChart)
	}

	return r
}
