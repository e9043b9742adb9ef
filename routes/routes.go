package routes

import (
	"log"
	"time"

	"ecofinds/config"
	"ecofinds/controllers"
	"ecofinds/middleware"
	"ecofinds/models"
	"ecofinds/repositories"
	"ecofinds/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRoutes(router *gin.Engine) {
	userRepo := repositories.NewUserRepository()
	productRepo := repositories.NewProductRepository()
	orderRepo := repositories.NewOrderRepository()
	securityRepo := repositories.NewSecurityRepository()

	var slots services.CartSlots
	if models.RedisClient != nil {
		slots = repositories.NewRedisCartSlots(models.RedisClient)
	} else {
		slots = repositories.NewMemoryCartSlots()
	}

	window, err := time.ParseDuration(config.AppConfig.VerifyWindow)
	if err != nil {
		window = 15 * time.Minute
	}
	var limiter services.AttemptLimiter
	if models.RedisClient != nil {
		limiter = repositories.NewRedisAttemptLimiter(models.RedisClient, window)
	} else {
		limiter = repositories.NewMemoryAttemptLimiter(window)
	}

	var storage services.StorageResolver
	cloudinarySvc, err := models.NewCloudinaryService()
	if err != nil {
		log.Printf("Cloudinary disabled: %v", err)
		cloudinarySvc = nil
	} else {
		storage = cloudinarySvc
	}

	emailSvc, err := models.NewEmailService()
	if err != nil {
		log.Printf("Email disabled: %v", err)
		emailSvc = nil
	}

	hub := services.NewCartHub()
	cartSvc := services.NewCartService(slots, hub)
	productSvc := services.NewProductService(productRepo, userRepo, storage)
	checkoutSvc := services.NewCheckoutService(cartSvc, orderRepo)
	securitySvc := services.NewSecurityService(securityRepo, limiter, config.AppConfig.VerifyAttempts)

	authCtrl := controllers.NewAuthController(userRepo, securitySvc, emailSvc)
	productCtrl := controllers.NewProductController(productSvc)
	cartCtrl := controllers.NewCartController(cartSvc, productSvc, hub)
	orderCtrl := controllers.NewOrderController(checkoutSvc, orderRepo, userRepo, emailSvc)
	securityCtrl := controllers.NewSecurityController(securitySvc)
	fileCtrl := controllers.NewFileController(cloudinarySvc)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	router.POST("/auth/otp/request", authCtrl.RequestOTP)
	router.POST("/auth/otp/verify", authCtrl.VerifyOTP)
	router.POST("/auth/anonymous", authCtrl.SignInAnonymous)

	router.GET("/products", productCtrl.List)
	router.GET("/products/:id", productCtrl.GetByID)

	// Cart and session work for signed-in and anonymous callers alike.
	optional := router.Group("/")
	optional.Use(middleware.OptionalAuthMiddleware())
	{
		optional.GET("/auth/session", authCtrl.GetSession)

		optional.GET("/cart", cartCtrl.GetCart)
		optional.DELETE("/cart", cartCtrl.ClearCart)
		optional.POST("/cart/items", cartCtrl.AddItem)
		optional.PATCH("/cart/items/:productId", cartCtrl.SetQuantity)
		optional.DELETE("/cart/items/:productId", cartCtrl.RemoveItem)
		optional.GET("/cart/events", cartCtrl.StreamEvents)
	}

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.GET("/security/me", securityCtrl.GetStatus)
		auth.POST("/security/password", securityCtrl.SetPassword)
		auth.POST("/security/verify", securityCtrl.VerifyPassword)
	}

	// Everything past the password gate.
	gated := router.Group("/")
	gated.Use(middleware.AuthMiddleware(), middleware.GateMiddleware())
	{
		gated.GET("/me/products", productCtrl.GetMyProducts)
		gated.POST("/products", productCtrl.Create)
		gated.PATCH("/products/:id", productCtrl.Update)
		gated.DELETE("/products/:id", productCtrl.Delete)

		gated.POST("/orders/checkout", orderCtrl.Checkout)
		gated.POST("/orders", orderCtrl.CreateOrder)
		gated.GET("/orders", orderCtrl.GetOrders)

		gated.POST("/files/upload-url", fileCtrl.GenerateUploadURL)
		gated.POST("/files/upload", fileCtrl.Upload)
	}
}
