// Package server assembles the HTTP API: middleware, routes and swagger UI.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "mykhata/internal/docs" // swagger docs
	"mykhata/internal/handlers"
	"mykhata/internal/middleware"
	"mykhata/internal/services"
	"mykhata/internal/session"
	"mykhata/internal/store"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Users   services.UserServicer
	Ledger  services.LedgerServicer
	Reports services.ReportServicer

	Sessions *session.Manager
}

// NewDeps wires the services on top of an opened store.
func NewDeps(stores *store.Stores, sessions *session.Manager) Deps {
	ledger := services.NewLedgerService(stores.Ledger, stores.Credentials)
	return Deps{
		Users:    services.NewUserService(stores.Credentials),
		Ledger:   ledger,
		Reports:  services.NewReportService(ledger),
		Sessions: sessions,
	}
}

// NewRouter returns the gin engine serving the API.
func NewRouter(d Deps) *gin.Engine {
	authHandler := handlers.NewAuthHandler(d.Users, d.Sessions)
	transactionHandler := handlers.NewTransactionHandler(d.Ledger)
	reportHandler := handlers.NewReportHandler(d.Reports)
	categoryHandler := handlers.NewCategoryHandler()

	router := gin.New()
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())
	router.Use(cors())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	v1.GET("/categories", categoryHandler.ListCategories)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(d.Sessions))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/profile", authHandler.GetProfile)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)

	protected.GET("/summary", reportHandler.GetSummary)
	protected.GET("/chart", reportHandler.GetChart)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
