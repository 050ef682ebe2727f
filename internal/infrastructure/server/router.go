package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/account-api/internal/adapter/handler"
	"github.com/marcos-nsantos/account-api/internal/infrastructure/middleware"
)

type Router struct {
	engine         *gin.Engine
	accountHandler *handler.AccountHandler
	authMiddleware *middleware.AuthMiddleware
	logger         *zap.Logger
	allowedOrigins []string
}

type RouterConfig struct {
	AccountHandler *handler.AccountHandler
	AuthMiddleware *middleware.AuthMiddleware
	Logger         *zap.Logger
	Environment    string
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) *Router {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:         gin.New(),
		accountHandler: cfg.AccountHandler,
		authMiddleware: cfg.AuthMiddleware,
		logger:         cfg.Logger,
		allowedOrigins: cfg.AllowedOrigins,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.CORS(r.allowedOrigins))
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	requireAuth := r.authMiddleware.RequireAuth()

	auth := r.engine.Group("/auth")
	{
		auth.POST("/signup", r.accountHandler.Signup)
		auth.POST("/login", r.accountHandler.Login)
		auth.POST("/passwordReset", requireAuth, r.accountHandler.PasswordReset)
		auth.POST("/updateAccountDetails", requireAuth, r.accountHandler.UpdateAccountDetails)
		auth.POST("/logout", requireAuth, r.accountHandler.Logout)
	}

	r.engine.GET("/user", requireAuth, r.accountHandler.Me)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
