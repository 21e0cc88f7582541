package httptransport

import (
	"log/slog"

	"github.com/akmatoff/auth-api/internal/auth"
	"github.com/akmatoff/auth-api/internal/transport/http/handler"
	"github.com/akmatoff/auth-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, tokens *auth.TokenService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authorized := middleware.Authorized(tokens)

	api := r.Group("/auth")
	api.GET("/", authHandler.Welcome)
	api.POST("/signup", authHandler.Signup)
	api.POST("/login", authHandler.Login)

	// Protected user routes
	users := api.Group("/users", authorized)
	users.GET("", authHandler.ListUsers)
	users.GET("/:id", authHandler.FindUser)

	return r
}
