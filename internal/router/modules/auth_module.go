package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/moneta-app/moneta-server/internal/interface/http"
	"github.com/moneta-app/moneta-server/internal/interface/middleware"
	"github.com/moneta-app/moneta-server/pkg/helpers"
)

// AuthModule wires authentication and profile routes.
// Public: POST /api/auth/signup, POST /api/auth/login
// Protected: GET /api/profile/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	signupLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/profile/me", m.Handler.Me)
	}
}
