package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/moneta-app/moneta-server/internal/interface/http"
	"github.com/moneta-app/moneta-server/internal/interface/middleware"
	"github.com/moneta-app/moneta-server/pkg/helpers"
)

// TransactionModule wires the transaction CRUD and aggregation routes.
// Every route sits behind the auth guard; handlers only ever see records
// scoped to the authenticated user.
type TransactionModule struct {
	Handler *handlers.TransactionHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewTransactionModule(h *handlers.TransactionHandler, jwt *helpers.JWTManager, rdb *redis.Client) *TransactionModule {
	return &TransactionModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *TransactionModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/transactions", m.Handler.List)
		auth.GET("/transactions/breakdown", m.Handler.Breakdown)
		auth.GET("/transactions/:id", m.Handler.Get)
		auth.POST("/transactions", m.Handler.Create)
		auth.PUT("/transactions/:id", m.Handler.Update)
		auth.DELETE("/transactions/:id", m.Handler.Delete)
	}
}
