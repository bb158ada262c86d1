package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/moneta-app/moneta-server/internal/interface/http"
)

// HealthModule exposes the liveness endpoint under the API prefix. The
// unprefixed alias is registered on the engine in main.
type HealthModule struct{}

func NewHealthModule() *HealthModule { return &HealthModule{} }

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", handlers.Health)
}
