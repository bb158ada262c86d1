package router

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/moneta-app/moneta-server/config"
	"github.com/moneta-app/moneta-server/internal/application"
	pginfra "github.com/moneta-app/moneta-server/internal/infrastructure/postgres"
	handlers "github.com/moneta-app/moneta-server/internal/interface/http"
	"github.com/moneta-app/moneta-server/internal/router/modules"
	"github.com/moneta-app/moneta-server/pkg/helpers"
)

// Deps carries the infrastructure singletons built in main. Modules receive
// everything through constructors; there is no process-wide registry.
type Deps struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	JWT    *helpers.JWTManager
}

// InitModules wires repositories, services and handlers and registers every
// feature module with the router registry. Called once during startup.
func InitModules(r *Registry, d Deps) {
	users := pginfra.NewUserRepository(d.Pool)
	transactions := pginfra.NewTransactionRepository(d.Pool)

	authSvc := application.NewAuthService(users, d.JWT, d.Logger)
	txSvc := application.NewTransactionService(transactions, d.Logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, d.Logger), d.JWT, d.Redis))
	r.Add(modules.NewTransactionModule(handlers.NewTransactionHandler(txSvc, d.Logger), d.JWT, d.Redis))
	r.Add(modules.NewHealthModule())
}
