package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/vendora/internal/addresses"
	"github.com/angelmondragon/vendora/internal/cards"
	"github.com/angelmondragon/vendora/internal/carts"
	"github.com/angelmondragon/vendora/internal/catalog"
	"github.com/angelmondragon/vendora/internal/integrity"
	"github.com/angelmondragon/vendora/internal/notifications"
	"github.com/angelmondragon/vendora/internal/orders"
	"github.com/angelmondragon/vendora/internal/products"
	"github.com/angelmondragon/vendora/internal/reviews"
	"github.com/angelmondragon/vendora/internal/saved"
	"github.com/angelmondragon/vendora/internal/shops"
	"github.com/angelmondragon/vendora/internal/users"
	"github.com/angelmondragon/vendora/pkg/config"
	"github.com/angelmondragon/vendora/pkg/db"
	"github.com/angelmondragon/vendora/pkg/logger"
	"github.com/angelmondragon/vendora/pkg/metrics"
	"github.com/angelmondragon/vendora/pkg/migrate"
	"github.com/angelmondragon/vendora/pkg/redis"
	"github.com/angelmondragon/vendora/pkg/security"
)

// App holds the shared resources and every domain service.
type App struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      *db.Client
	Redis   *redis.Client
	Metrics *metrics.IntegrityMetrics
	Store   *integrity.Store

	Users         users.Service
	Shops         shops.Service
	Products      products.Service
	Reviews       reviews.Service
	Addresses     addresses.Service
	Cards         cards.Service
	Carts         carts.Service
	Saved         saved.Service
	Notifications notifications.Service
	Orders        orders.Service
	Catalog       *catalog.Service
}

// New connects to the database (and Redis when configured), runs dev
// migrations and wires the services. reg may be nil to skip metrics.
func New(ctx context.Context, cfg *config.Config, logg *logger.Logger, reg prometheus.Registerer) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if logg == nil {
		logg = logger.Nop()
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap database: %w", err)
	}
	a := &App{Config: cfg, Logger: logg, DB: dbClient, Metrics: metrics.NewIntegrityMetrics(reg)}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return nil, multierr.Append(fmt.Errorf("dev migrations: %w", err), a.Close())
	}

	storeParams := integrity.Params{
		DB:               dbClient,
		Logger:           logg,
		Metrics:          a.Metrics,
		OperationTimeout: cfg.Store.OperationTimeout,
	}
	if cfg.Redis.Enabled() {
		a.Redis, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("bootstrap redis: %w", err), a.Close())
		}
		locker, err := redis.NewKeyLocker(a.Redis, cfg.Store.LockTTL)
		if err != nil {
			return nil, multierr.Append(err, a.Close())
		}
		storeParams.Locker = locker
	} else {
		logg.Warn(ctx, "redis not configured; running without cross-process locks")
	}

	if a.Store, err = integrity.New(storeParams); err != nil {
		return nil, multierr.Append(err, a.Close())
	}
	if err := a.wireServices(); err != nil {
		return nil, multierr.Append(err, a.Close())
	}
	return a, nil
}

func (a *App) wireServices() error {
	conn := a.DB.DB()
	var errs error
	var err error

	a.Users, err = users.NewService(users.ServiceParams{
		Store:  a.Store,
		Repo:   users.NewRepository(conn),
		Hasher: security.NewHasher(a.Config.Password),
		Logger: a.Logger,
	})
	errs = multierr.Append(errs, err)

	a.Shops, err = shops.NewService(a.Store, shops.NewRepository(conn))
	errs = multierr.Append(errs, err)
	a.Products, err = products.NewService(a.Store, products.NewRepository(conn))
	errs = multierr.Append(errs, err)
	a.Reviews, err = reviews.NewService(a.Store, reviews.NewRepository(conn))
	errs = multierr.Append(errs, err)
	a.Addresses, err = addresses.NewService(a.Store, addresses.NewRepository(conn))
	errs = multierr.Append(errs, err)
	a.Cards, err = cards.NewService(a.Store, cards.NewRepository(conn))
	errs = multierr.Append(errs, err)
	a.Carts, err = carts.NewService(a.Store, carts.NewRepository(conn))
	errs = multierr.Append(errs, err)
	a.Saved, err = saved.NewService(a.Store, conn)
	errs = multierr.Append(errs, err)
	a.Notifications, err = notifications.NewService(a.Store, notifications.NewRepository(conn))
	errs = multierr.Append(errs, err)

	orderParams := orders.ServiceParams{Store: a.Store, Repo: orders.NewRepository(conn), Logger: a.Logger}
	if a.Redis != nil {
		orderParams.Counter = a.Redis
	}
	a.Orders, err = orders.NewService(orderParams)
	errs = multierr.Append(errs, err)

	a.Catalog = catalog.NewService(conn)
	return errs
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	var errs error
	if a.Redis != nil {
		errs = multierr.Append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = multierr.Append(errs, a.DB.Close())
	}
	return errs
}
