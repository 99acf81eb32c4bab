package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/davidalade/wallet-ledger/internal/api/handler"
	"github.com/davidalade/wallet-ledger/internal/api/middleware"
	"github.com/davidalade/wallet-ledger/internal/api/spec"
	"github.com/davidalade/wallet-ledger/internal/cache"
	"github.com/davidalade/wallet-ledger/internal/config"
	"github.com/davidalade/wallet-ledger/internal/domain"
	"github.com/davidalade/wallet-ledger/internal/gateway"
	"github.com/davidalade/wallet-ledger/internal/repository"
	"github.com/davidalade/wallet-ledger/internal/service"
)

type Router struct {
	cfg    *config.Config
	db     *pgxpool.Pool
	redis  redis.Cmdable
	store  *repository.Store
	gw     gateway.Gateway
	logger *zap.Logger
}

func NewRouter(cfg *config.Config, db *pgxpool.Pool, redisClient redis.Cmdable, store *repository.Store, gw gateway.Gateway, logger *zap.Logger) *Router {
	return &Router{
		cfg:    cfg,
		db:     db,
		redis:  redisClient,
		store:  store,
		gw:     gw,
		logger: logger,
	}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.RecoverMiddleware(api.logger))
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)

	balanceCache := cache.NewBalanceCache(api.redis, api.cfg.BalanceCacheTTL)

	// Services
	walletSvc := service.NewWalletService(api.store, balanceCache)
	depositSvc := service.NewDepositService(api.store, api.gw, api.cfg.DepositMinKobo)
	transferSvc := service.NewTransferService(api.store, balanceCache, api.cfg.TransferMinKobo)
	withdrawSvc := service.NewWithdrawService(api.store, balanceCache, api.cfg.WithdrawMinKobo)
	webhookSvc := service.NewWebhookService(api.store, api.gw, balanceCache)

	// Handlers
	walletHandler := handler.NewWalletHandler(walletSvc, depositSvc, transferSvc, withdrawSvc)
	webhookHandler := handler.NewWebhookHandler(webhookSvc)
	healthHandler := handler.NewHealthHandler(api.db, api.redis)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.PublicRateLimiter(api.cfg.PublicRateLimitRPS))

		r.Post("/v1/webhooks/paystack", webhookHandler.HandlePaystackWebhook)
		r.Get("/healthz", healthHandler.Live)
		r.Get("/readyz", healthHandler.Ready)
		r.Get("/openapi.yaml", spec.OpenAPIHandler())
	})

	r.Handle("/metrics", promhttp.Handler())

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)
		r.Use(middleware.AuthRateLimiter(api.cfg.AuthRateLimitRPS))

		r.Post("/v1/wallet", walletHandler.CreateWallet)
		r.With(middleware.RequirePermission(domain.PermissionRead)).Get("/v1/wallet/balance", walletHandler.GetBalance)
		r.With(middleware.RequirePermission(domain.PermissionDeposit)).Post("/v1/wallet/deposit", walletHandler.InitiateDeposit)
		r.With(middleware.RequirePermission(domain.PermissionTransfer)).Post("/v1/wallet/transfer", walletHandler.Transfer)
		r.With(middleware.RequirePermission(domain.PermissionWithdraw)).Post("/v1/wallet/withdraw", walletHandler.Withdraw)
		r.With(middleware.RequirePermission(domain.PermissionRead)).Get("/v1/wallet/transactions", walletHandler.GetTransactions)
		r.With(middleware.RequirePermission(domain.PermissionRead)).Get("/v1/wallet/transactions/{reference}/status", walletHandler.GetTransactionStatus)
	})

	return r
}
