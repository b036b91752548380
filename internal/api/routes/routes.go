package routes

import (
	"core-banking-ledger/internal/api/handlers"
	"core-banking-ledger/internal/api/middleware"
	"core-banking-ledger/internal/config"
	"core-banking-ledger/internal/infrastructure/events"
	"core-banking-ledger/internal/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Register wires every spec §4.1/§4.4/§4.5 operation onto its HTTP route.
func Register(router *gin.Engine, deps *handlers.Dependencies, broker *events.Broker, limiter *ratelimit.Limiter, cfg *config.Config) {
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimit(limiter))
	router.Use(middleware.Prometheus())

	router.POST("/accounts", deps.CreateAccount)
	router.GET("/accounts/:id", deps.GetAccount)
	router.POST("/accounts/:id/deposit", deps.Deposit)
	router.POST("/accounts/:id/withdraw", deps.Withdraw)
	router.POST("/transfer", deps.Transfer)

	router.GET("/transactions/:id", deps.GetTransaction)

	router.GET("/users/:id/statement", deps.CustomerStatement)
	router.GET("/users/:id/history", deps.History)
	router.GET("/accounts/:id/mini-statement", deps.MiniStatement)

	router.GET("/reports/balance-sheet", deps.BalanceSheet)
	router.GET("/reports/integrity", deps.LedgerIntegrityCheck)
	router.GET("/reports/flagged-transactions", deps.FlaggedTransactions)

	admin := router.Group("/admin")
	admin.POST("/accounts", deps.CreateAccountForUser)
	admin.POST("/accounts/:id/freeze", deps.FreezeAccount)
	admin.POST("/accounts/:id/close", deps.CloseAccount)
	admin.PATCH("/users/:id/kyc", deps.SetKYCStatus)
	admin.PATCH("/users/:id/active", deps.SetUserActive)
	admin.GET("/users", deps.ListUsers)
	admin.GET("/accounts", deps.ListAccounts)
	admin.GET("/transactions", deps.ListTransactions)
	admin.GET("/audit-logs", deps.ListAuditLogs)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/events", deps.Events(broker))
}
