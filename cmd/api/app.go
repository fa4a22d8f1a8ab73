package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/cihwallet/wallet-api/internal/config"
	"github.com/cihwallet/wallet-api/internal/domain/account"
	"github.com/cihwallet/wallet-api/internal/domain/bnpl"
	"github.com/cihwallet/wallet-api/internal/domain/borrow"
	"github.com/cihwallet/wallet-api/internal/domain/creditscore"
	"github.com/cihwallet/wallet-api/internal/domain/ledger"
	"github.com/cihwallet/wallet-api/internal/domain/otp"
	"github.com/cihwallet/wallet-api/internal/domain/pending"
	"github.com/cihwallet/wallet-api/internal/domain/seed"
	"github.com/cihwallet/wallet-api/internal/middleware"
	"github.com/cihwallet/wallet-api/internal/pkg/codehash"
	"github.com/cihwallet/wallet-api/internal/pkg/response"
)

type app struct {
	cfg *config.Config

	accountRepo    account.Repository
	accountService *account.Service
	ledgerService  *ledger.Service
	bnplManager    *bnpl.Manager
	creditService  *creditscore.Service
	borrowService  *borrow.Service
	otpRegistry    *otp.Registry
	sweeper        *pending.Sweeper
}

// newApp wires repositories and services. A nil db keeps accounts, journal and plans
// in memory; a nil redis client keeps pending operations and codes in memory.
func newApp(cfg *config.Config, db *sqlx.DB, rdb *redis.Client) *app {
	a := &app{cfg: cfg}

	var (
		journal    ledger.Journal
		planRepo   bnpl.Repository
		borrowRepo borrow.Repository
	)
	if db != nil {
		a.accountRepo = account.NewPostgresRepository(db)
		journal = ledger.NewPostgresJournal(db)
		planRepo = bnpl.NewPostgresRepository(db)
		borrowRepo = borrow.NewPostgresRepository(db)
	} else {
		a.accountRepo = account.NewMemoryRepository()
		journal = ledger.NewMemoryJournal()
		planRepo = bnpl.NewMemoryRepository()
		borrowRepo = borrow.NewMemoryRepository()
	}

	var (
		otpRepo otp.Repository
		opsRepo pending.Repository
	)
	if rdb != nil {
		otpRepo = otp.NewRedisRepository(rdb)
		opsRepo = pending.NewRedisRepository(rdb)
	} else {
		otpRepo = otp.NewMemoryRepository()
		memOps := pending.NewMemoryRepository()
		opsRepo = memOps
		a.sweeper = pending.NewSweeper(memOps, cfg.SweepInterval)
	}

	// ---------- Services ----------
	a.otpRegistry = otp.NewRegistry(otpRepo, codehash.New(cfg.OTPHashCost), otp.LogNotifier{RevealCode: cfg.IsDevelopment()}, otp.Config{TTL: cfg.OTPTTL})
	a.accountService = account.NewService(a.accountRepo, a.otpRegistry).WithDraftTTL(cfg.OTPTTL)
	a.ledgerService = ledger.NewService(a.accountRepo, a.otpRegistry, opsRepo, journal, ledger.Config{
		PendingTTL: cfg.PendingTTL,
		Currency:   cfg.Currency,
		EchoOTP:    cfg.OTPEcho,
	})

	// ---------- Adapters ----------
	charger := &walletCharger{accounts: a.accountRepo, ledger: a.ledgerService}

	a.bnplManager = bnpl.NewManager(planRepo, charger)
	a.creditService = creditscore.NewService(a.accountRepo, a.ledgerService, a.bnplManager)
	a.borrowService = borrow.NewService(borrowRepo, a.accountRepo, a.ledgerService)

	return a
}

func (a *app) router() http.Handler {
	// ---------- Handlers ----------
	accountHandler := account.NewHandler(a.accountService, a.cfg.OTPEcho)
	ledgerHandler := ledger.NewHandler(a.ledgerService)
	otpHandler := otp.NewHandler(a.otpRegistry, a.cfg.OTPEcho)
	bnplHandler := bnpl.NewHandler(a.bnplManager)
	creditHandler := creditscore.NewHandler(a.creditService)
	borrowHandler := borrow.NewHandler(a.borrowService)
	demoHandler := seed.NewHandler(a.accountRepo)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(a.cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"storage": a.cfg.StorageDriver,
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/wallets", func(r chi.Router) {
			r.Post("/precreate", accountHandler.Precreate)
			r.Post("/activate", accountHandler.Activate)
			r.Post("/clientinfo", accountHandler.ClientInfo)
			r.Get("/{contractID}/balance", ledgerHandler.Balance)
			r.Get("/{contractID}/transactions", ledgerHandler.Transactions)
		})
		r.Mount("/merchants", accountHandler.MerchantRoutes())
		r.Mount("/otp", otpHandler.Routes())
		r.Mount("/operations", ledgerHandler.OperationRoutes())
		r.Get("/analytics/{contractID}/spending", ledgerHandler.Spending)
		r.Get("/analytics/{contractID}/transactions", ledgerHandler.TransactionSummary)
		r.Mount("/bnpl", bnplHandler.Routes())
		r.Get("/credit-score/{phone}", creditHandler.GetCreditScore)
		r.Mount("/borrow", borrowHandler.Routes())
		r.Get("/debts", borrowHandler.Debts)

		if a.cfg.SeedDemoData {
			r.Mount("/demo", demoHandler.Routes(ledgerHandler.Purchase))
		}
	})

	return r
}

// walletCharger debits BNPL installments from the user's first customer wallet.
type walletCharger struct {
	accounts account.Repository
	ledger   *ledger.Service
}

func (c *walletCharger) Charge(ctx context.Context, userID uuid.UUID, amount int64, planID string) error {
	contractID, err := c.customerWallet(ctx, userID)
	if err != nil {
		return err
	}
	_, err = c.ledger.DirectDebit(ctx, ledger.DirectDebitRequest{
		ContractID: contractID,
		Amount:     amount,
		Note:       "BNPL installment " + planID,
		Category:   ledger.CategoryShopping,
	})
	return err
}

func (c *walletCharger) Refund(ctx context.Context, userID uuid.UUID, amount int64, planID string) error {
	contractID, err := c.customerWallet(ctx, userID)
	if err != nil {
		return err
	}
	_, err = c.ledger.Refund(ctx, ledger.RefundRequest{
		ContractID: contractID,
		Amount:     amount,
		Note:       "BNPL installment refund " + planID,
		Category:   ledger.CategoryShopping,
	})
	return err
}

func (c *walletCharger) customerWallet(ctx context.Context, userID uuid.UUID) (string, error) {
	wallets, err := c.accounts.ListWalletsByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, w := range wallets {
		if w.Type == account.WalletTypeCustomer {
			return w.ContractID, nil
		}
	}
	return "", fmt.Errorf("%w: no customer wallet for user %s", account.ErrNotFound, userID)
}
