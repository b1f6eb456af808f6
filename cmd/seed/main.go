package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/invoice-service/internal/auth"
	"github.com/spec-kit/invoice-service/internal/config"
	"github.com/spec-kit/invoice-service/internal/domain"
	"github.com/spec-kit/invoice-service/internal/observability"
	"github.com/spec-kit/invoice-service/internal/persistence"
	"github.com/spec-kit/invoice-service/internal/repository"
)

var customers = []domain.Customer{
	{ID: "d6e15727-9fe1-4961-8c5b-ea44a9bd81aa", Name: "Evil Rabbit", Email: "evil@rabbit.com", ImageURL: "/customers/evil-rabbit.png"},
	{ID: "3958dc9e-712f-4377-85e9-fec4b6a6442a", Name: "Delba de Oliveira", Email: "delba@oliveira.com", ImageURL: "/customers/delba-de-oliveira.png"},
	{ID: "3958dc9e-742f-4377-85e9-fec4b6a6442a", Name: "Lee Robinson", Email: "lee@robinson.com", ImageURL: "/customers/lee-robinson.png"},
	{ID: "76d65c26-f784-44a2-ac19-586678f7c2f2", Name: "Michael Novotny", Email: "michael@novotny.com", ImageURL: "/customers/michael-novotny.png"},
	{ID: "cc27c14a-0acf-4f4a-a6c9-d45682c144b9", Name: "Amy Burns", Email: "amy@burns.com", ImageURL: "/customers/amy-burns.png"},
	{ID: "13d07535-c59e-4157-a011-f8d2ef4e0cbb", Name: "Balazs Orban", Email: "balazs@orban.com", ImageURL: "/customers/balazs-orban.png"},
}

type seedInvoice struct {
	customer int
	amount   int64
	status   domain.InvoiceStatus
	date     string
}

var invoices = []seedInvoice{
	{0, 15795, domain.InvoiceStatusPending, "2022-12-06"},
	{1, 20348, domain.InvoiceStatusPending, "2022-11-14"},
	{4, 3040, domain.InvoiceStatusPaid, "2022-10-29"},
	{3, 44800, domain.InvoiceStatusPaid, "2023-09-10"},
	{5, 34577, domain.InvoiceStatusPending, "2023-08-05"},
	{2, 54246, domain.InvoiceStatusPending, "2023-07-16"},
	{0, 666, domain.InvoiceStatusPending, "2023-06-27"},
	{3, 32545, domain.InvoiceStatusPaid, "2023-06-09"},
	{4, 1250, domain.InvoiceStatusPaid, "2023-06-17"},
	{5, 8546, domain.InvoiceStatusPaid, "2023-06-07"},
	{1, 500, domain.InvoiceStatusPaid, "2023-08-19"},
	{5, 8945, domain.InvoiceStatusPaid, "2023-06-03"},
	{2, 1000, domain.InvoiceStatusPaid, "2022-06-05"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := persistence.RunMigrations(cfg.Postgres.DSN, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := seed(ctx, cfg, pg, logger); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("seed complete")
}

func seed(ctx context.Context, cfg *config.Config, pg *persistence.Postgres, logger *zap.Logger) error {
	hash, err := auth.HashPassword(cfg.Seed.UserPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         cfg.Seed.UserName,
		Email:        cfg.Seed.UserEmail,
		PasswordHash: hash,
	}
	if err := repository.NewUserRepository(pg.Pool).Create(ctx, user); err != nil {
		return err
	}
	logger.Info("seeded user", zap.String("email", user.Email))

	customerRepo := repository.NewCustomerRepository(pg.Pool)
	for i := range customers {
		if err := customerRepo.Create(ctx, &customers[i]); err != nil {
			return err
		}
	}
	logger.Info("seeded customers", zap.Int("count", len(customers)))

	invoiceRepo := repository.NewInvoiceRepository(pg.Pool)
	existing, err := invoiceRepo.Count(ctx, "")
	if err != nil {
		return err
	}
	if existing > 0 {
		logger.Info("invoices already present; skipping", zap.Int("count", existing))
		return nil
	}
	for _, inv := range invoices {
		date, err := time.Parse(time.DateOnly, inv.date)
		if err != nil {
			return err
		}
		if err := invoiceRepo.Create(ctx, &domain.Invoice{
			ID:         uuid.NewString(),
			CustomerID: customers[inv.customer].ID,
			Amount:     inv.amount,
			Status:     inv.status,
			Date:       date,
		}); err != nil {
			return err
		}
	}
	logger.Info("seeded invoices", zap.Int("count", len(invoices)))
	return nil
}
