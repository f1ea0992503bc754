package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	domain "github.com/smallfirm/facture/internal/banking/domain"
	"github.com/smallfirm/facture/internal/clock"
	documentdomain "github.com/smallfirm/facture/internal/document/domain"
	"github.com/smallfirm/facture/internal/metrics"
	"github.com/smallfirm/facture/internal/money"
	"go.uber.org/zap"
)

type service struct {
	repo      domain.Repository
	documents documentdomain.Repository
	providers map[string]domain.Provider
	node      *snowflake.Node
	clk       clock.Clock
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func NewService(
	repo domain.Repository,
	documents documentdomain.Repository,
	providers map[string]domain.Provider,
	node *snowflake.Node,
	clk clock.Clock,
	m *metrics.Metrics,
	log *zap.Logger,
) domain.Service {
	return &service{
		repo:      repo,
		documents: documents,
		providers: providers,
		node:      node,
		clk:       clk,
		metrics:   m,
		log:       log,
	}
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func (s *service) ListAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	return s.repo.ListAccounts(ctx)
}

// Sync walks every configured account: fetch from the provider since
// lastSyncDate, drop movements already imported, insert the rest and
// advance the watermark. Re-running sync is always safe.
func (s *service) Sync(ctx context.Context) ([]domain.AccountSyncResult, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	var results []domain.AccountSyncResult
	for _, account := range accounts {
		provider, ok := s.providers[strings.ToUpper(account.Bank)]
		if !ok {
			return nil, domain.ErrUnknownProvider
		}

		fetched, err := provider.Transactions(ctx, account)
		if err != nil {
			return nil, err
		}

		var fresh []domain.BankTransaction
		for _, tx := range fetched {
			exists, err := s.repo.TransactionExists(ctx, tx.TransactionID)
			if err != nil {
				return nil, err
			}
			if !exists {
				fresh = append(fresh, tx)
			}
		}

		if err := s.repo.CreateTransactions(ctx, fresh); err != nil {
			return nil, err
		}

		now := s.clk.Now()
		account.LastSyncDate = &now
		if err := s.repo.SaveAccount(ctx, &account); err != nil {
			return nil, err
		}

		s.metrics.BankTransactionsImported.Add(float64(len(fresh)))
		s.log.Info("bank account synced",
			zap.String("bank", account.Bank),
			zap.Int("fetched", len(fetched)),
			zap.Int("imported", len(fresh)),
		)
		results = append(results, domain.AccountSyncResult{Bank: account.Bank, Imported: len(fresh)})
	}
	return results, nil
}

func (s *service) ListTransactions(ctx context.Context) ([]domain.TransactionView, error) {
	txs, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]domain.TransactionView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, domain.TransactionView{
			BankTransaction: tx,
			HasAssociation:  domain.HasAssociation(tx),
			FullyAssociated: domain.IsFullyAssociated(tx),
		})
	}
	return views, nil
}

func (s *service) CreateRevenue(ctx context.Context, req domain.CreateRevenueRequest) (*domain.Revenue, error) {
	txID, err := parseID(req.BankTransactionID)
	if err != nil {
		return nil, err
	}
	invoiceID, err := parseID(req.InvoiceID)
	if err != nil {
		return nil, err
	}
	amount, err := money.FromString(req.Amount)
	if err != nil || !money.IsPositive(amount) {
		return nil, domain.ErrInvalidAmount
	}

	tx, err := s.repo.TransactionByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if !domain.IsCredit(*tx) {
		return nil, domain.ErrNotCredit
	}
	if money.Compare(money.Add(domain.AssociatedTotal(*tx), amount), tx.Amount) > 0 {
		return nil, domain.ErrOverAssociated
	}

	if _, err := s.documents.InvoiceByID(ctx, invoiceID); err != nil {
		return nil, err
	}

	rev := &domain.Revenue{
		ID:                s.node.Generate(),
		BankTransactionID: txID,
		InvoiceID:         invoiceID,
		Amount:            amount,
	}
	if err := s.repo.CreateRevenue(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

// ListRevenues returns revenues with their net/VAT split, prorated with
// the owning invoice's total-to-VAT ratio.
func (s *service) ListRevenues(ctx context.Context) ([]domain.RevenueView, error) {
	revenues, err := s.repo.ListRevenues(ctx)
	if err != nil {
		return nil, err
	}

	invoices := make(map[snowflake.ID]*documentdomain.Invoice)
	views := make([]domain.RevenueView, 0, len(revenues))
	for _, rev := range revenues {
		inv, ok := invoices[rev.InvoiceID]
		if !ok {
			inv, err = s.documents.InvoiceByID(ctx, rev.InvoiceID)
			if err != nil {
				return nil, err
			}
			invoices[rev.InvoiceID] = inv
		}

		net, err := domain.RevenueNet(rev.Amount, inv.Total, inv.TotalVAT)
		if err != nil {
			return nil, err
		}
		vat, err := domain.RevenueVAT(rev.Amount, inv.Total, inv.TotalVAT)
		if err != nil {
			return nil, err
		}
		views = append(views, domain.RevenueView{Revenue: rev, Net: net, VAT: vat})
	}
	return views, nil
}

func (s *service) CreatePurchase(ctx context.Context, req domain.CreatePurchaseRequest) (*domain.Purchase, error) {
	txID, err := parseID(req.BankTransactionID)
	if err != nil {
		return nil, err
	}
	amount, err := money.FromString(req.Amount)
	if err != nil || !money.IsPositive(amount) {
		return nil, domain.ErrInvalidAmount
	}
	vat, err := money.FromString(req.VAT)
	if err != nil || money.IsNegative(vat) {
		return nil, domain.ErrInvalidAmount
	}

	tx, err := s.repo.TransactionByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if !domain.IsDebit(*tx) {
		return nil, domain.ErrNotDebit
	}
	allocated := money.Add(domain.AssociatedTotal(*tx), money.Add(amount, vat))
	if money.Compare(allocated, money.Abs(tx.Amount)) > 0 {
		return nil, domain.ErrOverAssociated
	}

	p := &domain.Purchase{
		ID:                s.node.Generate(),
		BankTransactionID: txID,
		Amount:            amount,
		VAT:               vat,
	}
	if req.AttachmentID != "" {
		attID, err := parseID(req.AttachmentID)
		if err != nil {
			return nil, err
		}
		p.AttachmentID = &attID
	}
	if err := s.repo.CreatePurchase(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) ListPurchases(ctx context.Context) ([]domain.Purchase, error) {
	return s.repo.ListPurchases(ctx)
}
