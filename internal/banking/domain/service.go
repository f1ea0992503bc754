package domain

import (
	"context"

	"github.com/smallfirm/facture/internal/money"
)

// Provider fetches settled transactions from a banking API. Amounts in
// the returned slice are already signed (debits negative).
type Provider interface {
	Transactions(ctx context.Context, account BankAccount) ([]BankTransaction, error)
}

// TransactionView decorates a transaction with its reconciliation
// status.
type TransactionView struct {
	BankTransaction
	HasAssociation  bool `json:"has_association"`
	FullyAssociated bool `json:"fully_associated"`
}

// RevenueView decorates a revenue with its prorated net and VAT parts.
type RevenueView struct {
	Revenue
	Net money.Money `json:"net"`
	VAT money.Money `json:"vat"`
}

// AccountSyncResult reports one account's import run.
type AccountSyncResult struct {
	Bank     string `json:"bank"`
	Imported int    `json:"imported"`
}

type Service interface {
	ListAccounts(ctx context.Context) ([]BankAccount, error)

	// Sync pulls new transactions for every configured account since its
	// last sync, deduplicating on the provider transaction id.
	Sync(ctx context.Context) ([]AccountSyncResult, error)

	ListTransactions(ctx context.Context) ([]TransactionView, error)

	CreateRevenue(ctx context.Context, req CreateRevenueRequest) (*Revenue, error)
	ListRevenues(ctx context.Context) ([]RevenueView, error)

	CreatePurchase(ctx context.Context, req CreatePurchaseRequest) (*Purchase, error)
	ListPurchases(ctx context.Context) ([]Purchase, error)
}

type CreateRevenueRequest struct {
	BankTransactionID string `json:"bank_transaction_id"`
	InvoiceID         string `json:"invoice_id"`
	Amount            string `json:"amount"`
}

type CreatePurchaseRequest struct {
	BankTransactionID string `json:"bank_transaction_id"`
	Amount            string `json:"amount"`
	VAT               string `json:"vat"`
	AttachmentID      string `json:"attachment_id,omitempty"`
}
