package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	ListAccounts(ctx context.Context) ([]BankAccount, error)
	AccountByBank(ctx context.Context, bank string) (*BankAccount, error)
	SaveAccount(ctx context.Context, account *BankAccount) error

	CreateTransactions(ctx context.Context, txs []BankTransaction) error
	TransactionExists(ctx context.Context, externalID string) (bool, error)
	TransactionByID(ctx context.Context, id snowflake.ID) (*BankTransaction, error)
	ListTransactions(ctx context.Context) ([]BankTransaction, error)

	CreateRevenue(ctx context.Context, rev *Revenue) error
	ListRevenues(ctx context.Context) ([]Revenue, error)
	RevenuesByInvoice(ctx context.Context, invoiceID snowflake.ID) ([]Revenue, error)
	CreatePurchase(ctx context.Context, p *Purchase) error
	ListPurchases(ctx context.Context) ([]Purchase, error)
}
