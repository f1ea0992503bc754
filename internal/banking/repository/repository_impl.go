package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	bankingdomain "github.com/smallfirm/facture/internal/banking/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) bankingdomain.Repository {
	return &repository{db: db}
}

func (r *repository) ListAccounts(ctx context.Context) ([]bankingdomain.BankAccount, error) {
	var accounts []bankingdomain.BankAccount
	err := r.db.WithContext(ctx).Order("id ASC").Find(&accounts).Error
	return accounts, err
}

func (r *repository) AccountByBank(ctx context.Context, bank string) (*bankingdomain.BankAccount, error) {
	var account bankingdomain.BankAccount
	err := r.db.WithContext(ctx).Where("UPPER(bank) = UPPER(?)", bank).Order("id ASC").First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, bankingdomain.ErrMissingBankAccount
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) SaveAccount(ctx context.Context, account *bankingdomain.BankAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *repository) CreateTransactions(ctx context.Context, txs []bankingdomain.BankTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&txs).Error
}

func (r *repository) TransactionExists(ctx context.Context, externalID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&bankingdomain.BankTransaction{}).
		Where("transaction_id = ?", externalID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) TransactionByID(ctx context.Context, id snowflake.ID) (*bankingdomain.BankTransaction, error) {
	var tx bankingdomain.BankTransaction
	err := r.db.WithContext(ctx).
		Preload("Revenues").
		Preload("Purchases").
		First(&tx, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, bankingdomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *repository) ListTransactions(ctx context.Context) ([]bankingdomain.BankTransaction, error) {
	var txs []bankingdomain.BankTransaction
	err := r.db.WithContext(ctx).
		Preload("Revenues").
		Preload("Purchases").
		Order("settled_date DESC").
		Find(&txs).Error
	return txs, err
}

func (r *repository) CreateRevenue(ctx context.Context, rev *bankingdomain.Revenue) error {
	return r.db.WithContext(ctx).Create(rev).Error
}

func (r *repository) ListRevenues(ctx context.Context) ([]bankingdomain.Revenue, error) {
	var revenues []bankingdomain.Revenue
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&revenues).Error
	return revenues, err
}

func (r *repository) RevenuesByInvoice(ctx context.Context, invoiceID snowflake.ID) ([]bankingdomain.Revenue, error) {
	var revenues []bankingdomain.Revenue
	err := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).Find(&revenues).Error
	return revenues, err
}

func (r *repository) CreatePurchase(ctx context.Context, p *bankingdomain.Purchase) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) ListPurchases(ctx context.Context) ([]bankingdomain.Purchase, error) {
	var purchases []bankingdomain.Purchase
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&purchases).Error
	return purchases, err
}
