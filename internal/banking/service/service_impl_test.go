package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	domain "github.com/smallfirm/facture/internal/banking/domain"
	"github.com/smallfirm/facture/internal/banking/qonto"
	"github.com/smallfirm/facture/internal/banking/repository"
	"github.com/smallfirm/facture/internal/clock"
	documentdomain "github.com/smallfirm/facture/internal/document/domain"
	documentrepo "github.com/smallfirm/facture/internal/document/repository"
	"github.com/smallfirm/facture/internal/metrics"
	"github.com/smallfirm/facture/internal/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc  domain.Service
	db   *gorm.DB
	node *snowflake.Node
	clk  *clock.FakeClock
}

func setup(t *testing.T, providers map[string]domain.Provider) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&documentdomain.Customer{},
		&documentdomain.Attachment{},
		&documentdomain.Invoice{},
		&documentdomain.LineItem{},
		&domain.BankAccount{},
		&domain.BankTransaction{},
		&domain.Revenue{},
		&domain.Purchase{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 4, 15, 10, 0, 0, 0, time.UTC))

	svc := NewService(
		repository.NewRepository(db),
		documentrepo.NewRepository(db),
		providers,
		node,
		clk,
		metrics.NewWith(prometheus.NewRegistry()),
		zap.NewNop(),
	)
	return &fixture{svc: svc, db: db, node: node, clk: clk}
}

func (f *fixture) seedAccount(t *testing.T) {
	t.Helper()
	require.NoError(t, f.db.Create(&domain.BankAccount{
		ID:      1,
		Bank:    "Qonto",
		IBAN:    "FR7616798000010000012345678",
		APIInfo: "org:secret",
	}).Error)
}

func (f *fixture) seedTransaction(t *testing.T, amount string) snowflake.ID {
	t.Helper()
	tx := domain.BankTransaction{
		ID:            f.node.Generate(),
		BankAccountID: 1,
		Amount:        money.MustFromString(amount),
		Label:         "VIR ACME",
		SettledDate:   time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		TransactionID: fmt.Sprintf("ext-%d", f.node.Generate()),
	}
	require.NoError(t, f.db.Create(&tx).Error)
	return tx.ID
}

// seedLockedInvoice inserts an invoice whose cached totals are already
// frozen, the only state revenues may be attached to.
func (f *fixture) seedLockedInvoice(t *testing.T, total, vat string) snowflake.ID {
	t.Helper()
	require.NoError(t, f.db.Create(&documentdomain.Customer{ID: 1, Name: "ACME SAS"}).Error)
	number := "202504-001"
	inv := documentdomain.Invoice{
		ID:            f.node.Generate(),
		Number:        &number,
		State:         documentdomain.InvoiceStateLocked,
		CustomerID:    1,
		IssueDate:     time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		ExecutionDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		PaymentDelay:  30,
		Total:         money.MustFromString(total),
		TotalVAT:      money.MustFromString(vat),
	}
	require.NoError(t, f.db.Create(&inv).Error)
	return inv.ID
}

func TestSyncImportsAndDeduplicates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /transactions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "org:secret", r.Header.Get("Authorization"))
		assert.Equal(t, "FR7616798000010000012345678", r.URL.Query().Get("iban"))
		fmt.Fprint(w, `{
			"transactions": [
				{"transaction_id": "ext-1", "amount": "1200.00", "side": "credit", "label": "VIR ACME", "settled_at": "2025-04-10T00:00:00Z"},
				{"transaction_id": "ext-2", "amount": "49.90", "side": "debit", "label": "SAAS SUB", "settled_at": "2025-04-11T00:00:00Z"}
			],
			"meta": {"next_page": null}
		}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	f := setup(t, map[string]domain.Provider{
		"QONTO": qonto.NewClient(server.URL, node, zap.NewNop()),
	})
	f.seedAccount(t)
	ctx := context.Background()

	results, err := f.svc.Sync(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Imported)

	txs, err := f.svc.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	byExt := map[string]money.Money{}
	for _, tx := range txs {
		byExt[tx.TransactionID] = tx.Amount
	}
	assert.True(t, money.Equal(money.MustFromString("1200"), byExt["ext-1"]))
	assert.True(t, money.Equal(money.MustFromString("-49.90"), byExt["ext-2"]))

	accounts, err := f.svc.ListAccounts(ctx)
	require.NoError(t, err)
	require.NotNil(t, accounts[0].LastSyncDate)
	assert.True(t, accounts[0].LastSyncDate.Equal(f.clk.Now()))

	// Same payload again: nothing new.
	results, err = f.svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, results[0].Imported)
}

func TestSyncUnknownProvider(t *testing.T) {
	f := setup(t, map[string]domain.Provider{})
	f.seedAccount(t)

	_, err := f.svc.Sync(context.Background())
	require.ErrorIs(t, err, domain.ErrUnknownProvider)
}

func TestCreateRevenueEnforcesCapacity(t *testing.T) {
	f := setup(t, nil)
	f.seedAccount(t)
	ctx := context.Background()

	txID := f.seedTransaction(t, "1000")
	invoiceID := f.seedLockedInvoice(t, "1000", "200")

	rev, err := f.svc.CreateRevenue(ctx, domain.CreateRevenueRequest{
		BankTransactionID: txID.String(),
		InvoiceID:         invoiceID.String(),
		Amount:            "600",
	})
	require.NoError(t, err)
	assert.True(t, money.Equal(money.MustFromString("600"), rev.Amount))

	// 600 + 500 would exceed the 1000 credit.
	_, err = f.svc.CreateRevenue(ctx, domain.CreateRevenueRequest{
		BankTransactionID: txID.String(),
		InvoiceID:         invoiceID.String(),
		Amount:            "500",
	})
	require.ErrorIs(t, err, domain.ErrOverAssociated)

	// The remainder still fits exactly.
	_, err = f.svc.CreateRevenue(ctx, domain.CreateRevenueRequest{
		BankTransactionID: txID.String(),
		InvoiceID:         invoiceID.String(),
		Amount:            "400",
	})
	require.NoError(t, err)

	txs, err := f.svc.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].HasAssociation)
	assert.True(t, txs[0].FullyAssociated)
}

func TestCreateRevenueRejectsDebit(t *testing.T) {
	f := setup(t, nil)
	f.seedAccount(t)

	txID := f.seedTransaction(t, "-120")
	invoiceID := f.seedLockedInvoice(t, "1000", "200")

	_, err := f.svc.CreateRevenue(context.Background(), domain.CreateRevenueRequest{
		BankTransactionID: txID.String(),
		InvoiceID:         invoiceID.String(),
		Amount:            "100",
	})
	require.ErrorIs(t, err, domain.ErrNotCredit)
}

func TestCreateRevenueRejectsBadAmount(t *testing.T) {
	f := setup(t, nil)
	f.seedAccount(t)

	txID := f.seedTransaction(t, "1000")
	invoiceID := f.seedLockedInvoice(t, "1000", "200")

	for _, amount := range []string{"abc", "-5", "0"} {
		_, err := f.svc.CreateRevenue(context.Background(), domain.CreateRevenueRequest{
			BankTransactionID: txID.String(),
			InvoiceID:         invoiceID.String(),
			Amount:            amount,
		})
		require.ErrorIs(t, err, domain.ErrInvalidAmount, "amount %q", amount)
	}
}

func TestListRevenuesProratesNetAndVAT(t *testing.T) {
	f := setup(t, nil)
	f.seedAccount(t)
	ctx := context.Background()

	txID := f.seedTransaction(t, "1200")
	invoiceID := f.seedLockedInvoice(t, "1000", "200")

	// 600 paid out of 1200 gross: half the net, half the VAT.
	_, err := f.svc.CreateRevenue(ctx, domain.CreateRevenueRequest{
		BankTransactionID: txID.String(),
		InvoiceID:         invoiceID.String(),
		Amount:            "600",
	})
	require.NoError(t, err)

	views, err := f.svc.ListRevenues(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, money.Equal(money.MustFromString("500"), views[0].Net), "net %s", views[0].Net)
	assert.True(t, money.Equal(money.MustFromString("100"), views[0].VAT), "vat %s", views[0].VAT)
}

func TestCreatePurchaseEnforcesCapacity(t *testing.T) {
	f := setup(t, nil)
	f.seedAccount(t)
	ctx := context.Background()

	txID := f.seedTransaction(t, "-120")

	p, err := f.svc.CreatePurchase(ctx, domain.CreatePurchaseRequest{
		BankTransactionID: txID.String(),
		Amount:            "100",
		VAT:               "20",
	})
	require.NoError(t, err)
	assert.True(t, money.Equal(money.MustFromString("100"), p.Amount))
	assert.True(t, money.Equal(money.MustFromString("20"), p.VAT))

	// The debit is fully consumed.
	_, err = f.svc.CreatePurchase(ctx, domain.CreatePurchaseRequest{
		BankTransactionID: txID.String(),
		Amount:            "1",
		VAT:               "0",
	})
	require.ErrorIs(t, err, domain.ErrOverAssociated)

	txs, err := f.svc.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].FullyAssociated)
}

func TestCreatePurchaseRejectsCredit(t *testing.T) {
	f := setup(t, nil)
	f.seedAccount(t)

	txID := f.seedTransaction(t, "1000")

	_, err := f.svc.CreatePurchase(context.Background(), domain.CreatePurchaseRequest{
		BankTransactionID: txID.String(),
		Amount:            "100",
		VAT:               "20",
	})
	require.ErrorIs(t, err, domain.ErrNotDebit)
}
