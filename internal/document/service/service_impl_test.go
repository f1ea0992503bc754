package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	bankingdomain "github.com/smallfirm/facture/internal/banking/domain"
	"github.com/smallfirm/facture/internal/clock"
	companydomain "github.com/smallfirm/facture/internal/company/domain"
	domain "github.com/smallfirm/facture/internal/document/domain"
	"github.com/smallfirm/facture/internal/document/repository"
	"github.com/smallfirm/facture/internal/metrics"
	"github.com/smallfirm/facture/internal/money"
	"github.com/smallfirm/facture/internal/numbering"
	"github.com/smallfirm/facture/internal/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (domain.Service, *gorm.DB) {
	return setupServiceWith(t, nil)
}

func setupServiceWith(t *testing.T, wrap func(numbering.Generators) numbering.Generators) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&companydomain.CompanyInfo{},
		&domain.Customer{},
		&domain.Attachment{},
		&domain.Invoice{},
		&domain.Quotation{},
		&domain.LineItem{},
		&bankingdomain.BankAccount{},
	))

	require.NoError(t, db.Create(&companydomain.CompanyInfo{
		ID:                       1,
		Name:                     "Jean Dupont",
		InvoiceNumberingFormat:   "{0}-{1}",
		QuotationNumberingFormat: "D{0}-{1}",
	}).Error)
	require.NoError(t, db.Create(&bankingdomain.BankAccount{
		ID:   1,
		Bank: "Qonto",
		IBAN: "FR7616798000010000012345678",
	}).Error)
	require.NoError(t, db.Create(&domain.Customer{ID: 1, Name: "ACME SAS"}).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2025, 4, 15, 10, 0, 0, 0, time.UTC))
	local := numbering.NewLocalGenerator(db, clk, pdf.DefaultStyle(), zap.NewNop())
	gens := numbering.Generators{Invoice: local, Quotation: local}
	if wrap != nil {
		gens = wrap(gens)
	}

	svc := NewService(
		repository.NewRepository(db),
		gens,
		node,
		clk,
		metrics.NewWith(prometheus.NewRegistry()),
		zap.NewNop(),
	)
	return svc, db
}

func addItem(t *testing.T, svc domain.Service, req domain.ItemRequest) *domain.LineItem {
	t.Helper()
	item, err := svc.AddItem(context.Background(), req)
	require.NoError(t, err)
	return item
}

func TestCreateInvoiceDefaults(t *testing.T) {
	svc, _ := setupService(t)

	inv, err := svc.CreateInvoice(context.Background(), domain.CreateDocumentRequest{})
	require.NoError(t, err)

	assert.Equal(t, domain.InvoiceStateDraft, inv.State)
	assert.Nil(t, inv.Number)
	assert.Equal(t, 30, inv.PaymentDelay)
	assert.True(t, money.IsZero(inv.Total))
	require.NotNil(t, inv.Customer)
	assert.Equal(t, "ACME SAS", inv.Customer.Name)
}

func TestAddItemRecomputesTotals(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	inv, err := svc.CreateInvoice(ctx, domain.CreateDocumentRequest{})
	require.NoError(t, err)

	addItem(t, svc, domain.ItemRequest{
		InvoiceID: inv.ID.String(),
		Title:     "Développement",
		Quantity:  "7",
		Unit:      domain.UnitDay,
		Price:     "500",
		VATRate:   "0.2",
	})

	inv, err = svc.GetInvoice(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.True(t, money.Equal(money.MustFromString("3500"), inv.Total))
	assert.True(t, money.Equal(money.MustFromString("700"), inv.TotalVAT))
}

func TestLockEmptyInvoiceFails(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	inv, err := svc.CreateInvoice(ctx, domain.CreateDocumentRequest{})
	require.NoError(t, err)

	_, err = svc.LockInvoice(ctx, inv.ID.String())
	require.ErrorIs(t, err, domain.ErrEmptyDocument)

	inv, err = svc.GetInvoice(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStateDraft, inv.State)
	assert.Nil(t, inv.Number)
}

func TestLockInvoiceAssignsNumberAndFreezes(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	inv, err := svc.CreateInvoice(ctx, domain.CreateDocumentRequest{})
	require.NoError(t, err)
	item := addItem(t, svc, domain.ItemRequest{
		InvoiceID: inv.ID.String(),
		Title:     "Développement",
		Quantity:  "7",
		Unit:      domain.UnitDay,
		Price:     "500",
		VATRate:   "0.2",
	})

	locked, err := svc.LockInvoice(ctx, inv.ID.String())
	require.NoError(t, err)
	require.NotNil(t, locked.Number)
	assert.Equal(t, "202504-001", *locked.Number)
	assert.Equal(t, domain.InvoiceStateLocked, locked.State)
	require.NotNil(t, locked.AttachmentID)

	att, err := svc.GetAttachment(ctx, locked.AttachmentID.String())
	require.NoError(t, err)
	assert.Equal(t, "202504-001.pdf", att.Filename)
	assert.Equal(t, "%PDF", string(att.Data[:4]))

	// Editing after lock is rejected.
	_, err = svc.UpdateItem(ctx, item.ID.String(), domain.ItemRequest{
		Title: "changed", Quantity: "1", Price: "1", VATRate: "0",
	})
	require.ErrorIs(t, err, domain.ErrNotDraft)
	_, err = svc.AddItem(ctx, domain.ItemRequest{
		InvoiceID: inv.ID.String(), Title: "extra", Quantity: "1", Price: "1", VATRate: "0",
	})
	require.ErrorIs(t, err, domain.ErrNotDraft)
	err = svc.DeleteItem(ctx, item.ID.String())
	require.ErrorIs(t, err, domain.ErrNotDraft)

	// Locking twice is rejected.
	_, err = svc.LockInvoice(ctx, inv.ID.String())
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Counter advanced exactly once.
	var info companydomain.CompanyInfo
	require.NoError(t, db.First(&info).Error)
	assert.Equal(t, 1, info.InvoiceIndex)
}

func TestLockAssignsSequentialNumbers(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	var numbers []string
	for i := 0; i < 3; i++ {
		inv, err := svc.CreateInvoice(ctx, domain.CreateDocumentRequest{})
		require.NoError(t, err)
		addItem(t, svc, domain.ItemRequest{
			InvoiceID: inv.ID.String(), Title: "Prestation", Quantity: "1", Price: "100", VATRate: "0.2",
		})
		locked, err := svc.LockInvoice(ctx, inv.ID.String())
		require.NoError(t, err)
		numbers = append(numbers, *locked.Number)
	}

	assert.Equal(t, []string{"202504-001", "202504-002", "202504-003"}, numbers)
}

func TestCancelInvoice(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	inv, err := svc.CreateInvoice(ctx, domain.CreateDocumentRequest{})
	require.NoError(t, err)

	// DRAFT cannot be canceled.
	_, err = svc.CancelInvoice(ctx, inv.ID.String())
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	addItem(t, svc, domain.ItemRequest{
		InvoiceID: inv.ID.String(), Title: "Prestation", Quantity: "1", Price: "100", VATRate: "0.2",
	})
	_, err = svc.LockInvoice(ctx, inv.ID.String())
	require.NoError(t, err)

	canceled, err := svc.CancelInvoice(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStateCanceled, canceled.State)
}

func TestQuotationLifecycle(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	q, err := svc.CreateQuotation(ctx, domain.CreateDocumentRequest{})
	require.NoError(t, err)
	assert.Equal(t, 30, q.Validity)

	// Accepting a draft is illegal.
	_, err = svc.AcceptQuotation(ctx, q.ID.String())
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	addItem(t, svc, domain.ItemRequest{
		QuotationID: q.ID.String(), Title: "Prestation", Quantity: "2", Price: "300", VATRate: "0.2",
	})

	locked, err := svc.LockQuotation(ctx, q.ID.String())
	require.NoError(t, err)
	require.NotNil(t, locked.Number)
	assert.Equal(t, "D202504-001", *locked.Number)

	accepted, err := svc.AcceptQuotation(ctx, q.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStateAccepted, accepted.State)

	// Terminal: deny after accept is illegal.
	_, err = svc.DenyQuotation(ctx, q.ID.String())
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestConvertQuotationCreatesDraftInvoice(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	q, err := svc.CreateQuotation(ctx, domain.CreateDocumentRequest{})
	require.NoError(t, err)
	addItem(t, svc, domain.ItemRequest{
		QuotationID: q.ID.String(), Title: "Prestation", Quantity: "2", Price: "300", VATRate: "0.2",
	})
	_, err = svc.LockQuotation(ctx, q.ID.String())
	require.NoError(t, err)
	_, err = svc.AcceptQuotation(ctx, q.ID.String())
	require.NoError(t, err)

	inv, err := svc.ConvertQuotation(ctx, q.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStateDraft, inv.State)
	assert.Nil(t, inv.Number)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Prestation", inv.Items[0].Title)
	assert.True(t, money.Equal(money.MustFromString("600"), inv.Total))
	assert.True(t, money.Equal(money.MustFromString("120"), inv.TotalVAT))

	// The source quotation is untouched.
	q, err = svc.GetQuotation(ctx, q.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStateAccepted, q.State)
	require.Len(t, q.Items, 1)
}

func TestCreateInvoiceCopy(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	src, err := svc.CreateInvoice(ctx, domain.CreateDocumentRequest{})
	require.NoError(t, err)
	addItem(t, svc, domain.ItemRequest{
		InvoiceID: src.ID.String(), Title: "Prestation", Quantity: "7", Price: "500", VATRate: "0.2",
	})

	dup, err := svc.CreateInvoice(ctx, domain.CreateDocumentRequest{CopyFromID: src.ID.String()})
	require.NoError(t, err)
	assert.NotEqual(t, src.ID, dup.ID)
	assert.Equal(t, domain.InvoiceStateDraft, dup.State)
	require.Len(t, dup.Items, 1)
	assert.NotEqual(t, src.ID, *dup.Items[0].InvoiceID)
	assert.True(t, money.Equal(money.MustFromString("3500"), dup.Total))
}

func TestPreviewDraftInvoice(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	inv, err := svc.CreateInvoice(ctx, domain.CreateDocumentRequest{})
	require.NoError(t, err)

	_, err = svc.PreviewInvoice(ctx, inv.ID.String())
	require.ErrorIs(t, err, domain.ErrEmptyDocument)

	addItem(t, svc, domain.ItemRequest{
		InvoiceID: inv.ID.String(), Title: "Prestation", Quantity: "1", Price: "100", VATRate: "0.2",
	})

	rendered, err := svc.PreviewInvoice(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(rendered[:4]))

	// Preview never consumes a number.
	var info companydomain.CompanyInfo
	require.NoError(t, db.First(&info).Error)
	assert.Equal(t, 0, info.InvoiceIndex)
}

func TestItemsLoadedInDisplayOrder(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	inv, err := svc.CreateInvoice(ctx, domain.CreateDocumentRequest{})
	require.NoError(t, err)
	for _, idx := range []int{2, 0, 1} {
		addItem(t, svc, domain.ItemRequest{
			InvoiceID: inv.ID.String(),
			Title:     fmt.Sprintf("P%d", idx),
			Quantity:  "1",
			Price:     "100",
			VATRate:   "0.2",
			Index:     idx,
		})
	}

	inv, err = svc.GetInvoice(ctx, inv.ID.String())
	require.NoError(t, err)
	require.Len(t, inv.Items, 3)
	for i, item := range inv.Items {
		assert.Equal(t, i, item.Index)
		assert.Equal(t, fmt.Sprintf("P%d", i), item.Title)
	}
}

// fixedDraftGenerator stands in for a backend that numbers drafts, like
// the provider one.
type fixedDraftGenerator struct {
	numbering.DocumentGenerator
	draft string
}

func (g fixedDraftGenerator) DraftNumber(ctx context.Context) (string, error) {
	return g.draft, nil
}

func TestDraftNumberShownOnlyWhileDraft(t *testing.T) {
	svc, _ := setupServiceWith(t, func(gens numbering.Generators) numbering.Generators {
		gens.Invoice = fixedDraftGenerator{DocumentGenerator: gens.Invoice, draft: "BROUILLON-1"}
		return gens
	})
	ctx := context.Background()

	inv, err := svc.CreateInvoice(ctx, domain.CreateDocumentRequest{})
	require.NoError(t, err)

	got, err := svc.GetInvoice(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "BROUILLON-1", got.DraftNumber)

	// The local quotation backend defers numbering to finalize.
	q, err := svc.CreateQuotation(ctx, domain.CreateDocumentRequest{})
	require.NoError(t, err)
	gotQ, err := svc.GetQuotation(ctx, q.ID.String())
	require.NoError(t, err)
	assert.Empty(t, gotQ.DraftNumber)

	addItem(t, svc, domain.ItemRequest{
		InvoiceID: inv.ID.String(), Title: "Prestation", Quantity: "1", Price: "100", VATRate: "0.2",
	})
	_, err = svc.LockInvoice(ctx, inv.ID.String())
	require.NoError(t, err)

	got, err = svc.GetInvoice(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Empty(t, got.DraftNumber)
	require.NotNil(t, got.Number)
}

func TestItemRequiresParent(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.AddItem(context.Background(), domain.ItemRequest{
		Title: "orphan", Quantity: "1", Price: "1", VATRate: "0",
	})
	require.ErrorIs(t, err, domain.ErrOrphanItem)
}

func TestInvalidIDIsRejected(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.GetInvoice(context.Background(), "not-a-number")
	require.ErrorIs(t, err, domain.ErrInvalidID)
}
