package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/smallfirm/facture/internal/document/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderItemsByIndex sorts a preload by display index. "index" is a
// reserved word on sqlite, so it has to go through dialect-aware
// quoting rather than a raw ORDER BY string.
func orderItemsByIndex(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderByColumn{
		Column: clause.Column{Table: "line_items", Name: "index"},
	})
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) documentdomain.Repository {
	return &repository{db: db}
}

func (r *repository) CreateInvoice(ctx context.Context, inv *documentdomain.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *repository) InvoiceByID(ctx context.Context, id snowflake.ID) (*documentdomain.Invoice, error) {
	var inv documentdomain.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByIndex).
		Preload("Customer").
		First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, documentdomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) ListInvoices(ctx context.Context) ([]documentdomain.Invoice, error) {
	var invoices []documentdomain.Invoice
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Order("execution_date DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *repository) SaveInvoice(ctx context.Context, inv *documentdomain.Invoice) error {
	return r.db.WithContext(ctx).Omit("Items", "Customer").Save(inv).Error
}

func (r *repository) CreateQuotation(ctx context.Context, q *documentdomain.Quotation) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *repository) QuotationByID(ctx context.Context, id snowflake.ID) (*documentdomain.Quotation, error) {
	var q documentdomain.Quotation
	err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByIndex).
		Preload("Customer").
		First(&q, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, documentdomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *repository) ListQuotations(ctx context.Context) ([]documentdomain.Quotation, error) {
	var quotations []documentdomain.Quotation
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Order("issue_date DESC").
		Find(&quotations).Error
	return quotations, err
}

func (r *repository) SaveQuotation(ctx context.Context, q *documentdomain.Quotation) error {
	return r.db.WithContext(ctx).Omit("Items", "Customer").Save(q).Error
}

func (r *repository) ItemByID(ctx context.Context, id snowflake.ID) (*documentdomain.LineItem, error) {
	var item documentdomain.LineItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, documentdomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) CreateItem(ctx context.Context, item *documentdomain.LineItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) SaveItem(ctx context.Context, item *documentdomain.LineItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) DeleteItem(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&documentdomain.LineItem{}, "id = ?", id).Error
}

func (r *repository) FirstCustomer(ctx context.Context) (*documentdomain.Customer, error) {
	var customer documentdomain.Customer
	err := r.db.WithContext(ctx).Order("id ASC").First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, documentdomain.ErrMissingCustomer
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) ListCustomers(ctx context.Context) ([]documentdomain.Customer, error) {
	var customers []documentdomain.Customer
	err := r.db.WithContext(ctx).Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *repository) CreateCustomer(ctx context.Context, customer *documentdomain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repository) CreateAttachment(ctx context.Context, att *documentdomain.Attachment) error {
	return r.db.WithContext(ctx).Create(att).Error
}

func (r *repository) AttachmentByID(ctx context.Context, id snowflake.ID) (*documentdomain.Attachment, error) {
	var att documentdomain.Attachment
	err := r.db.WithContext(ctx).First(&att, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, documentdomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &att, nil
}
