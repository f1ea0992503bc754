package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	InvoiceByID(ctx context.Context, id snowflake.ID) (*Invoice, error)
	ListInvoices(ctx context.Context) ([]Invoice, error)
	SaveInvoice(ctx context.Context, inv *Invoice) error

	CreateQuotation(ctx context.Context, q *Quotation) error
	QuotationByID(ctx context.Context, id snowflake.ID) (*Quotation, error)
	ListQuotations(ctx context.Context) ([]Quotation, error)
	SaveQuotation(ctx context.Context, q *Quotation) error

	ItemByID(ctx context.Context, id snowflake.ID) (*LineItem, error)
	CreateItem(ctx context.Context, item *LineItem) error
	SaveItem(ctx context.Context, item *LineItem) error
	DeleteItem(ctx context.Context, id snowflake.ID) error

	FirstCustomer(ctx context.Context) (*Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	CreateCustomer(ctx context.Context, customer *Customer) error
	CreateAttachment(ctx context.Context, att *Attachment) error
	AttachmentByID(ctx context.Context, id snowflake.ID) (*Attachment, error)
}
