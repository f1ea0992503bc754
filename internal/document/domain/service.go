package domain

import "context"

// Service drives the document lifecycle. Lock, cancel, accept and deny
// are the only ways a document changes state.
type Service interface {
	CreateInvoice(ctx context.Context, req CreateDocumentRequest) (*Invoice, error)
	GetInvoice(ctx context.Context, id string) (*Invoice, error)
	ListInvoices(ctx context.Context) ([]Invoice, error)
	LockInvoice(ctx context.Context, id string) (*Invoice, error)
	CancelInvoice(ctx context.Context, id string) (*Invoice, error)
	PreviewInvoice(ctx context.Context, id string) ([]byte, error)

	CreateQuotation(ctx context.Context, req CreateDocumentRequest) (*Quotation, error)
	GetQuotation(ctx context.Context, id string) (*Quotation, error)
	ListQuotations(ctx context.Context) ([]Quotation, error)
	LockQuotation(ctx context.Context, id string) (*Quotation, error)
	AcceptQuotation(ctx context.Context, id string) (*Quotation, error)
	DenyQuotation(ctx context.Context, id string) (*Quotation, error)
	PreviewQuotation(ctx context.Context, id string) ([]byte, error)

	// ConvertQuotation copies a quotation into a brand-new DRAFT
	// invoice. The source quotation is left untouched.
	ConvertQuotation(ctx context.Context, id string) (*Invoice, error)

	AddItem(ctx context.Context, req ItemRequest) (*LineItem, error)
	UpdateItem(ctx context.Context, id string, req ItemRequest) (*LineItem, error)
	DeleteItem(ctx context.Context, id string) error

	GetAttachment(ctx context.Context, id string) (*Attachment, error)
}

type CreateDocumentRequest struct {
	// CopyFromID duplicates an existing document of the same kind into
	// the new draft (title, customer, items).
	CopyFromID string `json:"copy_from_id,omitempty"`
}

type ItemRequest struct {
	InvoiceID   string `json:"invoice_id,omitempty"`
	QuotationID string `json:"quotation_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Unit        Unit   `json:"unit"`
	Price       string `json:"price"`
	VATRate     string `json:"vat_rate"`
	Index       int    `json:"index"`
}
