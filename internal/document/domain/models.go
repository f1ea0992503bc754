// Package domain contains the billing document model: invoices,
// quotations and their line items.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallfirm/facture/internal/money"
)

// InvoiceState represents invoice lifecycle states.
type InvoiceState string

const (
	InvoiceStateDraft    InvoiceState = "DRAFT"
	InvoiceStateLocked   InvoiceState = "LOCKED"
	InvoiceStateImported InvoiceState = "IMPORTED"
	InvoiceStateCanceled InvoiceState = "CANCELED"
)

// QuotationState represents quotation lifecycle states.
type QuotationState string

const (
	QuotationStateDraft    QuotationState = "DRAFT"
	QuotationStateLocked   QuotationState = "LOCKED"
	QuotationStateAccepted QuotationState = "ACCEPTED"
	QuotationStateDenied   QuotationState = "DENIED"
)

// Unit is the billing unit of a line item. Values index the French
// labels used on rendered documents.
type Unit int

const (
	UnitDay Unit = iota
	UnitHour
	UnitUnit
	UnitClick
	UnitPage
	UnitLine
	UnitWord
	UnitCharacter
)

// LineItem is a billable line owned by exactly one invoice or quotation.
type LineItem struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	InvoiceID   *snowflake.ID `gorm:"index" json:"invoice_id,omitempty"`
	QuotationID *snowflake.ID `gorm:"index" json:"quotation_id,omitempty"`
	Title       string        `gorm:"type:text;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Quantity    money.Money   `gorm:"type:numeric;not null" json:"quantity"`
	Unit        Unit          `gorm:"not null;default:0" json:"unit"`
	Price       money.Money   `gorm:"type:numeric;not null" json:"price"`
	VATRate     money.Money   `gorm:"type:numeric;not null" json:"vat_rate"`
	Index       int           `gorm:"not null" json:"index"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (LineItem) TableName() string { return "line_items" }

// Customer is the billed party printed on documents.
type Customer struct {
	ID      snowflake.ID `gorm:"primaryKey" json:"id"`
	Name    string       `gorm:"type:text;not null" json:"name"`
	Siren   string       `gorm:"type:text" json:"siren"`
	VAT     string       `gorm:"type:text" json:"vat"`
	Address string       `gorm:"type:text" json:"address"`
	Mail    string       `gorm:"type:text" json:"mail"`
}

func (Customer) TableName() string { return "customers" }

// Attachment stores rendered document bytes.
type Attachment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Filename  string       `gorm:"type:text;not null" json:"filename"`
	Data      []byte       `gorm:"not null" json:"-"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Attachment) TableName() string { return "attachments" }

// Invoice is a legally binding payment request. Total and TotalVAT are
// caches: recomputed from items on every mutation while DRAFT, frozen
// once the invoice leaves DRAFT.
type Invoice struct {
	ID     snowflake.ID `gorm:"primaryKey" json:"id"`
	Number *string      `gorm:"type:text" json:"number,omitempty"`
	// DraftNumber is the generator's placeholder while DRAFT. Never
	// persisted; filled on read.
	DraftNumber   string        `gorm:"-" json:"draft_number,omitempty"`
	State         InvoiceState  `gorm:"type:text;not null;default:'DRAFT'" json:"state"`
	Title         string        `gorm:"type:text" json:"title"`
	CustomerID    snowflake.ID  `gorm:"not null;index" json:"customer_id"`
	Customer      *Customer     `json:"customer,omitempty"`
	IssueDate     time.Time     `gorm:"not null" json:"issue_date"`
	ExecutionDate time.Time     `gorm:"not null" json:"execution_date"`
	PaymentDelay  int           `gorm:"not null;default:30" json:"payment_delay"`
	Total         money.Money   `gorm:"type:numeric;not null" json:"total"`
	TotalVAT      money.Money   `gorm:"type:numeric;not null" json:"total_vat"`
	AttachmentID  *snowflake.ID `gorm:"index" json:"attachment_id,omitempty"`
	Items         []LineItem    `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }

// Quotation is a priced offer. Same caching rules as Invoice.
type Quotation struct {
	ID           snowflake.ID   `gorm:"primaryKey" json:"id"`
	Number       *string        `gorm:"type:text" json:"number,omitempty"`
	DraftNumber  string         `gorm:"-" json:"draft_number,omitempty"`
	State        QuotationState `gorm:"type:text;not null;default:'DRAFT'" json:"state"`
	Title        string         `gorm:"type:text" json:"title"`
	CustomerID   snowflake.ID   `gorm:"not null;index" json:"customer_id"`
	Customer     *Customer      `json:"customer,omitempty"`
	IssueDate    time.Time      `gorm:"not null" json:"issue_date"`
	Validity     int            `gorm:"not null;default:30" json:"validity"`
	Total        money.Money    `gorm:"type:numeric;not null" json:"total"`
	TotalVAT     money.Money    `gorm:"type:numeric;not null" json:"total_vat"`
	AttachmentID *snowflake.ID  `gorm:"index" json:"attachment_id,omitempty"`
	Items        []LineItem     `gorm:"foreignKey:QuotationID" json:"items,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Quotation) TableName() string { return "quotations" }
