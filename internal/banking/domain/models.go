// Package domain contains bank accounts, imported transactions and the
// revenue/purchase records that reconcile them against documents.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallfirm/facture/internal/money"
)

// BankAccount is a connected account at a banking provider. APIInfo is
// the opaque credential blob the provider client authenticates with.
type BankAccount struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Bank         string       `gorm:"type:text;not null" json:"bank"`
	IBAN         string       `gorm:"type:text;not null" json:"iban"`
	RIB          string       `gorm:"type:text" json:"rib"`
	BIC          string       `gorm:"type:text" json:"bic"`
	APIInfo      string       `gorm:"type:text" json:"-"`
	LastSyncDate *time.Time   `json:"last_sync_date,omitempty"`
}

func (BankAccount) TableName() string { return "bank_accounts" }

// BankTransaction is one settled movement. Amount is signed: positive
// is a credit (inbound), negative a debit (outbound). TransactionID is
// the provider's identifier and the dedup key for sync.
type BankTransaction struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	BankAccountID snowflake.ID `gorm:"not null;index" json:"bank_account_id"`
	Amount        money.Money  `gorm:"type:numeric;not null" json:"amount"`
	Label         string       `gorm:"type:text" json:"label"`
	Reference     string       `gorm:"type:text" json:"reference"`
	SettledDate   time.Time    `gorm:"not null" json:"settled_date"`
	TransactionID string       `gorm:"type:text;not null;uniqueIndex" json:"transaction_id"`
	Revenues      []Revenue    `gorm:"foreignKey:BankTransactionID" json:"revenues,omitempty"`
	Purchases     []Purchase   `gorm:"foreignKey:BankTransactionID" json:"purchases,omitempty"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (BankTransaction) TableName() string { return "bank_transactions" }

// Revenue allocates part of a credit transaction to one invoice.
// Several revenues may pay the same invoice; the sum over an invoice
// never exceeds its total incl. VAT.
type Revenue struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"id"`
	BankTransactionID snowflake.ID `gorm:"not null;index" json:"bank_transaction_id"`
	InvoiceID         snowflake.ID `gorm:"not null;index" json:"invoice_id"`
	Amount            money.Money  `gorm:"type:numeric;not null" json:"amount"`
	CreatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Revenue) TableName() string { return "revenues" }

// Purchase consumes (part of) a debit transaction, split into a net
// amount and its VAT.
type Purchase struct {
	ID                snowflake.ID  `gorm:"primaryKey" json:"id"`
	BankTransactionID snowflake.ID  `gorm:"not null;index" json:"bank_transaction_id"`
	Amount            money.Money   `gorm:"type:numeric;not null" json:"amount"`
	VAT               money.Money   `gorm:"type:numeric;not null" json:"vat"`
	AttachmentID      *snowflake.ID `gorm:"index" json:"attachment_id,omitempty"`
	CreatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Purchase) TableName() string { return "purchases" }
