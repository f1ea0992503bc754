// Package domain holds the company-wide configuration row. It is the
// sole durable numbering state: counters move only at finalize time.
package domain

import (
	"errors"

	"github.com/bwmarrin/snowflake"
)

var ErrMissingCompanyInfo = errors.New("missing_company_info")

// CompanyInfo is a process-wide singleton row.
type CompanyInfo struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	LegalStatus string       `gorm:"type:text" json:"legal_status"`
	Siren       string       `gorm:"type:text" json:"siren"`
	Siret       string       `gorm:"type:text" json:"siret"`
	VAT         string       `gorm:"type:text" json:"vat"`
	Address     string       `gorm:"type:text" json:"address"`
	Mail        string       `gorm:"type:text" json:"mail"`
	PhoneNumber string       `gorm:"type:text" json:"phone_number"`

	// Monotonic numbering counters, incremented exactly once per
	// finalize inside the finalize transaction.
	InvoiceIndex   int `gorm:"not null;default:0" json:"invoice_index"`
	QuotationIndex int `gorm:"not null;default:0" json:"quotation_index"`

	InvoiceNumberingFormat   string `gorm:"type:text;not null;default:'{0}-{1}'" json:"invoice_numbering_format"`
	QuotationNumberingFormat string `gorm:"type:text;not null;default:'{0}-{1}'" json:"quotation_numbering_format"`

	InvoiceCustomFooter   string `gorm:"type:text" json:"invoice_custom_footer"`
	QuotationCustomFooter string `gorm:"type:text" json:"quotation_custom_footer"`
}

func (CompanyInfo) TableName() string { return "company_infos" }
